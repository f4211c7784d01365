package authz

import "context"

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context for the rest of the
// request.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context, nil when absent.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	return id
}

// ResolverFromContext builds a Resolver over the context identity. With no
// identity present every check denies.
func ResolverFromContext(ctx context.Context) Resolver {
	return NewResolver(IdentityFromContext(ctx))
}
