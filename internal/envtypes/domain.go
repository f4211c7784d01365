package envtypes

import "time"

// EnvironmentType discriminates environments and scopes permission grants.
// Its code is embedded verbatim inside permission codes, which is why it may
// never contain the code separator.
type EnvironmentType struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Label     string    `json:"label"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
