package menus

import "time"

// Menu is a navigation entry the frontend renders. Permissions may point at a
// menu to scope a grant to one screen.
type Menu struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Path      string    `json:"path,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Children  []Menu    `json:"children,omitempty"`
}
