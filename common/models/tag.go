package models

// Tag is a per-user label attachable to notes.
// Names are unique per owner, case-insensitively.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreateTagRequest is the body for POST /api/tags/
type CreateTagRequest struct {
	Name string `json:"name"`
}
