package models

// Note is a single note as served by the notes API.
// Maps to: GET/POST /api/notes/ payloads
type Note struct {
	// Server-assigned identifier, immutable
	ID int `json:"id"`

	// Short title, never empty on the wire
	Title string `json:"title"`

	// Free-form body, may be empty
	Content string `json:"content"`

	// Server-assigned creation timestamp, ISO-8601
	CreatedAt string `json:"created_at"`

	// Owning user id (server-assigned)
	Owner int `json:"owner"`

	// Owner display name, for rendering only
	OwnerUsername string `json:"owner_username"`

	// IDs of tags attached to this note, unordered
	Tags []int `json:"tags"`
}

// CreateNoteRequest is the body for POST /api/notes/
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    []int  `json:"tags,omitempty"`
}

// ResolveTags maps a note's tag ids onto the given tag set.
// Ids with no matching tag are skipped: a tag deleted on the server may
// still be referenced by a cached note until the next reload, and that
// must never break rendering.
func ResolveTags(note Note, tags []Tag) []Tag {
	byID := make(map[int]Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	resolved := make([]Tag, 0, len(note.Tags))
	for _, id := range note.Tags {
		if t, ok := byID[id]; ok {
			resolved = append(resolved, t)
		}
	}
	return resolved
}
