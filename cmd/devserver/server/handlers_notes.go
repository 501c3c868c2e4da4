package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// noteJSON is the wire form of a note
type noteJSON struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	CreatedAt     string `json:"created_at"`
	Owner         int    `json:"owner"`
	OwnerUsername string `json:"owner_username"`
	Tags          []int  `json:"tags"`
}

func (s *Server) noteToJSON(n NoteRecord) noteJSON {
	username := ""
	if u, err := s.store.UserByID(n.Owner); err == nil {
		username = u.Username
	}

	tags := n.Tags
	if tags == nil {
		tags = []int{}
	}

	return noteJSON{
		ID:            n.ID,
		Title:         n.Title,
		Content:       n.Content,
		CreatedAt:     n.CreatedAt.Format(time.RFC3339),
		Owner:         n.Owner,
		OwnerUsername: username,
		Tags:          tags,
	}
}

// ListNotes returns the session user's notes, newest first
// GET /api/notes/
func (s *Server) ListNotes(c echo.Context) error {
	user := currentUser(c)

	var records []NoteRecord
	if tagParam := c.QueryParam("tag"); tagParam != "" {
		tagID, err := strconv.Atoi(tagParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, detail("invalid tag filter"))
		}
		records = s.store.NotesByOwnerAndTag(user.ID, tagID)
	} else {
		records = s.store.NotesByOwner(user.ID)
	}

	out := make([]noteJSON, 0, len(records))
	for _, n := range records {
		out = append(out, s.noteToJSON(n))
	}
	return c.JSON(http.StatusOK, out)
}

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    []int  `json:"tags"`
}

// CreateNote stores a new note for the session user
// POST /api/notes/
func (s *Server) CreateNote(c echo.Context) error {
	user := currentUser(c)

	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, detail("malformed request body"))
	}

	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, detail("title is required"))
	}

	note, err := s.store.CreateNote(user.ID, req.Title, req.Content, req.Tags)
	if err != nil {
		return c.JSON(http.StatusBadRequest, detail(err.Error()))
	}

	return c.JSON(http.StatusCreated, s.noteToJSON(*note))
}

type patchNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Tags    *[]int  `json:"tags"`
}

// UpdateNote applies a partial update to the session user's note
// PATCH /api/notes/:id/
func (s *Server) UpdateNote(c echo.Context) error {
	user := currentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, detail("Not found"))
	}

	var req patchNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, detail("malformed request body"))
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return c.JSON(http.StatusBadRequest, detail("title must not be blank"))
	}

	note, err := s.store.UpdateNote(user.ID, id, NotePatch{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.JSON(http.StatusNotFound, detail("Not found"))
		default:
			return c.JSON(http.StatusBadRequest, detail(err.Error()))
		}
	}

	return c.JSON(http.StatusOK, s.noteToJSON(*note))
}

// DeleteNote removes the session user's note
// DELETE /api/notes/:id/
func (s *Server) DeleteNote(c echo.Context) error {
	user := currentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, detail("Not found"))
	}

	if err := s.store.DeleteNote(user.ID, id); err != nil {
		return c.JSON(http.StatusNotFound, detail("Not found"))
	}
	return c.NoContent(http.StatusNoContent)
}
