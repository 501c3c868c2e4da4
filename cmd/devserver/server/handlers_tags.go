package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// tagJSON is the wire form of a tag
type tagJSON struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ListTags returns the session user's tags ordered by name
// GET /api/tags/
func (s *Server) ListTags(c echo.Context) error {
	user := currentUser(c)

	records := s.store.TagsByOwner(user.ID)
	out := make([]tagJSON, 0, len(records))
	for _, t := range records {
		out = append(out, tagJSON{ID: t.ID, Name: t.Name})
	}
	return c.JSON(http.StatusOK, out)
}

type createTagRequest struct {
	Name string `json:"name"`
}

// CreateTag stores a new tag for the session user. Names are unique
// per owner, case-insensitively.
// POST /api/tags/
func (s *Server) CreateTag(c echo.Context) error {
	user := currentUser(c)

	var req createTagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, detail("malformed request body"))
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, detail("name is required"))
	}
	if len(name) > 30 {
		return c.JSON(http.StatusBadRequest, detail("name is too long"))
	}

	tag, err := s.store.CreateTag(user.ID, name)
	if err != nil {
		return c.JSON(http.StatusBadRequest, detail(err.Error()))
	}

	return c.JSON(http.StatusCreated, tagJSON{ID: tag.ID, Name: tag.Name})
}

// DeleteTag removes the session user's tag and detaches it from their
// notes
// DELETE /api/tags/:id/
func (s *Server) DeleteTag(c echo.Context) error {
	user := currentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, detail("Not found"))
	}

	if err := s.store.DeleteTag(user.ID, id); err != nil {
		return c.JSON(http.StatusNotFound, detail("Not found"))
	}
	return c.NoContent(http.StatusNoContent)
}
