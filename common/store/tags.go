package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/quillhq/quill/common/apierr"
	"github.com/quillhq/quill/common/clients"
	"github.com/quillhq/quill/common/logger"
	"github.com/quillhq/quill/common/models"
	"github.com/quillhq/quill/common/session"
)

// Inline messages surfaced by the tags store
const (
	MsgLoadTagsFailed  = "Failed to load tags"
	MsgCreateTagFailed = "Failed to create tag"
	MsgDeleteTagFailed = "Failed to delete tag"
	MsgTagExists       = "Tag already exists"
)

// ErrEmptyTagName rejects blank tag names before any network round trip
var ErrEmptyTagName = errors.New("tag name must not be empty")

// ErrDuplicateTag is the local pre-check hit: the name collides
// case-insensitively with a cached tag
var ErrDuplicateTag = errors.New("tag already exists")

// TagsStore owns the user's tags collection. It mirrors NotesStore at
// smaller scope.
type TagsStore struct {
	mu      sync.RWMutex
	api     *clients.NotesAPI
	session *session.Session
	log     *logger.Logger

	tags   []models.Tag
	status Status
	errMsg string
}

// NewTagsStore creates a tags store
func NewTagsStore(api *clients.NotesAPI, sess *session.Session, log *logger.Logger) *TagsStore {
	return &TagsStore{
		api:     api,
		session: sess,
		log:     log,
		status:  StatusIdle,
	}
}

// Load fetches all tags owned by the session user
func (s *TagsStore) Load(ctx context.Context) error {
	s.transition(StatusLoading)
	s.ensureFresh(ctx)

	tags, err := s.api.ListTags(ctx)
	if err != nil {
		return s.fail(err, "", MsgLoadTagsFailed)
	}

	s.mu.Lock()
	s.tags = tags
	s.status = StatusReady
	s.errMsg = ""
	s.mu.Unlock()

	s.log.Debug("tags loaded", "count", len(tags))
	return nil
}

// Create posts a new tag and appends the server's canonical record.
// Blank names and names colliding case-insensitively with a cached tag
// are rejected locally, without a network call; the server remains
// authoritative and a 400 from a race surfaces identically.
func (s *TagsStore) Create(ctx context.Context, name string) (*models.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyTagName
	}

	if s.hasName(trimmed) {
		s.setError(MsgTagExists)
		return nil, ErrDuplicateTag
	}

	s.transition(StatusMutating)
	s.ensureFresh(ctx)

	tag, err := s.api.CreateTag(ctx, trimmed)
	if err != nil {
		return nil, s.fail(err, MsgTagExists, MsgCreateTagFailed)
	}

	s.mu.Lock()
	s.tags = append(s.tags, *tag)
	s.status = StatusReady
	s.errMsg = ""
	s.mu.Unlock()

	s.log.Info("tag created", "id", tag.ID, "name", tag.Name)
	return tag, nil
}

// Delete removes a tag server-side, then from the local list. Notes
// referencing the tag are not rewritten here; the next notes reload
// reflects the server's cascade.
func (s *TagsStore) Delete(ctx context.Context, id int) error {
	s.transition(StatusMutating)
	s.ensureFresh(ctx)

	if err := s.api.DeleteTag(ctx, id); err != nil {
		return s.fail(err, "", MsgDeleteTagFailed)
	}

	s.mu.Lock()
	kept := s.tags[:0]
	for _, t := range s.tags {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tags = kept
	s.status = StatusReady
	s.errMsg = ""
	s.mu.Unlock()

	s.log.Info("tag deleted", "id", id)
	return nil
}

// Tags returns a snapshot of the current list
func (s *TagsStore) Tags() []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// Status returns the collection status
func (s *TagsStore) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// ErrorMessage returns the current inline error message
func (s *TagsStore) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// hasName reports whether a cached tag matches name case-insensitively
func (s *TagsStore) hasName(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tags {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

func (s *TagsStore) transition(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func (s *TagsStore) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *TagsStore) ensureFresh(ctx context.Context) {
	if err := s.session.EnsureFresh(ctx); err != nil {
		s.log.Debug("token refresh failed", "error", err)
	}
}

// fail applies the same error mapping as the notes store
func (s *TagsStore) fail(err error, validationMsg, genericMsg string) error {
	if s.session.HandleFailure(err) {
		s.transition(StatusReady)
		return err
	}

	msg := genericMsg
	if validationMsg != "" && apierr.IsValidation(err) {
		msg = validationMsg
	}

	s.mu.Lock()
	s.status = StatusFailed
	s.errMsg = msg
	s.mu.Unlock()

	s.log.Warn("tags operation failed", "error", err, "message", msg)
	return err
}
