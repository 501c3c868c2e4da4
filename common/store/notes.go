// Package store holds the resource managers: each one owns the
// in-memory cache of one server-side collection plus its CRUD
// operations. Caches are confirmation-indexed: local state changes
// only after the server confirms, and the server response is the
// source of truth for canonical fields.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/quillhq/quill/common/apierr"
	"github.com/quillhq/quill/common/clients"
	"github.com/quillhq/quill/common/logger"
	"github.com/quillhq/quill/common/models"
	"github.com/quillhq/quill/common/session"
)

// Inline messages surfaced by the notes store
const (
	MsgLoadNotesFailed  = "Failed to load notes"
	MsgCreateNoteFailed = "Failed to create note"
	MsgEditNoteFailed   = "Failed to edit note"
	MsgDeleteNoteFailed = "Failed to delete note"
	MsgInvalidTags      = "Invalid tag selection"
)

// ErrEmptyTitle rejects note creation before any network round trip
var ErrEmptyTitle = errors.New("note title must not be empty")

// ErrUnknownNote is returned when a mutation targets an id that is not
// in the local cache
var ErrUnknownNote = errors.New("note not in local cache")

// NoteEdit is a partial update: nil fields are left untouched
type NoteEdit struct {
	Title   *string
	Content *string
	Tags    *[]int
}

// NotesStore owns the user's notes collection
type NotesStore struct {
	mu      sync.RWMutex
	api     *clients.NotesAPI
	session *session.Session
	log     *logger.Logger

	notes  []models.Note
	status Status
	errMsg string
}

// NewNotesStore creates a notes store. The collection is Idle until
// the first Load.
func NewNotesStore(api *clients.NotesAPI, sess *session.Session, log *logger.Logger) *NotesStore {
	return &NotesStore{
		api:     api,
		session: sess,
		log:     log,
		status:  StatusIdle,
	}
}

// Load fetches all notes owned by the session user. On failure the
// prior snapshot stays visible.
func (s *NotesStore) Load(ctx context.Context) error {
	s.transition(StatusLoading)
	s.ensureFresh(ctx)

	notes, err := s.api.ListNotes(ctx)
	if err != nil {
		return s.fail(err, "", MsgLoadNotesFailed)
	}

	s.mu.Lock()
	s.notes = notes
	s.status = StatusReady
	s.errMsg = ""
	s.mu.Unlock()

	s.log.Debug("notes loaded", "count", len(notes))
	return nil
}

// LoadByTag fetches only the notes carrying the given tag. The result
// replaces the local list, same as Load.
func (s *NotesStore) LoadByTag(ctx context.Context, tagID int) error {
	s.transition(StatusLoading)
	s.ensureFresh(ctx)

	notes, err := s.api.ListNotesByTag(ctx, tagID)
	if err != nil {
		return s.fail(err, "", MsgLoadNotesFailed)
	}

	s.mu.Lock()
	s.notes = notes
	s.status = StatusReady
	s.errMsg = ""
	s.mu.Unlock()

	s.log.Debug("notes loaded", "tag", tagID, "count", len(notes))
	return nil
}

// Create posts a new note and prepends the server's canonical record
// to the local list, newest first.
func (s *NotesStore) Create(ctx context.Context, title, content string, tagIDs []int) (*models.Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}

	s.transition(StatusMutating)
	s.ensureFresh(ctx)

	note, err := s.api.CreateNote(ctx, models.CreateNoteRequest{
		Title:   title,
		Content: content,
		Tags:    tagIDs,
	})
	if err != nil {
		return nil, s.fail(err, MsgInvalidTags, MsgCreateNoteFailed)
	}

	s.mu.Lock()
	s.notes = append([]models.Note{*note}, s.notes...)
	s.status = StatusReady
	s.errMsg = ""
	s.mu.Unlock()

	s.log.Info("note created", "id", note.ID)
	return note, nil
}

// Update applies a partial edit to the note with the given id. Only
// the changed fields go over the wire, as a JSON merge patch diffed
// against the cached record. The updated note keeps its list position.
func (s *NotesStore) Update(ctx context.Context, id int, edit NoteEdit) (*models.Note, error) {
	s.mu.RLock()
	cached, ok := s.find(id)
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("update note %d: %w", id, ErrUnknownNote)
	}

	patch, err := mergePatch(cached, edit)
	if err != nil {
		return nil, fmt.Errorf("update note %d: %w", id, err)
	}

	s.transition(StatusMutating)
	s.ensureFresh(ctx)

	updated, err := s.api.UpdateNote(ctx, id, patch)
	if err != nil {
		return nil, s.fail(err, MsgInvalidTags, MsgEditNoteFailed)
	}

	s.mu.Lock()
	// Replace by id, never by index: the list may have been reloaded
	// while the request was in flight
	for i := range s.notes {
		if s.notes[i].ID == updated.ID {
			s.notes[i] = *updated
			break
		}
	}
	s.status = StatusReady
	s.errMsg = ""
	s.mu.Unlock()

	s.log.Info("note updated", "id", updated.ID)
	return updated, nil
}

// Remove deletes a note server-side, then drops it from the local
// list. No optimistic pre-removal.
func (s *NotesStore) Remove(ctx context.Context, id int) error {
	s.transition(StatusMutating)
	s.ensureFresh(ctx)

	if err := s.api.DeleteNote(ctx, id); err != nil {
		return s.fail(err, "", MsgDeleteNoteFailed)
	}

	s.mu.Lock()
	kept := s.notes[:0]
	for _, n := range s.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.notes = kept
	s.status = StatusReady
	s.errMsg = ""
	s.mu.Unlock()

	s.log.Info("note deleted", "id", id)
	return nil
}

// Notes returns a snapshot of the current list
func (s *NotesStore) Notes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Status returns the collection status
func (s *NotesStore) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// ErrorMessage returns the current inline error message, empty when
// the last operation succeeded
func (s *NotesStore) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *NotesStore) find(id int) (models.Note, bool) {
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return models.Note{}, false
}

func (s *NotesStore) transition(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// ensureFresh refreshes the access token best-effort. A failure here
// is not fatal: the operation itself will surface the real error.
func (s *NotesStore) ensureFresh(ctx context.Context) {
	if err := s.session.EnsureFresh(ctx); err != nil {
		s.log.Debug("token refresh failed", "error", err)
	}
}

// fail maps an operation error onto the store per the shared taxonomy:
// auth failures terminate the session and never surface inline,
// validation failures surface validationMsg, everything else surfaces
// genericMsg. The cached snapshot is never touched.
func (s *NotesStore) fail(err error, validationMsg, genericMsg string) error {
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

	s.log.Warn("notes operation failed", "error", err, "message", msg)
	return err
}

// mergePatch builds the partial PATCH body: the merge diff between the
// cached note and the edited copy, so unchanged fields stay off the
// wire.
func mergePatch(cached models.Note, edit NoteEdit) (json.RawMessage, error) {
	edited := cached
	if edit.Title != nil {
		edited.Title = *edit.Title
	}
	if edit.Content != nil {
		edited.Content = *edit.Content
	}
	if edit.Tags != nil {
		edited.Tags = *edit.Tags
	}

	before, err := json.Marshal(cached)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cached note: %w", err)
	}
	after, err := json.Marshal(edited)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edited note: %w", err)
	}

	patch, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		return nil, fmt.Errorf("failed to build merge patch: %w", err)
	}
	return patch, nil
}
