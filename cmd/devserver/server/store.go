package server

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store errors, mapped to HTTP statuses by the handlers
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrUnknownUser   = errors.New("unknown user")
	ErrNotFound      = errors.New("not found")
	ErrInvalidTags   = errors.New("invalid tag selection")
	ErrDuplicateTag  = errors.New("tag already exists")
)

// User is a registered account
type User struct {
	ID           int
	Username     string
	PasswordHash []byte
}

// NoteRecord is a stored note
type NoteRecord struct {
	ID        int
	Title     string
	Content   string
	CreatedAt time.Time
	Owner     int
	Tags      []int
}

// TagRecord is a stored tag
type TagRecord struct {
	ID    int
	Name  string
	Owner int
}

// Store is the in-memory backing store of the devserver. It mirrors
// the production service's ownership rules: every query is scoped to
// an owner, and cross-owner access looks like absence.
type Store struct {
	mu sync.Mutex

	users   map[string]*User
	usersID map[int]*User
	notes   map[int]*NoteRecord
	tags    map[int]*TagRecord

	nextUser int
	nextNote int
	nextTag  int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:   make(map[string]*User),
		usersID: make(map[int]*User),
		notes:   make(map[int]*NoteRecord),
		tags:    make(map[int]*TagRecord),
	}
}

// CreateUser registers an account with an already-hashed password
func (s *Store) CreateUser(username string, passwordHash []byte) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return nil, ErrUsernameTaken
	}

	s.nextUser++
	u := &User{
		ID:           s.nextUser,
		Username:     username,
		PasswordHash: passwordHash,
	}
	s.users[username] = u
	s.usersID[u.ID] = u
	return u, nil
}

// UserByName looks up an account by username
func (s *Store) UserByName(username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil, ErrUnknownUser
	}
	return u, nil
}

// UserByID looks up an account by id
func (s *Store) UserByID(id int) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.usersID[id]
	if !ok {
		return nil, ErrUnknownUser
	}
	return u, nil
}

// NotesByOwner returns the owner's notes, newest first
func (s *Store) NotesByOwner(owner int) []NoteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]NoteRecord, 0)
	for _, n := range s.notes {
		if n.Owner == owner {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// NotesByOwnerAndTag returns the owner's notes carrying the given tag,
// newest first
func (s *Store) NotesByOwnerAndTag(owner, tagID int) []NoteRecord {
	all := s.NotesByOwner(owner)
	out := make([]NoteRecord, 0)
	for _, n := range all {
		for _, id := range n.Tags {
			if id == tagID {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// CreateNote stores a note for owner after validating tag ownership
func (s *Store) CreateNote(owner int, title, content string, tagIDs []int) (*NoteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTagsLocked(owner, tagIDs); err != nil {
		return nil, err
	}

	s.nextNote++
	n := &NoteRecord{
		ID:        s.nextNote,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Owner:     owner,
		Tags:      append([]int(nil), tagIDs...),
	}
	s.notes[n.ID] = n
	return n, nil
}

// NotePatch is a partial note update; nil fields are untouched
type NotePatch struct {
	Title   *string
	Content *string
	Tags    *[]int
}

// UpdateNote applies a partial update to the owner's note
func (s *Store) UpdateNote(owner, id int, patch NotePatch) (*NoteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok || n.Owner != owner {
		return nil, ErrNotFound
	}

	if patch.Tags != nil {
		if err := s.checkTagsLocked(owner, *patch.Tags); err != nil {
			return nil, err
		}
	}

	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Tags != nil {
		n.Tags = append([]int(nil), (*patch.Tags)...)
	}

	out := *n
	return &out, nil
}

// DeleteNote removes the owner's note
func (s *Store) DeleteNote(owner, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok || n.Owner != owner {
		return ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

// TagsByOwner returns the owner's tags ordered by name
func (s *Store) TagsByOwner(owner int) []TagRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]TagRecord, 0)
	for _, t := range s.tags {
		if t.Owner == owner {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CreateTag stores a tag for owner. Names are unique per owner,
// case-insensitively.
func (s *Store) CreateTag(owner int, name string) (*TagRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tags {
		if t.Owner == owner && strings.EqualFold(t.Name, name) {
			return nil, ErrDuplicateTag
		}
	}

	s.nextTag++
	t := &TagRecord{
		ID:    s.nextTag,
		Name:  name,
		Owner: owner,
	}
	s.tags[t.ID] = t
	return t, nil
}

// DeleteTag removes the owner's tag and cascades it out of every note
// that references it
func (s *Store) DeleteTag(owner, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tags[id]
	if !ok || t.Owner != owner {
		return ErrNotFound
	}
	delete(s.tags, id)

	for _, n := range s.notes {
		if n.Owner != owner {
			continue
		}
		kept := n.Tags[:0]
		for _, tagID := range n.Tags {
			if tagID != id {
				kept = append(kept, tagID)
			}
		}
		n.Tags = kept
	}
	return nil
}

// checkTagsLocked verifies every tag id exists and belongs to owner
func (s *Store) checkTagsLocked(owner int, tagIDs []int) error {
	for _, id := range tagIDs {
		t, ok := s.tags[id]
		if !ok || t.Owner != owner {
			return ErrInvalidTags
		}
	}
	return nil
}
