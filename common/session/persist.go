package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// persistedCookie is the on-disk form of a session cookie
type persistedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// Save writes the current session cookies to path so a later process
// can resume the session. The file is created user-readable only.
func (s *Session) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cookies := s.api.HTTP().Cookies(s.api.BaseURL())
	persisted := make([]persistedCookie, 0, len(cookies))
	for _, c := range cookies {
		persisted = append(persisted, persistedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Expires: c.Expires,
		})
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session cookies: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Restore seeds the cookie jar from a file written by Save. A missing
// file means no prior session and is not an error.
func (s *Session) Restore(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var persisted []persistedCookie
	if err := json.Unmarshal(data, &persisted); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(persisted))
	for _, p := range persisted {
		cookies = append(cookies, &http.Cookie{
			Name:    p.Name,
			Value:   p.Value,
			Expires: p.Expires,
			Path:    "/",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.api.HTTP().SetCookies(s.api.BaseURL(), cookies)
	return nil
}

// Forget removes the persisted session file, if any
func Forget(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
