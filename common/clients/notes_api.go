package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/quillhq/quill/common/apierr"
	"github.com/quillhq/quill/common/logger"
	"github.com/quillhq/quill/common/models"
)

// NotesAPI is the typed client for the notes REST service. It speaks
// the cookie auth variant: tokens travel as HttpOnly cookies held by
// the underlying HTTPClient's jar, never as Authorization headers.
type NotesAPI struct {
	baseURL *url.URL
	http    *HTTPClient
	log     *logger.Logger
}

// NewNotesAPI creates a new notes API client. baseURL must end at the
// API root, e.g. http://localhost:8000/api/.
func NewNotesAPI(baseURL string, httpClient *HTTPClient, log *logger.Logger) (*NotesAPI, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	return &NotesAPI{
		baseURL: u,
		http:    httpClient,
		log:     log,
	}, nil
}

// BaseURL returns the API root, for cookie jar inspection
func (c *NotesAPI) BaseURL() *url.URL {
	return c.baseURL
}

// HTTP exposes the underlying transport, for session credential management
func (c *NotesAPI) HTTP() *HTTPClient {
	return c.http
}

// === AUTH ENDPOINTS === //

// Login obtains a session. On success the server sets the access and
// refresh cookies; the response body carries no tokens.
func (c *NotesAPI) Login(ctx context.Context, username, password string) error {
	var ack models.AuthDetail
	if err := c.do(ctx, http.MethodPost, "token/", models.Credentials{Username: username, Password: password}, &ack); err != nil {
		return err
	}
	c.log.Debug("login acknowledged", "detail", ack.Detail)
	return nil
}

// Register creates a new account
func (c *NotesAPI) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "auth/register/", models.Credentials{Username: username, Password: password}, nil)
}

// Refresh exchanges the refresh cookie for a new access cookie
func (c *NotesAPI) Refresh(ctx context.Context) error {
	var ack models.AuthDetail
	if err := c.do(ctx, http.MethodPost, "token/refresh/", nil, &ack); err != nil {
		return err
	}
	c.log.Debug("refresh acknowledged", "detail", ack.Detail)
	return nil
}

// Logout asks the server to expire the session cookies
func (c *NotesAPI) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "auth/logout/", nil, nil)
}

// === NOTES ENDPOINTS === //

// ListNotes fetches all notes owned by the session user, newest first
func (c *NotesAPI) ListNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := c.do(ctx, http.MethodGet, "notes/", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListNotesByTag fetches the notes carrying the given tag
func (c *NotesAPI) ListNotesByTag(ctx context.Context, tagID int) ([]models.Note, error) {
	var notes []models.Note
	path := "notes/?tag=" + strconv.Itoa(tagID)
	if err := c.do(ctx, http.MethodGet, path, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote creates a note and returns the server's canonical record
func (c *NotesAPI) CreateNote(ctx context.Context, req models.CreateNoteRequest) (*models.Note, error) {
	note := &models.Note{}
	if err := c.do(ctx, http.MethodPost, "notes/", req, note); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote applies a partial update. patch is a JSON merge patch
// carrying only the changed fields.
func (c *NotesAPI) UpdateNote(ctx context.Context, id int, patch json.RawMessage) (*models.Note, error) {
	note := &models.Note{}
	path := fmt.Sprintf("notes/%d/", id)
	if err := c.do(ctx, http.MethodPatch, path, patch, note); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote removes a note by id
func (c *NotesAPI) DeleteNote(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("notes/%d/", id), nil, nil)
}

// === TAGS ENDPOINTS === //

// ListTags fetches all tags owned by the session user
func (c *NotesAPI) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.do(ctx, http.MethodGet, "tags/", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a tag and returns the server's canonical record
func (c *NotesAPI) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag := &models.Tag{}
	if err := c.do(ctx, http.MethodPost, "tags/", models.CreateTagRequest{Name: name}, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes a tag by id
func (c *NotesAPI) DeleteTag(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("tags/%d/", id), nil, nil)
}

// do executes one API call: marshals in (if any), sends, classifies
// non-2xx statuses through apierr, and decodes the body into out (if
// any). This is the single suspension point of every client operation.
func (c *NotesAPI) do(ctx context.Context, method, path string, in, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	target := c.baseURL.ResolveReference(ref).String()

	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	var resp *http.Response
	if body != nil {
		resp, err = c.http.DoRequest(ctx, method, target, body)
	} else {
		resp, err = c.http.DoRequest(ctx, method, target, nil)
	}
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apierr.FromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
		}
	}

	return nil
}
