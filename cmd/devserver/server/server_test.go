package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/common/logger"
)

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func authCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	return (&http.Response{Header: rec.Header()}).Cookies()
}

func TestServer_RegisterLoginFlow(t *testing.T) {
	srv := New("secret", logger.Discard())
	h := srv.Handler()

	creds := map[string]string{"username": "alice", "password": "hunter2"}

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register/", creds, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate registration is a 400
	rec = doJSON(t, h, http.MethodPost, "/api/auth/register/", creds, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/token/", creds, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := authCookies(rec)
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
		assert.True(t, c.HttpOnly, "token cookies are HttpOnly")
	}
	assert.ElementsMatch(t, []string{"access_token", "refresh_token"}, names)

	// The cookies authenticate protected routes
	rec = doJSON(t, h, http.MethodGet, "/api/notes/", nil, cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_LoginBadPassword(t *testing.T) {
	srv := New("secret", logger.Discard())
	h := srv.Handler()

	doJSON(t, h, http.MethodPost, "/api/auth/register/", map[string]string{"username": "alice", "password": "hunter2"}, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/token/", map[string]string{"username": "alice", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, authCookies(rec))
}

func TestServer_ProtectedRoutesRejectMissingAndForgedTokens(t *testing.T) {
	srv := New("secret", logger.Discard())
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/notes/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged := &http.Cookie{Name: "access_token", Value: "not-a-token"}
	rec = doJSON(t, h, http.MethodGet, "/api/notes/", nil, []*http.Cookie{forged})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A token signed with another secret is rejected too
	other := New("other-secret", logger.Discard())
	user, err := other.store.CreateUser("eve", []byte("x"))
	require.NoError(t, err)
	token, err := other.mintToken(user.ID, user.Username, "access", time.Hour)
	require.NoError(t, err)

	rec = doJSON(t, h, http.MethodGet, "/api/notes/", nil, []*http.Cookie{{Name: "access_token", Value: token}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RefreshTokenCannotActAsAccessToken(t *testing.T) {
	srv := New("secret", logger.Discard())
	h := srv.Handler()

	doJSON(t, h, http.MethodPost, "/api/auth/register/", map[string]string{"username": "alice", "password": "pw"}, nil)
	rec := doJSON(t, h, http.MethodPost, "/api/token/", map[string]string{"username": "alice", "password": "pw"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var refresh *http.Cookie
	for _, c := range authCookies(rec) {
		if c.Name == "refresh_token" {
			refresh = c
		}
	}
	require.NotNil(t, refresh)

	smuggled := &http.Cookie{Name: "access_token", Value: refresh.Value}
	rec = doJSON(t, h, http.MethodGet, "/api/notes/", nil, []*http.Cookie{smuggled})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RefreshIssuesNewAccessCookie(t *testing.T) {
	srv := New("secret", logger.Discard())
	h := srv.Handler()

	doJSON(t, h, http.MethodPost, "/api/auth/register/", map[string]string{"username": "alice", "password": "pw"}, nil)
	rec := doJSON(t, h, http.MethodPost, "/api/token/", map[string]string{"username": "alice", "password": "pw"}, nil)
	cookies := authCookies(rec)

	rec = doJSON(t, h, http.MethodPost, "/api/token/refresh/", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	fresh := authCookies(rec)
	require.Len(t, fresh, 1)
	assert.Equal(t, "access_token", fresh[0].Name)
	assert.NotEmpty(t, fresh[0].Value)
}

func TestServer_RefreshWithoutCookie(t *testing.T) {
	srv := New("secret", logger.Discard())

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/token/refresh/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No refresh token", body["detail"])
}

func TestServer_LogoutExpiresCookies(t *testing.T) {
	srv := New("secret", logger.Discard())

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/auth/logout/", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, c := range authCookies(rec) {
		assert.Negative(t, c.MaxAge, "cookie %s must expire", c.Name)
	}
}

func TestServer_CreateNoteValidation(t *testing.T) {
	srv := New("secret", logger.Discard())
	h := srv.Handler()

	doJSON(t, h, http.MethodPost, "/api/auth/register/", map[string]string{"username": "alice", "password": "pw"}, nil)
	rec := doJSON(t, h, http.MethodPost, "/api/token/", map[string]string{"username": "alice", "password": "pw"}, nil)
	cookies := authCookies(rec)

	rec = doJSON(t, h, http.MethodPost, "/api/notes/", map[string]any{"title": "  "}, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/notes/", map[string]any{"title": "ok", "tags": []int{99}}, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/notes/", map[string]any{"title": "ok", "content": "body"}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)

	var note map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &note))
	assert.Equal(t, "alice", note["owner_username"])
	assert.NotEmpty(t, note["created_at"])
	assert.Equal(t, []any{}, note["tags"])
}
