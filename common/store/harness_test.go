package store_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/cmd/devserver/server"
	"github.com/quillhq/quill/common/clients"
	"github.com/quillhq/quill/common/logger"
	"github.com/quillhq/quill/common/session"
	"github.com/quillhq/quill/common/store"
)

// harness runs the full client stack against an in-process devserver
type harness struct {
	ts       *httptest.Server
	api      *clients.NotesAPI
	sess     *session.Session
	notes    *store.NotesStore
	tags     *store.TagsStore
	requests atomic.Int64
	expired  atomic.Int64
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{}

	srv := server.New("test-secret", logger.Discard())
	inner := srv.Handler()
	h.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.requests.Add(1)
		inner.ServeHTTP(w, r)
	}))
	t.Cleanup(h.ts.Close)

	httpClient, err := clients.NewHTTPClient(5*time.Second, logger.Discard())
	require.NoError(t, err)

	h.api, err = clients.NewNotesAPI(h.ts.URL+"/api/", httpClient, logger.Discard())
	require.NoError(t, err)

	h.sess = session.New(h.api, logger.Discard(), session.WithExpiredHandler(func() {
		h.expired.Add(1)
	}))
	h.notes = store.NewNotesStore(h.api, h.sess, logger.Discard())
	h.tags = store.NewTagsStore(h.api, h.sess, logger.Discard())

	return h
}

// login registers (ignoring "already taken") and logs in
func (h *harness) login(t *testing.T, username, password string) {
	t.Helper()

	ctx := context.Background()
	_ = h.sess.Register(ctx, username, password)
	require.NoError(t, h.sess.Login(ctx, username, password))
}

// secondClient builds an independent client stack against the same
// server, simulating another process or tab
func (h *harness) secondClient(t *testing.T) *harness {
	t.Helper()

	other := &harness{ts: h.ts}

	httpClient, err := clients.NewHTTPClient(5*time.Second, logger.Discard())
	require.NoError(t, err)

	other.api, err = clients.NewNotesAPI(h.ts.URL+"/api/", httpClient, logger.Discard())
	require.NoError(t, err)

	other.sess = session.New(other.api, logger.Discard(), session.WithExpiredHandler(func() {
		other.expired.Add(1)
	}))
	other.notes = store.NewNotesStore(other.api, other.sess, logger.Discard())
	other.tags = store.NewTagsStore(other.api, other.sess, logger.Discard())

	return other
}
