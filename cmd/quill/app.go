package main

import (
	"fmt"
	"os"

	"github.com/quillhq/quill/common/clients"
	"github.com/quillhq/quill/common/config"
	"github.com/quillhq/quill/common/logger"
	"github.com/quillhq/quill/common/session"
	"github.com/quillhq/quill/common/store"
	"github.com/quillhq/quill/common/theme"
)

// app wires the client stack: transport -> API client -> session ->
// resource stores. Built once per invocation; the session cookie file
// carries credentials between invocations.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	api   *clients.NotesAPI
	sess  *session.Session
	notes *store.NotesStore
	tags  *store.TagsStore
	theme *theme.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	httpClient, err := clients.NewHTTPClient(cfg.API.Timeout, log)
	if err != nil {
		return nil, err
	}

	api, err := clients.NewNotesAPI(cfg.API.BaseURL, httpClient, log)
	if err != nil {
		return nil, err
	}

	sess := session.New(api, log, session.WithExpiredHandler(func() {
		fmt.Fprintln(os.Stderr, "Session expired. Please log in again.")
		if err := session.Forget(cfg.CookieFile()); err != nil {
			log.Warn("failed to remove session file", "error", err)
		}
	}))

	if err := sess.Restore(cfg.CookieFile()); err != nil {
		log.Warn("failed to restore session", "error", err)
	}

	return &app{
		cfg:   cfg,
		log:   log,
		api:   api,
		sess:  sess,
		notes: store.NewNotesStore(api, sess, log),
		tags:  store.NewTagsStore(api, sess, log),
		theme: theme.NewStore(cfg.ThemeFile()),
	}, nil
}

// persistSession writes the current cookies back to disk so the next
// invocation resumes the session
func (a *app) persistSession() {
	if !a.sess.Authenticated() {
		return
	}
	if err := a.sess.Save(a.cfg.CookieFile()); err != nil {
		a.log.Warn("failed to persist session", "error", err)
	}
}
