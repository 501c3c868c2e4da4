package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/quillhq/quill/common/logger"
)

// HTTPClient wraps http.Client with a cookie jar and request tagging.
// The jar is the credential store of the cookie auth variant: the
// server sets HttpOnly token cookies on login and the jar replays them
// on every subsequent request.
type HTTPClient struct {
	client *http.Client
	log    *logger.Logger
}

// NewHTTPClient creates a new HTTP client wrapper with a fresh jar
func NewHTTPClient(timeout time.Duration, log *logger.Logger) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		log: log,
	}, nil
}

// DoRequest creates and executes an HTTP request. Every request gets a
// fresh X-Request-ID so client and server logs can be correlated.
func (c *HTTPClient) DoRequest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("api request", "method", method, "url", url, "request_id", requestID)

	return c.client.Do(req)
}

// Cookies returns the cookies the jar would send to u
func (c *HTTPClient) Cookies(u *url.URL) []*http.Cookie {
	return c.client.Jar.Cookies(u)
}

// SetCookies seeds the jar with cookies for u, used when restoring a
// persisted session
func (c *HTTPClient) SetCookies(u *url.URL, cookies []*http.Cookie) {
	c.client.Jar.SetCookies(u, cookies)
}

// ResetJar discards every stored cookie. Logout must leave no residual
// credential even when the server is unreachable.
func (c *HTTPClient) ResetJar() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to reset cookie jar: %w", err)
	}
	c.client.Jar = jar
	return nil
}
