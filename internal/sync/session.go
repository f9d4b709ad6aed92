// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/buckeye17/sleepwithdash/internal/config"
	"github.com/buckeye17/sleepwithdash/internal/logging"
	"github.com/buckeye17/sleepwithdash/internal/models"
)

// sessionIDPattern finds the session token embedded in the sleep page.
var sessionIDPattern = regexp.MustCompile(`\$ses_id:(\d+)`)

// maxLoginPage bounds how much of the referer page is scanned.
const maxLoginPage = 4 << 20

// Session is an authenticated handle for data requests: the headers to send
// and the session token passed as the "_" query parameter.
type Session struct {
	Headers    http.Header
	Token      string
	AcquiredAt time.Time
}

// SessionAcquirer obtains a Session. How it does so is opaque to callers.
type SessionAcquirer interface {
	Acquire(ctx context.Context) (*Session, error)
}

// NewSessionAcquirer returns the acquirer selected by cfg.LoginMode. start is
// the first date of the sync range; the sleep page for it is the referer of
// every data request.
func NewSessionAcquirer(cfg *config.ProviderConfig, start models.Date) (SessionAcquirer, error) {
	switch cfg.LoginMode {
	case "static":
		return NewStaticSessionAcquirer(cfg, start), nil
	case "form", "":
		return NewFormLoginAcquirer(cfg, start), nil
	default:
		return nil, fmt.Errorf("unknown login mode %q", cfg.LoginMode)
	}
}

func refererFor(cfg *config.ProviderConfig, start models.Date) string {
	return cfg.RefererBase + start.String()
}

// sessionHeaders are the browser headers carried into every data request.
func sessionHeaders(cookie, referer, userAgent string) http.Header {
	h := make(http.Header)
	h.Set("Cookie", cookie)
	h.Set("Referer", referer)
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Accept-Language", "en-US")
	h.Set("Upgrade-Insecure-Requests", "1")
	if userAgent != "" {
		h.Set("User-Agent", userAgent)
	}
	return h
}

// StaticSessionAcquirer returns a session copied from a logged-in browser.
type StaticSessionAcquirer struct {
	cookie    string
	token     string
	referer   string
	userAgent string
}

// NewStaticSessionAcquirer creates an acquirer from the configured cookie and
// session id.
func NewStaticSessionAcquirer(cfg *config.ProviderConfig, start models.Date) *StaticSessionAcquirer {
	return &StaticSessionAcquirer{
		cookie:    cfg.Cookie,
		token:     cfg.SessionID,
		referer:   refererFor(cfg, start),
		userAgent: cfg.UserAgent,
	}
}

// Acquire implements SessionAcquirer.
func (a *StaticSessionAcquirer) Acquire(_ context.Context) (*Session, error) {
	if a.cookie == "" || a.token == "" {
		return nil, fmt.Errorf("%w: static login mode needs both cookie and session id", ErrAuthFailed)
	}
	return &Session{
		Headers:    sessionHeaders(a.cookie, a.referer, a.userAgent),
		Token:      a.token,
		AcquiredAt: time.Now(),
	}, nil
}

// FormLoginAcquirer signs in with credentials, then loads the sleep page to
// pick up the session cookies and token.
type FormLoginAcquirer struct {
	signinURL string
	dataURL   string
	referer   string
	username  string
	password  string
	userAgent string
	timeout   time.Duration
}

// NewFormLoginAcquirer creates a credential-based acquirer.
func NewFormLoginAcquirer(cfg *config.ProviderConfig, start models.Date) *FormLoginAcquirer {
	return &FormLoginAcquirer{
		signinURL: cfg.SigninURL,
		dataURL:   cfg.DataURL,
		referer:   refererFor(cfg, start),
		username:  cfg.Username,
		password:  cfg.Password,
		userAgent: cfg.UserAgent,
		timeout:   cfg.LoginTimeout,
	}
}

// Acquire implements SessionAcquirer. The whole exchange is bounded by the
// configured login timeout.
func (a *FormLoginAcquirer) Acquire(ctx context.Context) (*Session, error) {
	if a.username == "" || a.password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrAuthFailed)
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	client := &http.Client{Jar: jar, Timeout: a.timeout}

	if err := a.signIn(ctx, client); err != nil {
		return nil, err
	}
	token, err := a.loadSleepPage(ctx, client)
	if err != nil {
		return nil, err
	}

	dataURL, err := url.Parse(a.dataURL)
	if err != nil {
		return nil, fmt.Errorf("parse data url: %w", err)
	}
	cookies := jar.Cookies(dataURL)
	if len(cookies) == 0 {
		return nil, fmt.Errorf("%w: sign-in set no cookies for %s", ErrAuthFailed, dataURL.Host)
	}
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}

	logging.Info().Str("provider", ProviderGarmin).Int("cookies", len(cookies)).Msg("Session acquired")
	return &Session{
		Headers:    sessionHeaders(strings.Join(parts, "; "), a.referer, a.userAgent),
		Token:      token,
		AcquiredAt: time.Now(),
	}, nil
}

func (a *FormLoginAcquirer) signIn(ctx context.Context, client *http.Client) error {
	form := url.Values{}
	form.Set("username", a.username)
	form.Set("password", a.password)
	form.Set("embed", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.signinURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := doRequest(client, ProviderGarmin, req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxLoginPage))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: sign-in returned status %d", ErrAuthFailed, resp.StatusCode)
	}
	return nil
}

// loadSleepPage fetches the referer page and extracts the session token from
// its body or response headers.
func (a *FormLoginAcquirer) loadSleepPage(ctx context.Context, client *http.Client) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.referer, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create sleep page request: %w", err)
	}
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := doRequest(client, ProviderGarmin, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: sleep page returned status %d", ErrAuthFailed, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLoginPage))
	if err != nil {
		return "", fmt.Errorf("%w: read sleep page: %w", ErrAuthFailed, err)
	}

	if m := sessionIDPattern.FindSubmatch(body); m != nil {
		return string(m[1]), nil
	}
	var hdr strings.Builder
	_ = resp.Header.Write(&hdr)
	if m := sessionIDPattern.FindStringSubmatch(hdr.String()); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: no session id on %s", ErrAuthFailed, a.referer)
}
