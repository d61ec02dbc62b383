// Package googleauth runs the installed-app OAuth flow for Google Calendar
// and keeps the resulting token on disk.
package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	apperrors "jarvis/internal/platform/errors"
)

const (
	CredentialsFile = "credentials.json"
	TokenFile       = "token.json"

	callbackPath = "/oauth2callback"
	authTimeout  = 5 * time.Minute
)

var Scopes = []string{calendar.CalendarEventsScope}

// Store locates the client secrets and token under one directory.
type Store struct {
	Dir string
}

func (s Store) credentialsPath() string { return filepath.Join(s.Dir, CredentialsFile) }
func (s Store) tokenPath() string       { return filepath.Join(s.Dir, TokenFile) }

func (s Store) Config() (*oauth2.Config, error) {
	raw, err := os.ReadFile(s.credentialsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: place the OAuth client file at %s", apperrors.ErrCalendarUnavailable, s.credentialsPath())
		}
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	cfg, err := google.ConfigFromJSON(raw, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: parse client secrets: %v", apperrors.ErrConfig, err)
	}
	return cfg, nil
}

func (s Store) LoadToken() (*oauth2.Token, error) {
	raw, err := os.ReadFile(s.tokenPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: run `jarvis calendar auth` first", apperrors.ErrCalendarUnavailable)
		}
		return nil, fmt.Errorf("read token: %w", err)
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(raw, tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", s.tokenPath(), err)
	}
	return tok, nil
}

func (s Store) SaveToken(tok *oauth2.Token) error {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	raw, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	tmp := s.tokenPath() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := os.Rename(tmp, s.tokenPath()); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename token: %w", err)
	}
	return nil
}

// Client returns an HTTP client that refreshes the stored token and writes
// refreshed tokens back.
func (s Store) Client(ctx context.Context) (*http.Client, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	tok, err := s.LoadToken()
	if err != nil {
		return nil, err
	}
	src := &savingSource{base: cfg.TokenSource(ctx, tok), store: s, last: tok.AccessToken}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

type savingSource struct {
	base  oauth2.TokenSource
	store Store
	mu    sync.Mutex
	last  string
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.store.SaveToken(tok); err != nil {
			return nil, err
		}
	}
	return tok, nil
}

// Authorize runs the browser consent flow against a loopback listener and
// stores the token. The consent URL is printed to w.
func (s Store) Authorize(ctx context.Context, w io.Writer) error {
	cfg, err := s.Config()
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen for oauth callback: %w", err)
	}
	cfg.RedirectURL = fmt.Sprintf("http://%s%s", listener.Addr().String(), callbackPath)
	state := uuid.NewString()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(rw http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(rw, "state mismatch", http.StatusBadRequest)
			errCh <- errors.New("oauth callback state mismatch")
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(rw, "authorization code not found", http.StatusBadRequest)
			errCh <- fmt.Errorf("oauth callback without code: %s", q.Get("error"))
			return
		}
		_, _ = io.WriteString(rw, "Jarvis is connected to your calendar. You can close this window.")
		codeCh <- code
	})
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("oauth callback server: %w", err)
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	_, _ = fmt.Fprintf(w, "Open this URL in your browser to authorize Jarvis:\n%s\n", authURL)

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()
	select {
	case code := <-codeCh:
		tok, err := cfg.Exchange(ctx, code)
		if err != nil {
			return fmt.Errorf("exchange authorization code: %w", err)
		}
		return s.SaveToken(tok)
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return fmt.Errorf("authorization not completed: %w", ctx.Err())
	}
}
