// ABOUTME: ClientLogin authentication session for the Inoreader API
// ABOUTME: Owns the one-time login exchange and the resulting bearer token

package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ClientLogin specific error types for better error handling
var (
	ErrAuthRejected          = errors.New("authentication rejected by Inoreader")
	ErrMalformedAuthResponse = errors.New("no Auth token in ClientLogin response")
	ErrNotAuthenticated      = errors.New("auth session has no token; call Authenticate first")
)

// Credential holds the identity fields for the ClientLogin exchange
type Credential struct {
	AppID    string
	AppKey   string
	Username string
	Password string
}

// AuthSession handles ClientLogin authentication with the Inoreader API.
// The token has no expressed expiry; it is reused until a request fails
// authorization, at which point Invalidate forces re-authentication.
type AuthSession struct {
	credential Credential
	loginURL   string
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.RWMutex
	token string

	// Guards against concurrent callers stampeding the login endpoint
	// when a shared session re-authenticates after a 401.
	loginGroup singleflight.Group
}

// NewAuthSession creates a new unauthenticated session
func NewAuthSession(credential Credential, loginURL string, httpClient *http.Client, logger *slog.Logger) *AuthSession {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &AuthSession{
		credential: credential,
		loginURL:   loginURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Authenticate performs the ClientLogin exchange and stores the token.
// Identity fields travel in the form body, application id/key in headers.
func (s *AuthSession) Authenticate(ctx context.Context) error {
	data := url.Values{
		"Email":  {s.credential.Username},
		"Passwd": {s.credential.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.loginURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("AppId", s.credential.AppID)
	req.Header.Set("AppKey", s.credential.AppKey)

	s.logger.Debug("Authenticating with Inoreader", "username", s.credential.Username)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("ClientLogin failed",
			"status_code", resp.StatusCode,
			"response_body", string(body))
		return fmt.Errorf("%w: status %d: %s", ErrAuthRejected, resp.StatusCode, string(body))
	}

	// Success body is line-oriented; the token is the line "Auth=<token>".
	token := ""
	for _, line := range strings.Split(string(body), "\n") {
		if strings.HasPrefix(line, "Auth=") {
			token = strings.TrimPrefix(line, "Auth=")
			break
		}
	}

	if token == "" {
		s.logger.Error("ClientLogin response carried no Auth line")
		return ErrMalformedAuthResponse
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Info("Authenticated with Inoreader", "username", s.credential.Username)
	return nil
}

// EnsureAuthenticated authenticates only when no token is held. Concurrent
// callers share a single in-flight login via singleflight.
func (s *AuthSession) EnsureAuthenticated(ctx context.Context) error {
	s.mu.RLock()
	hasToken := s.token != ""
	s.mu.RUnlock()

	if hasToken {
		return nil
	}

	_, err, _ := s.loginGroup.Do("login", func() (interface{}, error) {
		// Another caller may have completed the login while we waited.
		s.mu.RLock()
		done := s.token != ""
		s.mu.RUnlock()
		if done {
			return nil, nil
		}
		return nil, s.Authenticate(ctx)
	})
	return err
}

// AuthHeaders returns the headers carried by every authenticated request.
// Calling it without a token is a programming error and fails fast rather
// than silently sending an empty Authorization header.
func (s *AuthSession) AuthHeaders() (map[string]string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return nil, ErrNotAuthenticated
	}

	return map[string]string{
		"Authorization": "GoogleLogin auth=" + token,
		"AppId":         s.credential.AppID,
		"AppKey":        s.credential.AppKey,
	}, nil
}

// Invalidate drops the held token so the next call re-authenticates
func (s *AuthSession) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	s.logger.Debug("Auth token invalidated")
}
