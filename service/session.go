// ABOUTME: Scoped client session bundling auth, transport and services
// ABOUTME: One session per tool invocation, released on every exit path

package service

import (
	"log/slog"
	"net/http"

	"github.com/dindicoelho/Inoreader-MCP/config"
	"github.com/dindicoelho/Inoreader-MCP/driver"
)

// Session owns the client-side state for one tool invocation: a pooled HTTP
// client, the auth session and the services built over them. The result
// cache is process-wide and shared across sessions; everything else is
// session-scoped and torn down by Close.
type Session struct {
	httpClient *http.Client

	Auth    *driver.AuthSession
	Client  *driver.APIClient
	Streams *StreamService
	Batch   *BatchService
}

// NewSession builds a session from configuration. cache may be shared by
// concurrent sessions; authentication happens lazily on first request.
func NewSession(cfg *config.Config, cache *driver.ResultCache, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := driver.NewPooledHTTPClient(cfg.HTTP.RequestTimeout)

	auth := driver.NewAuthSession(driver.Credential{
		AppID:    cfg.Inoreader.AppID,
		AppKey:   cfg.Inoreader.AppKey,
		Username: cfg.Inoreader.Username,
		Password: cfg.Inoreader.Password,
	}, cfg.Inoreader.LoginURL, httpClient, logger)

	client := driver.NewAPIClient(cfg.Inoreader.BaseURL, auth, httpClient, cache, logger)

	return &Session{
		httpClient: httpClient,
		Auth:       auth,
		Client:     client,
		Streams:    NewStreamService(client, cfg.Inoreader.MaxArticlesPerRequest, logger),
		Batch:      NewBatchService(client, nil, logger),
	}
}

// Close releases the session's pooled connections
func (s *Session) Close() {
	s.httpClient.CloseIdleConnections()
}
