// ABOUTME: Batch writer for state-mutation calls against the Inoreader API
// ABOUTME: Splits large id lists into bounded chunks and tracks partial success

package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/dindicoelho/Inoreader-MCP/driver"
)

// markReadChunkSize bounds the id count per edit-tag call
const markReadChunkSize = 20

// BatchService issues sequential state-mutation calls. Chunks are never
// parallel: upstream rate limits and partial-success accounting both want
// strictly ordered submission.
type BatchService struct {
	client  *driver.APIClient
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewBatchService creates a batch writer. A nil limiter gets a default that
// paces successive chunks at one call per 500ms.
func NewBatchService(client *driver.APIClient, limiter *rate.Limiter, logger *slog.Logger) *BatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(500*time.Millisecond), 1)
	}
	return &BatchService{client: client, limiter: limiter, logger: logger}
}

// MarkRead marks the given item ids as read in chunks of markReadChunkSize.
// It returns how many ids were acknowledged and how many were requested; a
// chunk counts only when the upstream body is exactly "OK". Empty input is a
// no-op success. A transport or HTTP error aborts the loop and returns the
// counts accumulated so far alongside the error.
func (s *BatchService) MarkRead(ctx context.Context, ids []string) (succeeded, total int, err error) {
	total = len(ids)
	if total == 0 {
		return 0, 0, nil
	}

	for start := 0; start < len(ids); start += markReadChunkSize {
		end := start + markReadChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		if err := s.limiter.Wait(ctx); err != nil {
			return succeeded, total, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		form := url.Values{
			"i": chunk,
			"a": {ReadStateTag},
		}

		body, err := s.client.Request(ctx, http.MethodPost, "edit-tag", nil, form)
		if err != nil {
			s.logger.Error("Mark-as-read chunk failed",
				"chunk_start", start,
				"chunk_size", len(chunk),
				"error", err)
			return succeeded, total, fmt.Errorf("edit-tag call failed: %w", err)
		}

		if body.Text == "OK" {
			succeeded += len(chunk)
		} else {
			s.logger.Warn("Mark-as-read chunk not acknowledged",
				"chunk_start", start,
				"chunk_size", len(chunk),
				"body_preview", body.Text)
		}
	}

	s.logger.Info("Mark-as-read batch completed",
		"succeeded", succeeded,
		"total", total)

	return succeeded, total, nil
}
