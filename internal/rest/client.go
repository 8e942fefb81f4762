// Package rest issues the request-style operations of the sync engine:
// baseline fetch, mark-read, clear-all. Failures propagate to the caller;
// nothing here retries or rolls back.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"eventhub/internal/config"
	"eventhub/internal/model"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.HubBaseURL, "/"),
		log:        logger,
	}
}

// FetchBaseline returns the authoritative notification set for a user,
// newest first.
func (c *Client) FetchBaseline(ctx context.Context, userID string) ([]model.Notification, error) {
	var notifications []model.Notification
	path := "/notifications/" + url.PathEscape(userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &notifications); err != nil {
		return nil, fmt.Errorf("fetch baseline: %w", err)
	}
	return notifications, nil
}

// MarkRead persists the read flag and returns the canonical updated record.
func (c *Client) MarkRead(ctx context.Context, id string) (model.Notification, error) {
	var updated model.Notification
	path := "/notifications/" + url.PathEscape(id) + "/read"
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, &updated); err != nil {
		return model.Notification{}, fmt.Errorf("mark read: %w", err)
	}
	return updated, nil
}

// ClearAll deletes every notification for a user.
func (c *Client) ClearAll(ctx context.Context, userID string) error {
	path := "/notifications/" + url.PathEscape(userID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, result any) error {
	ctx, span := otel.Tracer("rest").Start(ctx, "hub."+method+" "+path)
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		c.log.Error("hub request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		span.SetStatus(codes.Error, "non-2xx status")
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		c.log.Error("hub request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("hub: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			span.RecordError(err)
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
