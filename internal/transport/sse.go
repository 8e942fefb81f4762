package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SSEDialer is the compatibility fallback. The stream is read-only, so
// client-to-server frames go out as plain POSTs against /channel/{event}.
type SSEDialer struct {
	baseURL      string
	streamClient *http.Client
	sendClient   *http.Client
}

func NewSSEDialer(baseURL string, connectTimeout time.Duration) *SSEDialer {
	return &SSEDialer{
		baseURL: strings.TrimRight(baseURL, "/"),
		streamClient: &http.Client{
			// No overall timeout: the body is a long-lived stream. The
			// connect phase is still bounded by the header timeout.
			Transport: &http.Transport{ResponseHeaderTimeout: connectTimeout},
		},
		sendClient: &http.Client{Timeout: connectTimeout},
	}
}

func (d *SSEDialer) Name() string { return "sse" }

func (d *SSEDialer) Dial(ctx context.Context, userID string) (Conn, error) {
	streamCtx, cancel := context.WithCancel(context.Background())

	endpoint := d.baseURL + "/channel/sse/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("sse request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := d.streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("sse dial %s: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("sse dial %s: status=%d", endpoint, resp.StatusCode)
	}
	_ = ctx // dial deadline is enforced by the header timeout

	return &sseConn{
		body:    resp.Body,
		reader:  bufio.NewReader(resp.Body),
		cancel:  cancel,
		baseURL: d.baseURL,
		client:  d.sendClient,
	}, nil
}

type sseConn struct {
	body    io.ReadCloser
	reader  *bufio.Reader
	cancel  context.CancelFunc
	baseURL string
	client  *http.Client
}

func (c *sseConn) Send(ctx context.Context, frame Frame) error {
	endpoint := c.baseURL + "/channel/" + url.PathEscape(frame.Event)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(frame.Data))
	if err != nil {
		return fmt.Errorf("sse send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sse send %s: %w", frame.Event, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sse send %s: status=%d", frame.Event, resp.StatusCode)
	}
	return nil
}

// Receive parses the next event block off the stream. Comment lines
// (heartbeats) and id lines are skipped; multi-line data is joined with
// newlines per the SSE spec.
func (c *sseConn) Receive() (Frame, error) {
	var (
		eventName string
		data      [][]byte
	)
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return Frame{}, err
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if eventName == "" && len(data) == 0 {
				continue
			}
			frame := Frame{Event: eventName}
			if len(data) > 0 {
				frame.Data = json.RawMessage(bytes.Join(data, []byte("\n")))
			}
			return frame, nil
		case strings.HasPrefix(line, ":"):
			continue
		case strings.HasPrefix(line, "id:"):
			continue
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, []byte(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")))
		}
	}
}

func (c *sseConn) Close() error {
	c.cancel()
	return c.body.Close()
}
