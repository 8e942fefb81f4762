package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSSEReceiveParsesFrames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/channel/sse/u-1", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		fmt.Fprint(w, ": ping\n\n")
		fmt.Fprint(w, "id: 1\nevent: notification\ndata: {\"id\":\"n-1\",\"type\":\"reminder\"}\n\n")
		fmt.Fprint(w, "event: job-progress\ndata: {\"jobId\":\"j-1\",\n")
		fmt.Fprint(w, "data: \"progress\":50}\n\n")
		w.(http.Flusher).Flush()
	}))
	defer server.Close()

	dialer := NewSSEDialer(server.URL, 2*time.Second)
	require.Equal(t, "sse", dialer.Name())

	conn, err := dialer.Dial(t.Context(), "u-1")
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	frame, err := conn.Receive()
	require.NoError(t, err)
	require.Equal(t, "notification", frame.Event)
	var notification map[string]any
	require.NoError(t, json.Unmarshal(frame.Data, &notification))
	require.Equal(t, "n-1", notification["id"])

	frame, err = conn.Receive()
	require.NoError(t, err)
	require.Equal(t, "job-progress", frame.Event)
	require.JSONEq(t, `{"jobId":"j-1","progress":50}`, string(frame.Data))
}

func TestSSEDialNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	dialer := NewSSEDialer(server.URL, 2*time.Second)
	_, err := dialer.Dial(t.Context(), "u-1")
	require.Error(t, err)
}

func TestSSESendPostsFrameEvent(t *testing.T) {
	identified := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Header().Set("Content-Type", "text/event-stream")
			w.WriteHeader(http.StatusOK)
			w.(http.Flusher).Flush()
			<-r.Context().Done()
		case r.Method == http.MethodPost && r.URL.Path == "/channel/identify":
			body, _ := io.ReadAll(r.Body)
			identified <- body
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	dialer := NewSSEDialer(server.URL, 2*time.Second)
	conn, err := dialer.Dial(t.Context(), "u-1")
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	err = conn.Send(t.Context(), Frame{Event: "identify", Data: json.RawMessage(`{"userId":"u-1"}`)})
	require.NoError(t, err)

	select {
	case body := <-identified:
		require.JSONEq(t, `{"userId":"u-1"}`, string(body))
	case <-time.After(2 * time.Second):
		t.Fatal("identify POST not received")
	}
}

func TestSSECloseUnblocksReceive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	dialer := NewSSEDialer(server.URL, 2*time.Second)
	conn, err := dialer.Dial(t.Context(), "u-1")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := conn.Receive()
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, conn.Close())

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Receive did not unblock after Close")
	}
}
