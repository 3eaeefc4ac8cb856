package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/xhttp"
)

func TestConnectDeliversNotifications(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got, _ := xhttp.GetBearerToken(r); got != "access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		xhttp.SetHeadersEventStream(w)
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "event: connected\ndata: {\"user_id\":1}\n\n")
		_, _ = fmt.Fprint(w, "event: heartbeat\ndata: {}\n\n")
		_, _ = fmt.Fprint(w, "event: notification\ndata: not json\n\n")
		_, _ = fmt.Fprint(w, "event: notification\ndata: {\"id\":7,\"user_id\":1,\"notification_type\":\"insight\",\"message\":\"high\"}\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "access"}), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	got := make(chan model.NotificationLog, 1)
	go func() {
		_ = c.Connect(ctx, func(n model.NotificationLog) {
			got <- n
			cancel()
		})
	}()

	select {
	case n := <-got:
		if n.ID != 7 {
			t.Errorf("ID = %d, want 7", n.ID)
		}
		if n.Message != "high" {
			t.Errorf("Message = %q, want %q", n.Message, "high")
		}
	case <-ctx.Done():
		t.Fatal("no notification received")
	}
}

func TestConnectOnceStopsOnShutdown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xhttp.SetHeadersEventStream(w)
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "event: shutdown\ndata: {\"message\":\"bye\"}\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "access"}), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	if err := c.connectOnce(ctx, func(model.NotificationLog) {}); !errors.Is(err, errShutdown) {
		t.Errorf("connectOnce() error = %v, want %v", err, errShutdown)
	}
}

func TestConnectOnceStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "bad gateway", status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			t.Cleanup(srv.Close)

			c := NewClient(srv.URL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "x"}), slog.New(slog.NewTextHandler(io.Discard, nil)))
			err := c.connectOnce(t.Context(), func(model.NotificationLog) {})
			if err == nil {
				t.Fatal("connectOnce() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("connectOnce() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConnectStopsWhenUnauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	var statuses []bool
	c := NewClient(srv.URL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "x"}), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.OnStatus(func(live bool) { statuses = append(statuses, live) })

	if err := c.Connect(t.Context(), func(model.NotificationLog) {}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Connect() error = %v, want %v", err, ErrUnauthorized)
	}
	if len(statuses) != 1 || statuses[0] {
		t.Errorf("statuses = %v, want [false]", statuses)
	}
}
