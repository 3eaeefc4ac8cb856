// Package sse follows the server's notification stream and hands each
// notification to a callback, reconnecting until its context ends.
package sse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	go_json "github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/xhttp"
	"github.com/garrettladley/moyo/internal/xslog"
)

const (
	streamPath     = "/api/notifications/stream"
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

const (
	eventConnected    = "connected"
	eventNotification = "notification"
	eventHeartbeat    = "heartbeat"
	eventShutdown     = "shutdown"
)

// ErrUnauthorized means the server rejected the access token even after the
// token source had its chance to refresh it. Reconnecting will not help.
var ErrUnauthorized = errors.New("notification stream: unauthorized")

// errShutdown reports a clean close announced by the server.
var errShutdown = errors.New("server shutting down")

type NotificationHandler func(n model.NotificationLog)

type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	logger      *slog.Logger
	onStatus    func(live bool)
}

func NewClient(baseURL string, tokenSource oauth2.TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		// No timeout: the stream stays open until either side closes it.
		httpClient:  xhttp.NewHTTPClient(),
		tokenSource: tokenSource,
		logger:      logger,
	}
}

// OnStatus registers fn to be called whenever the stream connects or drops.
// It must be called before Connect.
func (c *Client) OnStatus(fn func(live bool)) {
	c.onStatus = fn
}

func (c *Client) setStatus(live bool) {
	if c.onStatus != nil {
		c.onStatus(live)
	}
}

// Connect streams notifications to handler until ctx is done or the server
// refuses the credentials. Dropped connections are retried with exponential
// backoff; a server shutdown is retried after the initial delay.
func (c *Client) Connect(ctx context.Context, handler NotificationHandler) error {
	backoff := initialBackoff

	for {
		err := c.connectOnce(ctx, handler)
		c.setStatus(false)

		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, ErrUnauthorized):
			return err
		case err == nil, errors.Is(err, errShutdown):
			backoff = initialBackoff
			c.logger.InfoContext(ctx, "notification stream closed, reconnecting", xslog.Backoff(backoff))
		default:
			c.logger.WarnContext(ctx, "notification stream failed, reconnecting",
				xslog.Error(err),
				xslog.Backoff(backoff),
			)
		}

		if !sleep(ctx, backoff) {
			return ctx.Err()
		}
		if err != nil && !errors.Is(err, errShutdown) {
			backoff = min(backoff*2, maxBackoff)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// connectOnce holds a single stream open and dispatches its events. It
// returns errShutdown when the server announces it is going away.
func (c *Client) connectOnce(ctx context.Context, handler NotificationHandler) error {
	token, err := c.tokenSource.Token()
	if err != nil {
		return fmt.Errorf("getting token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+streamPath, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	xhttp.SetBearerToken(req, token.AccessToken)
	req.Header.Set(xhttp.Accept, xhttp.TextEventStream)
	req.Header.Set(xhttp.CacheControl, "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	c.logger.InfoContext(ctx, "notification stream connected")
	c.setStatus(true)

	var shutdown bool
	err = readEvents(resp.Body, func(ev Event) bool {
		if ev.Type == eventShutdown {
			shutdown = true
			return false
		}
		c.dispatch(ctx, ev, handler)
		return true
	})
	if shutdown {
		c.logger.InfoContext(ctx, "server shutting down")
		return errShutdown
	}
	return err
}

func (c *Client) dispatch(ctx context.Context, ev Event, handler NotificationHandler) {
	switch ev.Type {
	case eventNotification:
		var n model.NotificationLog
		if err := go_json.Unmarshal(ev.Data, &n); err != nil {
			c.logger.WarnContext(ctx, "failed to parse notification",
				xslog.Error(err),
				xslog.Data(string(ev.Data)),
			)
			return
		}
		handler(n)
	case eventHeartbeat:
		c.logger.DebugContext(ctx, "received heartbeat")
	case eventConnected:
		c.logger.DebugContext(ctx, "received connected event", xslog.Data(string(ev.Data)))
	default:
		c.logger.DebugContext(ctx, "ignoring event", xslog.Type(ev.Type))
	}
}
