package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/garrettladley/moyo/internal/client/sse"
	"github.com/garrettladley/moyo/internal/model"
)

// StartStreamCmd connects the notification stream in the background. Events
// are pushed onto events, which bridges the blocking client and bubbletea.
func StartStreamCmd(ctx context.Context, client *sse.Client, events chan<- tea.Msg) tea.Cmd {
	send := func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-ctx.Done():
		}
	}
	client.OnStatus(func(live bool) { send(StreamStatusMsg{Live: live}) })

	return func() tea.Msg {
		err := client.Connect(ctx, func(n model.NotificationLog) {
			send(NotificationMsg{Notification: n})
		})
		return StreamClosedMsg{Err: err}
	}
}

// ListenStreamCmd waits for the next stream event. It must be re-issued
// after every message it returns.
func ListenStreamCmd(ctx context.Context, events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-ctx.Done():
			return StreamClosedMsg{Err: ctx.Err()}
		}
	}
}
