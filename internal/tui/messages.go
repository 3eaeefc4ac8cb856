package tui

import "github.com/garrettladley/moyo/internal/model"

type ReadingsMsg struct {
	Readings []model.Reading
	Err      error
}

type StreamStatusMsg struct {
	Live bool
}

type StreamClosedMsg struct {
	Err error
}

type NotificationMsg struct {
	Notification model.NotificationLog
}
