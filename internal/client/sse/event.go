package sse

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

const maxEventSize = 64 << 10

// Event is one dispatched server-sent event.
type Event struct {
	ID   string
	Type string
	Data []byte
}

// readEvents parses the text/event-stream framing from r and hands each
// complete event to fn until fn returns false, r ends or it fails.
// Multiple data lines are joined with "\n" and comment lines are skipped.
func readEvents(r io.Reader, fn func(Event) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxEventSize)

	var (
		ev   Event
		data bytes.Buffer
	)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if ev.Type == "" && data.Len() == 0 {
				continue
			}
			if ev.Type == "" {
				ev.Type = "message"
			}
			ev.Data = bytes.Clone(data.Bytes())
			if !fn(ev) {
				return nil
			}
			ev = Event{}
			data.Reset()
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			ev.Type = value
		case "data":
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(value)
		case "id":
			ev.ID = value
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	return nil
}
