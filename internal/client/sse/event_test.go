package sse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadEvents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stream string
		limit  int
		want   []Event
	}{
		{
			name:   "typed events",
			stream: "event: connected\ndata: {\"user_id\":1}\n\nevent: heartbeat\ndata: {}\n\n",
			want: []Event{
				{Type: "connected", Data: []byte(`{"user_id":1}`)},
				{Type: "heartbeat", Data: []byte(`{}`)},
			},
		},
		{
			name:   "multi-line data and id",
			stream: "id: 42\nevent: notification\ndata: line one\ndata: line two\n\n",
			want:   []Event{{ID: "42", Type: "notification", Data: []byte("line one\nline two")}},
		},
		{
			name:   "comments and blank runs skipped",
			stream: ": keepalive\n\n\n\ndata:untyped\n\n",
			want:   []Event{{Type: "message", Data: []byte("untyped")}},
		},
		{
			name:   "unterminated event dropped",
			stream: "event: notification\ndata: {}",
		},
		{
			name:   "callback stops reading",
			stream: "event: a\ndata: 1\n\nevent: b\ndata: 2\n\n",
			limit:  1,
			want:   []Event{{Type: "a", Data: []byte("1")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []Event
			err := readEvents(strings.NewReader(tt.stream), func(ev Event) bool {
				got = append(got, ev)
				return tt.limit == 0 || len(got) < tt.limit
			})
			if err != nil {
				t.Fatalf("readEvents() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("readEvents() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
