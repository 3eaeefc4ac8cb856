package main

import (
	"io/fs"
	"os"
	"testing"
	"time"
)

type fakeEntry string

func (e fakeEntry) Name() string               { return string(e) }
func (e fakeEntry) IsDir() bool                { return false }
func (e fakeEntry) Type() fs.FileMode          { return 0 }
func (e fakeEntry) Info() (fs.FileInfo, error) { return fakeInfo(e), nil }

type fakeInfo string

func (i fakeInfo) Name() string       { return string(i) }
func (i fakeInfo) Size() int64        { return 0 }
func (i fakeInfo) Mode() fs.FileMode  { return 0 }
func (i fakeInfo) ModTime() time.Time { return time.Time{} }
func (i fakeInfo) IsDir() bool        { return false }
func (i fakeInfo) Sys() any           { return nil }

func TestGetNextMigrationNum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []string
		want    int
	}{
		{name: "empty", want: 1},
		{name: "sequential", entries: []string{"000001_init.sql", "000002_session.sql"}, want: 3},
		{name: "ignores non sql", entries: []string{"000001_init.sql", "000009_notes.md"}, want: 2},
		{name: "ignores unnumbered", entries: []string{"init.sql", "000004_x.sql"}, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries := make([]os.DirEntry, 0, len(tt.entries))
			for _, e := range tt.entries {
				entries = append(entries, fakeEntry(e))
			}
			if got := getNextMigrationNum(entries); got != tt.want {
				t.Errorf("getNextMigrationNum() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMigrationName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{name: "add_reminders", want: true},
		{name: "v2", want: true},
		{name: "Add-Reminders"},
		{name: "trailing_"},
		{name: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := migrationName.MatchString(tt.name); got != tt.want {
				t.Errorf("MatchString(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
