package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	appenv "github.com/garrettladley/moyo/internal/env"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "defaults",
			want: Config{ServerURL: DefaultServerURL, Env: appenv.Production},
		},
		{
			name: "overrides",
			env:  map[string]string{"MOYO_SERVER_URL": "https://bp.example.com", "MOYO_ENV": "development"},
			want: Config{ServerURL: "https://bp.example.com", Env: appenv.Development},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MOYO_SERVER_URL", DefaultServerURL)
			t.Setenv("MOYO_ENV", string(appenv.Production))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Read()
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Read() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadRejectsUnknownEnv(t *testing.T) {
	t.Setenv("MOYO_ENV", "staging")

	if _, err := Read(); err == nil {
		t.Error("Read() error = nil, want unknown environment")
	}
}
