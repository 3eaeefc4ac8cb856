package paths

import (
	"os"
	"path/filepath"
	"testing"
)

// Not parallel: these tests set process environment.

func TestDir(t *testing.T) {
	tests := []struct {
		name string
		home string
		xdg  string
		want string
	}{
		{name: "override wins", home: "/tmp/moyo-a", xdg: "/xdg", want: "/tmp/moyo-a"},
		{name: "xdg", xdg: "/xdg", want: filepath.Join("/xdg", appName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(HomeEnvKey, tt.home)
			t.Setenv("XDG_CONFIG_HOME", tt.xdg)

			got, err := Dir()
			if err != nil {
				t.Fatalf("Dir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Dir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnsureDirAndDB(t *testing.T) {
	root := filepath.Join(t.TempDir(), "state")
	t.Setenv(HomeEnvKey, root)

	dir, err := EnsureDir()
	if err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("EnsureDir() perm = %o, want 700", perm)
	}

	db, err := DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	if want := filepath.Join(root, dbName); db != want {
		t.Errorf("DB() = %q, want %q", db, want)
	}
}
