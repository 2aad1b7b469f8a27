package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestStorage(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "bitchess-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	t.Run("DefaultSettings", func(t *testing.T) {
		s := DefaultSettings()
		if s.HashMB != 64 || s.Color || s.Debug {
			t.Errorf("unexpected defaults %+v", s)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		for in, want := range map[int]int{0: 1, -5: 1, 16: 16, 1 << 20: 4096} {
			s := Settings{HashMB: in}
			s.Normalize()
			if s.HashMB != want {
				t.Errorf("Normalize(%d) = %d, want %d", in, s.HashMB, want)
			}
		}
	})

	t.Run("PersistsAcrossReopen", func(t *testing.T) {
		st, err := Open(Options{Dir: tmpDir})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		got, err := st.LoadSettings()
		if err != nil {
			t.Fatalf("LoadSettings: %v", err)
		}
		if got != DefaultSettings() {
			t.Errorf("fresh store returned %+v", got)
		}

		want := Settings{HashMB: 256, Color: true, Debug: true}
		if err := st.SaveSettings(want); err != nil {
			t.Fatalf("SaveSettings: %v", err)
		}
		if err := st.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}

		st, err = Open(Options{Dir: tmpDir})
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		defer st.Close()
		got, err = st.LoadSettings()
		if err != nil {
			t.Fatalf("LoadSettings after reopen: %v", err)
		}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})
}

func TestInMemoryStore(t *testing.T) {
	st, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	first, err := st.IsFirstRun()
	if err != nil || !first {
		t.Fatalf("IsFirstRun = %v, %v on an empty store", first, err)
	}
	if err := st.MarkFirstRunComplete(); err != nil {
		t.Fatalf("MarkFirstRunComplete: %v", err)
	}
	if first, _ := st.IsFirstRun(); first {
		t.Error("still first run after marking complete")
	}

	if err := st.SaveSettings(Settings{HashMB: 100000}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, _ := st.LoadSettings()
	if got.HashMB != 4096 {
		t.Errorf("hash %d was not clamped on save", got.HashMB)
	}
}

func TestDataPaths(t *testing.T) {
	t.Run("Override", func(t *testing.T) {
		want := filepath.Join(t.TempDir(), "custom")
		t.Setenv(DataDirEnv, want)

		dataDir, err := DataDir()
		if err != nil {
			t.Fatalf("DataDir failed: %v", err)
		}
		if dataDir != want {
			t.Errorf("DataDir = %q, want %q", dataDir, want)
		}
		dbDir, err := DatabaseDir()
		if err != nil {
			t.Fatalf("DatabaseDir failed: %v", err)
		}
		if dbDir != filepath.Join(want, "settings.db") {
			t.Errorf("DatabaseDir = %q", dbDir)
		}
		if _, err := os.Stat(dbDir); err != nil {
			t.Errorf("database directory missing: %v", err)
		}
	})

	t.Run("XDG", func(t *testing.T) {
		if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
			t.Skip("XDG_DATA_HOME only applies on Unix-like systems")
		}
		base := t.TempDir()
		t.Setenv(DataDirEnv, "")
		t.Setenv("XDG_DATA_HOME", base)

		dataDir, err := DataDir()
		if err != nil {
			t.Fatalf("DataDir failed: %v", err)
		}
		if dataDir != filepath.Join(base, "bitchess") {
			t.Errorf("DataDir = %q", dataDir)
		}
		if _, err := os.Stat(dataDir); os.IsNotExist(err) {
			t.Errorf("Data directory was not created: %s", dataDir)
		}
	})
}
