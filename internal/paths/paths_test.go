package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataDir_EnvOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")
	t.Setenv("REATTACHD_DATA_DIR", dir)

	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if got != dir {
		t.Errorf("DataDir = %q, want %q", got, dir)
	}

	// Directory must exist afterwards
	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("stat %s: %v", got, err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", got)
	}
}

func TestDataDir_FilesUnderDataDir(t *testing.T) {
	dir := t.TempDir()

	for name, path := range map[string]string{
		"auth":      AuthFile(dir),
		"endpoints": EndpointsFile(dir),
		"history":   HistoryFile(dir),
		"config":    ConfigFile(dir),
	} {
		if filepath.Dir(path) != dir {
			t.Errorf("%s file %q not under data dir %q", name, path, dir)
		}
	}
}
