package core

import (
	"path/filepath"
	"testing"
)

func TestConfig_ServerAddress(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Host = "play.example.com"
	cfg.Server.Port = 14900

	addr := cfg.ServerAddress()
	expected := "play.example.com:14900"
	if addr != expected {
		t.Errorf("ServerAddress() want = %s, got = %s", expected, addr)
	}
}

func TestConfig_CaptureDatabaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.Capture.Engine = "postgres"
	cfg.Capture.Host = "localhost"
	cfg.Capture.Port = 5432
	cfg.Capture.Name = "testdb"
	cfg.Capture.Username = "testuser"
	cfg.Capture.Password = "testpassword"

	url := cfg.CaptureDatabaseURL()
	expected := "host=localhost port=5432 dbname=testdb user=testuser password=testpassword sslmode="
	if url != expected {
		t.Errorf("CaptureDatabaseURL() want = %s, got = %s", expected, url)
	}
}

func TestConfig_QualifiedPath(t *testing.T) {
	cfg := &Config{baseDir: "/etc/reborn"}

	if got := cfg.QualifiedPath("capture.db"); got != filepath.Join("/etc/reborn", "capture.db") {
		t.Errorf("QualifiedPath() with relative filename = %s", got)
	}
	if got := cfg.QualifiedPath("/var/lib/capture.db"); got != "/var/lib/capture.db" {
		t.Errorf("QualifiedPath() with absolute filename = %s", got)
	}
}

func TestConfig_DownloadsDir(t *testing.T) {
	cfg := &Config{baseDir: t.TempDir()}

	dir, err := cfg.DownloadsDir()
	if err != nil {
		t.Fatal("DownloadsDir() error:", err)
	}
	if dir != filepath.Join(cfg.baseDir, "downloads") {
		t.Errorf("DownloadsDir() defaulted to %s", dir)
	}

	cfg.Downloads.Dir = filepath.Join(t.TempDir(), "files")
	dir, err = cfg.DownloadsDir()
	if err != nil {
		t.Fatal("DownloadsDir() error:", err)
	}
	if dir != cfg.Downloads.Dir {
		t.Errorf("DownloadsDir() = %s, want the configured directory", dir)
	}
}
