package configpkg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600); err != nil {
		t.Fatalf("os.WriteFile() returned error: %v", err)
	}

	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, "SERVER_ADDRESS=127.0.0.1:9000\nGO_ENV=development\nKAFKA_BROKERS=a:9092, b:9092\n")

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load(%q) returned error: %v", dir, err)
	}

	want := Config{
		ServerAddress:   "127.0.0.1:9000",
		Environement:    "development",
		KafkaBrokers:    "a:9092, b:9092",
		KafkaTopic:      "points",
		ShutdownTimeout: 10 * time.Second,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load(%q) returned unexpected difference (-want +got):\n%s", dir, diff)
	}

	if diff := cmp.Diff([]string{"a:9092", "b:9092"}, got.Brokers()); diff != "" {
		t.Errorf("Brokers() returned unexpected difference (-want +got):\n%s", diff)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := writeConfig(t, "SERVER_ADDRESS=127.0.0.1:9000\n")
	t.Setenv("SERVER_ADDRESS", "127.0.0.1:9999")

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load(%q) returned error: %v", dir, err)
	}

	if got.ServerAddress != "127.0.0.1:9999" {
		t.Errorf("got.ServerAddress = %q, want %q", got.ServerAddress, "127.0.0.1:9999")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load() on a directory without app.env returned nil error")
	}
}

func TestBrokersEmpty(t *testing.T) {
	if got := (Config{KafkaBrokers: " , "}).Brokers(); len(got) != 0 {
		t.Errorf("Brokers() = %v, want empty", got)
	}
}
