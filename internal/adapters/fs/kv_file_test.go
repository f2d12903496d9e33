package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKVFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	kv := NewKVFile(dir)

	if err := kv.Set("auth_token", "tok-xyz"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got string
	if !kv.Get("auth_token", &got) {
		t.Fatal("Get reported not found after Set")
	}
	if got != "tok-xyz" {
		t.Errorf("Get = %q, want tok-xyz", got)
	}
}

func TestKVFileMissingKey(t *testing.T) {
	kv := NewKVFile(t.TempDir())

	var got string
	if kv.Get("nope", &got) {
		t.Error("Get reported found for missing key")
	}
	if got != "" {
		t.Errorf("out mutated for missing key: %q", got)
	}
}

func TestKVFileCorruptValue(t *testing.T) {
	dir := t.TempDir()
	kv := NewKVFile(dir)

	if err := os.WriteFile(kv.Path(), []byte(`{"theme_pref": {not json`), 0o600); err != nil {
		t.Fatal(err)
	}

	var got string
	if kv.Get("theme_pref", &got) {
		t.Error("Get reported found for corrupt file")
	}

	// A corrupt file must not block future writes.
	if err := kv.Set("theme_pref", "dark"); err != nil {
		t.Fatalf("Set after corruption failed: %v", err)
	}
	if !kv.Get("theme_pref", &got) || got != "dark" {
		t.Errorf("Get after rewrite = %q, want dark", got)
	}
}

func TestKVFileTypeMismatch(t *testing.T) {
	kv := NewKVFile(t.TempDir())

	if err := kv.Set("audio_unlocked", true); err != nil {
		t.Fatal(err)
	}
	var got string
	if kv.Get("audio_unlocked", &got) {
		t.Error("Get reported found decoding bool into string")
	}
}

func TestKVFileDelete(t *testing.T) {
	kv := NewKVFile(t.TempDir())

	if err := kv.Set("auth_token", "tok"); err != nil {
		t.Fatal(err)
	}
	if err := kv.Delete("auth_token"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	var got string
	if kv.Get("auth_token", &got) {
		t.Error("Get reported found after Delete")
	}
	if err := kv.Delete("auth_token"); err != nil {
		t.Errorf("Delete of missing key errored: %v", err)
	}
}

func TestKVFilePreservesSiblingKeys(t *testing.T) {
	kv := NewKVFile(t.TempDir())

	if err := kv.Set("device_id", "dev-1"); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set("auth_token", "tok"); err != nil {
		t.Fatal(err)
	}

	var dev string
	if !kv.Get("device_id", &dev) || dev != "dev-1" {
		t.Errorf("device_id = %q, want dev-1", dev)
	}
}

func TestKVFileSetFailsOnUnwritableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission checks are bypassed")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0o700)

	kv := NewKVFile(filepath.Join(dir, "nested"))
	if err := kv.Set("auth_token", "tok"); err == nil {
		t.Error("Set succeeded on unwritable directory")
	}
}
