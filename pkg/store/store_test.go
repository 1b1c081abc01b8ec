package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDirWriteThenRead(t *testing.T) {
	dir := NewDir(t.TempDir())

	if err := dir.Write("x.txt", []byte("hello")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	data, err := dir.Read("x.txt")
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("Expected 'hello', got %q", data)
	}
}

func TestDirWriteTruncates(t *testing.T) {
	dir := NewDir(t.TempDir())

	if err := dir.Write("x.txt", []byte("a much longer first version")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := dir.Write("x.txt", []byte("short")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	data, err := dir.Read("x.txt")
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if string(data) != "short" {
		t.Errorf("Expected truncated contents 'short', got %q", data)
	}
}

func TestDirBinaryContent(t *testing.T) {
	root := t.TempDir()
	content := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff, 0xfe}
	if err := os.WriteFile(filepath.Join(root, "img.bin"), content, 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	data, err := NewDir(root).Read("img.bin")
	if err != nil {
		t.Fatalf("Failed to read binary file: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Errorf("Expected %v, got %v", content, data)
	}
}

func TestDirReadMissing(t *testing.T) {
	_, err := NewDir(t.TempDir()).Read("missing.txt")
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestDirWriteMissingDirectory(t *testing.T) {
	dir := NewDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := dir.Write("x.txt", []byte("data")); err == nil {
		t.Error("Expected error writing into a missing directory")
	}
}

func TestDirPathPassesThroughDotDot(t *testing.T) {
	dir := NewDir("/srv/files")
	if got := dir.Path("../etc/passwd"); got != "/srv/etc/passwd" {
		t.Errorf("Expected unsanitised join '/srv/etc/passwd', got %q", got)
	}
}

func TestMockStore(t *testing.T) {
	m := NewMockStore(map[string][]byte{"a": []byte("1")})

	if data, err := m.Read("a"); err != nil || string(data) != "1" {
		t.Errorf("Expected '1', got %q (%v)", data, err)
	}
	if _, err := m.Read("b"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
	if err := m.Write("b", []byte("2")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if data, _ := m.Read("b"); string(data) != "2" {
		t.Errorf("Expected '2', got %q", data)
	}
	if len(m.Reads) != 3 || len(m.Writes) != 1 {
		t.Errorf("Expected 3 reads and 1 write, got %d and %d", len(m.Reads), len(m.Writes))
	}
}
