package blobstore

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisk_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDisk(dir)
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	name, err := store.Save("image/jpeg", bytes.NewReader([]byte("fake-jpeg-bytes")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("expected .jpg suffix, got %s", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("expected stored file: %v", err)
	}
	if string(data) != "fake-jpeg-bytes" {
		t.Errorf("unexpected file content: %s", data)
	}

	if err := store.Delete(name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
}

func TestDisk_DeleteAbsent(t *testing.T) {
	store, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	if err := store.Delete("nothing-here.jpg"); err != nil {
		t.Errorf("deleting an absent photo should not error, got %v", err)
	}
}

func TestDisk_RejectsBadContentType(t *testing.T) {
	store, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	if _, err := store.Save("application/pdf", bytes.NewReader([]byte("x"))); err != ErrInvalidContentType {
		t.Errorf("expected ErrInvalidContentType, got %v", err)
	}
}

func TestDisk_RejectsOversized(t *testing.T) {
	store, err := NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	big := bytes.NewReader(make([]byte, MaxPhotoSize+1))
	if _, err := store.Save("image/png", big); err != ErrFileTooLarge {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestMemory_SaveAndDelete(t *testing.T) {
	store := NewMemory()

	name, err := store.Save("image/png", bytes.NewReader([]byte("png-bytes")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("expected .png suffix, got %s", name)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 stored photo, got %d", store.Len())
	}

	if err := store.Delete(name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected 0 stored photos, got %d", store.Len())
	}
}

func TestValidateContentType(t *testing.T) {
	if ext, err := ValidateContentType("image/jpeg"); err != nil || ext != ".jpg" {
		t.Errorf("expected .jpg, got %s %v", ext, err)
	}
	if _, err := ValidateContentType("text/html"); err == nil {
		t.Error("expected error for text/html")
	}
}
