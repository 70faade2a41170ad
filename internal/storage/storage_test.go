package storage

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewPhotoKeys(t *testing.T) {
	a := NewPhotoKeys("65f0c0ffee", ".png")
	b := NewPhotoKeys("65f0c0ffee", ".png")
	if a == b {
		t.Fatalf("keys must be unique, got %+v twice", a)
	}
	if !strings.HasPrefix(a.Original, "photos/65f0c0ffee/") || !strings.HasSuffix(a.Original, ".png") {
		t.Errorf("unexpected original key %q", a.Original)
	}
	if !strings.HasPrefix(a.Thumbnail, "thumbnails/65f0c0ffee/thumb_") || !strings.HasSuffix(a.Thumbnail, ".jpg") {
		t.Errorf("unexpected thumbnail key %q", a.Thumbnail)
	}
}

func TestS3Endpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		useSSL   bool
		want     string
	}{
		{"", true, ""},
		{"minio:9000", false, "http://minio:9000"},
		{"minio:9000", true, "https://minio:9000"},
		{"http://localhost:9000", true, "http://localhost:9000"},
	}
	for _, tt := range tests {
		if got := s3Endpoint(tt.endpoint, tt.useSSL); got != tt.want {
			t.Errorf("s3Endpoint(%q, %v) = %q, want %q", tt.endpoint, tt.useSSL, got, tt.want)
		}
	}
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()
	keys := NewPhotoKeys("p1", ".jpg")

	if err := m.PutObject(ctx, keys.Original, "image/jpeg", bytes.NewReader([]byte("data")), 4); err != nil {
		t.Fatalf("put: %v", err)
	}
	if data, ct, ok := m.Object(keys.Original); !ok || string(data) != "data" || ct != "image/jpeg" {
		t.Fatalf("unexpected object %q %q %v", data, ct, ok)
	}

	url, err := m.GeneratePresignedDownloadURL(ctx, keys.Original, 0)
	if err != nil || !strings.HasPrefix(url, "memory:///") {
		t.Fatalf("url %q, err %v", url, err)
	}
	if _, err := m.GeneratePresignedDownloadURL(ctx, keys.Thumbnail, 0); err != ErrObjectNotFound {
		t.Fatalf("expected ErrObjectNotFound for a missing key, got %v", err)
	}

	// Missing and empty keys are ignored.
	if err := m.DeleteObjects(ctx, keys.Original, keys.Thumbnail, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty storage, %d left", m.Len())
	}
}
