// Package oss membungkus object storage (MinIO / S3 compatible) untuk dokumen dan gambar.
package oss

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
	"time"

	helper "condominio_backend/internals/helpers"
)

type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type UploadResult struct {
	Key         string `json:"key"`
	FileName    string `json:"file_name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// UploadFile menyimpan file multipart apa adanya di bawah folder.
func UploadFile(ctx context.Context, store ObjectStore, folder string, fh *multipart.FileHeader, maxBytes int64) (*UploadResult, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, helper.Validation("file size exceeds maximum allowed size of %d bytes", maxBytes)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	key := helper.GenerateUniqueFilename(folder, fh.Filename)
	if err := store.Put(ctx, key, src, fh.Size, ct); err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}
	return &UploadResult{Key: key, FileName: fh.Filename, Size: fh.Size, ContentType: ct}, nil
}

// UploadImageAsWebP mengonversi gambar ke webp sebelum disimpan.
func UploadImageAsWebP(ctx context.Context, store ObjectStore, folder string, fh *multipart.FileHeader, maxBytes int64) (*UploadResult, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, helper.Validation("image size exceeds maximum allowed size of %d bytes", maxBytes)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	out, err := helper.ConvertToWebP(raw, helper.DefaultWebPOptions)
	if err != nil {
		return nil, helper.Validation("invalid image: %v", err)
	}
	key := helper.ReplaceExt(helper.GenerateUniqueFilename(folder, fh.Filename), ".webp")
	if err := store.Put(ctx, key, bytes.NewReader(out), int64(len(out)), "image/webp"); err != nil {
		return nil, fmt.Errorf("upload object: %w", err)
	}
	return &UploadResult{Key: key, FileName: helper.ReplaceExt(fh.Filename, ".webp"), Size: int64(len(out)), ContentType: "image/webp"}, nil
}

/* =======================================================================
   MemoryStore: implementasi in-process (dev tanpa MinIO & test)
======================================================================= */

type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}}
}

func (m *MemoryStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[key] = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[key]; !ok {
		return "", fmt.Errorf("object %q not found", key)
	}
	return "memory://" + key, nil
}

func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}
