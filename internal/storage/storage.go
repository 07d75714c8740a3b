/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package storage

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Stored describes an object after upload, in the shape message payloads and
// group images carry it.
type Stored struct {
	URL  string // Public URL of the object
	Size int64  // Size in bytes
	Name string // Original file name
	Kind string // First segment of the content type ("image", "video", ...)
}

// ObjectStorage is the media-storage collaborator. The platform's production
// backend is a cloud blob store; this subsystem only needs to put bytes at a
// destination path and get back the descriptor.
type ObjectStorage interface {
	Store(data []byte, destinationPath, originalName, contentType string) (*Stored, error)
}

// DiskStorage keeps objects under a local directory and serves them from a
// public base URL. It exists so the service runs standalone; deployments with
// a blob store plug in their own ObjectStorage.
type DiskStorage struct {
	root    string // Directory objects are written under
	baseURL string // Public URL prefix the objects are reachable at
}

func NewDiskStorage(root, baseURL string) *DiskStorage {
	return &DiskStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskStorage) Store(data []byte, destinationPath, originalName, contentType string) (*Stored, error) {
	full := filepath.Join(s.root, filepath.FromSlash(destinationPath))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return nil, err
	}

	return &Stored{
		URL:  s.baseURL + "/" + path.Clean(destinationPath),
		Size: int64(len(data)),
		Name: originalName,
		Kind: MediaKind(contentType),
	}, nil
}

// MediaKind extracts the media kind from a mime type ("image/png" -> "image").
func MediaKind(contentType string) string {
	if i := strings.Index(contentType, "/"); i > 0 {
		return contentType[:i]
	}
	return contentType
}
