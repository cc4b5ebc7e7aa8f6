// Package archive stores generated invoice documents and outbox
// payloads on the local file system or in S3-compatible object storage.
package archive

import (
	"context"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned by Get when no object exists under the key
var ErrNotFound = errors.New("archive: object not found")

// Store persists documents under slash-separated keys
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// CleanKey normalizes key and rejects absolute keys and keys that
// escape the store root
func CleanKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("archive: key is required")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", errors.Newf("archive: invalid key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", errors.Newf("archive: key %q escapes the store root", key)
		}
	}
	return path.Clean(key), nil
}

// DocumentKey is the key of a generated invoice document. Path
// separators in the invoice number are replaced so each number maps to
// one object.
func DocumentKey(number string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(number))
	if name == "" || name == "." || name == ".." {
		name = "_"
	}
	return path.Join("invoices", name+".xml")
}
