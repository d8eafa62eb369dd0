// Package storage keeps product images in an S3-compatible bucket.
package storage

import (
	"context"
	"io"
	"mime"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// Object describes a stored image.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ImageStore is the object storage used for product images.
type ImageStore interface {
	// Put stores body under key.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// PublicURL returns the URL under which key is publicly readable.
	PublicURL(key string) string
	// KeyFromURL recovers the object key from a public URL, whatever base
	// URL it was issued under.
	KeyFromURL(rawURL string) (string, bool)
	// List returns every stored object.
	List(ctx context.Context) ([]Object, error)
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// ObjectKey namespaces an upload by owner and upload time, e.g.
// "4f1c.../1717171717171.jpg". The extension comes from the original file
// name, falling back to the content type and then to "bin".
func ObjectKey(ownerID string, now time.Time, filename, contentType string) string {
	return ownerID + "/" + strconv.FormatInt(now.UnixMilli(), 10) + "." + extension(filename, contentType)
}

// KeyFromURL returns the part of rawURL's path that follows the bucket
// segment. It reports false when the path does not pass through bucket.
func KeyFromURL(bucket, rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || bucket == "" {
		return "", false
	}
	marker := "/" + bucket + "/"
	i := strings.Index(u.Path, marker)
	if i < 0 {
		return "", false
	}
	key := u.Path[i+len(marker):]
	return key, key != ""
}

func extension(filename, contentType string) string {
	if ext := strings.TrimPrefix(path.Ext(filename), "."); ext != "" {
		return strings.ToLower(ext)
	}
	if contentType != "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			return strings.TrimPrefix(exts[0], ".")
		}
	}
	return "bin"
}
