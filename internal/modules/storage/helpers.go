package storage

import (
	"mime"
	"net/http"
	neturl "net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BuildObjectKey generates a collision-resistant key under the given prefix
// that preserves the original extension.
func BuildObjectKey(prefix, original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 {
		ext = ".dat"
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + ext
	return normalizeObjectKey(prefix + "/" + name)
}

// DetectContentType sniffs the MIME type from the declared header, extension,
// or raw payload bytes, in that priority order.
func DetectContentType(filename string, payload []byte, fallback string) string {
	contentType := strings.TrimSpace(fallback)
	if contentType != "" {
		return contentType
	}
	if ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename))); ext != "" {
		if guessed := mime.TypeByExtension(ext); guessed != "" {
			return guessed
		}
	}
	if len(payload) > 0 {
		return http.DetectContentType(payload)
	}
	return "application/octet-stream"
}

// normalizeObjectKey collapses separators and strips a leading slash so keys
// are stable regardless of how callers assemble them.
func normalizeObjectKey(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.TrimPrefix(key, "/")
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	return key
}

// encodeObjectKey percent-encodes each path segment of a key.
func encodeObjectKey(key string) string {
	key = normalizeObjectKey(key)
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = neturl.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// insertBucketHost turns https://host into https://bucket.host unless the
// bucket is already the leading label.
func insertBucketHost(endpoint, bucket string) string {
	u, err := neturl.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	if !strings.HasPrefix(strings.ToLower(u.Host), strings.ToLower(bucket)+".") {
		u.Host = bucket + "." + u.Host
	}
	return strings.TrimRight(u.String(), "/")
}

// normalizeEndpoint trims and schemes a configured endpoint.
func normalizeEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return ""
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	return strings.TrimSuffix(endpoint, "/")
}
