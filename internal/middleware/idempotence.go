package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotenceHeader = "x-idempotence"
	idempotenceTTL    = 60 * time.Second
)

// Idempotence rejects duplicate mutating requests inside a short window.
// Summarization uploads are expensive upstream calls; a double-submitted form
// should not trigger the pipeline twice.
func Idempotence(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		if shouldSkipIdempotence(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}

		key, err := resolveIdempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		redisKey := fmt.Sprintf("gistify:idempotence:%s", key)
		ctx := c.Request.Context()

		val, err := rdb.Get(ctx, redisKey).Result()
		if err == nil {
			msg := "duplicate request, try again in a minute"
			if val == "0" {
				msg = "an identical request is still being processed"
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": msg})
			return
		}

		if !errors.Is(err, redis.Nil) {
			c.Next()
			return
		}

		if setErr := rdb.Set(ctx, redisKey, "0", idempotenceTTL).Err(); setErr != nil {
			c.Next()
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			rdb.Set(ctx, redisKey, "1", redis.KeepTTL)
		} else {
			rdb.Del(ctx, redisKey)
		}
	}
}

// Login and signup are naturally repeatable and must not collide.
func shouldSkipIdempotence(method, path string) bool {
	switch method {
	case http.MethodPost, http.MethodPut:
	default:
		return false
	}

	p := strings.TrimRight(strings.TrimSpace(strings.ToLower(path)), "/")
	switch p {
	case "/api/auth/login", "/api/auth/signup":
		return true
	default:
		return false
	}
}

// resolveIdempotenceKey returns the idempotence key for the current request.
// Clients may pin one explicitly via header; otherwise it is derived from the
// request itself. Multipart bodies carry a random boundary per submission, so
// they hash by their parsed parts rather than the raw bytes — two identical
// form resubmissions yield the same key.
func resolveIdempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(idempotenceHeader); hdr != "" {
		return hdr, nil
	}

	var body string
	if c.ContentType() == "multipart/form-data" {
		digest, err := multipartDigest(c)
		if err != nil {
			return "", err
		}
		body = digest
	} else {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))
		body = string(raw)
	}

	ua := c.Request.UserAgent()
	ip := c.ClientIP()
	authToken := resolveIdempotenceAuthToken(c)

	if body == "" && ua == "" && ip == "" && authToken == "" {
		return "", nil
	}

	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + body + "|" + ua + "|" + ip + "|" + authToken
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}

// multipartDigest summarizes a multipart form independent of its boundary:
// field names and values, plus file part names, filenames, and sizes, in
// sorted order. Parsing caches the form, so downstream handlers still read it.
func multipartDigest(c *gin.Context) (string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return "", err
	}

	var parts []string
	for name, values := range form.Value {
		for _, v := range values {
			parts = append(parts, "v:"+name+"="+v)
		}
	}
	for name, files := range form.File {
		for _, fh := range files {
			parts = append(parts, fmt.Sprintf("f:%s=%s/%d", name, fh.Filename, fh.Size))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "&"), nil
}

func resolveIdempotenceAuthToken(c *gin.Context) string {
	if token := NormalizeToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if token := NormalizeToken(c.Query("token")); token != "" {
		return token
	}
	if raw, err := c.Cookie("token"); err == nil {
		if token := NormalizeToken(raw); token != "" {
			return token
		}
	}
	return ""
}
