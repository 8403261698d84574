package middleware

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func multipartRequest(t *testing.T, fields map[string]string, fileField, fileName, fileBody string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write([]byte(fileBody)); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/gists/upload", bytes.NewReader(buf.Bytes()))
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func keyFor(t *testing.T, req *http.Request) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	key, err := resolveIdempotenceKey(c)
	if err != nil {
		t.Fatalf("resolve key: %v", err)
	}
	return key
}

func TestMultipartKeyStableAcrossBoundaries(t *testing.T) {
	fields := map[string]string{"summary_type": "concise", "file_name": "Report"}

	// Each writer picks a fresh random boundary, so the raw bodies differ.
	a := keyFor(t, multipartRequest(t, fields, "file", "report.pdf", "pdf bytes"))
	b := keyFor(t, multipartRequest(t, fields, "file", "report.pdf", "pdf bytes"))

	if a == "" || b == "" {
		t.Fatal("expected derived keys")
	}
	if a != b {
		t.Fatalf("resubmitted form produced different keys: %q vs %q", a, b)
	}
}

func TestMultipartKeyChangesWithContent(t *testing.T) {
	a := keyFor(t, multipartRequest(t, map[string]string{"summary_type": "concise"}, "file", "report.pdf", "pdf bytes"))
	b := keyFor(t, multipartRequest(t, map[string]string{"summary_type": "analytical"}, "file", "report.pdf", "pdf bytes"))
	c := keyFor(t, multipartRequest(t, map[string]string{"summary_type": "concise"}, "file", "other.pdf", "pdf bytes"))

	if a == b {
		t.Fatal("different field values must not share a key")
	}
	if a == c {
		t.Fatal("different file names must not share a key")
	}
}

func TestExplicitHeaderPinsKey(t *testing.T) {
	req := multipartRequest(t, map[string]string{"summary_type": "concise"}, "", "", "")
	req.Header.Set(idempotenceHeader, "client-chosen")
	if key := keyFor(t, req); key != "client-chosen" {
		t.Fatalf("key = %q", key)
	}
}

func TestAuthRoutesSkipIdempotence(t *testing.T) {
	if !shouldSkipIdempotence(http.MethodPost, "/api/auth/login") {
		t.Fatal("login must be repeatable")
	}
	if !shouldSkipIdempotence(http.MethodPost, "/api/auth/signup/") {
		t.Fatal("signup must be repeatable")
	}
	if shouldSkipIdempotence(http.MethodPost, "/api/gists/upload") {
		t.Fatal("uploads must be protected")
	}
}
