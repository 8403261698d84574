package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gistify/core/internal/config"
	"go.uber.org/zap"
)

// Client talks to the external summarization service. The service owns the
// RAG pipeline end to end; this side only ships document references and
// receives finished gists, never intermediate artifacts.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(cfg config.SummarizerConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("Summarizer"),
	}
}

// Summarize posts one document to the upstream and returns the parsed gist.
// Non-2xx answers come back as *UpstreamError so callers can forward the
// status.
func (c *Client) Summarize(ctx context.Context, req Request) (*Result, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{
		"doc_id":       req.DocID,
		"file_path":    req.FilePath,
		"file_name":    req.FileName,
		"user_id":      req.UserID,
		"summary_type": req.Style,
	}
	if req.Text != "" {
		fields["text"] = req.Text
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("encode summarize request: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encode summarize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/summarize", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call summarizer: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read summarizer response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Status: resp.StatusCode, Detail: upstreamDetail(payload)}
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode summarizer response: %w", err)
	}
	return &result, nil
}

// Ask sends a follow-up question about a previously summarized document.
func (c *Client) Ask(ctx context.Context, docID, question string) (string, error) {
	reqBody, err := json.Marshal(map[string]string{
		"doc_id":   docID,
		"question": question,
	})
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call summarizer: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read summarizer response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{Status: resp.StatusCode, Detail: upstreamDetail(payload)}
	}

	var parsed struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("decode summarizer response: %w", err)
	}
	return parsed.Answer, nil
}

// upstreamDetail digs a human-readable message out of an error payload.
func upstreamDetail(payload []byte) string {
	var parsed struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(payload, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Detail != "" {
			return parsed.Detail
		}
	}
	s := strings.TrimSpace(string(payload))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
