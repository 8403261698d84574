package summarize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Request carries everything the summarizer needs to produce a gist for one
// document. Text is optional; when present the upstream indexes it directly
// instead of fetching FilePath.
type Request struct {
	DocID    string
	FilePath string
	FileName string
	UserID   string
	Style    string
	Text     string
}

// Result is the summarizer's answer, normalized. Advantages and
// disadvantages arrive either as arrays or as single strings depending on
// upstream version; both decode into slices here.
type Result struct {
	Summary       string     `json:"summary"`
	Advantages    stringList `json:"advantages"`
	Disadvantages stringList `json:"disadvantages"`
	DocID         string     `json:"doc_id"`
	ChromaID      string     `json:"chromaId"`
	Source        string     `json:"source"`
}

// ChromaRef returns the vector-store reference, whichever field carried it.
func (r *Result) ChromaRef() string {
	if r.ChromaID != "" {
		return r.ChromaID
	}
	return r.DocID
}

// UpstreamError reports a non-2xx answer from the summarizer with enough
// detail to forward the status downstream.
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("summarizer returned status %d", e.Status)
	}
	return fmt.Sprintf("summarizer returned status %d: %s", e.Status, e.Detail)
}

// stringList accepts both a JSON array of strings and a bare string.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*s = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*s = arr
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*s = nil
		return nil
	}
	*s = []string{single}
	return nil
}
