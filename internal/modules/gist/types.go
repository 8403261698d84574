package gist

import (
	"time"

	"github.com/gistify/core/internal/models"
)

// GistPayload is the full gist representation returned by the upload and
// document endpoints, and stored on the task record for later polling.
type GistPayload struct {
	GistID        string              `json:"gistId"`
	TaskID        string              `json:"taskId,omitempty"`
	Title         string              `json:"title"`
	Summary       string              `json:"summary"`
	Advantages    []string            `json:"advantages"`
	Disadvantages []string            `json:"disadvantages"`
	FileURL       string              `json:"fileURL"`
	DocID         string              `json:"docId"`
	ChromaID      string              `json:"chromaId"`
	Date          time.Time           `json:"date"`
	SummaryType   models.SummaryStyle `json:"summaryType"`
}

// recentItem is the enriched listing shape for the dashboard. Summary holds
// at most a short preview; SourceType degrades to "Unknown" when the source
// file cannot be resolved.
type recentItem struct {
	GistID        string     `json:"gistId"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	Advantages    []string   `json:"advantages"`
	Disadvantages []string   `json:"disadvantages"`
	SourceType    string     `json:"sourceType"`
	Date          time.Time  `json:"date"`
	LastVisited   *time.Time `json:"lastVisited"`
}

type historyItem struct {
	GistID      string     `json:"gistId"`
	Title       string     `json:"title"`
	SummaryID   string     `json:"summaryId"`
	Date        time.Time  `json:"date"`
	LastVisited *time.Time `json:"lastVisited"`
}

type ChatDTO struct {
	Question string `json:"question" binding:"required"`
}

type chatResponse struct {
	Answer   string               `json:"answer"`
	Messages []models.ChatMessage `json:"messages"`
}
