package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStyle marks a summary style outside the supported set.
var ErrUnknownStyle = errors.New("unknown summary style")

// SummaryStyle is the requested flavor of a summary.
type SummaryStyle string

const (
	StyleConcise       SummaryStyle = "concise"
	StyleAnalytical    SummaryStyle = "analytical"
	StyleComprehensive SummaryStyle = "comprehensive"
)

// summaryTaskNames is the single place mapping a style to the task string the
// summarization service expects.
var summaryTaskNames = map[SummaryStyle]string{
	StyleConcise:       "summary_concise",
	StyleAnalytical:    "summary_analytical",
	StyleComprehensive: "summary_comprehensive",
}

// ParseSummaryStyle validates a raw style string. It accepts both the public
// form ("concise") and the task form ("summary_concise").
func ParseSummaryStyle(raw string) (SummaryStyle, error) {
	s := SummaryStyle(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := summaryTaskNames[s]; ok {
		return s, nil
	}
	for style, task := range summaryTaskNames {
		if string(s) == task {
			return style, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStyle, raw)
}

// TaskName returns the wire form sent to the summarization service.
func (s SummaryStyle) TaskName() string {
	if task, ok := summaryTaskNames[s]; ok {
		return task
	}
	return string(s)
}

func (s SummaryStyle) String() string { return string(s) }

// SummaryModel is the stored output of summarizing one file or text blob.
// Rows are written exclusively by this backend and never updated afterwards.
type SummaryModel struct {
	Base
	UserID        string       `json:"userId"        gorm:"index;not null"`
	FileID        *string      `json:"fileId"        gorm:"index"`
	FileURL       string       `json:"fileUrl"`
	Text          string       `json:"summary"       gorm:"type:text;not null"`
	Advantages    StringArray  `json:"advantages"    gorm:"type:json"`
	Disadvantages StringArray  `json:"disadvantages" gorm:"type:json"`
	ChromaID      string       `json:"chromaId"      gorm:"index"` // content-index id in the RAG store
	Style         SummaryStyle `json:"summaryType"   gorm:"type:varchar(32);not null"`
}

func (SummaryModel) TableName() string { return "summaries" }
