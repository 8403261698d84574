package gist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gistify/core/internal/models"
	"github.com/gistify/core/internal/modules/storage"
	"github.com/gistify/core/internal/modules/summarize"
	"github.com/gistify/core/internal/modules/task"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrNoContent    = errors.New("no file or text provided")
	ErrGistNotFound = errors.New("gist not found")
	ErrFileNotFound = errors.New("file not found")
)

// IngestInput carries one document into the summarization workflow. Exactly
// one of Payload, Text, or FileID should be set. Title, when present, names
// the resulting gist as-is; otherwise the title derives from the file name.
type IngestInput struct {
	Title       string
	FileName    string
	Payload     []byte
	ContentType string
	Text        string
	FileID      string
	Style       string
}

type Service struct {
	db         *gorm.DB
	store      *storage.Client
	summarizer *summarize.Client
	tasks      *task.Service
	logger     *zap.Logger
}

func NewService(db *gorm.DB, store *storage.Client, summarizer *summarize.Client, tasks *task.Service, logger *zap.Logger) *Service {
	return &Service{
		db:         db,
		store:      store,
		summarizer: summarizer,
		tasks:      tasks,
		logger:     logger.Named("GistService"),
	}
}

// Ingest runs the full workflow for one document: stage the content, call the
// summarizer, persist the summary and gist, and keep the task record in step.
// The style is validated before anything is written.
func (s *Service) Ingest(ctx context.Context, userID string, in IngestInput) (*GistPayload, error) {
	style, err := models.ParseSummaryStyle(in.Style)
	if err != nil {
		return nil, err
	}

	file, passText, err := s.stageContent(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	t, err := s.tasks.Begin(userID, file.Name, style)
	if err != nil {
		return nil, err
	}

	result, err := s.summarizer.Summarize(ctx, summarize.Request{
		DocID:    file.ID,
		FilePath: file.URL,
		FileName: file.Name,
		UserID:   userID,
		Style:    style.TaskName(),
		Text:     passText,
	})
	if err != nil {
		if ferr := s.tasks.Fail(t.ID, err.Error()); ferr != nil {
			s.logger.Error("mark task failed", zap.String("task_id", t.ID), zap.Error(ferr))
		}
		return nil, err
	}

	summary := models.SummaryModel{
		UserID:        userID,
		FileID:        &file.ID,
		FileURL:       file.URL,
		Text:          result.Summary,
		Advantages:    models.StringArray(result.Advantages),
		Disadvantages: models.StringArray(result.Disadvantages),
		ChromaID:      result.ChromaRef(),
		Style:         style,
	}
	if err := s.db.Create(&summary).Error; err != nil {
		if ferr := s.tasks.Fail(t.ID, "failed to persist summary"); ferr != nil {
			s.logger.Error("mark task failed", zap.String("task_id", t.ID), zap.Error(ferr))
		}
		return nil, fmt.Errorf("persist summary: %w", err)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = deriveTitle(file.Name)
	}
	g := models.GistModel{
		UserID:    userID,
		SummaryID: summary.ID,
		Title:     title,
	}
	if err := s.db.Create(&g).Error; err != nil {
		if ferr := s.tasks.Fail(t.ID, "failed to persist gist"); ferr != nil {
			s.logger.Error("mark task failed", zap.String("task_id", t.ID), zap.Error(ferr))
		}
		return nil, fmt.Errorf("persist gist: %w", err)
	}

	payload := buildPayload(&g, &summary)
	payload.TaskID = t.ID
	if err := s.tasks.Complete(t.ID, payload); err != nil {
		s.logger.Error("mark task completed", zap.String("task_id", t.ID), zap.Error(err))
	}
	return payload, nil
}

// stageContent gets the document content into object storage and returns the
// file row to summarize, plus any raw text worth passing upstream directly.
func (s *Service) stageContent(ctx context.Context, userID string, in IngestInput) (*models.FileModel, string, error) {
	switch {
	case in.FileID != "":
		var file models.FileModel
		err := s.db.First(&file, "id = ? AND user_id = ?", in.FileID, userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", ErrFileNotFound
			}
			return nil, "", err
		}
		return &file, "", nil

	case len(in.Payload) > 0:
		key := storage.BuildObjectKey("uploads", in.FileName)
		url, key, err := s.store.Upload(ctx, key, bytes.NewReader(in.Payload), in.ContentType)
		if err != nil {
			return nil, "", fmt.Errorf("stage upload: %w", err)
		}
		file := models.FileModel{
			UserID:     userID,
			Name:       in.FileName,
			URL:        url,
			StorageKey: key,
			Size:       int64(len(in.Payload)),
			MIME:       in.ContentType,
		}
		if err := s.db.Create(&file).Error; err != nil {
			return nil, "", err
		}
		return &file, "", nil

	case in.Text != "":
		name := in.FileName
		if name == "" {
			name = strings.TrimSpace(in.Title)
		}
		if name == "" {
			name = fmt.Sprintf("text-%d.txt", time.Now().UnixMilli())
		}
		url, key, err := s.store.UploadText(ctx, name, in.Text)
		if err != nil {
			return nil, "", fmt.Errorf("stage text: %w", err)
		}
		file := models.FileModel{
			UserID:     userID,
			Name:       name,
			URL:        url,
			StorageKey: key,
			Size:       int64(len(in.Text)),
			MIME:       "text/plain",
		}
		if err := s.db.Create(&file).Error; err != nil {
			return nil, "", err
		}
		return &file, in.Text, nil

	default:
		return nil, "", ErrNoContent
	}
}

// Recent returns the user's three newest gists by creation time with short
// summary previews. Visiting an old gist must not promote it into this
// window. Preview loading fans out but a failed item degrades to an empty
// preview instead of failing the listing.
func (s *Service) Recent(ctx context.Context, userID string) ([]recentItem, error) {
	var gists []models.GistModel
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(3).
		Find(&gists).Error
	if err != nil {
		return nil, err
	}

	items := make([]recentItem, len(gists))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(3)
	for i := range gists {
		i := i
		eg.Go(func() error {
			g := &gists[i]
			items[i] = recentItem{
				GistID:      g.ID,
				Title:       g.Title,
				SourceType:  "Unknown",
				Date:        g.CreatedAt,
				LastVisited: g.LastVisited,
			}
			var summary models.SummaryModel
			if err := s.db.WithContext(ctx).First(&summary, "id = ?", g.SummaryID).Error; err != nil {
				// Degraded item: title and dates survive, the rest stays empty.
				s.logger.Warn("load summary preview", zap.String("gist_id", g.ID), zap.Error(err))
				return nil
			}
			items[i].Summary = previewText(summary.Text, recentPreviewLen)
			items[i].Advantages = summary.Advantages
			items[i].Disadvantages = summary.Disadvantages
			if summary.FileID != nil {
				var file models.FileModel
				if err := s.db.WithContext(ctx).Select("mime").First(&file, "id = ?", *summary.FileID).Error; err == nil && file.MIME != "" {
					items[i].SourceType = file.MIME
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// Document loads one gist with its full summary and stamps the visit.
func (s *Service) Document(userID, id string) (*GistPayload, []models.ChatMessage, error) {
	g, summary, err := s.loadOwned(userID, id)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.db.Model(g).Update("last_visited", now).Error; err != nil {
		s.logger.Warn("stamp last visited", zap.String("gist_id", g.ID), zap.Error(err))
	}

	return buildPayload(g, summary), g.Messages, nil
}

// History lists every gist the user has, newest first, without previews.
func (s *Service) History(userID string) ([]historyItem, error) {
	var gists []models.GistModel
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&gists).Error
	if err != nil {
		return nil, err
	}

	items := make([]historyItem, len(gists))
	for i, g := range gists {
		items[i] = historyItem{
			GistID:      g.ID,
			Title:       g.Title,
			SummaryID:   g.SummaryID,
			Date:        g.CreatedAt,
			LastVisited: g.LastVisited,
		}
	}
	return items, nil
}

// Chat asks a follow-up question about the gist's document and appends the
// exchange to the stored transcript.
func (s *Service) Chat(ctx context.Context, userID, id, question string) (*chatResponse, error) {
	g, summary, err := s.loadOwned(userID, id)
	if err != nil {
		return nil, err
	}

	answer, err := s.summarizer.Ask(ctx, summary.ChromaID, question)
	if err != nil {
		return nil, err
	}

	g.Messages = append(g.Messages, models.ChatMessage{
		UserQuery:  question,
		AIResponse: answer,
		CreatedAt:  time.Now(),
	})
	if err := s.db.Model(g).Update("messages", g.Messages).Error; err != nil {
		return nil, fmt.Errorf("persist chat transcript: %w", err)
	}

	return &chatResponse{Answer: answer, Messages: g.Messages}, nil
}

func (s *Service) loadOwned(userID, id string) (*models.GistModel, *models.SummaryModel, error) {
	var g models.GistModel
	err := s.db.First(&g, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrGistNotFound
		}
		return nil, nil, err
	}

	var summary models.SummaryModel
	if err := s.db.First(&summary, "id = ?", g.SummaryID).Error; err != nil {
		return nil, nil, fmt.Errorf("load summary for gist %s: %w", g.ID, err)
	}
	return &g, &summary, nil
}

func buildPayload(g *models.GistModel, summary *models.SummaryModel) *GistPayload {
	docID := ""
	if summary.FileID != nil {
		docID = *summary.FileID
	}
	return &GistPayload{
		GistID:        g.ID,
		Title:         g.Title,
		Summary:       summary.Text,
		Advantages:    summary.Advantages,
		Disadvantages: summary.Disadvantages,
		FileURL:       summary.FileURL,
		DocID:         docID,
		ChromaID:      summary.ChromaID,
		Date:          g.CreatedAt,
		SummaryType:   summary.Style,
	}
}
