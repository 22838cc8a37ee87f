// Package lease реализует анализ договоров аренды: извлечение текста из PDF,
// разбор ключевых условий, пошаговую оценку риска каждого пункта и хранение
// полного отчёта с ограниченным временем жизни.
package lease

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/qiyoga/qiyoga-backend/internal/lib/clauserules"
	"github.com/qiyoga/qiyoga-backend/internal/lib/leaseterms"
	"github.com/qiyoga/qiyoga-backend/internal/lib/sl"
	"github.com/qiyoga/qiyoga-backend/internal/models"
)

var (
	// ErrEmptyDocument — из документа не извлечено ни одного символа текста.
	ErrEmptyDocument = errors.New("document contains no extractable text")
	// ErrInvalidDocument — файл не удалось разобрать как PDF.
	ErrInvalidDocument = errors.New("document is not a valid PDF")
	// ErrAnalysisNotFound — отчёт с таким id не существует или истёк.
	ErrAnalysisNotFound = errors.New("analysis not found")
	// ErrNotOwner — отчёт принадлежит другому пользователю.
	ErrNotOwner = errors.New("analysis belongs to another user")
)

// AnalysisStore хранит полные отчёты по ключу с временем жизни.
type AnalysisStore interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Entitlements проверяет наличие оплаченного доступа.
type Entitlements interface {
	HasAccess(ctx context.Context, email string) (bool, error)
}

// AnalyzeResult ответ на загрузку документа. Clauses уже урезаны до
// бесплатного превью, если у пользователя нет доступа.
type AnalyzeResult struct {
	AnalysisID     string                  `json:"analysis_id"`
	KeyInfo        models.LeaseTerms       `json:"key_info"`
	Clauses        []models.ClauseAnalysis `json:"clauses"`
	TotalClauses   int                     `json:"total_clauses"`
	ShownClauses   int                     `json:"shown_clauses"`
	IsPreview      bool                    `json:"is_preview"`
	PageCount      int                     `json:"page_count"`
	ProcessingTime float64                 `json:"processing_time"`
}

// Service оркестрирует анализ договоров.
type Service struct {
	store        AnalysisStore
	entitlements Entitlements
	log          *slog.Logger
	ttl          time.Duration
	freeClauses  int
	now          func() time.Time
	extract      func(data []byte) (string, int, error)
}

// New создаёт новый Service.
func New(store AnalysisStore, entitlements Entitlements, log *slog.Logger, ttl time.Duration, freeClauses int) *Service {
	return &Service{
		store:        store,
		entitlements: entitlements,
		log:          log,
		ttl:          ttl,
		freeClauses:  freeClauses,
		now:          time.Now,
		extract:      extractText,
	}
}

func analysisKey(id string) string {
	return "analysis:" + id
}

// Analyze извлекает текст из PDF, анализирует договор и сохраняет полный
// отчёт. userID — идентификатор сессии фронтенда, email может быть пустым.
func (s *Service) Analyze(ctx context.Context, userID, email string, data []byte) (*AnalyzeResult, error) {
	const op = "lease.Analyze"

	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))
	started := s.now()

	text, pageCount, err := s.extract(data)
	if err != nil {
		log.Error("failed to parse document", sl.Err(err))
		return nil, ErrInvalidDocument
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	keyInfo := leaseterms.Extract(text)

	var clauses []models.ClauseAnalysis
	for i, clauseText := range clauserules.Split(text) {
		riskLevel, analysis, suggestion := clauserules.Analyze(clauseText)
		clauses = append(clauses, models.ClauseAnalysis{
			ClauseNumber: i + 1,
			ClauseText:   clauseText,
			RiskLevel:    riskLevel,
			Analysis:     analysis,
			Suggestion:   suggestion,
		})
	}

	full := models.LeaseAnalysis{
		AnalysisID:     uuid.NewString(),
		UserID:         userID,
		FullText:       text,
		KeyInfo:        keyInfo,
		Clauses:        clauses,
		PageCount:      pageCount,
		ProcessingTime: s.now().Sub(started).Seconds(),
		CreatedAt:      s.now().UTC(),
	}

	if err = s.store.Set(ctx, analysisKey(full.AnalysisID), full, s.ttl); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entitled := false
	if email != "" {
		entitled, err = s.entitlements.HasAccess(ctx, email)
		if err != nil {
			// Проверка доступа не должна ронять анализ: отдаём превью.
			log.Error("failed to check access, falling back to preview", sl.Err(err))
			entitled = false
		}
	}

	shown := clauses
	if !entitled && len(clauses) > s.freeClauses {
		shown = clauses[:s.freeClauses]
	}

	log.Info("document analyzed",
		slog.String("analysis_id", full.AnalysisID),
		slog.Int("pages", pageCount),
		slog.Int("clauses", len(clauses)),
		slog.Bool("preview", !entitled))

	return &AnalyzeResult{
		AnalysisID:     full.AnalysisID,
		KeyInfo:        keyInfo,
		Clauses:        shown,
		TotalClauses:   len(clauses),
		ShownClauses:   len(shown),
		IsPreview:      !entitled && len(shown) < len(clauses),
		PageCount:      pageCount,
		ProcessingTime: full.ProcessingTime,
	}, nil
}

// FullReport возвращает полный отчёт. Доступен владельцу анализа либо
// пользователю с действующим оплаченным доступом.
func (s *Service) FullReport(ctx context.Context, analysisID, userID, email string) (*models.LeaseAnalysis, error) {
	const op = "lease.FullReport"

	var full models.LeaseAnalysis
	found, err := s.store.Get(ctx, analysisKey(analysisID), &full)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, ErrAnalysisNotFound
	}

	if full.UserID != userID {
		entitled := false
		if email != "" {
			entitled, err = s.entitlements.HasAccess(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		if !entitled {
			return nil, ErrNotOwner
		}
	}

	return &full, nil
}

// QuickAnalyze оценивает один пункт договора без авторизации и хранения.
func (s *Service) QuickAnalyze(clauseText string) models.ClauseAnalysis {
	riskLevel, analysis, suggestion := clauserules.Analyze(clauseText)
	return models.ClauseAnalysis{
		ClauseNumber: 1,
		ClauseText:   clauseText,
		RiskLevel:    riskLevel,
		Analysis:     analysis,
		Suggestion:   suggestion,
	}
}

// extractText достаёт постраничный текст из PDF-документа.
func extractText(data []byte) (string, int, error) {
	const op = "lease.extractText"

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	var sb strings.Builder
	pageCount := reader.NumPage()
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Битая страница не должна ронять весь документ.
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	return sb.String(), pageCount, nil
}
