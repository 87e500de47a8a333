// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, orchestrates, enforces rules
//	Repository (Data layer)  → reads/writes to the database
//
// The generation flow lives here and runs strictly in sequence:
//
//	validate → build instruction → call provider → sanitize → persist
//
// Failure at any step aborts the flow immediately — there are no retries, and
// nothing is written to storage until sanitization has produced usable code.
// The service depends only on interfaces (repository.GenerationRepository,
// provider.Generator), so tests inject in-memory fakes for both.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mhasan/codepilot/internal/apperror"
	"github.com/mhasan/codepilot/internal/model"
	"github.com/mhasan/codepilot/internal/provider"
	"github.com/mhasan/codepilot/internal/repository"
)

// Validation and pagination constants. The length bounds apply to the trimmed
// input, counted in runes.
const (
	MinPromptLength   = 2
	MaxPromptLength   = 5000
	MinLanguageLength = 1
	MaxLanguageLength = 5000
	HistoryPageSize   = 5
)

// GenerationService orchestrates the prompt → provider → storage flow.
type GenerationService struct {
	generations repository.GenerationRepository
	gen         provider.Generator
	logger      *slog.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(generations repository.GenerationRepository, gen provider.Generator, logger *slog.Logger) *GenerationService {
	return &GenerationService{
		generations: generations,
		gen:         gen,
		logger:      logger,
	}
}

// ParseUserID validates the loose userId forms the API tolerates.
//
// The frontend sends userId as a JSON number in the generate body but as a
// string in the history query — and decoding JSON into `any` yields float64
// for numbers. All three forms funnel through here and must resolve to a
// positive integer; anything else is a validation failure.
func ParseUserID(raw any) (int64, error) {
	var id int64

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, apperror.ValidationFailed("userId", "Invalid userId")
		}
		id = int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, apperror.ValidationFailed("userId", "Invalid userId")
		}
		id = n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, apperror.ValidationFailed("userId", "Invalid userId")
		}
		id = n
	default:
		return 0, apperror.ValidationFailed("userId", "Invalid userId")
	}

	if id <= 0 {
		return 0, apperror.ValidationFailed("userId", "Invalid userId")
	}
	return id, nil
}

// BuildInstruction constructs the instruction sent to the generation provider.
// Pure string formatting — same inputs always yield the same instruction. The
// three rules tell the model to answer with bare source code so the sanitizer
// has as little as possible to strip.
func BuildInstruction(prompt, language string) string {
	return fmt.Sprintf(`You are an expert %s developer.
Task: Write a %s script to: %s.
Rules:
1. Return ONLY code. No explanations.
2. No markdown backticks.
3. Include necessary imports.`, language, language, prompt)
}

// fenceRe matches a triple-backtick fence with an optional language tag and
// trailing newline. Zero letters also matches, so the same pattern removes
// opening fences like "```python\n" and bare closing "```".
var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n?")

// SanitizeCode strips markdown code-fence delimiters from a completion and
// trims surrounding whitespace. Idempotent: sanitizing already-clean text
// returns it unchanged.
func SanitizeCode(raw string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
}

// Generate runs the full generation flow for an already-parsed user id.
//
// SEQUENCING:
// Exactly one outbound provider call, and on success exactly one database
// write, awaited one after the other. The record is only inserted after
// sanitization succeeds — an earlier failure leaves no trace in storage.
func (s *GenerationService) Generate(ctx context.Context, userID int64, prompt, language string) (*model.Generation, error) {
	prompt = strings.TrimSpace(prompt)
	language = strings.TrimSpace(language)

	if n := utf8.RuneCountInString(prompt); n < MinPromptLength || n > MaxPromptLength {
		return nil, apperror.ValidationFailed("prompt", "Prompt is too short")
	}
	if n := utf8.RuneCountInString(language); n < MinLanguageLength || n > MaxLanguageLength {
		return nil, apperror.ValidationFailed("language", "Language is invalid")
	}

	instruction := BuildInstruction(prompt, language)

	text, err := s.gen.Generate(ctx, instruction)
	if err != nil {
		s.logger.Error("provider call failed",
			slog.Int64("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if text == "" {
		s.logger.Error("provider returned empty completion", slog.Int64("userId", userID))
		return nil, apperror.EmptyGeneration("empty response from model")
	}

	code := SanitizeCode(text)
	if code == "" {
		s.logger.Error("completion was only fences and whitespace", slog.Int64("userId", userID))
		return nil, apperror.EmptyGeneration("model returned no usable code")
	}

	gen := &model.Generation{
		UserID:   userID,
		Prompt:   prompt,
		Language: language,
		Code:     code,
	}
	if err := s.generations.Create(ctx, gen); err != nil {
		s.logger.Error("failed to store generation",
			slog.Int64("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("storing generation: %w", err)
	}

	s.logger.Info("generation stored",
		slog.Int64("id", gen.ID),
		slog.Int64("userId", userID),
		slog.String("language", language),
	)

	return gen, nil
}

// HistoryPage is one page of a user's stored generations plus the pagination
// bookkeeping the frontend renders. The field order and names are the wire
// shape of GET /api/history.
type HistoryPage struct {
	History     []model.Generation `json:"history"`
	TotalPages  int                `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
	TotalCount  int                `json:"totalCount"`
}

// History returns page `page` (1-based, clamped to minimum 1) of the user's
// generations, newest first, with a fixed page size of HistoryPageSize.
//
// The count and the page are two independent queries with no shared snapshot;
// under concurrent writes totalPages can briefly disagree with the page
// contents, which is accepted for this read path.
func (s *GenerationService) History(ctx context.Context, userID int64, page int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.generations.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count generations",
			slog.Int64("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("counting generations: %w", err)
	}

	items, err := s.generations.ListByUser(ctx, userID, repository.ListOptions{
		Limit:  HistoryPageSize,
		Offset: (page - 1) * HistoryPageSize,
	})
	if err != nil {
		s.logger.Error("failed to list generations",
			slog.Int64("userId", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing generations: %w", err)
	}

	return &HistoryPage{
		History:     items,
		TotalPages:  (total + HistoryPageSize - 1) / HistoryPageSize,
		CurrentPage: page,
		TotalCount:  total,
	}, nil
}
