// Package content generates horoscope text from real astronomical data.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meuhoroscopo/backend/internal/astronomy"
	"github.com/meuhoroscopo/backend/internal/llm"
	"github.com/meuhoroscopo/backend/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	// ErrInvalidCategory is returned before any I/O for an unknown
	// category key.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrGenerationFailed is returned when the text API produced no
	// content.
	ErrGenerationFailed = errors.New("generation failed")
)

const (
	maxTokens   = 100
	temperature = 0.7
)

// PositionsFetcher supplies planetary positions for a calendar day.
type PositionsFetcher interface {
	FetchPositions(ctx context.Context, date string) (*astronomy.PositionsPayload, error)
}

// ChatClient submits a prompt to the text-generation API.
type ChatClient interface {
	Chat(ctx context.Context, req llm.ChatRequest) (string, error)
}

// Generator creates horoscope text for a (date, sign, category) key.
type Generator struct {
	positions PositionsFetcher
	llm       ChatClient
}

// NewGenerator creates a new content generator.
func NewGenerator(positions PositionsFetcher, chat ChatClient) *Generator {
	return &Generator{positions: positions, llm: chat}
}

// Generate produces the horoscope text for signNamePt on date (YYYY-MM-DD),
// scoped to category ("geral" for the unfiltered horoscope).
func (g *Generator) Generate(ctx context.Context, date, signNamePt, categoryName string) (string, error) {
	category := models.CategoryByName(strings.ToLower(categoryName))
	if category == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidCategory, categoryName)
	}

	payload, err := g.positions.FetchPositions(ctx, date)
	if err != nil {
		return "", fmt.Errorf("failed to fetch positions: %w", err)
	}

	transits := TransitPhrases(payload)
	prompt := BuildPrompt(signNamePt, category, transits)

	log.Debug().
		Str("sign", signNamePt).
		Str("category", category.Name).
		Int("transits", len(transits)).
		Msg("Generating horoscope")

	text, err := g.llm.Chat(ctx, llm.ChatRequest{
		SystemPrompt: SystemPrompt,
		UserPrompt:   prompt,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}
	if text == "" {
		return "", ErrGenerationFailed
	}

	log.Info().
		Str("sign", signNamePt).
		Str("category", category.Name).
		Str("date", date).
		Msg("Horoscope generated")

	return text, nil
}
