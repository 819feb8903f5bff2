// Package horoscope implements the content lifecycle: serve persisted
// horoscope text for a (sign, date, category) key, generating and persisting
// it on first request.
package horoscope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meuhoroscopo/backend/internal/models"
	"github.com/meuhoroscopo/backend/internal/storage"
	"github.com/rs/zerolog/log"
)

var (
	// ErrSignNotFound is returned for an unrecognized sign identifier.
	ErrSignNotFound = errors.New("sign not found")

	// ErrCategoryNotFound is returned for an unknown category key.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrContentNotFound is returned when voting on content that has not
	// been generated yet.
	ErrContentNotFound = errors.New("horoscope content not found")

	// ErrCategoryContentNotFound is returned when voting on a category
	// whose text has not been generated yet.
	ErrCategoryContentNotFound = errors.New("category content not found")
)

const previewLength = 30

// ContentStore is the persistence surface the service needs.
type ContentStore interface {
	GetDailyContent(ctx context.Context, signID int, effectiveDate string) (*models.HoroscopeContent, error)
	GetDailyPreviews(ctx context.Context, effectiveDate string) (map[int]string, error)
	InsertDailyContent(ctx context.Context, content *models.HoroscopeContent) (int64, error)
	GetCategoryContent(ctx context.Context, signID, categoryID int, effectiveDate string) (*models.CategoryContent, error)
	InsertCategoryContent(ctx context.Context, content *models.CategoryContent) error
	InsertDailyWithCategory(ctx context.Context, content *models.HoroscopeContent, categoryID int, categoryText string) (int64, error)
	GetVote(ctx context.Context, contentID int64, userID string) (*models.Vote, error)
	GetCategoryVote(ctx context.Context, contentID int64, categoryID int, userID string) (*models.Vote, error)
	UpsertVote(ctx context.Context, contentID int64, userID string, rating bool) error
	UpsertCategoryVote(ctx context.Context, contentID int64, categoryID int, userID string, rating bool) error
}

// TextGenerator produces horoscope text for a (date, sign, category) key.
type TextGenerator interface {
	Generate(ctx context.Context, date, signNamePt, categoryName string) (string, error)
}

// Service serves horoscope content, generating and persisting on miss.
type Service struct {
	store     ContentStore
	generator TextGenerator
	location  *time.Location
}

// NewService creates the horoscope service. Effective dates are calendar
// days in São Paulo time.
func NewService(store ContentStore, generator TextGenerator) *Service {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// São Paulo has no DST since 2019; a fixed offset is equivalent.
		loc = time.FixedZone("America/Sao_Paulo", -3*60*60)
	}
	return &Service{store: store, generator: generator, location: loc}
}

// Today returns today's effective date (YYYY-MM-DD, São Paulo).
func (s *Service) Today() string {
	return time.Now().In(s.location).Format("2006-01-02")
}

// DailyResult is the payload for a general daily horoscope request.
type DailyResult struct {
	Text       string                  `json:"text"`
	Sign       string                  `json:"sign"`
	SignID     int                     `json:"signId"`
	DateRange  string                  `json:"dateRange"`
	Navigation []models.SignNavigation `json:"signosNavigation"`
	Date       string                  `json:"today"`
}

// CategoryResult is the payload for a category horoscope request.
type CategoryResult struct {
	DailyResult
	Category   string `json:"category"`
	CategoryID int    `json:"categoryId"`
}

// Daily returns the general horoscope for (sign, date), generating and
// persisting it on a miss.
func (s *Service) Daily(ctx context.Context, signSlug, date string) (*DailyResult, error) {
	sign := models.SignBySlug(models.NormalizeSlug(signSlug))
	if sign == nil {
		return nil, fmt.Errorf("%w: %s", ErrSignNotFound, signSlug)
	}

	result := &DailyResult{
		Sign:       sign.NamePt,
		SignID:     sign.ID,
		DateRange:  formatDateRange(sign),
		Navigation: SignNavigation(),
		Date:       date,
	}

	content, err := s.store.GetDailyContent(ctx, sign.ID, date)
	switch {
	case err == nil:
		result.Text = content.FullText
		return result, nil
	case errors.Is(err, storage.ErrNotFound):
		// fall through to generation
	default:
		return nil, err
	}

	text, err := s.generator.Generate(ctx, date, sign.NamePt, models.CategoryGeral)
	if err != nil {
		return nil, err
	}

	_, err = s.store.InsertDailyContent(ctx, &models.HoroscopeContent{
		SignID:        sign.ID,
		TypeID:        models.TypeDaily,
		EffectiveDate: date,
		PreviewText:   preview(text),
		FullText:      text,
	})
	if errors.Is(err, storage.ErrDuplicate) {
		// A concurrent request persisted first; its row is the truth.
		winner, readErr := s.store.GetDailyContent(ctx, sign.ID, date)
		if readErr != nil {
			return nil, readErr
		}
		log.Debug().Str("sign", sign.Slug).Str("date", date).Msg("Lost insert race, returning persisted row")
		result.Text = winner.FullText
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.Text = text
	return result, nil
}

// Category returns the category horoscope for (sign, category, date). On a
// miss it generates the category text, creating the parent general row
// first when that is also missing. Both rows go in one transaction, so a
// category row never points at a nonexistent parent.
func (s *Service) Category(ctx context.Context, signSlug, categoryName, date string) (*CategoryResult, error) {
	sign := models.SignBySlug(models.NormalizeSlug(signSlug))
	if sign == nil {
		return nil, fmt.Errorf("%w: %s", ErrSignNotFound, signSlug)
	}
	category := models.CategoryByName(models.NormalizeSlug(categoryName))
	if category == nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryName)
	}

	result := &CategoryResult{
		DailyResult: DailyResult{
			Sign:       sign.NamePt,
			SignID:     sign.ID,
			DateRange:  formatDateRange(sign),
			Navigation: SignNavigation(),
			Date:       date,
		},
		Category:   category.DisplayNamePt,
		CategoryID: category.ID,
	}

	existing, err := s.store.GetCategoryContent(ctx, sign.ID, category.ID, date)
	switch {
	case err == nil:
		result.Text = existing.ContentText
		return result, nil
	case errors.Is(err, storage.ErrNotFound):
		// fall through to generation
	default:
		return nil, err
	}

	categoryText, err := s.generator.Generate(ctx, date, sign.NamePt, category.Name)
	if err != nil {
		return nil, err
	}

	text, err := s.persistCategoryText(ctx, sign, category, date, categoryText)
	if err != nil {
		return nil, err
	}
	result.Text = text
	return result, nil
}

// persistCategoryText stores categoryText under the general row for
// (sign, date), creating that row first when missing. Uniqueness-constraint
// collisions mean a concurrent request got there first; the persisted text
// wins.
func (s *Service) persistCategoryText(ctx context.Context, sign *models.Sign, category *models.Category, date, categoryText string) (string, error) {
	general, err := s.store.GetDailyContent(ctx, sign.ID, date)

	if errors.Is(err, storage.ErrNotFound) {
		generalText, genErr := s.generator.Generate(ctx, date, sign.NamePt, models.CategoryGeral)
		if genErr != nil {
			return "", genErr
		}

		_, err = s.store.InsertDailyWithCategory(ctx, &models.HoroscopeContent{
			SignID:        sign.ID,
			TypeID:        models.TypeDaily,
			EffectiveDate: date,
			PreviewText:   preview(generalText),
			FullText:      generalText,
		}, category.ID, categoryText)
		if err == nil {
			return categoryText, nil
		}
		if !errors.Is(err, storage.ErrDuplicate) {
			return "", err
		}

		// The general row appeared concurrently. Re-read and fall through
		// to the parent-present path.
		general, err = s.store.GetDailyContent(ctx, sign.ID, date)
	}
	if err != nil {
		return "", err
	}

	insertErr := s.store.InsertCategoryContent(ctx, &models.CategoryContent{
		HoroscopeContentID: general.ID,
		CategoryID:         category.ID,
		ContentText:        categoryText,
	})
	if errors.Is(insertErr, storage.ErrDuplicate) {
		winner, readErr := s.store.GetCategoryContent(ctx, sign.ID, category.ID, date)
		if readErr != nil {
			return "", readErr
		}
		log.Debug().
			Str("sign", sign.Slug).
			Str("category", category.Name).
			Str("date", date).
			Msg("Lost category insert race, returning persisted row")
		return winner.ContentText, nil
	}
	if insertErr != nil {
		return "", insertErr
	}
	return categoryText, nil
}

// previewPlaceholder is shown for signs whose content for the day has not
// been generated yet.
const previewPlaceholder = "Clique para ver o horóscopo"

// SignsWithPreviews returns the per-sign navigation entries enriched with
// the day's preview text, or the placeholder where no content exists yet.
func (s *Service) SignsWithPreviews(ctx context.Context, date string) ([]models.SignNavigation, error) {
	previews, err := s.store.GetDailyPreviews(ctx, date)
	if err != nil {
		return nil, err
	}

	nav := SignNavigation()
	for i := range nav {
		if preview, ok := previews[models.Signs[i].ID]; ok && preview != "" {
			nav[i].PreviewText = preview
		} else {
			nav[i].PreviewText = previewPlaceholder
		}
	}
	return nav, nil
}

// SignNavigation returns the per-sign entries for the sign switcher.
func SignNavigation() []models.SignNavigation {
	nav := make([]models.SignNavigation, len(models.Signs))
	for i, sign := range models.Signs {
		nav[i] = models.SignNavigation{
			Chave:     sign.Slug,
			Nome:      sign.NamePt,
			Emoji:     sign.Emoji,
			DateRange: formatDateRange(&models.Signs[i]),
		}
	}
	return nav
}

// formatDateRange renders a sign's MM-DD bounds as "DD/MM a DD/MM".
func formatDateRange(sign *models.Sign) string {
	return formatDayMonth(sign.StartDate) + " a " + formatDayMonth(sign.EndDate)
}

func formatDayMonth(monthDay string) string {
	if len(monthDay) != 5 {
		return monthDay
	}
	return monthDay[3:] + "/" + monthDay[:2]
}

// preview returns the first 30 characters of text, rune-safe.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength])
}
