// Backfill tool - generates horoscope content for a date range ahead of
// time, optionally including category texts.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/meuhoroscopo/backend/internal/astronomy"
	"github.com/meuhoroscopo/backend/internal/config"
	"github.com/meuhoroscopo/backend/internal/content"
	"github.com/meuhoroscopo/backend/internal/horoscope"
	"github.com/meuhoroscopo/backend/internal/llm"
	"github.com/meuhoroscopo/backend/internal/models"
	"github.com/meuhoroscopo/backend/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		from       = flag.String("from", "", "start date (YYYY-MM-DD), defaults to today")
		to         = flag.String("to", "", "end date (YYYY-MM-DD), defaults to -from")
		categories = flag.String("categories", "", "comma-separated category names, or 'all'")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer store.Close()

	astroClient := astronomy.NewClient(astronomy.Config{
		AppID:     cfg.AstroAppID,
		AppSecret: cfg.AstroAppSecret,
		BaseURL:   cfg.AstroBaseURL,
		Cache:     astronomy.NewCache(cfg.AstroCacheTTL, cfg.AstroCacheSize),
	})
	llmClient := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})
	service := horoscope.NewService(store, content.NewGenerator(astroClient, llmClient))

	start := service.Today()
	if *from != "" {
		start = *from
	}
	end := start
	if *to != "" {
		end = *to
	}

	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		log.Fatal().Str("from", start).Msg("Invalid start date, expected YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		log.Fatal().Str("to", end).Msg("Invalid end date, expected YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		log.Fatal().Str("from", start).Str("to", end).Msg("End date before start date")
	}

	categoryNames := parseCategories(*categories)

	generated := 0
	failed := 0
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")

		for _, sign := range models.Signs {
			if _, err := service.Daily(ctx, sign.Slug, date); err != nil {
				failed++
				log.Error().Err(err).Str("sign", sign.Slug).Str("date", date).Msg("Backfill failed")
				continue
			}
			generated++
			log.Info().Str("sign", sign.Slug).Str("date", date).Msg("Backfilled")

			for _, categoryName := range categoryNames {
				if _, err := service.Category(ctx, sign.Slug, categoryName, date); err != nil {
					failed++
					log.Error().Err(err).
						Str("sign", sign.Slug).
						Str("category", categoryName).
						Str("date", date).
						Msg("Category backfill failed")
					continue
				}
				generated++
				log.Info().Str("sign", sign.Slug).Str("category", categoryName).Str("date", date).Msg("Backfilled")
			}
		}
	}

	log.Info().Int("generated", generated).Int("failed", failed).Msg("Backfill completed")
	if failed > 0 {
		os.Exit(1)
	}
}

// parseCategories expands the -categories flag into category names,
// skipping "geral" since the general text is always generated.
func parseCategories(raw string) []string {
	if raw == "" {
		return nil
	}

	var names []string
	if raw == "all" {
		for _, category := range models.Categories {
			if category.Name != models.CategoryGeral {
				names = append(names, category.Name)
			}
		}
		return names
	}

	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" || name == models.CategoryGeral {
			continue
		}
		if models.CategoryByName(name) == nil {
			log.Warn().Str("category", name).Msg("Unknown category, skipping")
			continue
		}
		names = append(names, name)
	}
	return names
}
