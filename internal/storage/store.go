// Package storage provides Postgres persistence for Meu Horoscopo.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meuhoroscopo/backend/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert hits a uniqueness
	// constraint. Callers on the generation path treat it as "someone
	// else won the race" and re-read.
	ErrDuplicate = errors.New("duplicate row")
)

// Store provides access to all horoscope tables.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres, creates the schema if needed and seeds the
// reference data (signs, types, categories).
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{pool: pool}

	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := store.seedReferenceData(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	log.Info().Msg("Connected to Postgres")
	return store, nil
}

// NewStoreWithPool wraps an existing pool without running schema setup.
func NewStoreWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS signs (
	id            INTEGER PRIMARY KEY,
	slug          TEXT NOT NULL UNIQUE,
	name_en       TEXT NOT NULL UNIQUE,
	name_pt       TEXT NOT NULL,
	emoji         TEXT NOT NULL,
	start_date    TEXT NOT NULL,
	end_date      TEXT NOT NULL,
	element       TEXT NOT NULL,
	modality      TEXT NOT NULL,
	ruling_planet TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS horoscope_types (
	id                   INTEGER PRIMARY KEY,
	type                 TEXT NOT NULL UNIQUE,
	display_name_pt      TEXT NOT NULL,
	cache_duration_hours INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS horoscope_categories (
	id              INTEGER PRIMARY KEY,
	name            TEXT NOT NULL UNIQUE,
	display_name_pt TEXT NOT NULL,
	icon            TEXT
);

CREATE TABLE IF NOT EXISTS horoscope_content (
	id             BIGSERIAL PRIMARY KEY,
	sign_id        INTEGER NOT NULL REFERENCES signs(id) ON DELETE CASCADE,
	type_id        INTEGER NOT NULL REFERENCES horoscope_types(id) ON DELETE CASCADE,
	effective_date TEXT NOT NULL,
	preview_text   TEXT NOT NULL,
	full_text      TEXT NOT NULL,
	is_active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT unique_sign_type_date UNIQUE (sign_id, type_id, effective_date)
);
CREATE INDEX IF NOT EXISTS idx_horoscope_content_date ON horoscope_content (effective_date);
CREATE INDEX IF NOT EXISTS idx_horoscope_content_sign ON horoscope_content (sign_id);

CREATE TABLE IF NOT EXISTS horoscope_content_categories (
	horoscope_content_id BIGINT NOT NULL REFERENCES horoscope_content(id) ON DELETE CASCADE,
	category_id          INTEGER NOT NULL REFERENCES horoscope_categories(id) ON DELETE CASCADE,
	content_text         TEXT NOT NULL,
	PRIMARY KEY (horoscope_content_id, category_id)
);

CREATE TABLE IF NOT EXISTS horoscope_ratings (
	id                   BIGSERIAL PRIMARY KEY,
	horoscope_content_id BIGINT NOT NULL REFERENCES horoscope_content(id) ON DELETE CASCADE,
	user_id              TEXT NOT NULL,
	rating               BOOLEAN NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT unique_horoscope_rating_per_user UNIQUE (horoscope_content_id, user_id)
);

CREATE TABLE IF NOT EXISTS horoscope_category_ratings (
	id                   BIGSERIAL PRIMARY KEY,
	horoscope_content_id BIGINT NOT NULL,
	category_id          INTEGER NOT NULL,
	user_id              TEXT NOT NULL,
	rating               BOOLEAN NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT unique_category_rating_per_user UNIQUE (horoscope_content_id, category_id, user_id),
	FOREIGN KEY (horoscope_content_id, category_id)
		REFERENCES horoscope_content_categories (horoscope_content_id, category_id)
		ON DELETE CASCADE
);
`

func (s *Store) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// seedReferenceData inserts the fixed signs, types and categories. Seeding
// is idempotent; existing rows are left untouched.
func (s *Store) seedReferenceData(ctx context.Context) error {
	for _, sign := range models.Signs {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO signs (id, slug, name_en, name_pt, emoji, start_date, end_date, element, modality, ruling_planet)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO NOTHING`,
			sign.ID, sign.Slug, sign.NameEn, sign.NamePt, sign.Emoji,
			sign.StartDate, sign.EndDate, sign.Element, sign.Modality, sign.RulingPlanet)
		if err != nil {
			return fmt.Errorf("seeding sign %s: %w", sign.Slug, err)
		}
	}

	types := []struct {
		id    int
		name  string
		pt    string
		hours int
	}{
		{models.TypeDaily, "daily", "Diário", 24},
		{models.TypeWeekly, "weekly", "Semanal", 168},
		{models.TypeMonthly, "monthly", "Mensal", 720},
	}
	for _, t := range types {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO horoscope_types (id, type, display_name_pt, cache_duration_hours)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			t.id, t.name, t.pt, t.hours)
		if err != nil {
			return fmt.Errorf("seeding type %s: %w", t.name, err)
		}
	}

	for _, cat := range models.Categories {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO horoscope_categories (id, name, display_name_pt, icon)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			cat.ID, cat.Name, cat.DisplayNamePt, cat.Icon)
		if err != nil {
			return fmt.Errorf("seeding category %s: %w", cat.Name, err)
		}
	}

	return nil
}

// ============================================================================
// CONTENT OPERATIONS
// ============================================================================

// GetDailyContent returns the general daily horoscope row for one
// (sign, effective date) pair, or ErrNotFound.
func (s *Store) GetDailyContent(ctx context.Context, signID int, effectiveDate string) (*models.HoroscopeContent, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, sign_id, type_id, effective_date, preview_text, full_text, is_active, created_at, updated_at
		FROM horoscope_content
		WHERE sign_id = $1 AND type_id = $2 AND effective_date = $3 AND is_active`,
		signID, models.TypeDaily, effectiveDate)

	content := &models.HoroscopeContent{}
	err := row.Scan(
		&content.ID, &content.SignID, &content.TypeID, &content.EffectiveDate,
		&content.PreviewText, &content.FullText, &content.IsActive,
		&content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying daily content: %w", err)
	}
	return content, nil
}

// GetDailyPreviews returns the preview text of every sign's general daily
// horoscope for one effective date, keyed by sign id. Signs without
// content for that date are simply absent from the map.
func (s *Store) GetDailyPreviews(ctx context.Context, effectiveDate string) (map[int]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sign_id, preview_text
		FROM horoscope_content
		WHERE type_id = $1 AND effective_date = $2 AND is_active`,
		models.TypeDaily, effectiveDate)
	if err != nil {
		return nil, fmt.Errorf("querying daily previews: %w", err)
	}
	defer rows.Close()

	previews := make(map[int]string)
	for rows.Next() {
		var signID int
		var preview string
		if err := rows.Scan(&signID, &preview); err != nil {
			return nil, fmt.Errorf("scanning daily preview: %w", err)
		}
		previews[signID] = preview
	}
	return previews, rows.Err()
}

// InsertDailyContent inserts a general daily horoscope row and returns its
// id. A unique-constraint hit maps to ErrDuplicate.
func (s *Store) InsertDailyContent(ctx context.Context, content *models.HoroscopeContent) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO horoscope_content (sign_id, type_id, effective_date, preview_text, full_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		content.SignID, content.TypeID, content.EffectiveDate,
		content.PreviewText, content.FullText).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("inserting daily content: %w", err)
	}
	return id, nil
}

// GetCategoryContent returns the category text joined to its parent general
// row for (sign, category, effective date), or ErrNotFound.
func (s *Store) GetCategoryContent(ctx context.Context, signID, categoryID int, effectiveDate string) (*models.CategoryContent, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT hcc.horoscope_content_id, hcc.category_id, hcc.content_text
		FROM horoscope_content hc
		JOIN horoscope_content_categories hcc ON hcc.horoscope_content_id = hc.id
		WHERE hc.sign_id = $1 AND hc.type_id = $2 AND hc.effective_date = $3
		  AND hcc.category_id = $4 AND hc.is_active`,
		signID, models.TypeDaily, effectiveDate, categoryID)

	content := &models.CategoryContent{}
	err := row.Scan(&content.HoroscopeContentID, &content.CategoryID, &content.ContentText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying category content: %w", err)
	}
	return content, nil
}

// InsertCategoryContent attaches category text to an existing general row.
func (s *Store) InsertCategoryContent(ctx context.Context, content *models.CategoryContent) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO horoscope_content_categories (horoscope_content_id, category_id, content_text)
		VALUES ($1, $2, $3)`,
		content.HoroscopeContentID, content.CategoryID, content.ContentText)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("inserting category content: %w", err)
	}
	return nil
}

// InsertDailyWithCategory inserts the general row and its category row in a
// single transaction so a category row never references a missing parent.
func (s *Store) InsertDailyWithCategory(ctx context.Context, content *models.HoroscopeContent, categoryID int, categoryText string) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO horoscope_content (sign_id, type_id, effective_date, preview_text, full_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		content.SignID, content.TypeID, content.EffectiveDate,
		content.PreviewText, content.FullText).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("inserting daily content: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO horoscope_content_categories (horoscope_content_id, category_id, content_text)
		VALUES ($1, $2, $3)`,
		id, categoryID, categoryText)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("inserting category content: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// ============================================================================
// VOTE OPERATIONS
// ============================================================================

// GetVote returns one user's vote on a general horoscope, or ErrNotFound.
func (s *Store) GetVote(ctx context.Context, contentID int64, userID string) (*models.Vote, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT horoscope_content_id, user_id, rating, created_at
		FROM horoscope_ratings
		WHERE horoscope_content_id = $1 AND user_id = $2`,
		contentID, userID)

	vote := &models.Vote{}
	err := row.Scan(&vote.HoroscopeContentID, &vote.UserID, &vote.Rating, &vote.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying vote: %w", err)
	}
	return vote, nil
}

// GetCategoryVote returns one user's vote on a category text, or ErrNotFound.
func (s *Store) GetCategoryVote(ctx context.Context, contentID int64, categoryID int, userID string) (*models.Vote, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT horoscope_content_id, category_id, user_id, rating, created_at
		FROM horoscope_category_ratings
		WHERE horoscope_content_id = $1 AND category_id = $2 AND user_id = $3`,
		contentID, categoryID, userID)

	vote := &models.Vote{}
	err := row.Scan(&vote.HoroscopeContentID, &vote.CategoryID, &vote.UserID, &vote.Rating, &vote.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying category vote: %w", err)
	}
	return vote, nil
}

// UpsertVote records or replaces one user's vote on a general horoscope.
func (s *Store) UpsertVote(ctx context.Context, contentID int64, userID string, rating bool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO horoscope_ratings (horoscope_content_id, user_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (horoscope_content_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating`,
		contentID, userID, rating)
	if err != nil {
		return fmt.Errorf("upserting vote: %w", err)
	}
	return nil
}

// UpsertCategoryVote records or replaces one user's vote on a category text.
func (s *Store) UpsertCategoryVote(ctx context.Context, contentID int64, categoryID int, userID string, rating bool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO horoscope_category_ratings (horoscope_content_id, category_id, user_id, rating)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (horoscope_content_id, category_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating`,
		contentID, categoryID, userID, rating)
	if err != nil {
		return fmt.Errorf("upserting category vote: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
