package models

import "time"

// Horoscope content types, seeded into horoscope_types. Only daily is
// exposed by the API today.
const (
	TypeDaily   = 1
	TypeWeekly  = 2
	TypeMonthly = 3
)

// HoroscopeContent is the general (non-category) horoscope for one
// (sign, effective date) pair. Immutable once generated.
type HoroscopeContent struct {
	ID            int64     `json:"id"`
	SignID        int       `json:"sign_id"`
	TypeID        int       `json:"type_id"`
	EffectiveDate string    `json:"effective_date"` // YYYY-MM-DD
	PreviewText   string    `json:"preview_text"`
	FullText      string    `json:"full_text"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CategoryContent ties a category-specific text to its parent general row.
// A CategoryContent row never exists without the parent HoroscopeContent.
type CategoryContent struct {
	HoroscopeContentID int64  `json:"horoscope_content_id"`
	CategoryID         int    `json:"category_id"`
	ContentText        string `json:"content_text"`
}

// Vote is a boolean rating by one user for a general horoscope or for one
// of its category texts (CategoryID > 0). One vote per user per target.
type Vote struct {
	HoroscopeContentID int64     `json:"horoscope_content_id"`
	CategoryID         int       `json:"category_id,omitempty"`
	UserID             string    `json:"user_id"`
	Rating             bool      `json:"rating"`
	CreatedAt          time.Time `json:"created_at"`
}

// SignNavigation is the per-sign entry the rendering layer uses to build
// the sign switcher.
type SignNavigation struct {
	Chave       string `json:"chave"`
	Nome        string `json:"nome"`
	Emoji       string `json:"emoji"`
	DateRange   string `json:"dateRange"`
	PreviewText string `json:"previewText,omitempty"`
}
