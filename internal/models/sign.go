// Package models defines the core data structures for Meu Horoscopo.
package models

// Element is a sign's classical element.
type Element string

const (
	ElementFire  Element = "fire"
	ElementEarth Element = "earth"
	ElementAir   Element = "air"
	ElementWater Element = "water"
)

// Modality is a sign's quality (cardinal, fixed, mutable).
type Modality string

const (
	ModalityCardinal Modality = "cardinal"
	ModalityFixed    Modality = "fixed"
	ModalityMutable  Modality = "mutable"
)

// Sign represents one of the 12 tropical zodiac signs.
type Sign struct {
	ID           int      `json:"id"`
	Slug         string   `json:"slug"`
	NameEn       string   `json:"name_en"`
	NamePt       string   `json:"name_pt"`
	Emoji        string   `json:"emoji"`
	StartDate    string   `json:"start_date"` // MM-DD
	EndDate      string   `json:"end_date"`   // MM-DD
	Element      Element  `json:"element"`
	Modality     Modality `json:"modality"`
	RulingPlanet string   `json:"ruling_planet"`
}

// Signs lists the 12 tropical signs in ecliptic order starting at Áries.
// The order matters: the zodiac resolver indexes into this slice by
// 30-degree longitude band.
var Signs = []Sign{
	{ID: 1, Slug: "aries", NameEn: "Aries", NamePt: "Áries", Emoji: "♈", StartDate: "03-21", EndDate: "04-19", Element: ElementFire, Modality: ModalityCardinal, RulingPlanet: "Marte"},
	{ID: 2, Slug: "touro", NameEn: "Taurus", NamePt: "Touro", Emoji: "♉", StartDate: "04-20", EndDate: "05-20", Element: ElementEarth, Modality: ModalityFixed, RulingPlanet: "Vênus"},
	{ID: 3, Slug: "gemeos", NameEn: "Gemini", NamePt: "Gêmeos", Emoji: "♊", StartDate: "05-21", EndDate: "06-20", Element: ElementAir, Modality: ModalityMutable, RulingPlanet: "Mercúrio"},
	{ID: 4, Slug: "cancer", NameEn: "Cancer", NamePt: "Câncer", Emoji: "♋", StartDate: "06-21", EndDate: "07-22", Element: ElementWater, Modality: ModalityCardinal, RulingPlanet: "Lua"},
	{ID: 5, Slug: "leao", NameEn: "Leo", NamePt: "Leão", Emoji: "♌", StartDate: "07-23", EndDate: "08-22", Element: ElementFire, Modality: ModalityFixed, RulingPlanet: "Sol"},
	{ID: 6, Slug: "virgem", NameEn: "Virgo", NamePt: "Virgem", Emoji: "♍", StartDate: "08-23", EndDate: "09-22", Element: ElementEarth, Modality: ModalityMutable, RulingPlanet: "Mercúrio"},
	{ID: 7, Slug: "libra", NameEn: "Libra", NamePt: "Libra", Emoji: "♎", StartDate: "09-23", EndDate: "10-22", Element: ElementAir, Modality: ModalityCardinal, RulingPlanet: "Vênus"},
	{ID: 8, Slug: "escorpiao", NameEn: "Scorpio", NamePt: "Escorpião", Emoji: "♏", StartDate: "10-23", EndDate: "11-21", Element: ElementWater, Modality: ModalityFixed, RulingPlanet: "Plutão"},
	{ID: 9, Slug: "sagitario", NameEn: "Sagittarius", NamePt: "Sagitário", Emoji: "♐", StartDate: "11-22", EndDate: "12-21", Element: ElementFire, Modality: ModalityMutable, RulingPlanet: "Júpiter"},
	{ID: 10, Slug: "capricornio", NameEn: "Capricorn", NamePt: "Capricórnio", Emoji: "♑", StartDate: "12-22", EndDate: "01-19", Element: ElementEarth, Modality: ModalityCardinal, RulingPlanet: "Saturno"},
	{ID: 11, Slug: "aquario", NameEn: "Aquarius", NamePt: "Aquário", Emoji: "♒", StartDate: "01-20", EndDate: "02-18", Element: ElementAir, Modality: ModalityFixed, RulingPlanet: "Urano"},
	{ID: 12, Slug: "peixes", NameEn: "Pisces", NamePt: "Peixes", Emoji: "♓", StartDate: "02-19", EndDate: "03-20", Element: ElementWater, Modality: ModalityMutable, RulingPlanet: "Netuno"},
}

// SignBySlug returns a sign by its normalized slug (e.g. "escorpiao").
func SignBySlug(slug string) *Sign {
	for i := range Signs {
		if Signs[i].Slug == slug {
			return &Signs[i]
		}
	}
	return nil
}

// SignByNamePt returns a sign by its Portuguese display name.
func SignByNamePt(name string) *Sign {
	for i := range Signs {
		if Signs[i].NamePt == name {
			return &Signs[i]
		}
	}
	return nil
}

// SignByID returns a sign by its seeded ID.
func SignByID(id int) *Sign {
	for i := range Signs {
		if Signs[i].ID == id {
			return &Signs[i]
		}
	}
	return nil
}
