package models

// Category represents a horoscope topic (love, career, ...).
// Emphasis lists the planets the generation prompt should foreground for
// this topic; geral has none and means "no category filter".
type Category struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	DisplayNamePt string   `json:"display_name_pt"`
	Icon          string   `json:"icon"`
	Emphasis      []Planet `json:"-"`
}

// CategoryGeral is the name of the unfiltered general category.
const CategoryGeral = "geral"

// Categories lists the fixed horoscope categories.
var Categories = []Category{
	{ID: 1, Name: "geral", DisplayNamePt: "Geral", Icon: "auto_awesome", Emphasis: nil},
	{ID: 2, Name: "amor", DisplayNamePt: "Amor", Icon: "favorite", Emphasis: []Planet{PlanetVenus, PlanetMoon, PlanetMars}},
	{ID: 3, Name: "carreira", DisplayNamePt: "Carreira", Icon: "work", Emphasis: []Planet{PlanetSaturn, PlanetJupiter, PlanetMercury}},
	{ID: 4, Name: "saude", DisplayNamePt: "Saúde", Icon: "health_and_safety", Emphasis: []Planet{PlanetMars, PlanetSaturn, PlanetMoon}},
	{ID: 5, Name: "financas", DisplayNamePt: "Finanças", Icon: "savings", Emphasis: []Planet{PlanetJupiter, PlanetVenus, PlanetSaturn}},
	{ID: 6, Name: "familia", DisplayNamePt: "Família", Icon: "family_restroom", Emphasis: []Planet{PlanetMoon, PlanetSaturn, PlanetJupiter}},
	{ID: 7, Name: "amizade", DisplayNamePt: "Amizade", Icon: "group", Emphasis: []Planet{PlanetMercury, PlanetVenus, PlanetUranus}},
	{ID: 8, Name: "criatividade", DisplayNamePt: "Criatividade", Icon: "palette", Emphasis: []Planet{PlanetVenus, PlanetMars, PlanetNeptune}},
}

// CategoryByName returns a category by its key (lowercase), or nil.
func CategoryByName(name string) *Category {
	for i := range Categories {
		if Categories[i].Name == name {
			return &Categories[i]
		}
	}
	return nil
}

// CategoryByID returns a category by its seeded ID, or nil.
func CategoryByID(id int) *Category {
	for i := range Categories {
		if Categories[i].ID == id {
			return &Categories[i]
		}
	}
	return nil
}
