package models

import "strings"

// Planet identifies a celestial body by its ephemeris API id.
type Planet string

const (
	PlanetSun     Planet = "sun"
	PlanetMoon    Planet = "moon"
	PlanetMercury Planet = "mercury"
	PlanetVenus   Planet = "venus"
	PlanetMars    Planet = "mars"
	PlanetJupiter Planet = "jupiter"
	PlanetSaturn  Planet = "saturn"
	PlanetUranus  Planet = "uranus"
	PlanetNeptune Planet = "neptune"
)

// planetNamesPt maps ephemeris body ids to Portuguese display names.
var planetNamesPt = map[Planet]string{
	PlanetSun:     "Sol",
	PlanetMoon:    "Lua",
	PlanetMercury: "Mercúrio",
	PlanetVenus:   "Vênus",
	PlanetMars:    "Marte",
	PlanetJupiter: "Júpiter",
	PlanetSaturn:  "Saturno",
}

// PlanetNamePt returns the Portuguese name for a body id. Unmapped ids
// (pluto, comets) fall back to the capitalized id.
func PlanetNamePt(id Planet) string {
	if name, ok := planetNamesPt[id]; ok {
		return name
	}
	s := string(id)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
