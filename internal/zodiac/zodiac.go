// Package zodiac converts equatorial coordinates into tropical zodiac signs.
package zodiac

import (
	"math"

	"github.com/meuhoroscopo/backend/internal/models"
)

// obliquity of the ecliptic, degrees (J2000-era mean value).
const obliquity = 23.439281

// EclipticLongitude converts a right ascension (hours) and declination
// (degrees) to an ecliptic longitude in [0, 360).
func EclipticLongitude(raHours, decDeg float64) float64 {
	raRad := raHours * 15 * math.Pi / 180
	decRad := decDeg * math.Pi / 180
	epsRad := obliquity * math.Pi / 180

	sinLambda := math.Sin(raRad)*math.Cos(epsRad) + math.Tan(decRad)*math.Sin(epsRad)
	cosLambda := math.Cos(raRad)

	lambda := math.Atan2(sinLambda, cosLambda) * 180 / math.Pi
	if lambda < 0 {
		lambda += 360
	}
	return lambda
}

// ResolveSign maps an equatorial position to its tropical sign. Each sign
// owns a 30-degree longitude band starting at 0° Áries; band boundaries are
// lower-inclusive. Callers map missing coordinates to zero upstream, so
// this never fails.
func ResolveSign(raHours, decDeg float64) *models.Sign {
	lambda := EclipticLongitude(raHours, decDeg)
	idx := int(math.Floor(lambda/30)) % 12
	return &models.Signs[idx]
}
