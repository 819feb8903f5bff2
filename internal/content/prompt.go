package content

import (
	"fmt"
	"strings"

	"github.com/meuhoroscopo/backend/internal/astronomy"
	"github.com/meuhoroscopo/backend/internal/models"
	"github.com/meuhoroscopo/backend/internal/zodiac"
)

// SystemPrompt pins the generator's voice: Brazilian Portuguese only, no
// emoji, no markdown or special characters.
const SystemPrompt = "Voce e um astrologo criativo que gera horoscopos baseados em dados reais. " +
	"Voce nao deve usar emojis, caracteres especiais como asteriscos, -- ou qualquer outra coisa " +
	"que nao sejam somente letras e pontuacao do alfabeto Brasileiro."

// TransitPhrases turns a positions payload into "Planeta em Signo" phrases,
// one per body with equatorial data. Only the moon carries a phase suffix;
// an absent phase string reads "Desconhecida".
func TransitPhrases(payload *astronomy.PositionsPayload) []string {
	var phrases []string
	for _, row := range payload.Data.Table.Rows {
		ra, dec, ok := row.Equatorial()
		if !ok {
			continue
		}

		id := models.Planet(strings.ToLower(row.Entry.ID))
		sign := zodiac.ResolveSign(ra, dec)
		phrase := models.PlanetNamePt(id) + " em " + sign.NamePt

		if id == models.PlanetMoon {
			phase := row.MoonPhase()
			if phase == "" {
				phase = "Desconhecida"
			}
			phrase += " fase " + phase
		}

		phrases = append(phrases, phrase)
	}
	return phrases
}

// BuildPrompt assembles the user prompt for one (sign, category) request.
// When the category carries emphasis planets, an extra sentence names them.
func BuildPrompt(signNamePt string, category *models.Category, transits []string) string {
	joined := strings.Join(transits, ", ")
	if joined == "" {
		joined = "nenhum especifico"
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		"Gere um horoscopo diario interessante para o signo %s, focado em %s, "+
			"incorporando estes transitos astronomicos reais: %s. "+
			"Torne positivo e motivador, com no maximo 2 frases. "+
			"Inclua conselhos praticos baseados nos transitos, mas mantenha leve e divertido.",
		signNamePt, category.Name, joined)

	if len(category.Emphasis) > 0 {
		names := make([]string, len(category.Emphasis))
		for i, planet := range category.Emphasis {
			names[i] = models.PlanetNamePt(planet)
		}
		fmt.Fprintf(&b, " Enfatize os efeitos de %s para %s.",
			strings.Join(names, ", "), category.Name)
	}

	return b.String()
}
