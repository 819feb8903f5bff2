package content

import (
	"testing"

	"github.com/meuhoroscopo/backend/internal/astronomy"
	"github.com/meuhoroscopo/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyRow(id, raHours, decDeg, phase string) astronomy.BodyRow {
	cell := astronomy.BodyCell{
		Position: &astronomy.BodyPosition{
			Equatorial: &astronomy.EquatorialCoords{
				RightAscension: &astronomy.Angle{Hours: raHours},
				Declination:    &astronomy.Angle{Degrees: decDeg},
			},
		},
	}
	if phase != "" {
		cell.ExtraInfo = &astronomy.ExtraInfo{Phase: &astronomy.PhaseInfo{String: phase}}
	}
	return astronomy.BodyRow{
		Entry: astronomy.BodyEntry{ID: id},
		Cells: []astronomy.BodyCell{cell},
	}
}

func payloadWith(rows ...astronomy.BodyRow) *astronomy.PositionsPayload {
	p := &astronomy.PositionsPayload{}
	p.Data.Table.Rows = rows
	return p
}

func TestTransitPhrases(t *testing.T) {
	// RA 0h, Dec 0° resolves to Áries.
	payload := payloadWith(
		bodyRow("sun", "0", "0", ""),
		bodyRow("moon", "0", "0", "Crescente"),
	)

	phrases := TransitPhrases(payload)
	require.Len(t, phrases, 2)
	assert.Equal(t, "Sol em Áries", phrases[0])
	assert.Equal(t, "Lua em Áries fase Crescente", phrases[1])
}

func TestTransitPhrasesMoonPhaseUnknown(t *testing.T) {
	phrases := TransitPhrases(payloadWith(bodyRow("moon", "0", "0", "")))
	require.Len(t, phrases, 1)
	assert.Equal(t, "Lua em Áries fase Desconhecida", phrases[0])
}

func TestTransitPhrasesSkipsBodiesWithoutPosition(t *testing.T) {
	noPosition := astronomy.BodyRow{Entry: astronomy.BodyEntry{ID: "pluto"}}
	phrases := TransitPhrases(payloadWith(noPosition, bodyRow("mars", "0", "0", "")))
	require.Len(t, phrases, 1)
	assert.Equal(t, "Marte em Áries", phrases[0])
}

func TestTransitPhrasesUnmappedBodyCapitalized(t *testing.T) {
	phrases := TransitPhrases(payloadWith(bodyRow("uranus", "0", "0", "")))
	require.Len(t, phrases, 1)
	assert.Equal(t, "Uranus em Áries", phrases[0])
}

func TestBuildPromptGeral(t *testing.T) {
	geral := models.CategoryByName("geral")
	require.NotNil(t, geral)

	prompt := BuildPrompt("Touro", geral, []string{"Sol em Áries", "Marte em Leão"})
	assert.Contains(t, prompt, "para o signo Touro")
	assert.Contains(t, prompt, "focado em geral")
	assert.Contains(t, prompt, "Sol em Áries, Marte em Leão")
	assert.NotContains(t, prompt, "Enfatize", "geral has no emphasis planets")
}

func TestBuildPromptCategoryEmphasis(t *testing.T) {
	amor := models.CategoryByName("amor")
	require.NotNil(t, amor)

	prompt := BuildPrompt("Peixes", amor, []string{"Vênus em Libra"})
	assert.Contains(t, prompt, "focado em amor")
	assert.Contains(t, prompt, "Enfatize os efeitos de Vênus, Lua, Marte para amor.")
}

func TestBuildPromptNoTransits(t *testing.T) {
	geral := models.CategoryByName("geral")
	prompt := BuildPrompt("Leão", geral, nil)
	assert.Contains(t, prompt, "nenhum especifico")
}
