package models

import "strings"

var diacriticReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// NormalizeSlug lowercases a Portuguese sign or category name and strips
// diacritics and anything outside a-z, so "Escorpião" and "escorpiao" both
// resolve to the same key.
func NormalizeSlug(name string) string {
	s := diacriticReplacer.Replace(strings.ToLower(name))
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
