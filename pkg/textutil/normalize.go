// Package textutil utilidades de normalización de texto para búsquedas.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics descompone (NFD), elimina las marcas diacríticas y
// recompone (NFC): "Azúcar" → "Azucar".
var removeDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize devuelve el término en minúsculas y sin tildes, listo para
// comparar contra la columna normalizada en BD. Nombre y término de búsqueda
// deben pasar por la misma función para que el match sea consistente.
func Normalize(s string) string {
	out, _, err := transform.String(removeDiacritics, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
