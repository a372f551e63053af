// Package document normaliza documentos fiscales y teléfonos antes de enviarlos a servicios externos.
package document

import "unicode"

// Digits devuelve solo los dígitos de s: "12.345.678/0001-90" -> "12345678000190".
func Digits(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) && r < 128 {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// Equal compara dos documentos ignorando puntuación.
func Equal(a, b string) bool {
	return Digits(a) == Digits(b)
}
