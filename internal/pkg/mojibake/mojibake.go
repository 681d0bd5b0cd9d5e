// Package mojibake восстанавливает текст, дважды закодированный при экспорте:
// байты UTF-8 записаны в JSON как отдельные символы Latin-1 (\u00XX).
package mojibake

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Fix возвращает исходную строку Unicode для текста из экспорта.
// Если строка содержит символы вне Latin-1 или байты не образуют корректный UTF-8,
// она возвращается без изменений.
func Fix(s string) string {
	if s == "" || isASCII(s) {
		return s
	}

	raw, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		// Символ вне Latin-1: строка уже в нормальной кодировке.
		return s
	}
	if !utf8.ValidString(raw) {
		return s
	}

	return norm.NFC.String(raw)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
