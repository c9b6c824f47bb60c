package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownTypeName and UnknownTypeAbbreviation are rendered for protocols whose
// document type no longer exists.
const (
	UnknownTypeName         = "Unknown type"
	UnknownTypeAbbreviation = "?"
)

// DeriveAbbreviation builds the short display code for a document type name.
// Names with two or more words yield the upper-cased initials of the first two
// words; a single word yields its first three characters upper-cased.
//
//	DeriveAbbreviation("Prancha de Loja") == "PD"
//	DeriveAbbreviation("Ata")             == "ATA"
func DeriveAbbreviation(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return ""
	case 1:
		r := []rune(words[0])
		if len(r) > 3 {
			r = r[:3]
		}
		return cases.Upper(language.Und).String(string(r))
	default:
		first := []rune(words[0])[:1]
		second := []rune(words[1])[:1]
		return cases.Upper(language.Und).String(string(first) + string(second))
	}
}
