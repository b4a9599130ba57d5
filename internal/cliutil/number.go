package cliutil

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// FormatCount formats n with thousands separators, e.g. 1234567 -> "1,234,567".
func FormatCount(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}
