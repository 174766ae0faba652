package inventory

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeCode recorta espacios y lleva el texto a NFC, para que un código tipeado
// y uno leído por el escáner se comparen igual.
func NormalizeCode(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
