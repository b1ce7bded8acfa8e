package models

import (
	"fmt"
	"strings"
)

// Format names a supported bank export format.
type Format string

const (
	FormatSwedbank          Format = "swedbank"
	FormatSwedbankFidavista Format = "swedbank-fidavista"
	FormatSEB               Format = "seb"
	FormatDNB               Format = "dnb"
	FormatCitadele          Format = "citadele"
)

// Formats lists every supported format.
var Formats = []Format{
	FormatSwedbank,
	FormatSwedbankFidavista,
	FormatSEB,
	FormatDNB,
	FormatCitadele,
}

var formatAliases = map[string]Format{
	"swedbank":           FormatSwedbank,
	"swedbanklv":         FormatSwedbank,
	"swedbank-fidavista": FormatSwedbankFidavista,
	"swedbanklvfv":       FormatSwedbankFidavista,
	"fidavista":          FormatSwedbankFidavista,
	"seb":                FormatSEB,
	"seblv":              FormatSEB,
	"dnb":                FormatDNB,
	"dnblv":              FormatDNB,
	"citadele":           FormatCitadele,
	"citadelelv":         FormatCitadele,
}

// ParseFormat resolves a format name or one of its aliases, ignoring case.
func ParseFormat(name string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unsupported bank format: %q", name)
}

// IsXML reports whether the format is an XML document rather than delimited
// text. XML documents declare their own encoding.
func (f Format) IsXML() bool {
	switch f {
	case FormatSwedbankFidavista, FormatDNB, FormatCitadele:
		return true
	}
	return false
}
