// Package locale resolves the active display language of a browser context
// and translates UI strings.
//
// Two languages are supported: Arabic, written right to left and used by
// default, and English.
package locale

import (
	"errors"
	"strings"
)

// Lang is a two-letter language code.
type Lang string

const (
	Arabic  Lang = "ar"
	English Lang = "en"
)

// Default is used when neither a stored preference nor the URL names a language.
const Default = Arabic

// Supported lists the languages in display order.
var Supported = []Lang{Arabic, English}

// ErrUnsupported is returned when a language outside Supported is requested.
var ErrUnsupported = errors.New("locale: unsupported language")

// Parse normalizes s and reports whether it names a supported language.
func Parse(s string) (Lang, bool) {
	l := Lang(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}

// Valid reports whether l is supported.
func (l Lang) Valid() bool {
	return l == Arabic || l == English
}

// Direction returns "rtl" or "ltr".
func (l Lang) Direction() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

// Other returns the second supported language.
func (l Lang) Other() Lang {
	if l == English {
		return Arabic
	}
	return English
}

func (l Lang) String() string {
	return string(l)
}

// Resolve picks the active language: a valid stored preference wins over a
// valid URL segment, which wins over fallback. An invalid fallback means Default.
func Resolve(persisted, urlSegment string, fallback Lang) Lang {
	if l, ok := Parse(persisted); ok {
		return l
	}
	if l, ok := Parse(urlSegment); ok {
		return l
	}
	if fallback.Valid() {
		return fallback
	}
	return Default
}
