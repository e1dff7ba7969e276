package locale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"autoparts.dev/storefront/internal/locale"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		persisted string
		url       string
		fallback  locale.Lang
		want      locale.Lang
	}{
		{"persisted wins over url", "en", "ar", locale.Arabic, locale.English},
		{"url used without preference", "", "en", locale.Arabic, locale.English},
		{"invalid preference ignored", "fr", "en", locale.Arabic, locale.English},
		{"case and space tolerated", " EN ", "", locale.Arabic, locale.English},
		{"default is arabic", "", "", locale.Arabic, locale.Arabic},
		{"invalid fallback means default", "", "de", "xx", locale.Arabic},
		{"configured fallback", "", "", locale.English, locale.English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, locale.Resolve(tt.persisted, tt.url, tt.fallback))
		})
	}
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "rtl", locale.Arabic.Direction())
	assert.Equal(t, "ltr", locale.English.Direction())
	assert.Equal(t, locale.English, locale.Arabic.Other())
	assert.Equal(t, locale.Arabic, locale.English.Other())
}

func TestCatalog_Embedded(t *testing.T) {
	c, err := locale.LoadCatalog()
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, "Shopping cart", c.Translate(locale.English, "page.cart"))
	assert.Equal(t, "سلة التسوق", c.Translate(locale.Arabic, "page.cart"))
	assert.Equal(t, "Please sign in to continue", c.Translate(locale.English, "error.SESSION_REQUIRED"))

	// Arabic has no privacy title; the English one is used.
	assert.Equal(t, "Privacy policy", c.Translate(locale.Arabic, "page.privacy"))
	assert.Equal(t, "no.such.key", c.Translate(locale.Arabic, "no.such.key"))
	assert.Equal(t, "page", c.Translate(locale.Arabic, "page"), "subtrees are not strings")

	table := c.Table(locale.Arabic)
	assert.Equal(t, "Privacy policy", table["page.privacy"])
	assert.Equal(t, "الرئيسية", table["nav.home"])
}

func TestCatalog_Fallbacks(t *testing.T) {
	c := locale.NewCatalog(map[locale.Lang]map[string]string{
		locale.Arabic:  {"greeting": "مرحبا", "blank": ""},
		locale.English: {"greeting": "Hello", "only_en": "English only", "blank": "Not blank"},
	})

	tests := []struct {
		lang locale.Lang
		key  string
		want string
	}{
		{locale.Arabic, "greeting", "مرحبا"},
		{locale.English, "greeting", "Hello"},
		{locale.Arabic, "only_en", "English only"},
		{locale.Arabic, "blank", "Not blank"},
		{locale.English, "missing", "missing"},
		{"xx", "greeting", "مرحبا"},
	}
	for _, tt := range tests {
		t.Run(string(tt.lang)+"/"+tt.key, func(t *testing.T) {
			got := c.Translate(tt.lang, tt.key)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}

	assert.Equal(t, "Hello", c.For(locale.English).T("greeting"))
}

func TestCatalog_Format(t *testing.T) {
	c := locale.NewCatalog(map[locale.Lang]map[string]string{
		locale.English: {"welcome": "Welcome back, {name}"},
	})
	assert.Equal(t, "Welcome back, Sara", c.Format(locale.English, "welcome", map[string]string{"name": "Sara"}))
	assert.Equal(t, "Welcome back, {name}", c.Format(locale.Arabic, "welcome", nil))
}
