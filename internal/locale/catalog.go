package locale

import (
	"embed"
	"fmt"
	"maps"
	"path"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"autoparts.dev/storefront/internal/pkg/logger"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

// Catalog holds one flat string table per language. Nested YAML mappings are
// flattened into dotted keys ("nav.home").
type Catalog struct {
	tables map[Lang]map[string]string
}

// LoadCatalog parses the embedded string tables.
func LoadCatalog() (*Catalog, error) {
	c := &Catalog{tables: make(map[Lang]map[string]string, len(Supported))}
	for _, l := range Supported {
		raw, err := catalogFS.ReadFile(path.Join("catalogs", string(l)+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("read %s catalog: %w", l, err)
		}
		table, err := parseTable(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s catalog: %w", l, err)
		}
		c.tables[l] = table
	}
	return c, nil
}

// MustLoadCatalog is LoadCatalog for package initialization.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog builds a catalog from in-memory tables.
func NewCatalog(tables map[Lang]map[string]string) *Catalog {
	c := &Catalog{tables: make(map[Lang]map[string]string, len(tables))}
	for l, t := range tables {
		c.tables[l] = maps.Clone(t)
	}
	return c
}

func parseTable(raw []byte) (map[string]string, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Translate returns the string for key in l. A missing or empty entry falls
// back to the other language, then to key itself.
func (c *Catalog) Translate(l Lang, key string) string {
	if !l.Valid() {
		l = Default
	}
	if s := c.tables[l][key]; s != "" {
		return s
	}
	if s := c.tables[l.Other()][key]; s != "" {
		logger.Debug("Translation missing, using other language",
			zap.String("lang", string(l)),
			zap.String("key", key),
		)
		return s
	}
	return key
}

// Format translates key and substitutes {name} placeholders from params.
func (c *Catalog) Format(l Lang, key string, params map[string]string) string {
	s := c.Translate(l, key)
	if len(params) == 0 {
		return s
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// Table returns a copy of the string table of l, completed with entries only
// the other language has.
func (c *Catalog) Table(l Lang) map[string]string {
	out := maps.Clone(c.tables[l.Other()])
	if out == nil {
		out = make(map[string]string)
	}
	for k, v := range c.tables[l] {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Translator binds a catalog to one language.
type Translator struct {
	catalog *Catalog
	lang    Lang
}

// For returns the translator of l.
func (c *Catalog) For(l Lang) Translator {
	return Translator{catalog: c, lang: l}
}

// Lang returns the bound language.
func (t Translator) Lang() Lang {
	return t.lang
}

// T translates key.
func (t Translator) T(key string) string {
	return t.catalog.Translate(t.lang, key)
}
