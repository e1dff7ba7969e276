package routes

import (
	"net/url"
	"sort"
	"strings"

	"autoparts.dev/storefront/internal/domain"
)

// PageParam is the query parameter carrying the page key.
const PageParam = "page"

// Build renders the shareable URL of a page: /<lang>/?page=<key>&<params>.
// The home page omits the page parameter. Extra params are emitted in key
// order so equal states produce equal URLs.
func Build(lang, page string, params map[string]string) string {
	q := url.Values{}
	if page != "" && page != Home {
		q.Set(PageParam, page)
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		if k != PageParam && params[k] != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, params[k])
	}

	u := url.URL{Path: "/" + lang + "/"}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Location is the state carried by a URL.
type Location struct {
	Lang   string
	Page   string
	Params map[string]string
}

// Parse reads a URL produced by Build, or typed by hand. The first path
// segment is returned as Lang without validation; a missing page parameter
// means Home. Unparseable input yields the home location.
func Parse(raw string) Location {
	loc := Location{Page: Home, Params: map[string]string{}}
	u, err := url.Parse(raw)
	if err != nil {
		return loc
	}
	if seg, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/"); seg != "" {
		loc.Lang = seg
	}
	for k, vs := range u.Query() {
		if len(vs) == 0 {
			continue
		}
		if k == PageParam {
			if vs[0] != "" {
				loc.Page = vs[0]
			}
			continue
		}
		loc.Params[k] = vs[0]
	}
	return loc
}

// Query parameters carrying search filters.
const (
	TermParam     = "q"
	CarTypeParam  = "car_type"
	ModelParam    = "model"
	CategoryParam = "category"
)

// FilterParams renders f as URL parameters for Build.
func FilterParams(f domain.SearchFilters) map[string]string {
	return map[string]string{
		TermParam:     f.Term,
		CarTypeParam:  f.CarType,
		ModelParam:    f.Model,
		CategoryParam: f.PartCategory,
	}
}

// FiltersFromParams is the inverse of FilterParams.
func FiltersFromParams(p map[string]string) domain.SearchFilters {
	return domain.SearchFilters{
		Term:         p[TermParam],
		CarType:      p[CarTypeParam],
		Model:        p[ModelParam],
		PartCategory: p[CategoryParam],
	}
}
