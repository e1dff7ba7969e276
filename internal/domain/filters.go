package domain

// SearchFilters is handed from one page to the next (for example a category
// tile on the home page opening a pre-filtered product list). It is never
// persisted.
type SearchFilters struct {
	Term         string `json:"term,omitempty"`
	CarType      string `json:"car_type,omitempty"`
	Model        string `json:"model,omitempty"`
	PartCategory string `json:"part_category,omitempty"`
}

// IsZero reports whether no filter is set.
func (f SearchFilters) IsZero() bool {
	return f == SearchFilters{}
}
