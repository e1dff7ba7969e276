package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts.dev/storefront/internal/catalog"
	"autoparts.dev/storefront/internal/locale"
	"autoparts.dev/storefront/internal/routes"
)

// ProductView is a product with its name in the active language.
type ProductView struct {
	catalog.Product
	Name    string `json:"name"`
	InStock bool   `json:"in_stock"`
}

func productView(p catalog.Product, l locale.Lang) ProductView {
	return ProductView{Product: p, Name: p.Name(string(l)), InStock: p.InStock()}
}

// ListProducts handles GET /products. Without filter parameters the filters
// handed to the current page by the last navigation apply.
func (s *Server) ListProducts(c *gin.Context) {
	params := make(map[string]string)
	for k, vs := range c.Request.URL.Query() {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	filters := routes.FiltersFromParams(params)
	if filters.IsZero() {
		filters = engine(c).Filters()
	}

	l := lang(c)
	found := s.catalog.Search(filters)
	out := make([]ProductView, 0, len(found))
	for _, p := range found {
		out = append(out, productView(p, l))
	}
	c.JSON(http.StatusOK, gin.H{"filters": filters, "products": out})
}

// GetProduct handles GET /products/:id.
func (s *Server) GetProduct(c *gin.Context) {
	p, err := s.catalog.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, productView(p, lang(c)))
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Categories())
}
