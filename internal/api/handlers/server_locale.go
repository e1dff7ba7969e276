package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts.dev/storefront/internal/locale"
)

// LocaleView describes the active language.
type LocaleView struct {
	Lang      locale.Lang `json:"lang"`
	Direction string      `json:"direction"`
	Stored    bool        `json:"stored"`
}

type setLocaleRequest struct {
	Lang string `json:"lang" binding:"required"`
}

// GetLocale handles GET /locale.
func (s *Server) GetLocale(c *gin.Context) {
	prefs := engine(c).Locale()
	_, stored := prefs.Stored(c.Request.Context())
	l := prefs.Resolve(c.Request.Context(), "")
	c.JSON(http.StatusOK, LocaleView{Lang: l, Direction: l.Direction(), Stored: stored})
}

// SetLocale handles PUT /locale. Other tabs of the context learn about the
// change through the event stream.
func (s *Server) SetLocale(c *gin.Context) {
	var req setLocaleRequest
	if !bindJSON(c, &req) {
		return
	}
	l, ok := locale.Parse(req.Lang)
	if !ok {
		fail(c, locale.ErrUnsupported)
		return
	}
	if err := engine(c).Locale().Set(c.Request.Context(), l); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, LocaleView{Lang: l, Direction: l.Direction(), Stored: true})
}

// GetTranslations handles GET /i18n/:lang with the full string table;
// keys missing in the language carry the other language's text.
func (s *Server) GetTranslations(c *gin.Context) {
	l, ok := locale.Parse(c.Param("lang"))
	if !ok {
		fail(c, locale.ErrUnsupported)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lang":      l,
		"direction": l.Direction(),
		"strings":   s.texts.Table(l),
	})
}
