package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/locale"
	"autoparts.dev/storefront/internal/nav"
	"autoparts.dev/storefront/internal/routes"
)

// StateView is the engine snapshot plus what the shell needs to render it.
type StateView struct {
	nav.Snapshot
	Lang      locale.Lang `json:"lang"`
	Direction string      `json:"direction"`
	URL       string      `json:"url"`
}

// TransitionView answers navigation requests.
type TransitionView struct {
	Transition nav.Transition `json:"transition"`
	State      StateView      `json:"state"`
}

func stateView(e *nav.Engine, l locale.Lang) StateView {
	snap := e.Snapshot()
	params := routes.FilterParams(snap.Filters)
	return StateView{
		Snapshot:  snap,
		Lang:      l,
		Direction: l.Direction(),
		URL:       routes.Build(string(l), snap.Page.Key, params),
	}
}

func transitionView(c *gin.Context, e *nav.Engine, tr nav.Transition) TransitionView {
	return TransitionView{Transition: tr, State: stateView(e, lang(c))}
}

// GetState handles GET /state.
func (s *Server) GetState(c *gin.Context) {
	e := engine(c)
	c.JSON(http.StatusOK, stateView(e, lang(c)))
}

// RestorePage handles GET /page?url=, opening a reloaded or shared URL: the
// locale segment applies unless a preference is stored, the page is shown
// without pushing history and its filters are handed to it.
func (s *Server) RestorePage(c *gin.Context) {
	e := engine(c)
	ctx := c.Request.Context()
	loc := routes.Parse(c.Query("url"))

	l := e.Locale().Resolve(ctx, loc.Lang)
	tr := e.Restore(ctx, loc.Page)
	if tr.Decision.Outcome == nav.Allow {
		e.SetFilters(routes.FiltersFromParams(loc.Params))
	}
	c.JSON(http.StatusOK, TransitionView{Transition: tr, State: stateView(e, l)})
}

type navigateRequest struct {
	Page    string               `json:"page" binding:"required"`
	Filters domain.SearchFilters `json:"filters"`
}

// Navigate handles POST /nav/navigate.
func (s *Server) Navigate(c *gin.Context) {
	var req navigateRequest
	if !bindJSON(c, &req) {
		return
	}
	e := engine(c)
	tr := e.NavigateWith(c.Request.Context(), req.Page, req.Filters)
	c.JSON(http.StatusOK, transitionView(c, e, tr))
}

// GoBack handles POST /nav/back.
func (s *Server) GoBack(c *gin.Context) {
	e := engine(c)
	tr := e.GoBack(c.Request.Context())
	c.JSON(http.StatusOK, transitionView(c, e, tr))
}
