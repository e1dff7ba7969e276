// Package nav is the navigation and session engine of a browser context.
//
// An Engine is the single authority on which page is active, how the user
// got there, who is signed in and what is in the cart and wishlist. Pages
// read its Snapshot and change it only through its methods. Every change is
// written through to the context's scoped store; reads happen once, in
// Rehydrate, and each key is restored independently so one corrupt value
// never blocks the others.
package nav

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/locale"
	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/routes"
	"autoparts.dev/storefront/internal/store"
)

// State is the navigation state. Previous always equals the top of History
// when History is not empty; it is only set with an empty History right
// after Rehydrate, when it names the page left before the reload.
type State struct {
	Current  string   `json:"current"`
	History  []string `json:"history"`
	Previous string   `json:"previous,omitempty"`
	ReturnTo string   `json:"return_to,omitempty"`
}

func (s State) clone() State {
	s.History = slices.Clone(s.History)
	if s.History == nil {
		s.History = []string{}
	}
	return s
}

// Transition describes the outcome of Navigate or GoBack.
type Transition struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Requested string   `json:"requested"`
	Decision  Decision `json:"decision"`
	Moved     bool     `json:"moved"`
}

// Options configures an Engine.
type Options struct {
	// Routes defaults to routes.Storefront.
	Routes *routes.Table
	// Global holds identity-wide keys (stored profiles). Defaults to the
	// scoped store itself, which keeps profiles per context.
	Global store.Store
	// Bus, when set, lets locale preferences be watched by other views.
	Bus *store.Bus
	// MaxQuantity caps cart lines without their own limit.
	MaxQuantity int
	// DefaultLocale applies when neither preference nor URL names one.
	DefaultLocale locale.Lang
}

// Engine owns the state of one browser context. It is safe for concurrent
// use by several tabs.
type Engine struct {
	scoped *store.Scoped
	global store.Store
	routes *routes.Table
	maxQty int
	prefs  *locale.Preferences
	log    *zap.Logger

	mu       sync.Mutex
	state    State
	session  *domain.Session
	cart     domain.Cart
	wishlist domain.Wishlist
	filters  domain.SearchFilters
}

// NewEngine creates an engine over the scoped store of a context. The engine
// starts on the home page with no session; call Rehydrate to restore
// persisted state.
func NewEngine(scoped *store.Scoped, opts Options) *Engine {
	if opts.Routes == nil {
		opts.Routes = routes.Storefront
	}
	if opts.Global == nil {
		opts.Global = scoped
	}
	if opts.MaxQuantity <= 0 {
		opts.MaxQuantity = domain.DefaultMaxQuantity
	}
	return &Engine{
		scoped:   scoped,
		global:   opts.Global,
		routes:   opts.Routes,
		maxQty:   opts.MaxQuantity,
		prefs:    locale.NewPreferences(scoped, opts.Bus, opts.DefaultLocale),
		log:      logger.Named("nav").With(zap.String("context_id", scoped.ContextID())),
		state:    State{Current: opts.Routes.Fallback().Key, History: []string{}},
		cart:     domain.Cart{},
		wishlist: domain.Wishlist{},
	}
}

// ContextID returns the browser context the engine belongs to.
func (e *Engine) ContextID() string {
	return e.scoped.ContextID()
}

// Locale returns the language preferences of the context.
func (e *Engine) Locale() *locale.Preferences {
	return e.prefs
}

// Routes returns the page table the engine guards with.
func (e *Engine) Routes() *routes.Table {
	return e.routes
}

// Rehydrate restores session, cart, wishlist and the page markers from the
// store. A missing or unreadable key leaves its default in place.
func (e *Engine) Rehydrate(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var sess domain.Session
	if store.LoadJSON(ctx, e.scoped, store.KeySession, &sess) {
		if sess.UserID != "" && sess.Role.Valid() {
			e.session = &sess
		} else {
			e.log.Warn("Stored session invalid, ignoring", zap.String("role", string(sess.Role)))
		}
	}

	var cart domain.Cart
	if store.LoadJSON(ctx, e.scoped, store.KeyCart, &cart) {
		e.cart = cart.Normalize(e.maxQty)
	}

	var wishlist domain.Wishlist
	if store.LoadJSON(ctx, e.scoped, store.KeyWishlist, &wishlist) {
		e.wishlist = wishlist.Normalize()
	}

	var previous string
	if store.LoadJSON(ctx, e.scoped, store.KeyPreviousPage, &previous) && e.routes.Has(previous) {
		e.state.Previous = previous
	}

	var page string
	if store.LoadJSON(ctx, e.scoped, store.KeyPage, &page) && e.routes.Has(page) {
		e.restoreLocked(page)
	}

	e.log.Debug("Context rehydrated",
		zap.Bool("signed_in", e.session != nil),
		zap.Int("cart_lines", len(e.cart)),
		zap.Int("wishlist", len(e.wishlist)),
		zap.String("page", e.state.Current),
	)
}

// restoreLocked shows page without touching history, as a reload or an
// opened link does. The guard still applies.
func (e *Engine) restoreLocked(page string) Decision {
	desc, _ := e.routes.Lookup(page)
	dec := Guard(desc, e.session)
	if dec.Outcome == RedirectLogin {
		e.state.ReturnTo = dec.ReturnTo
	}
	e.state.Current = dec.Target
	return dec
}

// Restore shows page as the current page without pushing history, for a
// reloaded or shared URL. Unknown pages resolve to home.
func (e *Engine) Restore(ctx context.Context, page string) Transition {
	e.mu.Lock()
	defer e.mu.Unlock()

	from := e.state.Current
	dec := e.restoreLocked(page)
	e.filters = domain.SearchFilters{}
	e.persistPageLocked(ctx)
	return Transition{From: from, To: e.state.Current, Requested: page, Decision: dec, Moved: from != e.state.Current}
}

// Navigate opens page. The current page is pushed onto history and becomes
// Previous; the guard decides what is actually shown. Unknown pages resolve
// to home. A Previous restored by Rehydrate is pushed beneath the current
// page first, so going back twice still reaches it.
func (e *Engine) Navigate(ctx context.Context, page string) Transition {
	return e.NavigateWith(ctx, page, domain.SearchFilters{})
}

// NavigateWith is Navigate handing filters to the next page. Filters of the
// previous navigation are discarded.
func (e *Engine) NavigateWith(ctx context.Context, page string, filters domain.SearchFilters) Transition {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.navigateLocked(ctx, page, filters)
}

func (e *Engine) navigateLocked(ctx context.Context, page string, filters domain.SearchFilters) Transition {
	desc, known := e.routes.Lookup(page)
	if !known {
		e.log.Debug("Unknown page, using fallback", zap.String("page", page), zap.String("fallback", desc.Key))
	}
	dec := Guard(desc, e.session)

	from := e.state.Current
	if len(e.state.History) == 0 && e.state.Previous != "" {
		// Keep the fallback restored by Rehydrate reachable by GoBack.
		e.state.History = append(e.state.History, e.state.Previous)
	}
	e.state.History = append(e.state.History, from)
	e.state.Previous = from
	e.state.Current = dec.Target
	if dec.Outcome == RedirectLogin {
		e.state.ReturnTo = dec.ReturnTo
	}
	e.filters = filters
	e.persistPageLocked(ctx)

	if dec.Outcome != Allow {
		e.log.Info("Navigation redirected",
			zap.String("requested", page),
			zap.String("outcome", string(dec.Outcome)),
			zap.String("target", dec.Target),
		)
	}
	return Transition{From: from, To: dec.Target, Requested: page, Decision: dec, Moved: true}
}

// GoBack returns to the page before the current one. With an empty history
// it falls back once to the Previous page restored by Rehydrate; with
// neither it stays put and Moved is false. The guard applies to the page
// being returned to.
func (e *Engine) GoBack(ctx context.Context) Transition {
	e.mu.Lock()
	defer e.mu.Unlock()

	from := e.state.Current
	var target string
	switch n := len(e.state.History); {
	case n > 0:
		target = e.state.History[n-1]
		e.state.History = e.state.History[:n-1]
		e.state.Previous = ""
		if n > 1 {
			e.state.Previous = e.state.History[n-2]
		}
	case e.state.Previous != "":
		target = e.state.Previous
		e.state.Previous = ""
	default:
		return Transition{From: from, To: from, Decision: Decision{Outcome: Allow, Target: from}}
	}

	desc, _ := e.routes.Lookup(target)
	dec := Guard(desc, e.session)
	e.state.Current = dec.Target
	if dec.Outcome == RedirectLogin {
		e.state.ReturnTo = dec.ReturnTo
	}
	e.filters = domain.SearchFilters{}
	e.persistPageLocked(ctx)
	return Transition{From: from, To: dec.Target, Requested: target, Decision: dec, Moved: true}
}

func (e *Engine) persistPageLocked(ctx context.Context) {
	store.SaveJSON(ctx, e.scoped, store.KeyPage, e.state.Current)
	if e.state.Previous == "" {
		store.RemoveQuiet(ctx, e.scoped, store.KeyPreviousPage)
		return
	}
	store.SaveJSON(ctx, e.scoped, store.KeyPreviousPage, e.state.Previous)
}

// State returns a copy of the navigation state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Current returns the descriptor of the page being shown.
func (e *Engine) Current() routes.Descriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, _ := e.routes.Lookup(e.state.Current)
	return d
}

// Filters returns the filters handed to the current page.
func (e *Engine) Filters() domain.SearchFilters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// SetFilters replaces the filters of the current page, as a search box on
// the page itself does.
func (e *Engine) SetFilters(f domain.SearchFilters) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters = f
}
