package nav

import (
	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/routes"
)

// Outcome is the verdict of the route guard.
type Outcome string

const (
	Allow         Outcome = "allow"
	RedirectLogin Outcome = "redirect_login"
	RedirectHome  Outcome = "redirect_home"
)

// Decision is the result of Guard. Target is the page to show; ReturnTo is
// set only for RedirectLogin and names the page the user asked for.
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Target   string  `json:"target"`
	ReturnTo string  `json:"return_to,omitempty"`
}

// Guard applies the policy of d to session, which is nil when signed out.
// Signed-out users are sent to login for pages that need a session; signed-in
// users whose role is not allowed are sent home. Guard never redirects to a
// page it would itself reject, so evaluating it again on its own target
// always allows.
func Guard(d routes.Descriptor, session *domain.Session) Decision {
	if !d.RequiresAuth {
		return Decision{Outcome: Allow, Target: d.Key}
	}
	if session == nil {
		return Decision{Outcome: RedirectLogin, Target: routes.Login, ReturnTo: d.Key}
	}
	if !d.Allows(session.Role) {
		return Decision{Outcome: RedirectHome, Target: routes.Home}
	}
	return Decision{Outcome: Allow, Target: d.Key}
}
