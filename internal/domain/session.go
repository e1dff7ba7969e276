package domain

// Session is the authenticated identity of a browser context.
type Session struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
	Phone  string `json:"phone,omitempty"`
	// Extra carries profile attributes edited on the profile page
	// (address, city, company, ...).
	Extra map[string]string `json:"extra,omitempty"`
}

// Merge overlays s on top of prev. Non-empty fields of s win; empty ones keep
// prev's value, so a partial update never erases saved attributes. prev is
// ignored when it belongs to another identity.
func (s Session) Merge(prev *Session) Session {
	if prev == nil || prev.UserID != s.UserID {
		return s.clone()
	}
	out := prev.clone()
	if s.Name != "" {
		out.Name = s.Name
	}
	if s.Email != "" {
		out.Email = s.Email
	}
	if s.Role != "" {
		out.Role = s.Role
	}
	if s.Avatar != "" {
		out.Avatar = s.Avatar
	}
	if s.Phone != "" {
		out.Phone = s.Phone
	}
	for k, v := range s.Extra {
		if k == "" || v == "" {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]string, len(s.Extra))
		}
		out.Extra[k] = v
	}
	return out
}

func (s Session) clone() Session {
	if s.Extra == nil {
		return s
	}
	extra := make(map[string]string, len(s.Extra))
	for k, v := range s.Extra {
		extra[k] = v
	}
	s.Extra = extra
	return s
}
