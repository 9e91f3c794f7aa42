package store

import "github.com/ttc-bicumbi/portal/internal/models"

// Session is the single process-wide portal session. The zero value is the
// welcome state: nobody has entered yet.
type Session struct {
	ID       string
	Identity *models.Identity
	View     models.View
}

// WelcomeSession returns the pre-entry session.
func WelcomeSession() Session {
	return Session{View: models.ViewWelcome}
}

// Entered reports whether an identity holds the session.
func (s Session) Entered() bool {
	return s.Identity != nil && s.ID != ""
}

// Role returns the active role, or "" in the welcome state.
func (s Session) Role() models.Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// Enter returns a session held by identity, positioned on its landing view.
func Enter(id string, identity models.Identity) Session {
	return Session{ID: id, Identity: &identity, View: models.LandingView(identity.Role)}
}

// WithView returns a copy of the session positioned on view.
func (s Session) WithView(view models.View) Session {
	s.View = view
	return s
}
