package dto

import "github.com/ttc-bicumbi/portal/internal/models"

// ViewInfo describes a navigation entry.
type ViewInfo struct {
	View         models.View  `json:"view"`
	Label        string       `json:"label"`
	RequiredRole *models.Role `json:"required_role,omitempty"`
	Current      bool         `json:"current"`
}

// NavigationResponse reports the view after a navigation request.
type NavigationResponse struct {
	View models.View `json:"view"`
}

// Page is the summary of a static informational view.
type Page struct {
	View     models.View `json:"view"`
	Title    string      `json:"title"`
	Summary  string      `json:"summary"`
	Sections []string    `json:"sections,omitempty"`
}
