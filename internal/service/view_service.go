package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ttc-bicumbi/portal/internal/dto"
	"github.com/ttc-bicumbi/portal/internal/models"
	"github.com/ttc-bicumbi/portal/internal/store"
	appErrors "github.com/ttc-bicumbi/portal/pkg/errors"
)

var viewLabels = map[models.View]string{
	models.ViewHome:             "Home",
	models.ViewAbout:            "About Us",
	models.ViewCommunication:    "Communication",
	models.ViewNews:             "News & Updates",
	models.ViewForum:            "Forum",
	models.ViewTeacherDashboard: "Teacher Dashboard",
	models.ViewStudentDashboard: "Student Dashboard",
	models.ViewApply:            "Apply Online",
	models.ViewContact:          "Contact Us",
}

var pages = map[models.View]dto.Page{
	models.ViewHome: {
		View:     models.ViewHome,
		Title:    "Welcome to TTC Bicumbi Community!",
		Summary:  "Connecting teachers, students and parents of TTC Bicumbi in one place.",
		Sections: []string{"Platform Features", "Announcements"},
	},
	models.ViewAbout: {
		View:     models.ViewAbout,
		Title:    "About TTC Bicumbi",
		Summary:  "A teacher training college preparing the next generation of educators.",
		Sections: []string{"Our Mission", "Our Values"},
	},
	models.ViewCommunication: {
		View:     models.ViewCommunication,
		Title:    "Communication Hub",
		Summary:  "Send a message to a teacher, student or the administration.",
		Sections: []string{"To", "Subject", "Message"},
	},
	models.ViewNews: {
		View:    models.ViewNews,
		Title:   "News & Updates",
		Summary: "School news, events and announcements.",
	},
	models.ViewForum: {
		View:     models.ViewForum,
		Title:    "Community Forum",
		Summary:  "Discuss school life with the TTC Bicumbi community.",
		Sections: []string{"Guidelines", "Meeting Platform", "Recent Topics"},
	},
	models.ViewApply: {
		View:     models.ViewApply,
		Title:    "Apply Online",
		Summary:  "Apply to study or work at TTC Bicumbi.",
		Sections: []string{"Student", "Staff"},
	},
	models.ViewContact: {
		View:    models.ViewContact,
		Title:   "Contact Us",
		Summary: "Reach the TTC Bicumbi administration.",
	},
}

// ViewService is the access-controlled view router.
type ViewService struct {
	store   *store.Store
	metrics *MetricsService
	logger  *zap.Logger
}

// NewViewService constructs a ViewService.
func NewViewService(st *store.Store, metrics *MetricsService, logger *zap.Logger) *ViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewService{store: st, metrics: metrics, logger: logger}
}

// Navigate moves the session to the requested view. Dashboards are gated on
// their role; a rejected request leaves the current view in place.
func (s *ViewService) Navigate(ctx context.Context, raw string) (models.View, error) {
	view, ok := models.ParseView(raw)
	if !ok {
		s.metrics.RecordNavigation("unknown", false)
		return "", appErrors.Clone(appErrors.ErrNotFound, "unknown view")
	}

	snap, err := s.store.Update(func(current store.Snapshot, _ func() int64) (store.Snapshot, error) {
		if !current.Session.Entered() {
			return current, appErrors.Clone(appErrors.ErrUnauthorized, "enter the portal first")
		}
		if role, gated := view.RequiredRole(); gated && current.Session.Role() != role {
			return current, appErrors.RoleRequired(string(role))
		}
		current.Session = current.Session.WithView(view)
		return current, nil
	})
	if err != nil {
		s.metrics.RecordNavigation(string(view), false)
		s.logger.Info("navigation rejected",
			zap.String("view", string(view)),
			zap.String("role", string(snap.Session.Role())),
			zap.String("current_view", string(snap.Session.View)),
		)
		return snap.Session.View, err
	}
	s.metrics.RecordNavigation(string(view), true)
	return snap.Session.View, nil
}

// Views lists the navigation entries for the current session.
func (s *ViewService) Views() []dto.ViewInfo {
	current := s.store.Snapshot().Session.View
	infos := make([]dto.ViewInfo, 0, len(models.NavigableViews))
	for _, v := range models.NavigableViews {
		info := dto.ViewInfo{View: v, Label: viewLabels[v], Current: v == current}
		if role, gated := v.RequiredRole(); gated {
			r := role
			info.RequiredRole = &r
		}
		infos = append(infos, info)
	}
	return infos
}

// Page returns the summary of an informational view. Dashboards are served
// by their own endpoints and are not pages.
func (s *ViewService) Page(raw string) (dto.Page, error) {
	view, ok := models.ParseView(raw)
	if !ok {
		return dto.Page{}, appErrors.Clone(appErrors.ErrNotFound, "unknown view")
	}
	page, ok := pages[view]
	if !ok {
		return dto.Page{}, appErrors.Clone(appErrors.ErrNotFound, "view has no page content")
	}
	page.Sections = append([]string(nil), page.Sections...)
	return page, nil
}
