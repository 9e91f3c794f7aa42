package models

// View names a portal screen.
type View string

const (
	// ViewWelcome precedes every other view until the user logs in or enters as guest.
	ViewWelcome          View = "welcome"
	ViewHome             View = "home"
	ViewAbout            View = "about"
	ViewCommunication    View = "communication"
	ViewNews             View = "news"
	ViewForum            View = "forum"
	ViewTeacherDashboard View = "teacher-dashboard"
	ViewStudentDashboard View = "student-dashboard"
	ViewApply            View = "apply"
	ViewContact          View = "contact"
)

// NavigableViews lists the views reachable after entry, in navigation order.
var NavigableViews = []View{
	ViewHome,
	ViewAbout,
	ViewCommunication,
	ViewNews,
	ViewForum,
	ViewTeacherDashboard,
	ViewStudentDashboard,
	ViewApply,
	ViewContact,
}

// ParseView resolves a navigable view by name.
func ParseView(raw string) (View, bool) {
	for _, v := range NavigableViews {
		if string(v) == raw {
			return v, true
		}
	}
	return "", false
}

// RequiredRole returns the role a view is gated on, if any.
func (v View) RequiredRole() (Role, bool) {
	switch v {
	case ViewTeacherDashboard:
		return RoleTeacher, true
	case ViewStudentDashboard:
		return RoleStudent, true
	}
	return "", false
}

// LandingView is where an identity lands right after entering the portal.
func LandingView(role Role) View {
	switch role {
	case RoleTeacher:
		return ViewTeacherDashboard
	case RoleStudent:
		return ViewStudentDashboard
	}
	return ViewHome
}
