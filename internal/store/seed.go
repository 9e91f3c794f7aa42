package store

import "github.com/ttc-bicumbi/portal/internal/models"

// DemoDomain returns the records a fresh portal starts with when demo data
// is enabled.
func DemoDomain() Domain {
	return NewDomain(nil, []models.Assessment{{
		ID:           1,
		Name:         "Algebra Quiz",
		ClassName:    "S4 Math",
		AssignedTo:   []string{"S123", models.AssignAll},
		Kind:         models.KindQuiz,
		DueDate:      models.MustDate("2024-12-01"),
		Instructions: "Solve all.",
	}})
}
