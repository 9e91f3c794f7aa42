package store

import "github.com/ttc-bicumbi/portal/internal/models"

// Domain holds lessons, assessments and grades. Every With* method returns a
// new value; slices held by an existing Domain are never written to.
type Domain struct {
	lessons     []models.Lesson
	assessments []models.Assessment
	grades      GradeTable
}

// NewDomain builds a domain from seed records.
func NewDomain(lessons []models.Lesson, assessments []models.Assessment) Domain {
	d := Domain{}
	d.lessons = append(d.lessons, lessons...)
	for _, a := range assessments {
		d.assessments = append(d.assessments, cloneAssessment(a))
	}
	return d
}

// Lessons returns the lessons in insertion order.
func (d Domain) Lessons() []models.Lesson {
	out := make([]models.Lesson, len(d.lessons))
	copy(out, d.lessons)
	return out
}

// Assessments returns the assessments in insertion order.
func (d Domain) Assessments() []models.Assessment {
	out := make([]models.Assessment, len(d.assessments))
	for i, a := range d.assessments {
		out[i] = cloneAssessment(a)
	}
	return out
}

// Assessment looks an assessment up by id.
func (d Domain) Assessment(id int64) (models.Assessment, bool) {
	for _, a := range d.assessments {
		if a.ID == id {
			return cloneAssessment(a), true
		}
	}
	return models.Assessment{}, false
}

// Grades returns the grade table.
func (d Domain) Grades() GradeTable {
	return d.grades
}

// WithLesson appends a lesson.
func (d Domain) WithLesson(l models.Lesson) Domain {
	lessons := make([]models.Lesson, len(d.lessons), len(d.lessons)+1)
	copy(lessons, d.lessons)
	d.lessons = append(lessons, l)
	return d
}

// WithAssessment appends an assessment.
func (d Domain) WithAssessment(a models.Assessment) Domain {
	assessments := make([]models.Assessment, len(d.assessments), len(d.assessments)+1)
	copy(assessments, d.assessments)
	d.assessments = append(assessments, cloneAssessment(a))
	return d
}

// WithoutAssessment removes the assessment with the given id. The second
// return value is false when no such assessment existed. Grade cells for the
// id are left in place.
func (d Domain) WithoutAssessment(id int64) (Domain, bool) {
	idx := -1
	for i, a := range d.assessments {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d, false
	}
	assessments := make([]models.Assessment, 0, len(d.assessments)-1)
	assessments = append(assessments, d.assessments[:idx]...)
	assessments = append(assessments, d.assessments[idx+1:]...)
	d.assessments = assessments
	return d, true
}

// WithGrade records a grade cell.
func (d Domain) WithGrade(assessmentID int64, studentID string, score int) Domain {
	d.grades = d.grades.With(assessmentID, studentID, score)
	return d
}

func cloneAssessment(a models.Assessment) models.Assessment {
	assigned := make([]string, len(a.AssignedTo))
	copy(assigned, a.AssignedTo)
	a.AssignedTo = assigned
	return a
}
