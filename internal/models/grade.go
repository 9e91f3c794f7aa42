package models

// Score bounds for a grade cell.
const (
	MinScore = 0
	MaxScore = 100
)

// Grade is a single (assessment, student) grade cell.
type Grade struct {
	AssessmentID int64  `json:"assessment_id"`
	StudentID    string `json:"student_id"`
	Score        int    `json:"score"`
}

// GradeStatus describes a student's standing on an assessment.
type GradeStatus string

const (
	GradeStatusPending GradeStatus = "pending"
	GradeStatusGraded  GradeStatus = "graded"
)
