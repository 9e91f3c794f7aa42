package dto

import "github.com/ttc-bicumbi/portal/internal/models"

// LessonRequest is the lesson-creation form.
type LessonRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	ClassName   string `json:"class_name" form:"class_name" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
}

// AssessmentRequest is the assessment-creation form. AssignedTo is the raw
// comma separated list of student identifiers or "all".
type AssessmentRequest struct {
	Name         string `json:"name" form:"name" validate:"required"`
	ClassName    string `json:"class_name" form:"class_name" validate:"required"`
	AssignedTo   string `json:"assigned_to" form:"assigned_to" validate:"required"`
	Kind         string `json:"kind" form:"kind" validate:"omitempty,oneof=quiz assignment exam"`
	DueDate      string `json:"due_date" form:"due_date" validate:"required,datetime=2006-01-02"`
	Instructions string `json:"instructions" form:"instructions"`
}

// TeacherDashboard lists everything a teacher manages.
type TeacherDashboard struct {
	Lessons     []models.Lesson     `json:"lessons"`
	Assessments []models.Assessment `json:"assessments"`
}

// GradeSheet lists the grades recorded for one assessment.
type GradeSheet struct {
	Assessment models.Assessment `json:"assessment"`
	Grades     []models.Grade    `json:"grades"`
	Average    *float64          `json:"average,omitempty"`
}
