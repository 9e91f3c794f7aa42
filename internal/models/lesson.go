package models

// Lesson is a teacher-authored lesson. Lessons are immutable once created.
type Lesson struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ClassName   string `json:"class_name"`
	Description string `json:"description"`
}
