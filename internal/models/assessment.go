package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AssignAll is the assignee sentinel that makes an assessment visible to every student.
const AssignAll = "all"

// DateLayout is the wire format of assessment due dates.
const DateLayout = "2006-01-02"

// AssessmentKind enumerates assessment types.
type AssessmentKind string

const (
	KindQuiz       AssessmentKind = "quiz"
	KindAssignment AssessmentKind = "assignment"
	KindExam       AssessmentKind = "exam"
)

// Assessment is a quiz, assignment or exam published by a teacher.
type Assessment struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	ClassName    string         `json:"class_name"`
	AssignedTo   []string       `json:"assigned_to"`
	Kind         AssessmentKind `json:"kind"`
	DueDate      Date           `json:"due_date"`
	Instructions string         `json:"instructions"`
}

// IsRelevantTo reports whether the assessment is assigned to the student,
// either directly or through the "all" sentinel.
func (a Assessment) IsRelevantTo(studentID string) bool {
	for _, assignee := range a.AssignedTo {
		if assignee == AssignAll || (studentID != "" && assignee == studentID) {
			return true
		}
	}
	return false
}

// ParseAssignees splits a comma separated assignee list, trimming each entry
// and dropping empty ones.
func ParseAssignees(raw string) []string {
	parts := strings.Split(raw, ",")
	assignees := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			assignees = append(assignees, trimmed)
		}
	}
	return assignees
}

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return Date{Time: t}, nil
}

// MustDate parses a date and panics on failure. Intended for fixtures.
func MustDate(raw string) Date {
	d, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON renders the date as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
