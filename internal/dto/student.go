package dto

import (
	"bytes"
	"encoding/json"

	"github.com/ttc-bicumbi/portal/internal/models"
)

// RawScore is the score input exactly as typed. JSON numbers and strings are
// both accepted; parsing is left to the grading rules.
type RawScore string

// UnmarshalJSON keeps the literal text of non-string values.
func (r *RawScore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RawScore(s)
		return nil
	}
	*r = RawScore(data)
	return nil
}

// ScoreRequest is the student's score submission.
type ScoreRequest struct {
	Score RawScore `json:"score" form:"score"`
}

// StudentAssessment is an assessment as seen by one student.
type StudentAssessment struct {
	models.Assessment
	Status models.GradeStatus `json:"status"`
	Score  *int               `json:"score,omitempty"`
}

// StudentDashboard lists lessons and the assessments relevant to a student.
type StudentDashboard struct {
	StudentID   string              `json:"student_id"`
	Lessons     []models.Lesson     `json:"lessons"`
	Assessments []StudentAssessment `json:"assessments"`
}
