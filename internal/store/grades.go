package store

import (
	"sort"

	"github.com/ttc-bicumbi/portal/internal/models"
)

// GradeTable maps assessment id → student id → score. Values are immutable:
// With returns a new table sharing every row except the one it touches.
type GradeTable struct {
	rows map[int64]map[string]int
}

// Score returns the recorded score for the cell, if any.
func (g GradeTable) Score(assessmentID int64, studentID string) (int, bool) {
	score, ok := g.rows[assessmentID][studentID]
	return score, ok
}

// With returns a copy of the table with the cell set.
func (g GradeTable) With(assessmentID int64, studentID string, score int) GradeTable {
	rows := make(map[int64]map[string]int, len(g.rows)+1)
	for id, row := range g.rows {
		rows[id] = row
	}
	row := make(map[string]int, len(g.rows[assessmentID])+1)
	for sid, s := range g.rows[assessmentID] {
		row[sid] = s
	}
	row[studentID] = score
	rows[assessmentID] = row
	return GradeTable{rows: rows}
}

// Row lists the grades recorded for an assessment ordered by student id.
func (g GradeTable) Row(assessmentID int64) []models.Grade {
	row := g.rows[assessmentID]
	grades := make([]models.Grade, 0, len(row))
	for sid, score := range row {
		grades = append(grades, models.Grade{AssessmentID: assessmentID, StudentID: sid, Score: score})
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].StudentID < grades[j].StudentID })
	return grades
}

// Count returns how many cells exist for the assessment.
func (g GradeTable) Count(assessmentID int64) int {
	return len(g.rows[assessmentID])
}

// Len returns the total number of cells.
func (g GradeTable) Len() int {
	total := 0
	for _, row := range g.rows {
		total += len(row)
	}
	return total
}
