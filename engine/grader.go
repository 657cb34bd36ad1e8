// --- areaquiz-server/engine/grader.go ---
package engine

import (
	"fmt"
	"strconv"
	"time"

	"areaquiz-server/ontology"
)

// Grader grades submissions against the store and records the resulting
// attempts. Tolerances are fixed at construction.
type Grader struct {
	store  *ontology.Store
	relTol float64
	absTol float64
	now    func() time.Time
}

func NewGrader(st *ontology.Store, relTol, absTol float64) *Grader {
	return &Grader{store: st, relTol: relTol, absTol: absTol, now: time.Now}
}

// NewGraderWithClock is test-only for deterministic attempt names.
func NewGraderWithClock(st *ontology.Store, relTol, absTol float64, now func() time.Time) *Grader {
	g := NewGrader(st, relTol, absTol)
	g.now = now
	return g
}

// Grade compares a submitted answer against the problem's correct answer.
// ErrCannotGrade is returned when no correct answer is available at all.
func (g *Grader) Grade(prob *ontology.Individual, answer float64) (bool, float64, error) {
	expected, err := CorrectAnswer(g.store, prob)
	if err != nil {
		return false, 0, err
	}
	return ApproxEqual(answer, expected, g.relTol, g.absTol), expected, nil
}

// RecordAttempt appends a graded attempt to the store: the student is created
// on first sight, the attempt is linked to problem and student, the student's
// score and mastery are updated, and the computed answer is cached on the
// problem when missing. The caller is responsible for saving the store.
//
// Mastery is recomputed as score / max(1, attempts) where the count includes
// the attempt being recorded.
func (g *Grader) RecordAttempt(prob *ontology.Individual, studentName string, answer, expected float64, correct bool) (attemptName string, score int, mastery float64, err error) {
	st := g.store

	student, lookupErr := st.GetIndividual(studentName)
	if lookupErr != nil {
		student, err = st.NewIndividual("Student", studentName)
		if err != nil {
			return "", 0, 0, fmt.Errorf("failed to create student %s: %w", studentName, err)
		}
		st.SetAttr(student, PropStudentScore, "0")
		st.SetAttr(student, PropMasteryLevel, "0")
	}

	timestamp := g.now().UTC().Format("20060102T150405")
	attemptName = fmt.Sprintf("Attempt_%s_%s_%s", student.Name, prob.Name, timestamp)
	attempt, err := st.NewIndividual("Attempt", attemptName)
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to create attempt: %w", err)
	}
	st.SetRef(attempt, PropAttemptOf, prob.Name)
	st.SetAttr(attempt, PropHasAnswer, formatFloat(answer))
	st.SetAttr(attempt, PropIsCorrect, strconv.FormatBool(correct))
	st.AppendRef(student, PropAttempts, attemptName)

	if raw, ok := st.AttrFirst(student, PropStudentScore); ok {
		score, _ = strconv.Atoi(raw)
	}
	if correct {
		score++
	}
	// Attempt count after appending the current one; the floor of 1 keeps the
	// ratio defined even for an empty attempt list.
	numAttempts := len(st.RefNames(student, PropAttempts))
	mastery = float64(score) / float64(max(1, numAttempts))
	st.SetAttr(student, PropStudentScore, strconv.Itoa(score))
	st.SetAttr(student, PropMasteryLevel, formatFloat(mastery))

	if _, ok := st.AttrFirst(prob, PropCorrectAnswer); !ok {
		st.SetAttr(prob, PropCorrectAnswer, formatFloat(expected))
	}
	return attemptName, score, mastery, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
