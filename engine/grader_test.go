package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"areaquiz-server/engine"
	"areaquiz-server/models"
	"areaquiz-server/ontology"
)

// fakeClock advances one second per call so attempt names stay unique.
func fakeClock() func() time.Time {
	t0 := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t0 = t0.Add(time.Second)
		return t0
	}
}

func newGrader(st *ontology.Store) *engine.Grader {
	return engine.NewGraderWithClock(st, engine.DefaultRelTolerance, engine.DefaultAbsTolerance, fakeClock())
}

func TestGradeAgainstComputedAnswer(t *testing.T) {
	st := newStore(t)
	g := newGrader(st)
	circle := mkProblem(t, st, "C", "Circle", engine.PropHasProblemDimension,
		models.Dimension{Name: "radius", Value: "2"})

	correct, expected, err := g.Grade(circle, 12.566)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.InDelta(t, 12.566, expected, 1e-3)

	correct, _, err = g.Grade(circle, 20)
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestGradeCannotGrade(t *testing.T) {
	st := newStore(t)
	g := newGrader(st)
	bare, err := st.NewIndividual("Problem", "B")
	require.NoError(t, err)

	_, _, err = g.Grade(bare, 1.0)
	assert.ErrorIs(t, err, engine.ErrCannotGrade)
}

func TestRecordAttemptMastery(t *testing.T) {
	st := newStore(t)
	g := newGrader(st)
	square := mkProblem(t, st, "S", "Square", engine.PropHasProblemDimension,
		models.Dimension{Name: "side", Value: "4"})

	// First attempt correct: mastery 1/1.
	_, score, mastery, err := g.RecordAttempt(square, "alice", 16, 16, true)
	require.NoError(t, err)
	assert.Equal(t, 1, score)
	assert.InDelta(t, 1.0, mastery, 1e-9)

	// Second attempt wrong: 1/2.
	_, score, mastery, err = g.RecordAttempt(square, "alice", 10, 16, false)
	require.NoError(t, err)
	assert.Equal(t, 1, score)
	assert.InDelta(t, 0.5, mastery, 1e-9)

	// Third attempt correct: 2 correct out of 3.
	_, score, mastery, err = g.RecordAttempt(square, "alice", 16.1, 16, true)
	require.NoError(t, err)
	assert.Equal(t, 2, score)
	assert.InDelta(t, 2.0/3.0, mastery, 1e-9)

	student, err := st.GetIndividual("alice")
	require.NoError(t, err)
	view := engine.StudentView(st, student)
	assert.Equal(t, 2, view.Score)
	assert.Equal(t, 3, view.Attempts)
	assert.InDelta(t, 2.0/3.0, view.Mastery, 1e-9)
}

func TestRecordAttemptLinksAndCachesAnswer(t *testing.T) {
	st := newStore(t)
	g := newGrader(st)
	square := mkProblem(t, st, "S", "Square", engine.PropHasProblemDimension,
		models.Dimension{Name: "side", Value: "4"})

	name, _, _, err := g.RecordAttempt(square, "bob", 15.9, 16, true)
	require.NoError(t, err)
	assert.Equal(t, "Attempt_bob_S_20260823T120001", name)

	attempt, err := st.GetIndividual(name)
	require.NoError(t, err)
	view := engine.AttemptView(st, attempt)
	assert.Equal(t, "S", view.Problem)
	assert.True(t, view.Correct)
	assert.Equal(t, "15.9", view.Answer)

	// The computed answer is cached on the problem once graded.
	cached, ok := st.AttrFirst(square, engine.PropCorrectAnswer)
	require.True(t, ok)
	assert.Equal(t, "16", cached)

	// An existing stored answer is left untouched.
	_, _, _, err = g.RecordAttempt(square, "bob", 17, 99, false)
	require.NoError(t, err)
	cached, _ = st.AttrFirst(square, engine.PropCorrectAnswer)
	assert.Equal(t, "16", cached)
}
