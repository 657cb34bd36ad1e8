// --- areaquiz-server/handlers/flows.go ---
package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"areaquiz-server/audit"
	"areaquiz-server/engine"
	"areaquiz-server/models"
	"areaquiz-server/ontology"
)

// AnonymousStudent is used when a submission carries no student name.
const AnonymousStudent = "Student_Anonymous"

var (
	errNotNumeric    = errors.New("value is not a valid number")
	errUnknownShape  = errors.New("unknown shape class")
	errMissingFields = errors.New("missing required fields")
)

// submitOutcome carries everything the page and API surfaces need to report a
// graded submission. SaveErr is set when the store could not be persisted; the
// in-memory state is then ahead of disk and is not rolled back.
type submitOutcome struct {
	Correct  bool
	Expected float64
	Student  string
	Score    int
	Mastery  float64
	Attempt  string
	SaveErr  error
}

// doSubmit validates and grades a submission, records the attempt and persists
// the store. A non-numeric answer or an ungradable problem returns before any
// mutation: no attempt is created and mastery is untouched.
func doSubmit(st *ontology.Store, g *engine.Grader, pool *pgxpool.Pool, problemName, studentRaw, answerRaw string) (*submitOutcome, error) {
	prob, err := st.GetIndividual(problemName)
	if err != nil {
		return nil, err
	}

	student := strings.TrimSpace(studentRaw)
	if student == "" {
		student = AnonymousStudent
	}
	answer, err := strconv.ParseFloat(strings.TrimSpace(answerRaw), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errNotNumeric, answerRaw)
	}

	correct, expected, err := g.Grade(prob, answer)
	if err != nil {
		return nil, err
	}

	attemptName, score, mastery, err := g.RecordAttempt(prob, student, answer, expected, correct)
	if err != nil {
		return nil, err
	}

	outcome := &submitOutcome{
		Correct:  correct,
		Expected: expected,
		Student:  student,
		Score:    score,
		Mastery:  mastery,
		Attempt:  attemptName,
	}
	if err := st.Save(); err != nil {
		log.Printf("ERROR: Failed to save ontology after attempt %s: %v", attemptName, err)
		audit.LogEvent(pool, "system", "persist_failed", problemName, err.Error())
		outcome.SaveErr = err
	}
	audit.LogEvent(pool, student, "attempt_graded", problemName,
		fmt.Sprintf("answer=%v correct=%v expected=%v", answer, correct, expected))
	return outcome, nil
}

// doCreateProblem validates a creation request fully before mutating the store:
// a duplicate name, unknown shape or non-numeric dimension value rejects the
// request with the store untouched. On success the problem, its shape instance
// and its dimensions are created, the answer is computed and cached when
// determinate, and the whole store is persisted.
func doCreateProblem(st *ontology.Store, pool *pgxpool.Pool, name, shapeName string, dims []models.DimensionInput) (*ontology.Individual, error, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(dims) == 0 {
		return nil, nil, fmt.Errorf("%w: problem name and first dimension are required", errMissingFields)
	}
	if _, err := st.GetIndividual(name); err == nil {
		return nil, nil, fmt.Errorf("%w: %s", ontology.ErrDuplicateIndividual, name)
	}
	if _, ok := models.ParseShapeKind(shapeName); !ok {
		return nil, nil, fmt.Errorf("%w: %s", errUnknownShape, shapeName)
	}
	if _, err := st.GetClass(shapeName); err != nil {
		return nil, nil, err
	}
	for _, d := range dims {
		if _, err := strconv.ParseFloat(strings.TrimSpace(d.Value), 64); err != nil {
			return nil, nil, fmt.Errorf("%w: %q", errNotNumeric, d.Value)
		}
	}

	prob, err := st.NewIndividual("Problem", name)
	if err != nil {
		return nil, nil, err
	}
	shapeInstName := fmt.Sprintf("%s_inst_%s", shapeName, name)
	if _, err := st.NewIndividual(shapeName, shapeInstName); err != nil {
		return nil, nil, fmt.Errorf("failed to create shape instance: %w", err)
	}
	st.SetRef(prob, engine.PropHasShape, shapeInstName)

	for i, d := range dims {
		dimName := strings.TrimSpace(d.Name)
		if dimName == "" {
			dimName = fmt.Sprintf("dim%d", i+1)
		}
		dimID := fmt.Sprintf("%s_dim%d", name, i+1)
		dim, err := st.NewIndividual("Dimension", dimID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create dimension: %w", err)
		}
		st.SetAttr(dim, engine.PropDimensionName, dimName)
		st.SetAttr(dim, engine.PropDimensionValue, strings.TrimSpace(d.Value))
		st.AppendRef(prob, engine.PropHasProblemDimension, dimID)
	}

	if v, err := engine.ComputeAnswer(st, prob); err == nil {
		st.SetAttr(prob, engine.PropCorrectAnswer, strconv.FormatFloat(v, 'g', -1, 64))
	}

	var saveErr error
	if err := st.Save(); err != nil {
		log.Printf("ERROR: Failed to save ontology after creating %s: %v", name, err)
		audit.LogEvent(pool, "system", "persist_failed", name, err.Error())
		saveErr = err
	}
	audit.LogEvent(pool, "system", "problem_created", name, fmt.Sprintf("shape=%s dims=%d", shapeName, len(dims)))
	return prob, saveErr, nil
}

// listProblems builds the listing views; store faults degrade to an empty list.
func listProblems(st *ontology.Store) []models.Problem {
	inds, err := st.InstancesOf("Problem")
	if err != nil {
		log.Printf("Error listing Problem instances: %v", err)
		return nil
	}
	views := make([]models.Problem, 0, len(inds))
	for _, ind := range inds {
		views = append(views, engine.ProblemView(st, ind))
	}
	return views
}

func listStudents(st *ontology.Store) []models.Student {
	inds, err := st.InstancesOf("Student")
	if err != nil {
		log.Printf("Error listing Student instances: %v", err)
		return nil
	}
	views := make([]models.Student, 0, len(inds))
	for _, ind := range inds {
		views = append(views, engine.StudentView(st, ind))
	}
	return views
}

func listAttempts(st *ontology.Store) []models.Attempt {
	inds, err := st.InstancesOf("Attempt")
	if err != nil {
		log.Printf("Error listing Attempt instances: %v", err)
		return nil
	}
	views := make([]models.Attempt, 0, len(inds))
	for _, ind := range inds {
		views = append(views, engine.AttemptView(st, ind))
	}
	return views
}
