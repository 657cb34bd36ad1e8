// --- areaquiz-server/handlers/page_handlers.go ---
package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"areaquiz-server/audit"
	"areaquiz-server/engine"
	"areaquiz-server/models"
	"areaquiz-server/ontology"
	"areaquiz-server/utils"
)

// Flash is a user-facing message rendered by the page templates. Levels follow
// the bootstrap-ish palette the templates use: success, warning, danger, info.
type Flash struct {
	Level   string
	Message string
}

// Index lists all problems.
// GET /
func Index(st *ontology.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderIndex(c, st, http.StatusOK, nil)
	}
}

func renderIndex(c *gin.Context, st *ontology.Store, status int, flash *Flash) {
	c.HTML(status, "index", gin.H{
		"Title":    "AreaQuiz Problems",
		"Problems": listProblems(st),
		"Flash":    flash,
	})
}

// ProblemPage shows a single problem with its dimensions, shape kind and the
// computed vs stored answer.
// GET /problem/:name
func ProblemPage(st *ontology.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		prob, err := st.GetIndividual(name)
		if err != nil {
			renderIndex(c, st, http.StatusNotFound, &Flash{
				Level:   "danger",
				Message: fmt.Sprintf("Problem '%s' not found. Check ontology name/file.", name),
			})
			return
		}
		renderProblem(c, st, http.StatusOK, prob, nil, nil)
	}
}

func renderProblem(c *gin.Context, st *ontology.Store, status int, prob *ontology.Individual, flash *Flash, outcome *submitOutcome) {
	view := engine.ProblemView(st, prob)
	data := gin.H{
		"Title":   fmt.Sprintf("Problem %s", prob.Name),
		"Problem": view,
		"Flash":   flash,
	}
	if view.Computed != nil {
		data["ComputedDisplay"] = utils.FormatAnswer(*view.Computed)
	}
	if view.Stored != nil {
		data["StoredDisplay"] = utils.FormatAnswer(*view.Stored)
	}
	if outcome != nil {
		data["Result"] = outcome
		data["Expected"] = utils.FormatAnswer(outcome.Expected)
		if outcome.SaveErr != nil {
			data["Warning"] = "Failed to save ontology file; the recorded attempt may be lost on restart."
		}
	}
	c.HTML(status, "problem", data)
}

// SubmitAnswer grades a form submission and records the attempt.
// POST /problem/:name/submit
func SubmitAnswer(st *ontology.Store, g *engine.Grader, pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		prob, err := st.GetIndividual(name)
		if err != nil {
			renderIndex(c, st, http.StatusNotFound, &Flash{
				Level:   "danger",
				Message: fmt.Sprintf("Problem '%s' not found. Cannot submit answer.", name),
			})
			return
		}

		var form models.SubmitAnswerForm
		if err := c.ShouldBind(&form); err != nil {
			renderProblem(c, st, http.StatusBadRequest, prob, &Flash{
				Level:   "warning",
				Message: "Please enter a valid numeric answer.",
			}, nil)
			return
		}

		outcome, err := doSubmit(st, g, pool, name, form.Student, form.Answer)
		if err != nil {
			renderProblem(c, st, submitErrorStatus(err), prob, submitErrorFlash(err), nil)
			return
		}

		flash := &Flash{
			Level:   "success",
			Message: fmt.Sprintf("Correct! Your answer %s (expected ≈ %s)", form.Answer, utils.FormatAnswer(outcome.Expected)),
		}
		if !outcome.Correct {
			flash = &Flash{
				Level:   "danger",
				Message: fmt.Sprintf("Incorrect — your answer %s. Expected ≈ %s", form.Answer, utils.FormatAnswer(outcome.Expected)),
			}
		}
		renderProblem(c, st, http.StatusOK, prob, flash, outcome)
	}
}

func submitErrorStatus(err error) int {
	switch {
	case errors.Is(err, errNotNumeric):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrCannotGrade):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func submitErrorFlash(err error) *Flash {
	switch {
	case errors.Is(err, errNotNumeric):
		return &Flash{Level: "warning", Message: "Please enter a valid numeric answer."}
	case errors.Is(err, engine.ErrCannotGrade):
		return &Flash{Level: "danger", Message: "Cannot compute or read correct answer for this problem (check dimensions/shape/stored value)."}
	default:
		return &Flash{Level: "danger", Message: fmt.Sprintf("Failed to record attempt: %v", err)}
	}
}

// StudentsPage lists students with score and mastery.
// GET /students
func StudentsPage(st *ontology.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "students", gin.H{
			"Title":    "Students",
			"Students": listStudents(st),
		})
	}
}

// AttemptsPage lists all attempts.
// GET /attempts
func AttemptsPage(st *ontology.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "attempts", gin.H{
			"Title":    "Attempts",
			"Attempts": listAttempts(st),
		})
	}
}

// AddProblemPage renders the creation form.
// GET /add_problem
func AddProblemPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderAddProblem(c, http.StatusOK, nil)
	}
}

func renderAddProblem(c *gin.Context, status int, flash *Flash) {
	c.HTML(status, "add_problem", gin.H{
		"Title": "Add Problem",
		"Kinds": models.Kinds,
		"Flash": flash,
	})
}

// AddProblemSubmit creates a new problem from the form.
// POST /add_problem
func AddProblemSubmit(st *ontology.Store, pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form models.AddProblemForm
		if err := c.ShouldBind(&form); err != nil {
			renderAddProblem(c, http.StatusBadRequest, &Flash{
				Level:   "warning",
				Message: "Provide problem name, shape, and at least the first dimension value.",
			})
			return
		}

		dims := []models.DimensionInput{{Name: form.Dim1Name, Value: form.Dim1Value}}
		if form.Dim2Value != "" {
			dims = append(dims, models.DimensionInput{Name: form.Dim2Name, Value: form.Dim2Value})
		}

		prob, saveErr, err := doCreateProblem(st, pool, form.ProblemName, form.Shape, dims)
		if err != nil {
			renderAddProblem(c, createErrorStatus(err), createErrorFlash(err))
			return
		}

		flash := &Flash{Level: "success", Message: fmt.Sprintf("Problem %s created.", prob.Name)}
		if saveErr != nil {
			flash = &Flash{Level: "warning", Message: fmt.Sprintf("Problem %s created, but saving the ontology failed: %v", prob.Name, saveErr)}
		}
		renderProblem(c, st, http.StatusOK, prob, flash, nil)
	}
}

func createErrorStatus(err error) int {
	switch {
	case errors.Is(err, ontology.ErrDuplicateIndividual):
		return http.StatusConflict
	case errors.Is(err, errUnknownShape), errors.Is(err, errNotNumeric),
		errors.Is(err, errMissingFields), errors.Is(err, ontology.ErrClassNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func createErrorFlash(err error) *Flash {
	switch {
	case errors.Is(err, ontology.ErrDuplicateIndividual):
		return &Flash{Level: "warning", Message: "A problem with that name already exists. Pick another unique name."}
	case errors.Is(err, errUnknownShape), errors.Is(err, ontology.ErrClassNotFound):
		return &Flash{Level: "danger", Message: "Unknown shape class. Check ontology."}
	case errors.Is(err, errNotNumeric):
		return &Flash{Level: "danger", Message: "Dimension values must be valid numbers."}
	case errors.Is(err, errMissingFields):
		return &Flash{Level: "warning", Message: "Provide problem name, shape, and at least the first dimension value."}
	default:
		return &Flash{Level: "danger", Message: fmt.Sprintf("Failed to create ontology individuals: %v", err)}
	}
}

// AdminEvents shows the recent audit log when Postgres is configured.
// GET /admin/events
func AdminEvents(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pool == nil {
			c.HTML(http.StatusOK, "admin_events", gin.H{
				"Title":  "Audit Events",
				"Notice": "Audit log is not configured (no DATABASE_URL).",
			})
			return
		}
		events, err := audit.ListRecentEvents(pool, 50)
		if err != nil {
			log.Printf("Error fetching audit events: %v", err)
			c.HTML(http.StatusInternalServerError, "admin_events", gin.H{
				"Title":  "Audit Events",
				"Notice": "Failed to retrieve audit events.",
			})
			return
		}
		c.HTML(http.StatusOK, "admin_events", gin.H{
			"Title":  "Audit Events",
			"Events": events,
		})
	}
}
