// --- areaquiz-server/handlers/api_handlers.go ---
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"areaquiz-server/engine"
	"areaquiz-server/models"
	"areaquiz-server/ontology"
)

// APIListProblems lists all problems.
// GET /api/v1/problems
func APIListProblems(st *ontology.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, listProblems(st))
	}
}

// APIGetProblem returns one problem with dimensions and answers.
// GET /api/v1/problems/:name
func APIGetProblem(st *ontology.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		prob, err := st.GetIndividual(name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Problem '%s' not found", name)})
			return
		}
		c.JSON(http.StatusOK, engine.ProblemView(st, prob))
	}
}

// APISubmitAnswer grades a JSON submission and records the attempt.
// POST /api/v1/problems/:name/attempts
func APISubmitAnswer(st *ontology.Store, g *engine.Grader, pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		var req models.SubmitAnswerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		outcome, err := doSubmit(st, g, pool, name, req.Student, req.Answer)
		if err != nil {
			switch {
			case errors.Is(err, ontology.ErrIndividualNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Problem '%s' not found", name)})
			case errors.Is(err, errNotNumeric):
				c.JSON(http.StatusBadRequest, gin.H{"error": "answer must be a valid number"})
			case errors.Is(err, engine.ErrCannotGrade):
				// Distinct failure: the problem has neither a computable nor a
				// stored correct answer. Never graded false.
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cannot compute or read correct answer for this problem"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record attempt"})
			}
			return
		}

		resp := models.SubmitAnswerResponse{
			Correct:  outcome.Correct,
			Expected: outcome.Expected,
			Student:  outcome.Student,
			Score:    outcome.Score,
			Mastery:  outcome.Mastery,
			Attempt:  outcome.Attempt,
		}
		if outcome.SaveErr != nil {
			c.JSON(http.StatusOK, gin.H{"result": resp, "save_error": outcome.SaveErr.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// APICreateProblem creates a new problem from JSON.
// POST /api/v1/problems
func APICreateProblem(st *ontology.Store, pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateProblemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		prob, saveErr, err := doCreateProblem(st, pool, req.Name, req.Shape, req.Dimensions)
		if err != nil {
			switch {
			case errors.Is(err, ontology.ErrDuplicateIndividual):
				c.JSON(http.StatusConflict, gin.H{"error": "a problem with that name already exists"})
			case errors.Is(err, errUnknownShape), errors.Is(err, ontology.ErrClassNotFound):
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown shape class '%s'", req.Shape)})
			case errors.Is(err, errNotNumeric):
				c.JSON(http.StatusBadRequest, gin.H{"error": "dimension values must be valid numbers"})
			case errors.Is(err, errMissingFields):
				c.JSON(http.StatusBadRequest, gin.H{"error": "problem name and first dimension are required"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create problem"})
			}
			return
		}

		view := engine.ProblemView(st, prob)
		if saveErr != nil {
			c.JSON(http.StatusCreated, gin.H{"problem": view, "save_error": saveErr.Error()})
			return
		}
		c.JSON(http.StatusCreated, view)
	}
}

// APIListStudents lists students with score and mastery.
// GET /api/v1/students
func APIListStudents(st *ontology.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, listStudents(st))
	}
}

// APIListAttempts lists all attempts.
// GET /api/v1/attempts
func APIListAttempts(st *ontology.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, listAttempts(st))
	}
}
