// --- areaquiz-server/engine/views.go ---
package engine

import (
	"strconv"
	"strings"

	"areaquiz-server/models"
	"areaquiz-server/ontology"
)

// ProblemView assembles the page/API view of a problem: shape kind, declared
// dimensions and both the computed and the stored answer (either may be
// absent).
func ProblemView(st *ontology.Store, prob *ontology.Individual) models.Problem {
	kind, label, _ := ResolveShape(st, prob)
	view := models.Problem{
		Name:       prob.Name,
		ShapeKind:  kind,
		ShapeName:  label,
		Dimensions: Dimensions(st, prob),
	}
	if v, err := ComputeAnswer(st, prob); err == nil {
		view.Computed = &v
	}
	if raw, ok := st.AttrFirst(prob, PropCorrectAnswer); ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			view.Stored = &v
		}
	}
	return view
}

// StudentView assembles the view of a student: stored score, recomputable
// mastery and the attempt count.
func StudentView(st *ontology.Store, ind *ontology.Individual) models.Student {
	view := models.Student{Name: ind.Name}
	if raw, ok := st.AttrFirst(ind, PropStudentScore); ok {
		view.Score, _ = strconv.Atoi(raw)
	}
	if raw, ok := st.AttrFirst(ind, PropMasteryLevel); ok {
		view.Mastery, _ = strconv.ParseFloat(raw, 64)
	}
	view.Attempts = len(st.RefNames(ind, PropAttempts))
	return view
}

// AttemptView assembles the view of a single attempt.
func AttemptView(st *ontology.Store, ind *ontology.Individual) models.Attempt {
	view := models.Attempt{Name: ind.Name}
	if refs := st.RefNames(ind, PropAttemptOf); len(refs) > 0 {
		view.Problem = refs[0]
	}
	view.Answer, _ = st.AttrFirst(ind, PropHasAnswer)
	if raw, ok := st.AttrFirst(ind, PropIsCorrect); ok {
		view.Correct, _ = strconv.ParseBool(raw)
	}
	return view
}
