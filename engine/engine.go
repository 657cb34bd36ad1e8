// --- areaquiz-server/engine/engine.go ---
package engine

import (
	"log"
	"math"
	"strconv"
	"strings"

	"areaquiz-server/models"
	"areaquiz-server/ontology"
)

// Ontology property names used across the store. The dimension list has a
// legacy alternate name and an inlined single-dimension form; all three are
// honored by Dimensions below.
const (
	PropHasShape            = "hasShape"
	PropHasProblemDimension = "hasProblemDimension"
	PropHasDimension        = "hasDimension"
	PropDimensionName       = "dimensionName"
	PropDimensionValue      = "dimensionValue"
	PropCorrectAnswer       = "correctAnswer"
	PropStudentScore        = "studentScore"
	PropMasteryLevel        = "masteryLevel"
	PropAttempts            = "attempts"
	PropAttemptOf           = "attemptOf"
	PropHasAnswer           = "hasAnswer"
	PropIsCorrect           = "isCorrect"
)

// Default grading tolerances: 2% relative or 0.05 absolute, whichever is wider.
const (
	DefaultRelTolerance = 0.02
	DefaultAbsTolerance = 0.05
)

// ResolveShape determines which shape kind a problem represents. The ordered
// fallback chain is the defense against inconsistent ontology authoring and
// must not be reordered:
//  1. a declared class tag matching one of the four kinds;
//  2. the token before the first '_' of the shape's own name;
//  3. the first declared class tag (label only; kind stays unknown).
//
// The returned label is the matched kind or the first raw tag; it is empty when
// the problem has no linked shape at all.
func ResolveShape(st *ontology.Store, prob *ontology.Individual) (models.ShapeKind, string, *ontology.Individual) {
	shapes := st.Deref(prob, PropHasShape)
	if len(shapes) == 0 {
		return models.ShapeUnknown, "", nil
	}
	s := shapes[0]

	tags := st.ClassTags(s)
	for _, tag := range tags {
		if kind, ok := models.ParseShapeKind(tag); ok {
			return kind, string(kind), s
		}
	}

	if i := strings.Index(s.Name, "_"); i > 0 {
		if kind, ok := models.ParseShapeKind(s.Name[:i]); ok {
			return kind, string(kind), s
		}
	}

	if len(tags) > 0 {
		return models.ShapeUnknown, tags[0], s
	}
	return models.ShapeUnknown, "", s
}

// Dimensions collects the (name, value) pairs declared for a problem. Sources
// are checked in order and the first non-empty one is used exclusively:
// hasProblemDimension, then legacy hasDimension, then a single dimension
// inlined on the problem itself. Faulty entries are skipped with a warning;
// the caller always receives a (possibly empty) sequence.
func Dimensions(st *ontology.Store, prob *ontology.Individual) []models.Dimension {
	for _, prop := range []string{PropHasProblemDimension, PropHasDimension} {
		targets := st.Deref(prob, prop)
		if len(targets) == 0 {
			continue
		}
		dims := make([]models.Dimension, 0, len(targets))
		for _, d := range targets {
			name, _ := st.AttrFirst(d, PropDimensionName)
			val, ok := st.AttrFirst(d, PropDimensionValue)
			if !ok {
				log.Printf("Warning: dimension %s of %s has no value", d.Name, prob.Name)
			}
			dims = append(dims, models.Dimension{Name: name, Value: val})
		}
		return dims
	}

	if val, ok := st.AttrFirst(prob, PropDimensionValue); ok {
		name, _ := st.AttrFirst(prob, PropDimensionName)
		return []models.Dimension{{Name: name, Value: val}}
	}
	return nil
}

// lookupValue searches dims case-insensitively for any of the accepted aliases.
// The first name match is final: an unparseable value there yields no value,
// not a fall-through. When no name matches and exactly one dimension exists,
// that single value is used positionally.
func lookupValue(dims []models.Dimension, aliases ...string) (float64, bool) {
	targets := make([]string, len(aliases))
	for i, a := range aliases {
		targets[i] = strings.ToLower(a)
	}
	for _, d := range dims {
		if d.Name == "" {
			continue
		}
		name := strings.ToLower(d.Name)
		for _, t := range targets {
			if name == t {
				v, err := strconv.ParseFloat(strings.TrimSpace(d.Value), 64)
				if err != nil {
					return 0, false
				}
				return v, true
			}
		}
	}
	if len(dims) == 1 {
		v, err := strconv.ParseFloat(strings.TrimSpace(dims[0].Value), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// ComputeAnswer produces the geometrically correct numeric answer for a
// problem, or ErrIndeterminate when required dimensions cannot be resolved.
func ComputeAnswer(st *ontology.Store, prob *ontology.Individual) (float64, error) {
	kind, _, _ := ResolveShape(st, prob)
	dims := Dimensions(st, prob)

	switch kind {
	case models.ShapeCircle:
		r, ok := lookupValue(dims, "radius", "r")
		if !ok {
			return 0, ErrIndeterminate
		}
		return math.Pi * r * r, nil

	case models.ShapeSquare:
		s, ok := lookupValue(dims, "side", "s")
		if !ok {
			return 0, ErrIndeterminate
		}
		return s * s, nil

	case models.ShapeRectangle:
		l, lok := lookupValue(dims, "length", "l")
		w, wok := lookupValue(dims, "width", "w")
		// Rectangle-specific fallback: when names do not match, take the first
		// two dimension values positionally in declaration order.
		if (!lok || !wok) && len(dims) >= 2 {
			pl, errL := strconv.ParseFloat(strings.TrimSpace(dims[0].Value), 64)
			pw, errW := strconv.ParseFloat(strings.TrimSpace(dims[1].Value), 64)
			if errL != nil || errW != nil {
				return 0, ErrIndeterminate
			}
			l, w = pl, pw
			lok, wok = true, true
		}
		if !lok || !wok {
			return 0, ErrIndeterminate
		}
		return l * w, nil

	case models.ShapeTriangle:
		// No positional fallback for triangles.
		b, bok := lookupValue(dims, "base", "b")
		h, hok := lookupValue(dims, "height", "h")
		if !bok || !hok {
			return 0, ErrIndeterminate
		}
		return 0.5 * b * h, nil
	}
	return 0, ErrIndeterminate
}

// CorrectAnswer resolves the answer to grade against: the computed answer when
// determinate, else the problem's stored correctAnswer, else ErrCannotGrade.
func CorrectAnswer(st *ontology.Store, prob *ontology.Individual) (float64, error) {
	if v, err := ComputeAnswer(st, prob); err == nil {
		return v, nil
	}
	if stored, ok := st.AttrFirst(prob, PropCorrectAnswer); ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(stored), 64); err == nil {
			return v, nil
		}
	}
	return 0, ErrCannotGrade
}

// ApproxEqual compares a submitted answer against the expected one with
// relative/absolute tolerance: |a-b| <= max(absTol, relTol*|b|).
func ApproxEqual(a, b, relTol, absTol float64) bool {
	return math.Abs(a-b) <= math.Max(absTol, relTol*math.Abs(b))
}
