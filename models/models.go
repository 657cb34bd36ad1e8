
package models

// ShapeKind tags the four supported shape variants. ShapeUnknown covers
// problems whose shape cannot be resolved (including a generic "Shape" tag).
type ShapeKind string

const (
	ShapeUnknown   ShapeKind = ""
	ShapeCircle    ShapeKind = "Circle"
	ShapeSquare    ShapeKind = "Square"
	ShapeRectangle ShapeKind = "Rectangle"
	ShapeTriangle  ShapeKind = "Triangle"
)

// Kinds lists the known shape kinds in a fixed order (used by forms and the
// shape resolution fallback chain).
var Kinds = []ShapeKind{ShapeCircle, ShapeSquare, ShapeRectangle, ShapeTriangle}

// ParseShapeKind matches a class or name token against the known kinds.
func ParseShapeKind(name string) (ShapeKind, bool) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, true
		}
	}
	return ShapeUnknown, false
}

// Dimension is a (name, value) pair; value is a numeric string, parsed by the
// consumer. Names are free text and not guaranteed unique or well-formed.
type Dimension struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Problem is the view of a problem individual used by pages and the API.
type Problem struct {
	Name       string      `json:"name"`
	ShapeKind  ShapeKind   `json:"shape_kind,omitempty"`
	ShapeName  string      `json:"shape_name,omitempty"`
	Dimensions []Dimension `json:"dimensions"`
	Computed   *float64    `json:"computed_answer,omitempty"` // nil when indeterminate
	Stored     *float64    `json:"stored_answer,omitempty"`
}

// Student is the view of a student individual.
type Student struct {
	Name     string  `json:"name"`
	Score    int     `json:"score"`
	Mastery  float64 `json:"mastery"`
	Attempts int     `json:"attempts"`
}

// Attempt is the view of an attempt individual.
type Attempt struct {
	Name    string `json:"name"`
	Problem string `json:"problem"`
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
}

// SubmitAnswerForm binds the problem page submission form.
type SubmitAnswerForm struct {
	Student string `form:"student"`
	Answer  string `form:"answer" binding:"required"`
}

// AddProblemForm binds the problem creation form. The first dimension value is
// required; the second dimension is optional. Dimension names default to
// "dim1"/"dim2" when left blank.
type AddProblemForm struct {
	ProblemName string `form:"problem_name" binding:"required"`
	Shape       string `form:"shape" binding:"required"`
	Dim1Name    string `form:"dim1_name"`
	Dim1Value   string `form:"dim1_value" binding:"required"`
	Dim2Name    string `form:"dim2_name"`
	Dim2Value   string `form:"dim2_value"`
}

// SubmitAnswerRequest is the JSON body for POST /api/v1/problems/:name/attempts.
type SubmitAnswerRequest struct {
	Student string `json:"student"`
	Answer  string `json:"answer" binding:"required"`
}

// SubmitAnswerResponse reports the grading outcome for a submission.
type SubmitAnswerResponse struct {
	Correct  bool    `json:"correct"`
	Expected float64 `json:"expected"`
	Student  string  `json:"student"`
	Score    int     `json:"score"`
	Mastery  float64 `json:"mastery"`
	Attempt  string  `json:"attempt"`
}

// DimensionInput is one dimension in a JSON problem creation request.
type DimensionInput struct {
	Name  string `json:"name"`
	Value string `json:"value" binding:"required"`
}

// CreateProblemRequest is the JSON body for POST /api/v1/problems.
type CreateProblemRequest struct {
	Name       string           `json:"name" binding:"required"`
	Shape      string           `json:"shape" binding:"required"`
	Dimensions []DimensionInput `json:"dimensions" binding:"required,min=1,max=2,dive"`
}
