package engine

import "errors"

var (
	// ErrIndeterminate is returned when required dimensions cannot be resolved
	// for a problem and no numeric answer can be computed.
	ErrIndeterminate = errors.New("answer is indeterminate")
	// ErrCannotGrade is returned when neither a computed nor a stored correct
	// answer is available. It must surface as a distinct failure, never as a
	// silent incorrect grade.
	ErrCannotGrade = errors.New("cannot compute or read correct answer")
)
