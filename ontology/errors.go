package ontology

import "errors"

var (
	// ErrClassNotFound is returned when a named class is not in the registry.
	ErrClassNotFound = errors.New("ontology class not found")
	// ErrIndividualNotFound is returned when no individual matches a name.
	ErrIndividualNotFound = errors.New("individual not found")
	// ErrDuplicateIndividual is returned when a name is already taken.
	ErrDuplicateIndividual = errors.New("individual already exists")
)
