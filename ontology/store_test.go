package ontology_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"areaquiz-server/ontology"
)

func newStore(t *testing.T) *ontology.Store {
	t.Helper()
	return ontology.New(filepath.Join(t.TempDir(), "onto.yaml"))
}

func TestGetIndividualLookupFallbacks(t *testing.T) {
	st := newStore(t)
	_, err := st.NewIndividual("Problem", "Problem_Circle_R2")
	require.NoError(t, err)

	// Exact name.
	ind, err := st.GetIndividual("Problem_Circle_R2")
	require.NoError(t, err)
	assert.Equal(t, "Problem_Circle_R2", ind.Name)

	// IRI-style pattern fallback on the fragment after '#'.
	ind, err = st.GetIndividual("file://onto.owl#Problem_Circle_R2")
	require.NoError(t, err)
	assert.Equal(t, "Problem_Circle_R2", ind.Name)

	// Case-insensitive fragment match.
	ind, err = st.GetIndividual("problem_circle_r2")
	require.NoError(t, err)
	assert.Equal(t, "Problem_Circle_R2", ind.Name)

	_, err = st.GetIndividual("NoSuchProblem")
	assert.ErrorIs(t, err, ontology.ErrIndividualNotFound)
}

func TestNewIndividualRejectsDuplicates(t *testing.T) {
	st := newStore(t)
	_, err := st.NewIndividual("Problem", "P1")
	require.NoError(t, err)

	_, err = st.NewIndividual("Problem", "P1")
	assert.ErrorIs(t, err, ontology.ErrDuplicateIndividual)

	// A duplicate of any individual is rejected regardless of class.
	_, err = st.NewIndividual("Student", "P1")
	assert.ErrorIs(t, err, ontology.ErrDuplicateIndividual)

	probs, err := st.InstancesOf("Problem")
	require.NoError(t, err)
	assert.Len(t, probs, 1, "failed creation must not mutate the store")
}

func TestNewIndividualUnknownClass(t *testing.T) {
	st := newStore(t)
	_, err := st.NewIndividual("Pentagon", "P1")
	assert.ErrorIs(t, err, ontology.ErrClassNotFound)
}

func TestInstancesOfSubclasses(t *testing.T) {
	st := newStore(t)
	_, err := st.NewIndividual("Circle", "Circle_inst_1")
	require.NoError(t, err)
	_, err = st.NewIndividual("Rectangle", "Rect_inst_1")
	require.NoError(t, err)

	circles, err := st.InstancesOf("Circle")
	require.NoError(t, err)
	assert.Len(t, circles, 1)

	shapes, err := st.InstancesOf("Shape")
	require.NoError(t, err)
	assert.Len(t, shapes, 2, "subclass instances count as Shape instances")

	_, err = st.InstancesOf("Polygon")
	assert.ErrorIs(t, err, ontology.ErrClassNotFound)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "onto.yaml")
	st := ontology.New(path)

	prob, err := st.NewIndividual("Problem", "P1")
	require.NoError(t, err)
	dim, err := st.NewIndividual("Dimension", "P1_dim1")
	require.NoError(t, err)
	st.SetAttr(dim, "dimensionName", "radius")
	st.SetAttr(dim, "dimensionValue", "2")
	st.SetRef(prob, "hasProblemDimension", "P1_dim1")
	st.AppendRef(prob, "hasProblemDimension", "P1_dim2_missing")

	require.NoError(t, st.Save())

	loaded, err := ontology.Load(path)
	require.NoError(t, err)

	got, err := loaded.GetIndividual("P1")
	require.NoError(t, err)
	assert.Equal(t, []string{"P1_dim1", "P1_dim2_missing"}, loaded.RefNames(got, "hasProblemDimension"))

	gotDim, err := loaded.GetIndividual("P1_dim1")
	require.NoError(t, err)
	v, ok := loaded.AttrFirst(gotDim, "dimensionValue")
	require.True(t, ok)
	assert.Equal(t, "2", v)

	// Dangling references are skipped on deref, not surfaced as errors.
	assert.Len(t, loaded.Deref(got, "hasProblemDimension"), 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := ontology.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
