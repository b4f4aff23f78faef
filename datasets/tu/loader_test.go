package tu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture lays out a two-graph dataset: a triangle (label 1, node
// labels 0,0,2) and a single edge (label -1, node labels 2,0), with
// two-column node attributes. Edges are listed in both directions the way
// real TU files are.
func writeFixture(t *testing.T, root, name string, flat bool) {
	t.Helper()
	dir := filepath.Join(root, name)
	if !flat {
		dir = filepath.Join(dir, "raw")
	}
	require.NoError(t, os.MkdirAll(dir, 0o755))

	files := map[string]string{
		name + "_A.txt":               "1, 2\n2, 1\n2, 3\n3, 2\n1, 3\n3, 1\n4, 5\n5, 4\n",
		name + "_graph_indicator.txt": "1\n1\n1\n2\n2\n",
		name + "_graph_labels.txt":    "1\n-1\n",
		name + "_node_labels.txt":     "0\n0\n2\n2\n0\n",
		name + "_node_attributes.txt": "0.5, 1.0\n0.5, 2.0\n0.5, 3.0\n-1.5, 4.0\n-1.5, 5.0\n",
	}
	for fname, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fname), []byte(body), 0o644))
	}
}

func TestLoadFixture(t *testing.T) {
	for _, flat := range []bool{true, false} {
		root := t.TempDir()
		writeFixture(t, root, "TOY", flat)

		graphs, err := Load(root, "TOY")
		require.NoError(t, err)
		require.Len(t, graphs, 2)

		tri, pair := graphs[0], graphs[1]
		assert.Equal(t, 3, tri.NumNodes())
		assert.Equal(t, 1, tri.Label())
		assert.Equal(t, 2, tri.MaxDegree())
		assert.Equal(t, 6, tri.NumEdges()) // mirrored pairs deduplicated

		assert.Equal(t, 2, pair.NumNodes())
		assert.Equal(t, -1, pair.Label())
		assert.Equal(t, 1, pair.Degree(0))

		// features: 2 attribute columns then one-hot over labels {0, 2}
		require.Equal(t, 4, tri.FeatureDim())
		f := tri.Features()
		assert.Equal(t, 0.5, f.At(0, 0))
		assert.Equal(t, 2.0, f.At(1, 1))
		assert.Equal(t, 1.0, f.At(0, 2)) // node label 0 -> column 2
		assert.Equal(t, 1.0, f.At(2, 3)) // node label 2 -> column 3
		assert.Equal(t, 0.0, f.At(2, 2))

		g2 := pair.Features()
		assert.Equal(t, -1.5, g2.At(0, 0))
		assert.Equal(t, 1.0, g2.At(0, 3))
		assert.Equal(t, 1.0, g2.At(1, 2))
	}
}

func TestLoadWithoutFeatureFiles(t *testing.T) {
	root := t.TempDir()
	name := "BARE"
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+"_A.txt"), []byte("1, 2\n2, 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+"_graph_indicator.txt"), []byte("1\n1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+"_graph_labels.txt"), []byte("1\n"), 0o644))

	graphs, err := Load(root, name)
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	assert.Nil(t, graphs[0].Features())
	assert.Equal(t, 0, graphs[0].FeatureDim())
}

func TestLoadErrors(t *testing.T) {
	root := t.TempDir()
	_, err := Load(root, "MISSING")
	assert.Error(t, err)

	writeFixture(t, root, "BROKEN", true)
	// cross-graph edge
	path := filepath.Join(root, "BROKEN", "BROKEN_A.txt")
	require.NoError(t, os.WriteFile(path, []byte("1, 4\n"), 0o644))
	_, err = Load(root, "BROKEN")
	assert.ErrorIs(t, err, ErrMalformed)
}
