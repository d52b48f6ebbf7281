package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphereResult(t *testing.T) Result {
	t.Helper()
	f := func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] }
	res, err := Run(context.Background(), DefaultConfig(f, mustCube(t, 2, 2)))
	require.NoError(t, err)
	return res
}

func TestWriteRawCSV(t *testing.T) {
	res := sphereResult(t)
	var buf bytes.Buffer
	require.NoError(t, WriteRawCSV(&buf, res))

	first, _, _ := strings.Cut(buf.String(), "\n")
	assert.Contains(t, first, SchemaVersion)
	assert.True(t, strings.HasPrefix(first, "#"))

	r := csv.NewReader(&buf)
	r.Comment = '#'
	recs, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2) // header + one classified point

	header := recs[0]
	assert.Equal(t, "x1", header[0])
	assert.Equal(t, "x2", header[1])
	assert.Contains(t, header, "classification")
	assert.Contains(t, header, "eig_cond")

	row := recs[1]
	assert.Equal(t, "minimum", row[2])
}

func TestWriteRefinedCSV(t *testing.T) {
	res := sphereResult(t)
	var buf bytes.Buffer
	require.NoError(t, WriteRefinedCSV(&buf, res))

	r := csv.NewReader(&buf)
	r.Comment = '#'
	recs, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)

	header := recs[0]
	assert.Equal(t, []string{"x1", "x2", "raw_x1", "raw_x2"}, header[:4])
	assert.Contains(t, header, "merged")
}

func TestExportWritesBothArtifacts(t *testing.T) {
	res := sphereResult(t)
	dir := t.TempDir()
	require.NoError(t, Export(dir, "critical_points", res))

	raw, err := os.ReadFile(filepath.Join(dir, "critical_points_raw.csv"))
	require.NoError(t, err)
	refined, err := os.ReadFile(filepath.Join(dir, "critical_points.csv"))
	require.NoError(t, err)

	assert.Contains(t, string(raw), SchemaVersion)
	assert.Contains(t, string(refined), SchemaVersion)
	assert.NotEqual(t, string(raw), string(refined))
}
