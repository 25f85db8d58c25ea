package residuals

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource(t *testing.T) {
	vals, err := NewStaticSource([]float64{-0.2, 0.1}).Load()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, 0.1}, vals)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "residuals.txt")
	require.NoError(t, os.WriteFile(path, []byte("# abs residuals\n0.01\n\n-0.05\n0.2,emp-9\n"), 0o644))

	vals, err := NewFileSource(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.01, 0.05, 0.2}, vals)

	require.NoError(t, os.WriteFile(path, []byte("0.01\nabc\n"), 0o644))
	_, err = NewFileSource(path).Load()
	assert.ErrorContains(t, err, "line 2")

	_, err = NewFileSource(filepath.Join(t.TempDir(), "none.txt")).Load()
	assert.Error(t, err)
}

func TestSQLiteSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "training.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE residuals (id INTEGER PRIMARY KEY, abs_residual REAL)`)
	require.NoError(t, err)
	for _, v := range []any{0.03, -0.07, nil, 0.11} {
		_, err = db.Exec(`INSERT INTO residuals (abs_residual) VALUES (?)`, v)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	src, err := NewSQLiteSource(path, "residuals", "abs_residual")
	require.NoError(t, err)
	vals, err := src.Load()
	require.NoError(t, err)
	assert.ElementsMatch(t, []float64{0.03, 0.07, 0.11}, vals)
	assert.Equal(t, "sqlite:"+path, src.Name())

	bad, err := NewSQLiteSource(path, "missing_table", "abs_residual")
	require.NoError(t, err)
	_, err = bad.Load()
	assert.Error(t, err)
}

func TestNewSQLiteSource_RejectsInjection(t *testing.T) {
	_, err := NewSQLiteSource("x.db", "residuals; DROP TABLE x", "abs_residual")
	assert.Error(t, err)
	_, err = NewSQLiteSource("x.db", "residuals", "1col")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{0.1, 0.2, 0.3})
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 0.2, s.Mean, 1e-12)
	assert.InDelta(t, 0.1, s.StdDev, 1e-12)
	assert.Equal(t, 0.3, s.Max)

	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, Summary{Count: 1, Mean: 0.4, Max: 0.4}, Summarize([]float64{0.4}))
}
