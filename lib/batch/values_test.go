package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadValuesCommaList(t *testing.T) {
	values, err := ReadValues("65, 80,100,", "", nil)
	require.NoError(t, err)
	require.Equal(t, []float64{65, 80, 100}, values)
}

func TestReadValuesBadCommaList(t *testing.T) {
	_, err := ReadValues("65,eighty", "", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"eighty"`)
}

func TestReadValuesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ews.txt")
	contents := strings.Join([]string{
		"65.2",
		"",
		"80.1, something else",
		"# a comment without numbers",
		"100",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	values, err := ReadValues("", path, nil)
	require.NoError(t, err)
	require.Equal(t, []float64{65.2, 80.1, 100}, values)
}

func TestReadValuesStdin(t *testing.T) {
	values, err := ReadValues("", "", strings.NewReader("7.05\n7.10\n"))
	require.NoError(t, err)
	require.Equal(t, []float64{7.05, 7.1}, values)
}

func TestReadValuesMergesSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vals.txt")
	require.NoError(t, os.WriteFile(path, []byte("2\n"), 0644))

	values, err := ReadValues("1", path, strings.NewReader("3\n"))
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, values)
}

func TestReadValuesEmpty(t *testing.T) {
	_, err := ReadValues("", "", nil)
	require.Error(t, err)
}
