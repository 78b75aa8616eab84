package batch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"abundatron/lib/inspect"
	"abundatron/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const lteResultPage = `<html><body>
<pre>
A(LTE)  A(NLTE)  Delta  [O/Fe] NLTE
8.778   8.582    -0.196 -0.118
</pre>
</body></html>`

const outOfRangePage = `<html><body><p>input outside parameter space</p></body></html>`

func newBatchClient(t *testing.T) *inspect.Client {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the calculator renders no results block for rejected inputs
		if r.URL.Query().Get("A_lte") == "99" {
			w.Write([]byte(outOfRangePage))
			return
		}
		w.Write([]byte(lteResultPage))
	}))
	t.Cleanup(server.Close)

	client, err := inspect.NewClient(inspect.ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	return client
}

func TestRunCollectsErrorsWithoutAborting(t *testing.T) {
	defer telemetry.SetupForTesting(t, "batch")()
	client := newBatchClient(t)

	rows := Run(context.Background(), client, Job{
		Mode:    ModeLTE,
		Element: "O",
		Line:    inspect.Line{Index: 1, Wavelength: 7771.957},
		Params:  inspect.StellarParams{Teff: 5777, Logg: 4.44, Xi: 1},
		Values:  []float64{8.7, 99, 8.9},
	})
	require.Len(t, rows, 3)

	require.NoError(t, rows[0].Err)
	require.InDelta(t, 8.582, rows[0].Outputs[inspect.FieldANLTE], 1e-9)

	require.Error(t, rows[1].Err)
	require.True(t, errors.Is(rows[1].Err, inspect.ErrNoResults))
	require.Nil(t, rows[1].Outputs)
	require.Equal(t, 99.0, rows[1].Input)

	require.NoError(t, rows[2].Err)
}

func TestRunHonorsCancellation(t *testing.T) {
	defer telemetry.SetupForTesting(t, "batch")()
	client := newBatchClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := Run(ctx, client, Job{
		Mode:    ModeLTE,
		Element: "O",
		Line:    inspect.Line{Index: 1},
		Params:  inspect.StellarParams{},
		Values:  []float64{8.7, 8.8},
	})
	require.Empty(t, rows)
}

func TestRunClipsInputValues(t *testing.T) {
	defer telemetry.SetupForTesting(t, "batch")()
	client := newBatchClient(t)

	clip := &ParamRanges{ALTE: Range{Min: 5, Max: 9}}
	rows := Run(context.Background(), client, Job{
		Mode:    ModeLTE,
		Element: "O",
		Line:    inspect.Line{Index: 1},
		Params:  inspect.StellarParams{Teff: 5777, Logg: 4.44, Xi: 1},
		Values:  []float64{12},
		Clip:    clip,
	})
	require.Len(t, rows, 1)
	require.NoError(t, rows[0].Err)
	// the original input is reported, the clipped one was queried
	require.Equal(t, 12.0, rows[0].Input)
	require.Len(t, rows[0].Notes, 1)
	require.Contains(t, rows[0].Notes[0], "clipped a_lte 12 -> 9")
}

func TestRunCarriesJobNotesIntoEveryRow(t *testing.T) {
	defer telemetry.SetupForTesting(t, "batch")()
	client := newBatchClient(t)

	clip := &ParamRanges{ALTE: Range{Min: 5, Max: 9}}
	rows := Run(context.Background(), client, Job{
		Mode:    ModeLTE,
		Element: "O",
		Line:    inspect.Line{Index: 1},
		Params:  inspect.StellarParams{Teff: 6500, Logg: 4.44, Xi: 1},
		Values:  []float64{8.7, 12},
		Clip:    clip,
		Notes:   []string{"clipped teff 7000 -> 6500"},
	})
	require.Len(t, rows, 2)

	require.Equal(t, []string{"clipped teff 7000 -> 6500"}, rows[0].Notes)
	// per-value notes append after the batch-wide ones
	require.Equal(t, []string{
		"clipped teff 7000 -> 6500",
		"clipped a_lte 12 -> 9",
	}, rows[1].Notes)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("ew")
	require.NoError(t, err)
	require.Equal(t, ModeEW, mode)

	mode, err = ParseMode("lte")
	require.NoError(t, err)
	require.Equal(t, ModeLTE, mode)

	_, err = ParseMode("nlte")
	require.Error(t, err)
}
