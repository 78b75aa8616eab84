package inspect

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"abundatron/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const calculatorPage = `<html><body>
<form action="/nonlte_from_lte">
<select name="wi">
<option value="">choose a line</option>
<option value="1">7771.957</option>
<option value="2">7774.156</option>
<option value="3">7775.390</option>
<option value="4">blend (see paper)</option>
<option value="bogus">9999.0</option>
</select>
</form>
</body></html>`

func newLinesServer(t *testing.T) *Client {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != endpointNonLTEFromLTE {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("element_name") != "O" {
			w.Write([]byte(`<html><body><p>unknown element</p></body></html>`))
			return
		}
		w.Write([]byte(calculatorPage))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	return client
}

func TestLines(t *testing.T) {
	defer telemetry.SetupForTesting(t, "inspect")()
	client := newLinesServer(t)

	lines, err := client.Lines(context.Background(), "O")
	require.NoError(t, err)
	require.Len(t, lines, 4)

	require.Equal(t, 1, lines[0].Index)
	require.InDelta(t, 7771.957, lines[0].Wavelength, 1e-9)

	// non-numeric label keeps the entry but marks the wavelength unknown
	require.Equal(t, 4, lines[3].Index)
	require.True(t, math.IsNaN(lines[3].Wavelength))
	require.Equal(t, "blend (see paper)", lines[3].Label)
}

func TestLinesUnknownElement(t *testing.T) {
	defer telemetry.SetupForTesting(t, "inspect")()
	client := newLinesServer(t)

	_, err := client.Lines(context.Background(), "o2")
	require.Error(t, err)
	require.Contains(t, err.Error(), `did you mean "O"`)
}

func TestResolveLineExact(t *testing.T) {
	defer telemetry.SetupForTesting(t, "inspect")()
	client := newLinesServer(t)

	line, err := client.ResolveLine(context.Background(), "O", 7774.156)
	require.NoError(t, err)
	require.Equal(t, 2, line.Index)
}

func TestResolveLineNearest(t *testing.T) {
	defer telemetry.SetupForTesting(t, "inspect")()
	client := newLinesServer(t)

	line, err := client.ResolveLine(context.Background(), "O", 7776)
	require.NoError(t, err)
	require.Equal(t, 3, line.Index)
	require.InDelta(t, 7775.390, line.Wavelength, 1e-9)
}

func TestLineByIndex(t *testing.T) {
	defer telemetry.SetupForTesting(t, "inspect")()
	client := newLinesServer(t)

	line, err := client.LineByIndex(context.Background(), "O", 2)
	require.NoError(t, err)
	require.InDelta(t, 7774.156, line.Wavelength, 1e-9)

	// unknown indices may still be valid server-side, no error
	line, err = client.LineByIndex(context.Background(), "O", 42)
	require.NoError(t, err)
	require.Equal(t, 42, line.Index)
	require.True(t, math.IsNaN(line.Wavelength))
}
