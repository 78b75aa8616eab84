package inspect

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"abundatron/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestAbundanceFromEW(t *testing.T) {
	defer telemetry.SetupForTesting(t, "inspect")()

	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, endpointAbundanceFromEW, r.URL.Path)
		gotQuery.Store(r.URL.Query())
		w.Write([]byte(ewResultPage))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	out, err := client.AbundanceFromEW(
		context.Background(),
		"O",
		Line{Index: 2, Wavelength: 7774.156},
		65,
		StellarParams{Teff: 5777, Logg: 4.44, FeH: 0, Xi: 1},
	)
	require.NoError(t, err)
	require.InDelta(t, 8.582, out[FieldANLTE], 1e-9)

	query := gotQuery.Load().(url.Values)
	require.Equal(t, "O", query.Get("element_name"))
	require.Equal(t, "65", query.Get("e"))
	require.Equal(t, "5777", query.Get("t"))
	require.Equal(t, "4.44", query.Get("g"))
	require.Equal(t, "0", query.Get("f"))
	require.Equal(t, "1", query.Get("x"))
	require.Equal(t, "2", query.Get("wi"))
}

func TestNonLTEFromLTE(t *testing.T) {
	defer telemetry.SetupForTesting(t, "inspect")()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, endpointNonLTEFromLTE, r.URL.Path)
		require.Equal(t, "8.778", r.URL.Query().Get("A_lte"))
		w.Write([]byte(lteResultPage))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	out, err := client.NonLTEFromLTE(
		context.Background(),
		"O",
		Line{Index: 1},
		8.778,
		StellarParams{Teff: 5777, Logg: 4.44, Xi: 1},
	)
	require.NoError(t, err)
	require.InDelta(t, -0.196, out[FieldDelta], 1e-9)
	// nonlte_from_lte has no EW column
	_, hasEW := out[FieldEW]
	require.False(t, hasEW)
}

func TestQueryRetriesTransientErrors(t *testing.T) {
	defer telemetry.SetupForTesting(t, "inspect")()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(lteResultPage))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	_, err = client.NonLTEFromLTE(context.Background(), "O", Line{Index: 1}, 8.7, StellarParams{})
	require.NoError(t, err)
	require.EqualValues(t, 3, hits.Load())
}

func TestQueryOutOfRange(t *testing.T) {
	defer telemetry.SetupForTesting(t, "inspect")()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Teff must be between 5000 and 6500 K</p></body></html>`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	_, err = client.AbundanceFromEW(context.Background(), "O", Line{Index: 1}, 65, StellarParams{Teff: 9000})
	require.True(t, errors.Is(err, ErrNoResults))
}
