// Package inspect is a scraping client for the INSPECT web calculators
// (https://www.inspect-stars.com), which convert equivalent widths and
// LTE abundances into 3D NLTE abundance estimates. All of the numeric
// modeling happens on the remote server, this package only issues GET
// requests and parses the fixed-format HTML the site renders.
package inspect

import (
	"net/url"
	"strconv"
	"time"

	"abundatron/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

const DefaultBaseUrl = "https://www.inspect-stars.com"

const (
	endpointAbundanceFromEW = "/A_from_e"
	endpointNonLTEFromLTE   = "/nonlte_from_lte"
)

var tracer = otel.Tracer("abundatron.lib.inspect")

// StellarParams are the atmosphere parameters fixed for a whole batch.
type StellarParams struct {
	// effective temperature [K]
	Teff float64
	// surface gravity log g [cgs]
	Logg float64
	// metallicity [Fe/H]
	FeH float64
	// microturbulence [km/s]
	Xi float64
}

func (p StellarParams) queryParams() map[string]string {
	return map[string]string{
		"t": formatParam(p.Teff),
		"g": formatParam(p.Logg),
		"f": formatParam(p.FeH),
		"x": formatParam(p.Xi),
	}
}

// formatParam renders floats the way the site's own forms do,
// shortest round-trip representation without an exponent for
// typical parameter magnitudes.
func formatParam(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl   string
	UserAgent string
	// raw request/response dumps, nil disables dumping
	InstrumentOutput restyutil.InstrumentOutput
}

var retryStatuses = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

func NewClient(opts ClientOptions) (*Client, error) {
	rawUrl := opts.BaseUrl
	if rawUrl == "" {
		rawUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(rawUrl)
	if err != nil {
		return nil, err
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "abundatron/1.1 (go-resty)"
	}

	client := resty.New()
	client.SetBaseURL(rawUrl)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)

	// the site occasionally throttles or falls over, retry the
	// transient statuses with exponential backoff
	client.SetRetryCount(5)
	client.SetRetryWaitTime(time.Millisecond * 500)
	client.SetRetryMaxWaitTime(time.Second * 10)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return retryStatuses[res.StatusCode()]
	})

	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}
