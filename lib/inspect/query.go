package inspect

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/codes"
)

// AbundanceFromEW queries the A_from_e calculator, converting an
// equivalent width [mÅ] into LTE/NLTE abundance estimates.
func (c *Client) AbundanceFromEW(ctx context.Context, element string, line Line, ew float64, params StellarParams) (Result, error) {
	ctx, span := tracer.Start(ctx, "client:AbundanceFromEW")
	defer span.End()

	query := params.queryParams()
	query["element_name"] = element
	query["e"] = formatParam(ew)
	query["wi"] = strconv.Itoa(line.Index)

	return c.queryCalculator(ctx, span, endpointAbundanceFromEW, query)
}

// NonLTEFromLTE queries the nonlte_from_lte calculator, converting an
// LTE abundance into its 3D NLTE value.
func (c *Client) NonLTEFromLTE(ctx context.Context, element string, line Line, alte float64, params StellarParams) (Result, error) {
	ctx, span := tracer.Start(ctx, "client:NonLTEFromLTE")
	defer span.End()

	query := params.queryParams()
	query["element_name"] = element
	query["A_lte"] = formatParam(alte)
	query["wi"] = strconv.Itoa(line.Index)

	return c.queryCalculator(ctx, span, endpointNonLTEFromLTE, query)
}

type statusSetter interface {
	SetStatus(code codes.Code, description string)
}

func (c *Client) queryCalculator(ctx context.Context, span statusSetter, endpoint string, query map[string]string) (Result, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(endpoint)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	if res.StatusCode() != 200 {
		span.SetStatus(codes.Error, "unexpected status")
		return nil, fmt.Errorf("%s: unexpected status %d", endpoint, res.StatusCode())
	}

	out, err := ParseResults(res.Body())
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse results")
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	return out, nil
}
