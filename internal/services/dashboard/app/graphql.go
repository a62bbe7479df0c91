package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
)

// ErrNoData is returned when the endpoint answered without a data object.
var ErrNoData = errors.New("graphql response has no data")

// metricsQuery asks the historian for the three aggregated metrics and the alert count.
const metricsQuery = `
query {
  temp: aggregatedReadings(type: "temperature") {
    minValue
    maxValue
    avgValue
  }
  energy: aggregatedReadings(type: "energy") {
    minValue
    maxValue
    avgValue
  }
  humidity: aggregatedReadings(type: "humidity") {
    minValue
    maxValue
    avgValue
  }
  alertCount {
    count
  }
}
`

// Source produces the dashboard query result.
type Source interface {
	FetchMetrics(ctx context.Context) (model.QueryResult, error)
}

// MetricsClient runs the dashboard query against the historian's GraphQL endpoint.
type MetricsClient struct {
	up *Upstream
}

// NewMetricsClient sends the dashboard query through up.
func NewMetricsClient(up *Upstream) *MetricsClient {
	return &MetricsClient{up: up}
}

// FetchMetrics runs one query. A response without data is ErrNoData.
func (c *MetricsClient) FetchMetrics(ctx context.Context) (model.QueryResult, error) {
	var resp graphQLResponse
	if err := c.up.PostJSON(ctx, graphQLRequest{Query: metricsQuery}, &resp); err != nil {
		return model.QueryResult{}, err
	}
	if resp.Data == nil {
		if len(resp.Errors) > 0 {
			return model.QueryResult{}, fmt.Errorf("%w: %s", ErrNoData, joinErrors(resp.Errors))
		}
		return model.QueryResult{}, ErrNoData
	}
	return resp.Data.result(), nil
}

func joinErrors(errs []graphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}
