package app

import (
	"encoding/json"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
)

// ---------- GraphQL wire payloads ----------

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

type graphQLResponse struct {
	Data   *queryData     `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

type queryData struct {
	Temp       aggregatedList `json:"temp"`
	Energy     aggregatedList `json:"energy"`
	Humidity   aggregatedList `json:"humidity"`
	AlertCount *alertCount    `json:"alertCount"`
}

type alertCount struct {
	Count any `json:"count"`
}

// aggregatedReading keeps a sub-field only when the JSON value is a number.
type aggregatedReading struct {
	MinValue *float64
	MaxValue *float64
	AvgValue *float64
}

func (a *aggregatedReading) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		// not an object: every sub-field absent
		*a = aggregatedReading{}
		return nil
	}
	num := func(key string) *float64 {
		if v, ok := m[key].(float64); ok {
			return &v
		}
		return nil
	}
	a.MinValue = num("minValue")
	a.MaxValue = num("maxValue")
	a.AvgValue = num("avgValue")
	return nil
}

// aggregatedList decodes a non-list value as an empty list.
type aggregatedList []aggregatedReading

func (l *aggregatedList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*l = nil
		return nil
	}
	out := make(aggregatedList, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &out[i]); err != nil {
			return err
		}
	}
	*l = out
	return nil
}

// first is the only element the dashboard consumes.
func (l aggregatedList) first() model.Reading {
	if len(l) == 0 {
		return model.None()
	}
	r := l[0]
	return model.Some(model.MetricSummary{Min: r.MinValue, Avg: r.AvgValue, Max: r.MaxValue})
}

func (d *queryData) result() model.QueryResult {
	res := model.QueryResult{
		Readings: map[model.MetricType]model.Reading{
			model.Temperature: d.Temp.first(),
			model.Humidity:    d.Humidity.first(),
			model.Energy:      d.Energy.first(),
		},
	}
	if d.AlertCount != nil {
		res.AlertCount = &model.AlertCount{Count: d.AlertCount.Count}
	}
	return res
}
