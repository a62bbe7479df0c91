package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MetricDisplay holds the formatted min/avg/max strings of a panel.
type MetricDisplay struct {
	Min string `json:"min"`
	Avg string `json:"avg"`
	Max string `json:"max"`
}

// DisplayState is everything the dashboard renders. The zero value is the
// state before the first successful load: every field empty.
type DisplayState struct {
	Temperature MetricDisplay `json:"temperature"`
	Humidity    MetricDisplay `json:"humidity"`
	Energy      MetricDisplay `json:"energy"`
	Alerts      string        `json:"alerts"`
}

// Metric returns the panel values of m.
func (d DisplayState) Metric(m MetricType) MetricDisplay {
	switch m {
	case Temperature:
		return d.Temperature
	case Humidity:
		return d.Humidity
	case Energy:
		return d.Energy
	}
	return MetricDisplay{}
}

func (d *DisplayState) setMetric(m MetricType, v MetricDisplay) {
	switch m {
	case Temperature:
		d.Temperature = v
	case Humidity:
		d.Humidity = v
	case Energy:
		d.Energy = v
	}
}

// FormatValue renders v with exactly two fractional digits, or "" when absent.
// Rounding is strconv's: the exact binary value is rounded to nearest, exact
// ties to even.
func FormatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// DisplayMetric formats a reading; None yields three empty strings.
func DisplayMetric(r Reading) MetricDisplay {
	s, ok := r.Get()
	if !ok {
		return MetricDisplay{}
	}
	return MetricDisplay{
		Min: FormatValue(s.Min),
		Avg: FormatValue(s.Avg),
		Max: FormatValue(s.Max),
	}
}

// NewDisplayState derives the full display from a query result.
func NewDisplayState(res QueryResult, policy AlertPolicy) DisplayState {
	var d DisplayState
	for _, m := range Metrics {
		d.setMetric(m, DisplayMetric(res.Reading(m)))
	}
	d.Alerts = policy.Format(res.AlertCount)
	return d
}

// AlertPolicy decides how alertCount.count is shown.
type AlertPolicy string

const (
	// AlertValidate shows numeric counts and blanks anything else.
	AlertValidate AlertPolicy = "validate"
	// AlertRaw shows scalar values as they arrive, numeric or not.
	AlertRaw AlertPolicy = "raw"
)

// ParseAlertPolicy accepts "validate", "raw" or "" (validate).
func ParseAlertPolicy(s string) (AlertPolicy, error) {
	switch p := AlertPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return AlertValidate, nil
	case AlertValidate, AlertRaw:
		return p, nil
	default:
		return "", fmt.Errorf("unknown alert count mode %q", s)
	}
}

// Format renders the alert count. A missing alertCount object or a null
// count is always "".
func (p AlertPolicy) Format(c *AlertCount) string {
	if c == nil {
		return ""
	}
	switch v := c.Count.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		if p == AlertRaw {
			return v
		}
	case bool:
		if p == AlertRaw {
			return strconv.FormatBool(v)
		}
	}
	return ""
}
