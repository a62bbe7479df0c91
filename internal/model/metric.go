package model

// MetricType identifies a sensor metric aggregated by the historian.
type MetricType string

const (
	Temperature MetricType = "temperature"
	Humidity    MetricType = "humidity"
	Energy      MetricType = "energy"
)

// Metrics lists the metric panels in display order.
var Metrics = []MetricType{Temperature, Humidity, Energy}

// Alias is the field alias used for the metric in the aggregated-readings query.
func (m MetricType) Alias() string {
	switch m {
	case Temperature:
		return "temp"
	default:
		return string(m)
	}
}

// Title is the panel heading.
func (m MetricType) Title() string {
	switch m {
	case Temperature:
		return "Temperature"
	case Humidity:
		return "Humidity"
	case Energy:
		return "Energy"
	default:
		return string(m)
	}
}

// Unit is the measurement unit the sensors report in.
func (m MetricType) Unit() string {
	switch m {
	case Temperature:
		return "°C"
	case Humidity:
		return "%"
	case Energy:
		return "kW"
	default:
		return ""
	}
}
