package models

// Trend is a coarse direction label attached to a forecast point
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// DailyPoint is the total spent on one calendar day
type DailyPoint struct {
	Date   Day     `json:"date"`
	Amount float64 `json:"amount"`
}

// ForecastPoint is one projected day
type ForecastPoint struct {
	Date       Day     `json:"date"`
	Predicted  float64 `json:"predicted"`
	Confidence float64 `json:"confidence"`
	Trend      Trend   `json:"trend"`
}

// ForecastResult bundles a forecast with the history it was computed from
type ForecastResult struct {
	Method     string          `json:"method"`
	Period     int             `json:"period"`
	From       Day             `json:"from"`
	To         Day             `json:"to"`
	Sufficient bool            `json:"sufficient_history"`
	History    []DailyPoint    `json:"history"`
	Forecasts  []ForecastPoint `json:"forecasts"`
}
