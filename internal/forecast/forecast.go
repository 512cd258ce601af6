// Package forecast projects a daily expense series forward.
//
// Every call recomputes the whole projection from the series it is given;
// nothing is cached between calls. The series must be chronological, one
// point per day, with non-negative amounts.
package forecast

import (
	"math"

	"github.com/Dan9191/expense-service/internal/models"
)

// MinHistory is the shortest series that produces a forecast
const MinHistory = 3

const (
	// trailingWindow is the number of most recent days used by the
	// exponential and seasonal methods.
	trailingWindow = 7
	smoothingAlpha = 0.3

	// slopes inside (-trendBand, trendBand) are reported as stable
	trendBand = 0.1

	seasonalHigh = 1.1
	seasonalLow  = 0.9
)

// Forecast returns exactly horizon points following the last day of series.
// A series shorter than MinHistory or a non-positive horizon yields an empty
// result.
func Forecast(series []models.DailyPoint, method Method, horizon int) []models.ForecastPoint {
	if len(series) < MinHistory || horizon <= 0 {
		return []models.ForecastPoint{}
	}

	switch method {
	case Linear:
		return linear(series, horizon)
	case Exponential:
		return exponential(series, horizon)
	case Seasonal:
		return seasonal(series, horizon)
	}
	return []models.ForecastPoint{}
}

// Fit returns the least-squares slope and intercept of amount against the
// zero-based day index.
func Fit(series []models.DailyPoint) (slope, intercept float64) {
	n := float64(len(series))
	if len(series) < 2 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, p := range series {
		x := float64(i)
		sumX += x
		sumY += p.Amount
		sumXY += x * p.Amount
		sumX2 += x * x
	}

	slope = (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func linear(series []models.DailyPoint, horizon int) []models.ForecastPoint {
	slope, intercept := Fit(series)
	n := len(series)
	trend := classify(slope, trendBand, -trendBand)
	last := series[n-1].Date

	out := make([]models.ForecastPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		out = append(out, models.ForecastPoint{
			Date:       last.AddDays(i),
			Predicted:  floor(slope*float64(n+i-1) + intercept),
			Confidence: decay(i, horizon, 0.5, 0.5),
			Trend:      trend,
		})
	}
	return out
}

func exponential(series []models.DailyPoint, horizon int) []models.ForecastPoint {
	window := trailing(series)
	smoothed := window[0].Amount
	for _, p := range window {
		smoothed = smoothingAlpha*p.Amount + (1-smoothingAlpha)*smoothed
	}
	predicted := floor(smoothed)
	last := series[len(series)-1].Date

	out := make([]models.ForecastPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		out = append(out, models.ForecastPoint{
			Date:       last.AddDays(i),
			Predicted:  predicted,
			Confidence: decay(i, horizon, 0.4, 0.6),
			Trend:      models.TrendStable,
		})
	}
	return out
}

// WeekdayMultipliers returns, per weekday, the ratio of that weekday's mean
// amount to the mean of the whole series. Weekdays with no data, or a series
// whose mean is not positive, get 1.
func WeekdayMultipliers(series []models.DailyPoint) [7]float64 {
	var (
		sums   [7]float64
		counts [7]int
		total  float64
	)
	for _, p := range series {
		wd := p.Date.Weekday()
		sums[wd] += p.Amount
		counts[wd]++
		total += p.Amount
	}

	var out [7]float64
	overall := 0.0
	if len(series) > 0 {
		overall = total / float64(len(series))
	}
	for wd := range out {
		if counts[wd] == 0 || overall <= 0 {
			out[wd] = 1
			continue
		}
		out[wd] = (sums[wd] / float64(counts[wd])) / overall
	}
	return out
}

func seasonal(series []models.DailyPoint, horizon int) []models.ForecastPoint {
	multipliers := WeekdayMultipliers(series)
	base := mean(trailing(series))
	last := series[len(series)-1].Date

	out := make([]models.ForecastPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		date := last.AddDays(i)
		m := multipliers[date.Weekday()]
		out = append(out, models.ForecastPoint{
			Date:       date,
			Predicted:  floor(base * m),
			Confidence: decay(i, horizon, 0.3, 0.7),
			Trend:      classify(m, seasonalHigh, seasonalLow),
		})
	}
	return out
}

func trailing(series []models.DailyPoint) []models.DailyPoint {
	if len(series) <= trailingWindow {
		return series
	}
	return series[len(series)-trailingWindow:]
}

func mean(points []models.DailyPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Amount
	}
	return sum / float64(len(points))
}

// decay lowers confidence linearly with the step's share of the horizon,
// never below floorAt.
func decay(step, horizon int, rate, floorAt float64) float64 {
	return math.Max(floorAt, 1-(float64(step)/float64(horizon))*rate)
}

func floor(v float64) float64 {
	return math.Max(0, v)
}

func classify(v, high, low float64) models.Trend {
	switch {
	case v > high:
		return models.TrendIncreasing
	case v < low:
		return models.TrendDecreasing
	}
	return models.TrendStable
}
