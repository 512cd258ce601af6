package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/Dan9191/expense-service/internal/models"
)

const eps = 1e-9

func series(start string, amounts ...float64) []models.DailyPoint {
	day, err := models.ParseDay(start)
	if err != nil {
		panic(err)
	}
	out := make([]models.DailyPoint, len(amounts))
	for i, a := range amounts {
		out[i] = models.DailyPoint{Date: day.AddDays(i), Amount: a}
	}
	return out
}

func TestForecast_LinearConstant(t *testing.T) {
	got := Forecast(series("2024-03-01", 100, 100, 100, 100, 100), Linear, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	for i, p := range got {
		if math.Abs(p.Predicted-100) > eps {
			t.Errorf("step %d: predicted %.4f, want 100", i+1, p.Predicted)
		}
		if p.Trend != models.TrendStable {
			t.Errorf("step %d: trend %s, want stable", i+1, p.Trend)
		}
	}
}

func TestForecast_LinearIncreasing(t *testing.T) {
	in := series("2024-03-01", 10, 20, 30, 40, 50)
	slope, intercept := Fit(in)
	if math.Abs(slope-10) > eps || math.Abs(intercept-10) > eps {
		t.Fatalf("fit = (%.4f, %.4f), want (10, 10)", slope, intercept)
	}

	got := Forecast(in, Linear, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %d", len(got))
	}
	if math.Abs(got[0].Predicted-60) > eps || math.Abs(got[1].Predicted-70) > eps {
		t.Errorf("predicted = [%.4f %.4f], want [60 70]", got[0].Predicted, got[1].Predicted)
	}
	for _, p := range got {
		if p.Trend != models.TrendIncreasing {
			t.Errorf("%s: trend %s, want increasing", p.Date, p.Trend)
		}
	}
	if got[0].Confidence != 0.75 || got[1].Confidence != 0.5 {
		t.Errorf("confidence = [%v %v], want [0.75 0.5]", got[0].Confidence, got[1].Confidence)
	}
	if got[0].Date.String() != "2024-03-06" || got[1].Date.String() != "2024-03-07" {
		t.Errorf("dates = [%s %s], want [2024-03-06 2024-03-07]", got[0].Date, got[1].Date)
	}
}

func TestForecast_LinearFloorsAtZero(t *testing.T) {
	got := Forecast(series("2024-03-01", 50, 40, 30, 20, 10), Linear, 10)
	for _, p := range got {
		if p.Predicted < 0 {
			t.Fatalf("%s: negative prediction %.4f", p.Date, p.Predicted)
		}
		if p.Trend != models.TrendDecreasing {
			t.Errorf("%s: trend %s, want decreasing", p.Date, p.Trend)
		}
	}
	if got[len(got)-1].Predicted != 0 {
		t.Errorf("far step should be floored to 0, got %.4f", got[len(got)-1].Predicted)
	}
}

func TestForecast_LinearSmallSlopeIsStable(t *testing.T) {
	got := Forecast(series("2024-03-01", 100, 100.05, 100.1, 100.15), Linear, 1)
	if got[0].Trend != models.TrendStable {
		t.Errorf("slope 0.05 should be stable, got %s", got[0].Trend)
	}
}

func TestForecast_ExponentialIsFlat(t *testing.T) {
	got := Forecast(series("2024-03-01", 10, 20, 30), Exponential, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 points, got %d", len(got))
	}
	for _, p := range got {
		if math.Abs(p.Predicted-18.1) > eps {
			t.Errorf("%s: predicted %.4f, want 18.1", p.Date, p.Predicted)
		}
		if p.Trend != models.TrendStable {
			t.Errorf("%s: trend %s, want stable", p.Date, p.Trend)
		}
		if p.Predicted != got[0].Predicted {
			t.Errorf("%s: predicted %.4f differs from first step %.4f", p.Date, p.Predicted, got[0].Predicted)
		}
	}
}

func TestForecast_ExponentialUsesTrailingWeek(t *testing.T) {
	long := series("2024-03-01", 1000, 1000, 1000, 5, 5, 5, 5, 5, 5, 5)
	got := Forecast(long, Exponential, 1)
	if math.Abs(got[0].Predicted-5) > eps {
		t.Errorf("predicted %.4f, want 5 (older points must be ignored)", got[0].Predicted)
	}
}

func TestForecast_Seasonal(t *testing.T) {
	// 2024-01-01 is a Monday; two full weeks with weekend spending doubled.
	amounts := make([]float64, 14)
	for i := range amounts {
		amounts[i] = 100
		if i%7 == 5 || i%7 == 6 {
			amounts[i] = 200
		}
	}
	got := Forecast(series("2024-01-01", amounts...), Seasonal, 7)
	if len(got) != 7 {
		t.Fatalf("expected 7 points, got %d", len(got))
	}

	for _, p := range got {
		weekend := p.Date.Weekday() == time.Saturday || p.Date.Weekday() == time.Sunday
		want, trend := 100.0, models.TrendDecreasing
		if weekend {
			want, trend = 200.0, models.TrendIncreasing
		}
		if math.Abs(p.Predicted-want) > 1e-6 {
			t.Errorf("%s (%s): predicted %.4f, want %.0f", p.Date, p.Date.Weekday(), p.Predicted, want)
		}
		if p.Trend != trend {
			t.Errorf("%s (%s): trend %s, want %s", p.Date, p.Date.Weekday(), p.Trend, trend)
		}
	}
	if got[0].Date.Weekday() != time.Monday {
		t.Errorf("first forecast day should be Monday, got %s", got[0].Date.Weekday())
	}
}

func TestForecast_SeasonalShortHistory(t *testing.T) {
	// Fewer than seven points: the base is the mean of the points present.
	// Monday..Wednesday, 30/60/90, mean 60.
	got := Forecast(series("2024-01-01", 30, 60, 90), Seasonal, 5)
	want := []struct {
		weekday   time.Weekday
		predicted float64
	}{
		{time.Thursday, 60},
		{time.Friday, 60},
		{time.Saturday, 60},
		{time.Sunday, 60},
		{time.Monday, 30},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Date.Weekday() != w.weekday {
			t.Errorf("step %d: weekday %s, want %s", i+1, got[i].Date.Weekday(), w.weekday)
		}
		if math.Abs(got[i].Predicted-w.predicted) > 1e-6 {
			t.Errorf("step %d (%s): predicted %.4f, want %.0f", i+1, w.weekday, got[i].Predicted, w.predicted)
		}
	}
	if got[4].Trend != models.TrendDecreasing {
		t.Errorf("Monday multiplier 0.5 should be decreasing, got %s", got[4].Trend)
	}
}

func TestWeekdayMultipliers_ZeroSeries(t *testing.T) {
	m := WeekdayMultipliers(series("2024-01-01", 0, 0, 0, 0))
	for wd, v := range m {
		if v != 1 {
			t.Errorf("weekday %d: multiplier %.4f, want 1", wd, v)
		}
	}
	got := Forecast(series("2024-01-01", 0, 0, 0, 0), Seasonal, 3)
	for _, p := range got {
		if p.Predicted != 0 || p.Trend != models.TrendStable {
			t.Errorf("%s: got (%.4f, %s), want (0, stable)", p.Date, p.Predicted, p.Trend)
		}
	}
}

func TestWeekdayMultipliers_MissingWeekdayDefaultsToOne(t *testing.T) {
	// Monday..Wednesday only
	m := WeekdayMultipliers(series("2024-01-01", 10, 20, 30))
	for _, wd := range []time.Weekday{time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		if m[wd] != 1 {
			t.Errorf("%s: multiplier %.4f, want 1", wd, m[wd])
		}
	}
	if math.Abs(m[time.Monday]-0.5) > eps {
		t.Errorf("Monday multiplier %.4f, want 0.5", m[time.Monday])
	}
}

func TestForecast_Invariants(t *testing.T) {
	in := series("2024-02-01", 12, 0, 45, 7.5, 30, 0, 0, 88, 14, 3, 60, 22)
	for _, method := range Methods() {
		for _, horizon := range []int{1, 7, 14, 30, 90} {
			got := Forecast(in, method, horizon)
			if len(got) != horizon {
				t.Fatalf("%s/%d: got %d points", method, horizon, len(got))
			}
			for i, p := range got {
				if p.Predicted < 0 {
					t.Errorf("%s/%d step %d: negative prediction", method, horizon, i+1)
				}
				if p.Confidence < 0 || p.Confidence > 1 {
					t.Errorf("%s/%d step %d: confidence %.3f out of range", method, horizon, i+1, p.Confidence)
				}
				if i > 0 && p.Confidence > got[i-1].Confidence {
					t.Errorf("%s/%d step %d: confidence rose from %.3f to %.3f", method, horizon, i+1, got[i-1].Confidence, p.Confidence)
				}
				if want := in[len(in)-1].Date.AddDays(i + 1); !p.Date.Equal(want.Time) {
					t.Errorf("%s/%d step %d: date %s, want %s", method, horizon, i+1, p.Date, want)
				}
			}
		}
	}
}

func TestForecast_ConfidenceFloors(t *testing.T) {
	in := series("2024-02-01", 1, 2, 3, 4, 5, 6, 7)
	floors := map[Method]float64{Linear: 0.5, Exponential: 0.6, Seasonal: 0.7}
	for method, floorAt := range floors {
		got := Forecast(in, method, 30)
		if last := got[len(got)-1].Confidence; math.Abs(last-floorAt) > eps {
			t.Errorf("%s: last confidence %.3f, want %.1f", method, last, floorAt)
		}
	}
}

func TestForecast_InsufficientHistory(t *testing.T) {
	short := series("2024-02-01", 10, 20)
	for _, method := range Methods() {
		if got := Forecast(short, method, 14); len(got) != 0 {
			t.Errorf("%s: expected empty forecast for 2 points, got %d", method, len(got))
		}
	}
	if got := Forecast(series("2024-02-01", 1, 2, 3), Linear, 0); len(got) != 0 {
		t.Errorf("expected empty forecast for zero horizon, got %d", len(got))
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"linear", Linear, false},
		{"Exponential", Exponential, false},
		{" SEASONAL ", Seasonal, false},
		{"arima", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMethod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMethod(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
