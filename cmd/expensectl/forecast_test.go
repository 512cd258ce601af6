package main

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/Dan9191/expense-service/internal/models"
)

func TestReadSeries(t *testing.T) {
	in := `date,amount
2024-03-01, 10
2024-03-03,5.5
2024-03-01,2
2024-03-04,0
`
	got, err := readSeries(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		date   string
		amount float64
	}{
		{"2024-03-01", 12},
		{"2024-03-02", 0},
		{"2024-03-03", 5.5},
		{"2024-03-04", 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Date.String() != w.date || got[i].Amount != w.amount {
			t.Errorf("point %d = %s %.2f, want %s %.2f", i, got[i].Date, got[i].Amount, w.date, w.amount)
		}
	}
}

func TestReadSeries_Errors(t *testing.T) {
	tests := map[string]string{
		"bad date":     "03/01/2024,10\n",
		"bad amount":   "2024-03-01,ten\n",
		"extra column": "2024-03-01,10,food\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := readSeries(strings.NewReader(in)); err == nil {
				t.Error("expected an error")
			}
		})
	}

	got, err := readSeries(strings.NewReader(""))
	if err != nil || len(got) != 0 {
		t.Errorf("empty input: %v, %v", got, err)
	}
}

func TestForecastCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs([]string{"forecast", "--file", "testdata/history.csv", "--method", "linear", "--period", "2", "--json"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	var points []models.ForecastPoint
	if err := json.Unmarshal(out.Bytes(), &points); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Date.String() != "2024-03-06" || math.Abs(points[0].Predicted-60) > 1e-9 || math.Abs(points[1].Predicted-70) > 1e-9 {
		t.Errorf("unexpected forecast: %+v", points)
	}
	if points[0].Trend != models.TrendIncreasing {
		t.Errorf("trend = %s, want increasing", points[0].Trend)
	}
}

func TestPrintForecast(t *testing.T) {
	var out bytes.Buffer
	day, _ := models.ParseDay("2024-03-06")
	err := printForecast(&out, []models.ForecastPoint{{Date: day, Predicted: 60, Confidence: 0.75, Trend: models.TrendIncreasing}})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "DATE") {
		t.Fatalf("unexpected table:\n%s", out.String())
	}
	for _, want := range []string{"2024-03-06", "60.00", "75%", "increasing"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row %q missing %q", lines[1], want)
		}
	}
}
