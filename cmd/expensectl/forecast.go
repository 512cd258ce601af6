package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Dan9191/expense-service/internal/forecast"
	"github.com/Dan9191/expense-service/internal/models"
	"github.com/spf13/cobra"
)

var (
	flagFile   string
	flagMethod string
	flagPeriod int
	flagJSON   bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast daily spending from a CSV of date,amount rows",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().StringVarP(&flagFile, "file", "f", "-", "CSV file, - for stdin")
	forecastCmd.Flags().StringVarP(&flagMethod, "method", "m", "linear", "linear, exponential or seasonal")
	forecastCmd.Flags().IntVarP(&flagPeriod, "period", "p", 14, "Days to forecast")
	forecastCmd.Flags().BoolVar(&flagJSON, "json", false, "Print JSON instead of a table")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	method, err := forecast.ParseMethod(flagMethod)
	if err != nil {
		return err
	}
	if flagPeriod < 1 {
		return errors.New("period must be positive")
	}

	in := io.Reader(os.Stdin)
	if flagFile != "-" {
		f, err := os.Open(flagFile)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer f.Close()
		in = f
	}

	series, err := readSeries(in)
	if err != nil {
		return err
	}
	points := forecast.Forecast(series, method, flagPeriod)
	if len(points) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Need at least %d days of history, got %d\n", forecast.MinHistory, len(series))
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	}
	return printForecast(cmd.OutOrStdout(), points)
}

// readSeries parses date,amount rows into one point per day from the first
// to the last date seen. Rows on the same day are summed; missing days are
// zero. A header row is skipped.
func readSeries(r io.Reader) ([]models.DailyPoint, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = 2
	rd.TrimLeadingSpace = true

	totals := map[string]float64{}
	var first, last models.Day
	for line := 1; ; line++ {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read history: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
			continue
		}

		d, err := models.ParseDay(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q", line, rec[1])
		}
		totals[d.String()] += amount
		if first.IsZero() || d.Before(first.Time) {
			first = d
		}
		if last.IsZero() || d.After(last.Time) {
			last = d
		}
	}
	if first.IsZero() {
		return nil, nil
	}

	var out []models.DailyPoint
	for d := first; !d.After(last.Time); d = d.AddDays(1) {
		out = append(out, models.DailyPoint{Date: d, Amount: totals[d.String()]})
	}
	return out, nil
}

func printForecast(w io.Writer, points []models.ForecastPoint) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tPREDICTED\tCONFIDENCE\tTREND")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%.2f\t%.0f%%\t%s\n", p.Date, p.Predicted, p.Confidence*100, p.Trend)
	}
	return tw.Flush()
}
