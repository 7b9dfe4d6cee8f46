// Package export writes projection points to CSV and JSON.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/klidoop/fire-calculation/internal/model"
)

// DefaultFileName is the CSV written when no path is configured.
const DefaultFileName = "fire_projection.csv"

// Header returns the CSV header row for a mode.
func Header(mode model.Mode) []string {
	return []string{mode.StepLabel(), "Savings", "Scenario"}
}

// WriteCSV writes one row per point: step, balance to the cent, scenario.
func WriteCSV(w io.Writer, points []model.Point, mode model.Mode) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(mode)); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, p := range points {
		row := []string{
			strconv.Itoa(p.Step),
			Money(p.Balance),
			p.Scenario,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the points to path, replacing any existing file.
func WriteCSVFile(path string, points []model.Point, mode model.Mode) error {
	if path == "" {
		path = DefaultFileName
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, points, mode); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Money renders a balance rounded half away from zero to two places.
// Overflowed balances are written as +Inf, -Inf or NaN.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
