package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/etnz/costbasis"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// EvolutionChart renders a PNG line chart of the total value and cost of
// a portfolio from its Totals records.
func EvolutionChart(title string, totals []costbasis.Record) ([]byte, error) {
	return lineChart(title, totals)
}

// TickerChart renders a PNG line chart of the value and cost of one
// ticker, taken from Evolution records.
func TickerChart(ticker string, records []costbasis.Record) ([]byte, error) {
	var own []costbasis.Record
	for _, r := range records {
		if r.Ticker == ticker {
			own = append(own, r)
		}
	}
	return lineChart(ticker, own)
}

// PositionsPie renders a PNG pie chart of the share of every position,
// cash included, in the total value of a snapshot. Positions without a
// positive value are left out.
func PositionsPie(s *costbasis.Snapshot) ([]byte, error) {
	var values []chart.Value
	for _, pos := range s.Positions {
		v := pos.ValueBase.Decimal().InexactFloat64()
		if v <= 0 {
			continue
		}
		label := pos.Ticker
		if pos.Cash {
			label = pos.Currency
		}
		values = append(values, chart.Value{Label: label, Value: v})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no position with a positive value on %s", s.On)
	}

	pie := chart.PieChart{
		Title:  fmt.Sprintf("Positions on %s", s.On),
		Width:  512,
		Height: 512,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func lineChart(title string, totals []costbasis.Record) ([]byte, error) {
	if len(totals) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(totals))
	}

	xValues := make([]time.Time, len(totals))
	valueY := make([]float64, len(totals))
	costY := make([]float64, len(totals))
	for i, r := range totals {
		xValues[i] = r.Date.Time()
		valueY[i] = r.ValueBase.Decimal().InexactFloat64()
		costY[i] = r.Cost.Decimal().InexactFloat64()
	}
	currency := totals[0].ValueBase.Currency()

	valueSeries := chart.TimeSeries{
		Name: "Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: valueY,
	}
	costSeries := chart.TimeSeries{
		Name: "Cost",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: costY,
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f %s", f, currency)
				}
				return ""
			},
		},
		Series: []chart.Series{valueSeries, costSeries},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
