// Package visual renders the trailing price history and forward projection of
// one market/crop pair as a standalone ECharts HTML page.
package visual

import (
	"fmt"
	"io"
	"math"
	"strings"

	"mandimitra/internal/forecast"
	"mandimitra/internal/mandi"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	colorBackground    = "#060c1b"
	colorTextPrimary   = "#eceff4"
	colorTextSecondary = "#9ca3af"
	colorHistory       = "#3b82f6"
	colorProjection    = "#fbbf24"
	colorPeak          = "#34d399"

	chartWidthPx  = 1200
	chartHeightPx = 560
)

// ChartInput holds everything the forecast chart needs.
type ChartInput struct {
	Crop     string
	Market   string
	History  []mandi.PricePoint
	Forecast forecast.Forecast
}

// RenderForecastHTML writes a self-contained HTML chart of the trailing
// history followed by the projected path. The peak day, when the trend is
// rising, is marked on the projection series.
func RenderForecastHTML(w io.Writer, input ChartInput) error {
	if len(input.History) == 0 && len(input.Forecast.Projected) == 0 {
		return fmt.Errorf("no price data to chart for %s @ %s", input.Crop, input.Market)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", chartWidthPx),
			Height:          fmt.Sprintf("%dpx", chartHeightPx),
			BackgroundColor: colorBackground,
			PageTitle:       fmt.Sprintf("%s price forecast", input.Crop),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:         fmt.Sprintf("%s @ %s", titleCase(input.Crop), input.Market),
			Subtitle:      subtitle(input.Forecast),
			Left:          "left",
			Top:           "10",
			TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 18},
			SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), TextStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	)

	xAxis, histSeries, projSeries := buildSeries(input.History, input.Forecast.Projected)
	line.SetXAxis(xAxis)
	line.AddSeries("History", histSeries,
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorHistory, Width: 2}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	projOpts := []charts.SeriesOpts{
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorProjection, Width: 2, Type: "dashed"}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	}
	if input.Forecast.Trend == forecast.TrendRising && input.Forecast.PeakDay > 0 {
		projOpts = append(projOpts, charts.WithMarkPointNameCoordItemOpts(opts.MarkPointNameCoordItem{
			Name:       "Projected peak",
			Coordinate: []interface{}{dayLabel(input.Forecast.PeakDay), round2(input.Forecast.PeakPrice)},
			ItemStyle:  &opts.ItemStyle{Color: colorPeak},
		}))
	}
	line.AddSeries("Projection", projSeries, projOpts...)

	return line.Render(w)
}

func subtitle(fc forecast.Forecast) string {
	return fmt.Sprintf("trend %s | %.2f%%/day | current ₹%.2f | peak ₹%.2f on day %d",
		fc.Trend, fc.DailyChangePct, fc.CurrentPrice, fc.PeakPrice, fc.PeakDay)
}

// buildSeries lays history and projection along one category axis. The
// projection starts at the last history point so the two lines join visually.
func buildSeries(history []mandi.PricePoint, projected []float64) ([]string, []opts.LineData, []opts.LineData) {
	histLen := len(history)
	projLen := len(projected)
	total := histLen
	if projLen > 1 {
		total += projLen - 1
	}

	xAxis := make([]string, 0, total)
	histSeries := make([]opts.LineData, 0, total)
	projSeries := make([]opts.LineData, 0, total)

	for i, p := range history {
		xAxis = append(xAxis, p.Date.Format("01-02"))
		histSeries = append(histSeries, opts.LineData{Value: round2(p.Price)})
		if i == histLen-1 && projLen > 0 {
			projSeries = append(projSeries, opts.LineData{Value: round2(projected[0])})
		} else {
			projSeries = append(projSeries, opts.LineData{Value: nil})
		}
	}
	for day := 1; day < projLen; day++ {
		xAxis = append(xAxis, dayLabel(day))
		histSeries = append(histSeries, opts.LineData{Value: nil})
		projSeries = append(projSeries, opts.LineData{Value: round2(projected[day])})
	}
	if histLen == 0 && projLen > 0 {
		xAxis = append([]string{dayLabel(0)}, xAxis...)
		histSeries = append([]opts.LineData{{Value: nil}}, histSeries...)
		projSeries = append([]opts.LineData{{Value: round2(projected[0])}}, projSeries...)
	}
	return xAxis, histSeries, projSeries
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func dayLabel(day int) string {
	return fmt.Sprintf("+%dd", day)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
