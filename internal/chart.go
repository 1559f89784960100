package internal

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
)

// Chart file names. Each request overwrites the previous file.
const (
	BreakdownChartFile = "monthly_breakdown.html"
	NetWorthChartFile  = "net_worth.html"
	TrendsChartFile    = "spending_trends.html"
)

// ChartKinds are the trace types a trends chart can be drawn with
var ChartKinds = []string{"line", "bar", "scatter"}

// Figure is a plotly figure: {"data": [...traces], "layout": {...}}
type Figure map[string]interface{}

var chartPage = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js" charset="utf-8"></script>
</head>
<body>
<div id="chart" style="width:100%;height:90vh;"></div>
<script>
const figure = {{.Figure}};
Plotly.newPlot("chart", figure.data, figure.layout, {responsive: true});
</script>
</body>
</html>
`))

// BreakdownChart is a donut chart of where the month's money went
func BreakdownChart(b Breakdown) Figure {
	d := b.Distribution()
	return Figure{
		"data": []map[string]interface{}{
			{
				"type":   "pie",
				"labels": []string{"Spending", "Expenses", "Assets"},
				"values": []float64{d.Spending.InexactFloat64(), d.Expenses.InexactFloat64(), d.Assets.InexactFloat64()},
				"hole":   0.4,
			},
		},
		"layout": map[string]interface{}{
			"title": "Distribution for " + b.Period(),
		},
	}
}

// NetWorthChart plots net worth, assets and liabilities per snapshot date
func NetWorthChart(points []NetWorthPoint) Figure {
	dates := make([]string, 0, len(points))
	var netWorth, assets, liabilities []float64
	for _, p := range points {
		dates = append(dates, p.Date.String())
		netWorth = append(netWorth, p.NetWorth.InexactFloat64())
		assets = append(assets, p.Assets.InexactFloat64())
		liabilities = append(liabilities, p.Liabilities.InexactFloat64())
	}

	return Figure{
		"data": []map[string]interface{}{
			{
				"type": "scatter",
				"mode": "lines+markers",
				"name": "Net worth",
				"x":    dates,
				"y":    netWorth,
				"line": map[string]interface{}{
					"color": "#6366f1",
					"width": 3,
				},
			},
			{
				"type":   "scatter",
				"mode":   "lines",
				"name":   "Assets",
				"x":      dates,
				"y":      assets,
				"marker": map[string]string{"color": "#22c55e"},
			},
			{
				"type":   "scatter",
				"mode":   "lines",
				"name":   "Liabilities",
				"x":      dates,
				"y":      liabilities,
				"marker": map[string]string{"color": "#ef4444"},
			},
		},
		"layout": map[string]interface{}{
			"title": "Net worth over time",
			"xaxis": map[string]interface{}{"type": "date"},
		},
	}
}

// TrendsChart draws one trace per category over the months of the year
func TrendsChart(series []TrendSeries, kind string) (Figure, error) {
	var traces []map[string]interface{}
	for _, s := range series {
		var months []string
		var amounts []float64
		for _, p := range s.Points {
			months = append(months, time.Month(p.Month).String()[:3])
			amounts = append(amounts, p.Amount.InexactFloat64())
		}

		trace := map[string]interface{}{
			"name": s.Category,
			"x":    months,
			"y":    amounts,
		}
		switch kind {
		case "line":
			trace["type"] = "scatter"
			trace["mode"] = "lines+markers"
		case "bar":
			trace["type"] = "bar"
		case "scatter":
			trace["type"] = "scatter"
			trace["mode"] = "markers"
		default:
			return nil, fmt.Errorf("unknown chart kind %q (available: %v)", kind, ChartKinds)
		}
		traces = append(traces, trace)
	}

	title := "Spending trends"
	if len(series) > 0 {
		title = fmt.Sprintf("Spending trends %d", series[0].Year)
	}

	monthTicks := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		monthTicks = append(monthTicks, m.String()[:3])
	}

	return Figure{
		"data": traces,
		"layout": map[string]interface{}{
			"title":   title,
			"barmode": "group",
			"xaxis": map[string]interface{}{
				"categoryorder": "array",
				"categoryarray": monthTicks,
			},
		},
	}, nil
}

// WriteChart renders the figure as a standalone HTML page at dir/name,
// replacing any earlier file, and returns the file path.
func WriteChart(dir, name, title string, fig Figure) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating chart directory: %w", err)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	if err := chartPage.Execute(f, struct {
		Title  string
		Figure Figure
	}{title, fig}); err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}

	log.Debug().Str("path", path).Msg("chart written")
	return path, nil
}

// OpenChart opens the chart file in the default browser
func OpenChart(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := browser.OpenFile(abs); err != nil {
		return fmt.Errorf("opening %s in browser: %w", abs, err)
	}
	return nil
}
