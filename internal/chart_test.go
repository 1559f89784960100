package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleBreakdown(t *testing.T) Breakdown {
	t.Helper()
	ledger := &memoryLedger{
		categories: testCategories(),
		transactions: []Transaction{
			{Category: "Salary", Amount: dec("4100"), Month: 3, Year: 2024},
			{Category: "Rent", Amount: dec("-700"), Month: 3, Year: 2024},
			{Category: "Groceries", Amount: dec("-202.50"), Month: 3, Year: 2024},
			{Category: "Savings", Amount: dec("-500"), Month: 3, Year: 2024},
		},
	}
	b, err := MonthlyBreakdown(ledger, 3, 2024)
	if err != nil {
		t.Fatalf("MonthlyBreakdown: %v", err)
	}
	return b
}

func TestBreakdownChart(t *testing.T) {
	fig := BreakdownChart(sampleBreakdown(t))

	traces := fig["data"].([]map[string]interface{})
	if len(traces) != 1 || traces[0]["type"] != "pie" {
		t.Fatalf("expected one pie trace, got %v", fig["data"])
	}
	values := traces[0]["values"].([]float64)
	want := []float64{202.5, 700, 500}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("values = %v, want %v", values, want)
			break
		}
	}
	title := fig["layout"].(map[string]interface{})["title"]
	if title != "Distribution for March 2024" {
		t.Errorf("title = %v", title)
	}
}

func TestNetWorthChart(t *testing.T) {
	fig := NetWorthChart([]NetWorthPoint{
		{Date: day("2024-01-01"), Assets: dec("800"), Liabilities: dec("500"), NetWorth: dec("300")},
		{Date: day("2024-02-01"), Assets: dec("900"), Liabilities: dec("450"), NetWorth: dec("450")},
	})

	traces := fig["data"].([]map[string]interface{})
	if len(traces) != 3 {
		t.Fatalf("expected 3 traces, got %d", len(traces))
	}
	netWorth := traces[0]
	x := netWorth["x"].([]string)
	y := netWorth["y"].([]float64)
	if x[0] != "2024-01-01" || x[1] != "2024-02-01" || y[0] != 300 || y[1] != 450 {
		t.Errorf("net worth trace = %v / %v", x, y)
	}
}

func TestTrendsChart(t *testing.T) {
	series := []TrendSeries{{
		Category: "Groceries",
		Year:     2024,
		Points:   []TrendPoint{{Month: 1, Amount: dec("150")}, {Month: 3, Amount: dec("80")}},
	}}

	tests := []struct {
		kind     string
		wantType string
		wantMode interface{}
	}{
		{"line", "scatter", "lines+markers"},
		{"bar", "bar", nil},
		{"scatter", "scatter", "markers"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			fig, err := TrendsChart(series, tt.kind)
			if err != nil {
				t.Fatalf("TrendsChart: %v", err)
			}
			trace := fig["data"].([]map[string]interface{})[0]
			if trace["type"] != tt.wantType || trace["mode"] != tt.wantMode {
				t.Errorf("trace type/mode = %v/%v, want %v/%v", trace["type"], trace["mode"], tt.wantType, tt.wantMode)
			}
			x := trace["x"].([]string)
			if len(x) != 2 || x[0] != "Jan" || x[1] != "Mar" {
				t.Errorf("x = %v, want [Jan Mar]", x)
			}
		})
	}

	if _, err := TrendsChart(series, "radar"); err == nil {
		t.Error("expected an error for an unknown chart kind")
	}
}

func TestWriteChart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	path, err := WriteChart(dir, BreakdownChartFile, "Monthly breakdown", BreakdownChart(sampleBreakdown(t)))
	if err != nil {
		t.Fatalf("WriteChart: %v", err)
	}
	if path != filepath.Join(dir, BreakdownChartFile) {
		t.Errorf("path = %q", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading chart: %v", err)
	}
	for _, s := range []string{"<title>Monthly breakdown</title>", "cdn.plot.ly", `"type":"pie"`, "Plotly.newPlot"} {
		if !strings.Contains(string(content), s) {
			t.Errorf("chart should contain %q", s)
		}
	}

	// A second chart of the same kind replaces the first
	fig, _ := TrendsChart(nil, "line")
	if _, err := WriteChart(dir, BreakdownChartFile, "Replaced", fig); err != nil {
		t.Fatalf("WriteChart: %v", err)
	}
	content, _ = os.ReadFile(path)
	if strings.Contains(string(content), `"type":"pie"`) || !strings.Contains(string(content), "<title>Replaced</title>") {
		t.Error("chart file was not replaced")
	}
}
