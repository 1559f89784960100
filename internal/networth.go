package internal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// NetWorthPoint is the net worth on one snapshot date
type NetWorthPoint struct {
	Date        Day
	Assets      decimal.Decimal
	Liabilities decimal.Decimal
	NetWorth    decimal.Decimal
}

// NetWorthReport is the latest snapshot and the history of all snapshots
type NetWorthReport struct {
	Date             Day
	Assets           []NetWorthLine
	Liabilities      []NetWorthLine
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
	History          []NetWorthPoint
}

// NetWorthSummary builds the report for the latest snapshot date. It returns
// ErrNoNetWorthData when no snapshot was ever recorded.
func NetWorthSummary(store NetWorthStore) (NetWorthReport, error) {
	latest, ok, err := store.LatestNetWorthDate()
	if err != nil {
		return NetWorthReport{}, err
	}
	if !ok {
		return NetWorthReport{}, ErrNoNetWorthData
	}

	lines, err := store.NetWorthAt(latest)
	if err != nil {
		return NetWorthReport{}, err
	}

	report := NetWorthReport{
		Date:             latest,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}
	for _, line := range lines {
		switch line.Type {
		case EntryAsset:
			report.Assets = append(report.Assets, line)
			report.TotalAssets = report.TotalAssets.Add(line.Total)
		case EntryLiability:
			report.Liabilities = append(report.Liabilities, line)
			report.TotalLiabilities = report.TotalLiabilities.Add(line.Total)
		}
	}
	sortLines(report.Assets)
	sortLines(report.Liabilities)
	report.NetWorth = report.TotalAssets.Sub(report.TotalLiabilities)

	report.History, err = NetWorthSeries(store)
	if err != nil {
		return NetWorthReport{}, err
	}
	return report, nil
}

// NetWorthSeries returns one point per snapshot date, oldest first.
func NetWorthSeries(store NetWorthStore) ([]NetWorthPoint, error) {
	history, err := store.NetWorthHistory()
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrNoNetWorthData
	}

	points := make([]NetWorthPoint, 0, len(history))
	for _, h := range history {
		points = append(points, NetWorthPoint{
			Date:        h.Date,
			Assets:      h.Assets,
			Liabilities: h.Liabilities,
			NetWorth:    h.Assets.Sub(h.Liabilities),
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}

func sortLines(lines []NetWorthLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Name < lines[j].Name
	})
}

// ParseSnapshot validates user entered values, keyed by asset or liability
// name. Blank values are skipped. Nothing is returned if any value is invalid.
func ParseSnapshot(assets, liabilities map[string]string) ([]NetWorthEntry, error) {
	var entries []NetWorthEntry
	for _, group := range []struct {
		kind   EntryType
		values map[string]string
	}{
		{EntryAsset, assets},
		{EntryLiability, liabilities},
	} {
		names := make([]string, 0, len(group.values))
		for name := range group.values {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			value := strings.TrimSpace(group.values[name])
			if value == "" {
				continue
			}
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				return nil, fmt.Errorf("%w: %s with value %q", ErrInvalidName, group.kind, value)
			}
			amount, err := ParseAmount(value, false)
			if err != nil {
				return nil, fmt.Errorf("%s %q: %w", group.kind, trimmed, err)
			}
			entries = append(entries, NetWorthEntry{Name: trimmed, Amount: amount, Type: group.kind})
		}
	}
	return entries, nil
}

// ParseNamedValues turns NAME=VALUE arguments into a map.
func ParseNamedValues(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: expected NAME=VALUE, got %q", ErrInvalidName, arg)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: expected NAME=VALUE, got %q", ErrInvalidName, arg)
		}
		values[name] = value
	}
	return values, nil
}

// RecordSnapshot appends the entries as the snapshot of day. Either all
// entries are written or none are.
func RecordSnapshot(store NetWorthStore, entries []NetWorthEntry, day Day) error {
	if len(entries) == 0 {
		return ErrEmptySnapshot
	}
	return store.AppendNetWorthSnapshot(entries, day)
}

// KnownNetWorthNames lists the asset and liability names used in earlier snapshots
func KnownNetWorthNames(store NetWorthStore) (assets, liabilities []string, err error) {
	return store.NetWorthNames()
}
