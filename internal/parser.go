package internal

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Parser parses statement files into rows awaiting review
type Parser interface {
	Parse(path string, layout ColumnLayout) ([]StatementRow, error)
}

// ParserFunc is a function that implements Parser
type ParserFunc func(path string, layout ColumnLayout) ([]StatementRow, error)

func (f ParserFunc) Parse(path string, layout ColumnLayout) ([]StatementRow, error) {
	return f(path, layout)
}

// parsers is the registry of available parsers
var parsers = map[string]Parser{}

// extensions maps file extensions to the parser used when no format is given
var extensions = map[string]string{
	".csv":  "csv",
	".xlsx": "xlsx",
	".json": "simple-json",
}

// RegisterParser registers a parser with the given name
func RegisterParser(name string, p Parser) {
	parsers[name] = p
}

// GetParser returns the parser for the given source type
func GetParser(source string) (Parser, error) {
	p, ok := parsers[source]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %s (available: %v)", source, AvailableSources())
	}
	return p, nil
}

// AvailableSources returns the registered source types in alphabetical order
func AvailableSources() []string {
	var sources []string
	for name := range parsers {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources
}

// IsKnownParser returns true if the name is a registered parser
func IsKnownParser(name string) bool {
	_, ok := parsers[name]
	return ok
}

// ParseFileArg parses a file argument that may have a format prefix.
// Returns (format, path). If no valid prefix, format is empty.
// Example: "xlsx:statement.xlsx" → ("xlsx", "statement.xlsx")
// Example: "statement.csv" → ("", "statement.csv")
// Example: "C:\path\file.csv" → ("", "C:\path\file.csv") // Windows path
func ParseFileArg(arg string) (format, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownParser(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg // Not a known parser, treat whole thing as path
}

// DetectFormat picks a parser name from the file extension, defaulting to csv.
func DetectFormat(path string) string {
	if name, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return name
	}
	return "csv"
}

// LoadStatement resolves the parser for arg (explicit format wins over a
// prefix, which wins over the extension) and parses the file.
func LoadStatement(arg, format string, layout ColumnLayout) ([]StatementRow, error) {
	prefixFormat, path := ParseFileArg(arg)
	switch {
	case format != "":
	case prefixFormat != "":
		format = prefixFormat
	default:
		format = DetectFormat(path)
	}

	p, err := GetParser(format)
	if err != nil {
		return nil, err
	}
	return p.Parse(path, layout)
}
