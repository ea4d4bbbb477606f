package modinfo

import (
	"fmt"
	"strings"
)

// NoDescription is the description reported by the docstring format when a
// module has no usable docstring.
const NoDescription = "No description available"

const (
	bannerMarker    = "# meta banner:"
	developerMarker = "# meta developer:"
)

// ModuleInfo is the metadata scraped from a module's source text. Absent
// fields are nil and serialize as JSON null.
type ModuleInfo struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Banner      *string `json:"banner"`
	Developer   *string `json:"developer"`
}

// Format selects how name and description are located in the source.
type Format string

const (
	// FormatDocstring reads a "name" key-value fragment and the module class docstring.
	FormatDocstring Format = "docstring"
	// FormatHeader reads "# Name:" and "# Description:" comment lines.
	FormatHeader Format = "header"
)

// ParseFormat parses a format name. An empty string selects FormatDocstring.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatDocstring:
		return FormatDocstring, nil
	case FormatHeader:
		return FormatHeader, nil
	default:
		return "", fmt.Errorf("unknown metadata format: %q (must be docstring or header)", s)
	}
}

// Extract scans source with the given format.
func Extract(source string, format Format) ModuleInfo {
	if format == FormatHeader {
		return ExtractHeader(source)
	}
	return ExtractDocstring(source)
}

// normalize strips carriage returns and splits the text into lines.
func normalize(source string) []string {
	return strings.Split(strings.ReplaceAll(source, "\r", ""), "\n")
}

// markerValue returns the text after the first colon of line when line starts
// with marker. ok is false when the marker does not match.
func markerValue(line, marker string) (value string, ok bool) {
	if !strings.HasPrefix(line, marker) {
		return "", false
	}
	idx := strings.Index(line, ":")
	return strings.TrimSpace(line[idx+1:]), true
}

// setOnce stores value into *field unless the field is already set or the
// value is empty.
func setOnce(field **string, value string) {
	if *field != nil || value == "" {
		return
	}
	v := value
	*field = &v
}

// scanMeta applies the "# meta" markers shared by both formats.
func scanMeta(line string, info *ModuleInfo) {
	if v, ok := markerValue(line, bannerMarker); ok {
		setOnce(&info.Banner, v)
	}
	if v, ok := markerValue(line, developerMarker); ok {
		setOnce(&info.Developer, v)
	}
}
