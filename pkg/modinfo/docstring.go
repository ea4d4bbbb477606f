package modinfo

import (
	"regexp"
	"strings"
)

// moduleBase marks the class whose docstring describes the module.
const moduleBase = "loader.Module"

// The value must close with the quote it opened with.
var nameFragment = regexp.MustCompile(`["']name["']\s*:\s*(?:"([^"\n]*)"|'([^'\n]*)')`)

var docQuotes = []string{`"""`, `'''`}

// ExtractDocstring reads the module name from the first "name": "<value>"
// fragment and the description from the module class docstring. Description
// is never nil: it falls back to NoDescription.
func ExtractDocstring(source string) ModuleInfo {
	var info ModuleInfo
	lines := normalize(source)
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
		scanMeta(lines[i], &info)
	}

	if m := nameFragment.FindStringSubmatch(strings.Join(lines, "\n")); m != nil {
		setOnce(&info.Name, strings.TrimSpace(m[1]+m[2]))
	}

	desc := findDocstring(lines)
	if desc == "" {
		desc = NoDescription
	}
	info.Description = &desc
	return info
}

// findDocstring locates the first module class declaration and returns its
// docstring, or "" if there is none. lines must already be trimmed.
func findDocstring(lines []string) string {
	for i, line := range lines {
		if strings.HasPrefix(line, "class ") && strings.Contains(line, moduleBase) {
			return readDocstring(lines[i+1:])
		}
	}
	return ""
}

// readDocstring reads the string literal block at the start of lines,
// skipping blank lines. A literal closed on its opening line is returned
// directly; otherwise lines are accumulated until the closing quote and joined
// with single spaces. An unterminated literal yields "".
func readDocstring(lines []string) string {
	var (
		quote string
		parts []string
	)
	for _, line := range lines {
		if quote == "" {
			if line == "" {
				continue
			}
			var rest string
			quote, rest = openDocstring(line)
			if quote == "" {
				return ""
			}
			if end := strings.Index(rest, quote); end >= 0 {
				return strings.TrimSpace(rest[:end])
			}
			if rest = strings.TrimSpace(rest); rest != "" {
				parts = append(parts, rest)
			}
			continue
		}

		if end := strings.Index(line, quote); end >= 0 {
			if head := strings.TrimSpace(line[:end]); head != "" {
				parts = append(parts, head)
			}
			return strings.Join(parts, " ")
		}
		if line != "" {
			parts = append(parts, line)
		}
	}
	return ""
}

// openDocstring reports the triple quote that opens line, allowing a single
// r/u string prefix, and the text following it.
func openDocstring(line string) (quote, rest string) {
	if len(line) > 0 && strings.ContainsRune("rRuU", rune(line[0])) {
		line = line[1:]
	}
	for _, q := range docQuotes {
		if strings.HasPrefix(line, q) {
			return q, line[len(q):]
		}
	}
	return "", ""
}
