package httputil

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"
)

// ParseQueryString extracts a string query parameter
func ParseQueryString(r *http.Request, key string, defaultVal string) string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// ParseQueryIntPrefix extracts an integer query parameter using lenient
// prefix parsing: leading whitespace and an optional sign are allowed and
// parsing stops at the first non-digit, so "3abc" yields 3. Absent,
// unparsable and zero values yield defaultVal.
func ParseQueryIntPrefix(r *http.Request, key string, defaultVal int) int {
	val, ok := ParseIntPrefix(r.URL.Query().Get(key))
	if !ok || val == 0 {
		return defaultVal
	}
	return val
}

// ParseIntPrefix parses the leading integer of s. ok is false when s has no
// leading digits or the value overflows an int.
func ParseIntPrefix(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	val, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return val, true
}
