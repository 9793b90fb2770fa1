// internal/utils/values.go
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// NPKError reports an N-P-K string whose components are not numeric.
type NPKError struct {
	Value     string
	Component string
}

func (e *NPKError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("npk %q must have three components separated by '-'", e.Value)
	}
	return fmt.Sprintf("npk %q has a non-numeric component %q", e.Value, e.Component)
}

// ParseValueUnit splits a string such as "20.5 kg" into its numeric prefix
// and trailing unit. The prefix ends at the first rune that is not a digit,
// '.' or ','. Commas are read as decimal separators.
func ParseValueUnit(text string) (*float64, *string) {
	text = strings.TrimSpace(text)
	if len(text) < 2 {
		return nil, nil
	}

	end := 0
	for end < len(text) {
		c := text[end]
		if (c >= '0' && c <= '9') || c == '.' || c == ',' {
			end++
			continue
		}
		break
	}

	var value *float64
	if end > 0 {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(text[:end], ",", "."), 64); err == nil {
			value = &f
		}
	}

	var unit *string
	if u := strings.TrimSpace(text[end:]); u != "" {
		unit = &u
	}

	return value, unit
}

// ParseNPK parses "10-20-30" into its three numeric components. Empty or
// too-short input yields nil components and no error.
func ParseNPK(text string) (n, p, k *float64, err error) {
	text = strings.TrimSpace(text)
	if len(text) < 5 {
		return nil, nil, nil, nil
	}

	parts := strings.Split(text, "-")
	if len(parts) != 3 {
		return nil, nil, nil, &NPKError{Value: text}
	}

	values := make([]*float64, 3)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		f, perr := strconv.ParseFloat(part, 64)
		if perr != nil {
			return nil, nil, nil, &NPKError{Value: text, Component: part}
		}
		values[i] = &f
	}

	return values[0], values[1], values[2], nil
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
