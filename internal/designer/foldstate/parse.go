package foldstate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"popup-designer/internal/designer/models"
)

// ============================================================
// Numeric input policy
// ============================================================

// ParsePolicy decides what happens to raw element input that is not a number.
// Numbers are always clamped to the field bounds.
type ParsePolicy string

const (
	// PolicyZero stores 0 for unparseable input without clamping it.
	PolicyZero ParsePolicy = "zero"
	// PolicyClamp substitutes 0 and then clamps it like any other number.
	PolicyClamp ParsePolicy = "clamp"
	// PolicyReject refuses unparseable input and leaves state unchanged.
	PolicyReject ParsePolicy = "reject"
)

func ParsePolicyFromString(s string) (ParsePolicy, error) {
	switch p := ParsePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyZero, PolicyClamp, PolicyReject:
		return p, nil
	case "":
		return PolicyZero, nil
	}
	return "", fmt.Errorf("unknown parse policy %q", s)
}

// Apply turns raw into the value to store for a field bounded by b.
func (p ParsePolicy) Apply(field, raw string, b models.Bounds) (float64, error) {
	v, ok := ParseNumber(raw)
	if ok {
		return b.Clamp(v), nil
	}
	switch p {
	case PolicyReject:
		return 0, &models.ValidationError{Field: field, Raw: raw, Reason: "not a number"}
	case PolicyClamp:
		return b.Clamp(0), nil
	}
	return 0, nil
}

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads the leading decimal number of raw, so "12mm" is 12.
// It reports false when there is none.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	}

	m := numberPrefix.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
