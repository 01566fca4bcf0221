package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	maxQuantity = decimal.NewFromInt(math.MaxInt32)
	maxAccount  = decimal.NewFromInt(math.MaxInt64)
	// largest value a decimal(12,2) column holds
	maxAmount = decimal.RequireFromString("9999999999.99")
)

var currencyMarks = []string{"R$", "US$", "$", "\u00a0", " "}

// parseNumber accepts plain numbers plus pt-BR ("1.234,56") and en-US
// ("1,234.56") grouping, with an optional currency prefix.
func parseNumber(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	for _, m := range currencyMarks {
		s = strings.ReplaceAll(s, m, "")
	}
	if s == "" {
		return decimal.Zero, false
	}
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")
	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseAmount coerces a money cell. Blank cells are zero without complaint;
// garbage, negative and out of range values are zero with ok=false.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, true
	}
	d, ok := parseNumber(raw)
	if !ok || d.IsNegative() || d.GreaterThan(maxAmount) {
		return decimal.Zero, false
	}
	return d, true
}

// ParseQuantity coerces a counter cell; fractional values are truncated.
// Values outside [0, MaxInt32] are zero with ok=false.
func ParseQuantity(raw string) (int, bool) {
	v, ok := parseBounded(raw, maxQuantity)
	return int(v), ok
}

// ParseInt64 coerces an account id cell, bounded by [0, MaxInt64].
func ParseInt64(raw string) (int64, bool) {
	return parseBounded(raw, maxAccount)
}

func parseBounded(raw string, max decimal.Decimal) (int64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, true
	}
	d, ok := parseNumber(raw)
	if !ok || d.IsNegative() {
		return 0, false
	}
	d = d.Truncate(0)
	if d.GreaterThan(max) {
		return 0, false
	}
	return d.IntPart(), true
}

func ParseScore(raw string) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, true
	}
	d, ok := parseNumber(raw)
	if !ok {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// excel day zero, accounting for the 1900 leap year bug
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseTimestamp returns now for blank or unparseable cells.
func ParseTimestamp(raw string, now time.Time) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return now, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if d, err := decimal.NewFromString(s); err == nil && d.GreaterThan(decimal.NewFromInt(59)) && d.LessThan(decimal.NewFromInt(2958466)) {
		secs := d.Mul(decimal.NewFromInt(86400)).Round(0).IntPart()
		return excelEpoch.Add(time.Duration(secs) * time.Second), true
	}
	return now, false
}
