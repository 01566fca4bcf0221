package sqlstore

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

// The loose* types read whatever a legacy table holds in a numeric or date
// column. A value that cannot be coerced reads as zero and keeps the raw
// text in Bad so the repository can report it.

type looseAmount struct {
	Decimal decimal.Decimal
	Valid   bool
	Bad     string
}

func (v *looseAmount) Scan(src any) error {
	*v = looseAmount{}
	raw, ok := rawText(src)
	if !ok {
		return nil
	}
	d, ok := domain.ParseAmount(raw)
	if !ok {
		v.Bad = raw
		return nil
	}
	v.Decimal, v.Valid = d, strings.TrimSpace(raw) != ""
	return nil
}

func (v looseAmount) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}
	return v.Decimal.String(), nil
}

type looseInt struct {
	Int64 int64
	Valid bool
	Bad   string
}

func (v *looseInt) Scan(src any) error {
	*v = looseInt{}
	raw, ok := rawText(src)
	if !ok {
		return nil
	}
	n, ok := domain.ParseInt64(raw)
	if !ok {
		v.Bad = raw
		return nil
	}
	v.Int64, v.Valid = n, strings.TrimSpace(raw) != ""
	return nil
}

func (v looseInt) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}
	return v.Int64, nil
}

// quantity narrows the value to a stock/sales counter.
func (v looseInt) quantity() (int, bool) {
	if v.Int64 > math.MaxInt32 {
		return 0, false
	}
	return int(v.Int64), true
}

type looseFloat struct {
	Float64 float64
	Valid   bool
	Bad     string
}

func (v *looseFloat) Scan(src any) error {
	*v = looseFloat{}
	raw, ok := rawText(src)
	if !ok {
		return nil
	}
	f, ok := domain.ParseScore(raw)
	if !ok {
		v.Bad = raw
		return nil
	}
	v.Float64, v.Valid = f, strings.TrimSpace(raw) != ""
	return nil
}

func (v looseFloat) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}
	return v.Float64, nil
}

type looseTime struct {
	Time  time.Time
	Valid bool
	Bad   string
}

func (v *looseTime) Scan(src any) error {
	*v = looseTime{}
	if t, ok := src.(time.Time); ok {
		v.Time, v.Valid = t, !t.IsZero()
		return nil
	}
	raw, ok := rawText(src)
	if !ok || strings.TrimSpace(raw) == "" || strings.HasPrefix(raw, "0000-00-00") {
		return nil
	}
	t, ok := domain.ParseTimestamp(raw, time.Time{})
	if !ok {
		v.Bad = raw
		return nil
	}
	v.Time, v.Valid = t, true
	return nil
}

func (v looseTime) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}
	return v.Time, nil
}

// rawText renders a driver value as text; false for NULL.
func rawText(src any) (string, bool) {
	switch x := src.(type) {
	case nil:
		return "", false
	case []byte:
		return string(x), true
	case string:
		return x, true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		if x {
			return "1", true
		}
		return "0", true
	case time.Time:
		return x.Format(time.RFC3339), true
	default:
		return fmt.Sprint(x), true
	}
}
