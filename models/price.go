package models

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is an amount in cents. It is stored in a decimal(18,2) column and
// travels as a JSON number with exactly two decimals.
type Price int64

// PriceFromFloat rounds half away from zero to whole cents.
func PriceFromFloat(v float64) Price {
	return Price(math.Round(v * 100))
}

// ParsePrice reads a decimal such as "12", "12.5" or "-0.05" without going
// through a float. Digits past the second decimal round half away from zero.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		return PriceFromFloat(f), nil
	}

	digits := strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	negative := strings.HasPrefix(s, "-")
	whole, frac, _ := strings.Cut(digits, ".")
	if (whole == "" && frac == "") || !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if whole == "" {
		whole = "0"
	}

	roundUp := len(frac) > 2 && frac[2] >= '5'
	frac = (frac + "00")[:2]

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/100-1 {
		return 0, fmt.Errorf("price %q is out of range", s)
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)

	p := units*100 + cents
	if roundUp {
		p++
	}
	if negative {
		p = -p
	}
	return Price(p), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p Price) Float64() float64 {
	return float64(p) / 100
}

// String renders "12.50".
func (p Price) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	v, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan accepts what the drivers return for a decimal column: text from
// mysql and postgres, a float from sqlite.
func (p *Price) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = 0
	case int64:
		*p = Price(v * 100)
	case float64:
		*p = PriceFromFloat(v)
	case []byte:
		parsed, err := ParsePrice(string(v))
		if err != nil {
			return err
		}
		*p = parsed
	case string:
		parsed, err := ParsePrice(v)
		if err != nil {
			return err
		}
		*p = parsed
	default:
		return fmt.Errorf("cannot scan %T into Price", src)
	}
	return nil
}
