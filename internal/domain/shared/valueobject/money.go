package valueobject

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money is a value object representing a monetary amount.
// It is immutable - all operations return new Money instances.
// Storefront prices carry no currency; every amount in a cart is assumed to
// share the storefront's single display currency.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money with the specified amount
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromFloat creates Money from a float64 value
func NewMoneyFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount)}
}

// NewMoneyFromInt creates Money from an int64 value
func NewMoneyFromInt(amount int64) Money {
	return Money{amount: decimal.NewFromInt(amount)}
}

// NewMoneyFromString creates Money from a plain decimal string such as "12.50"
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d}, nil
}

// Zero returns a zero-value Money
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Subtract returns a new Money with the difference
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MultiplyByInt returns a new Money multiplied by an integer
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(factor))}
}

// NonNegative returns m, or zero when m is negative
func (m Money) NonNegative() Money {
	if m.amount.IsNegative() {
		return Zero()
	}
	return m
}

// Equals returns true if both amounts are numerically equal
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// GreaterThan returns true if m > other
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// String returns the amount with two decimal places
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON encodes Money as a JSON string to avoid float rounding
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.amount.String())
}

// UnmarshalJSON accepts a JSON number, a plain or formatted price string, or null
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		m.amount = decimal.Zero
		return nil
	}
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("invalid money value: %w", err)
	}
	parsed, ok := ParseMoney(raw)
	if !ok {
		return fmt.Errorf("invalid money value: %s", string(data))
	}
	*m = parsed
	return nil
}

// ParseMoney converts a loosely typed price into Money. It accepts Go numeric
// types, json.Number, decimal.Decimal, Money, and strings that may carry a
// currency symbol, spaces, and thousands separators ("$1,299.00", "12.500 ₫",
// "1.299,50 €"). ok is false when v cannot be interpreted as an amount.
func ParseMoney(v any) (Money, bool) {
	switch x := v.(type) {
	case nil:
		return Money{}, false
	case Money:
		return x, true
	case *Money:
		if x == nil {
			return Money{}, false
		}
		return *x, true
	case decimal.Decimal:
		return Money{amount: x}, true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return Money{}, false
		}
		return Money{amount: d}, true
	case float64:
		return NewMoneyFromFloat(x), true
	case float32:
		return NewMoneyFromFloat(float64(x)), true
	case int:
		return NewMoneyFromInt(int64(x)), true
	case int32:
		return NewMoneyFromInt(int64(x)), true
	case int64:
		return NewMoneyFromInt(x), true
	case uint:
		return NewMoneyFromInt(int64(x)), true
	case uint32:
		return NewMoneyFromInt(int64(x)), true
	case uint64:
		return Money{amount: decimal.NewFromUint64(x)}, true
	case string:
		return parseFormattedAmount(x)
	default:
		return Money{}, false
	}
}

// parseFormattedAmount strips symbols and grouping separators from a display price.
// When both ',' and '.' occur, the right-most one is the decimal separator.
// A lone separator followed by exactly three digits is read as grouping.
func parseFormattedAmount(s string) (Money, bool) {
	var b strings.Builder
	negative := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ',' || r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			negative = true
		}
	}
	cleaned := b.String()
	if cleaned == "" || strings.Trim(cleaned, ".,") == "" {
		return Money{}, false
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	var normalized string
	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimalSep, groupSep := ".", ","
		if lastComma > lastDot {
			decimalSep, groupSep = ",", "."
		}
		normalized = strings.ReplaceAll(cleaned, groupSep, "")
		normalized = strings.Replace(normalized, decimalSep, ".", 1)
	case lastComma >= 0:
		normalized = normalizeSingleSeparator(cleaned, ",")
	case lastDot >= 0:
		normalized = normalizeSingleSeparator(cleaned, ".")
	default:
		normalized = cleaned
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return Money{}, false
	}
	if negative {
		d = d.Neg()
	}
	return Money{amount: d}, true
}

func normalizeSingleSeparator(s, sep string) string {
	parts := strings.Split(s, sep)
	if len(parts) == 2 && len(parts[1]) != 3 {
		return parts[0] + "." + parts[1]
	}
	return strings.Join(parts, "")
}
