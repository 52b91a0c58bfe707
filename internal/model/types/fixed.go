package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/pkg/exception"
)

const (
	// FixedPrecision is the number of decimal places carried by every raw value.
	FixedPrecision = 9
	// FixedScalar scales a value to its raw integer form.
	FixedScalar int64 = 1_000_000_000

	// MaxValue bounds the magnitude of a value so that its raw form fits int64.
	MaxValue int64 = 9_223_372_036
)

var (
	powersOfTen = [FixedPrecision + 1]int64{
		1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000, 1_000_000_000,
	}

	maxValueDecimal = decimal.NewFromInt(MaxValue)
)

func checkPrecision(precision uint8) error {
	if precision > FixedPrecision {
		return errors.Wrapf(exception.ErrInvalidPrecision, "precision %d, max %d", precision, FixedPrecision)
	}
	return nil
}

// decimalToRaw rounds d half-to-even at precision and scales it to a raw value.
func decimalToRaw(d decimal.Decimal, precision uint8) (int64, error) {
	if err := checkPrecision(precision); err != nil {
		return 0, err
	}
	rounded := d.RoundBank(int32(precision))
	if rounded.Abs().Cmp(maxValueDecimal) > 0 {
		return 0, errors.Wrapf(exception.ErrValueOutOfRange, "value %s", d.String())
	}
	return rounded.Shift(FixedPrecision).IntPart(), nil
}

func float64ToRaw(v float64, precision uint8) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(exception.ErrValueOutOfRange, "value %v", v)
	}
	return decimalToRaw(decimal.NewFromFloat(v), precision)
}

func rawToDecimal(raw int64) decimal.Decimal {
	return decimal.New(raw, -FixedPrecision)
}

func rawToFloat64(raw int64) float64 {
	return float64(raw) / float64(FixedScalar)
}

// addRaw adds two raw values, failing instead of wrapping around.
func addRaw(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, errors.Wrapf(exception.ErrValueOutOfRange, "raw %d + %d overflows", a, b)
	}
	return sum, nil
}

// subRaw subtracts two raw values, failing instead of wrapping around.
func subRaw(a, b int64) (int64, error) {
	diff := a - b
	if (b > 0 && diff > a) || (b < 0 && diff < a) {
		return 0, errors.Wrapf(exception.ErrValueOutOfRange, "raw %d - %d overflows", a, b)
	}
	return diff, nil
}

// checkRaw verifies raw carries no digits beyond precision.
func checkRaw(raw int64, precision uint8) error {
	if err := checkPrecision(precision); err != nil {
		return err
	}
	if raw%powersOfTen[FixedPrecision-precision] != 0 {
		return errors.Wrapf(exception.ErrInvalidArgument, "raw %d has digits beyond precision %d", raw, precision)
	}
	if raw > MaxValue*FixedScalar || raw < -MaxValue*FixedScalar {
		return errors.Wrapf(exception.ErrValueOutOfRange, "raw %d", raw)
	}
	return nil
}

// parseDecimal reads plain, scientific and underscore grouped literals.
// The returned precision follows the literal: digits after the point, or the
// magnitude of a negative exponent.
func parseDecimal(s string) (decimal.Decimal, uint8, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if clean == "" {
		return decimal.Zero, 0, errors.Wrapf(exception.ErrMalformedDecimal, "%q", s)
	}

	var precision int
	if idx := strings.IndexAny(clean, "eE"); idx >= 0 {
		exp, err := strconv.Atoi(clean[idx+1:])
		if err != nil {
			return decimal.Zero, 0, errors.Wrapf(exception.ErrMalformedDecimal, "%q", s)
		}
		if exp < 0 {
			precision = -exp
		}
	} else if dot := strings.IndexByte(clean, '.'); dot >= 0 {
		precision = len(clean) - dot - 1
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, 0, errors.Wrapf(exception.ErrMalformedDecimal, "%q", s)
	}
	if precision > FixedPrecision {
		return decimal.Zero, 0, errors.Wrapf(exception.ErrInvalidPrecision, "precision %d, max %d", precision, FixedPrecision)
	}
	return d, uint8(precision), nil
}

// appendRaw formats raw at precision decimal places.
func appendRaw(buf []byte, raw int64, precision uint8) []byte {
	return appendScaledInt(buf, raw/powersOfTen[FixedPrecision-precision], int(precision))
}

func appendScaledInt(buf []byte, value int64, scale int) []byte {
	if scale <= 0 {
		return strconv.AppendInt(buf, value, 10)
	}

	neg := value < 0
	u := uint64(value)
	if neg {
		u = uint64(^value) + 1
	}

	var tmp [32]byte
	digits := strconv.AppendUint(tmp[:0], u, 10)

	if neg {
		buf = append(buf, '-')
	}

	if len(digits) <= scale {
		buf = append(buf, '0', '.')
		for i := 0; i < scale-len(digits); i++ {
			buf = append(buf, '0')
		}
		buf = append(buf, digits...)
		return buf
	}

	idx := len(digits) - scale
	buf = append(buf, digits[:idx]...)
	buf = append(buf, '.')
	buf = append(buf, digits[idx:]...)
	return buf
}

// groupThousands inserts `_` between every three integer digits.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}

	var b strings.Builder
	head := len(intPart) % 3
	if head > 0 {
		b.WriteString(intPart[:head])
	}
	for i := head; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('_')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}
