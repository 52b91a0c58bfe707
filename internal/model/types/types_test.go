package types

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/model/enum"
	"tradecore/pkg/exception"
)

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("1.00000")
	require.NoError(t, err)
	assert.Equal(t, "1.00000", p.String())
	assert.Equal(t, uint8(5), p.Precision())
	assert.Equal(t, int64(1_000_000_000), p.Raw())
	assert.Equal(t, 1.0, p.Float64())
}

func TestParseScientificAndGrouped(t *testing.T) {
	cases := []struct {
		in        string
		want      string
		precision uint8
	}{
		{"3.5E-2", "0.04", 2},
		{"1e6", "1000000", 0},
		{"1.23456e-3", "0.001", 3},
		{"0E-3", "0.000", 3},
		{"1_000.25", "1000.25", 2},
		{"2_345.6e-3", "2.346", 3},
		{"-1.5", "-1.5", 1},
	}
	for _, c := range cases {
		p, err := ParsePrice(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, p.String(), c.in)
		assert.Equal(t, c.precision, p.Precision(), c.in)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{"", "abc", "1.5e", "1..2", "_"} {
		_, err := ParsePrice(in)
		assert.ErrorIs(t, err, exception.ErrMalformedDecimal, in)
	}
}

func TestPrecisionAboveMax(t *testing.T) {
	_, err := ParsePrice("0.0000000001")
	assert.ErrorIs(t, err, exception.ErrInvalidPrecision)

	_, err = NewPrice(1.0, FixedPrecision+1)
	assert.ErrorIs(t, err, exception.ErrInvalidPrecision)

	_, err = NewQuantity(1.0, 10)
	assert.ErrorIs(t, err, exception.ErrInvalidPrecision)
}

func TestOutOfRange(t *testing.T) {
	_, err := NewPrice(1e10, 0)
	assert.ErrorIs(t, err, exception.ErrValueOutOfRange)

	_, err = NewPriceFromDecimal(decimal.NewFromInt(MaxValue), 0)
	assert.NoError(t, err)
}

func TestArithmeticOverflow(t *testing.T) {
	big := MustParsePrice("9000000000.000000000")
	_, err := big.Add(big)
	assert.ErrorIs(t, err, exception.ErrValueOutOfRange)
	_, err = big.Neg().Sub(big)
	assert.ErrorIs(t, err, exception.ErrValueOutOfRange)

	sum, err := big.Sub(MustParsePrice("1.5"))
	require.NoError(t, err)
	assert.Equal(t, "8999999998.500000000", sum.String())

	q := MustParseQuantity("9000000000.000000000")
	_, err = q.Add(q)
	assert.ErrorIs(t, err, exception.ErrValueOutOfRange)

	m := MustParseMoney("9000000000.00 USD")
	_, err = m.Add(m)
	assert.ErrorIs(t, err, exception.ErrValueOutOfRange)
	_, err = m.Neg().Sub(m)
	assert.ErrorIs(t, err, exception.ErrValueOutOfRange)
}

func TestBankersRounding(t *testing.T) {
	cases := map[float64]string{
		1.005: "1.00",
		1.015: "1.02",
		2.5:   "2.50",
		0.125: "0.12",
		0.135: "0.14",
	}
	for v, want := range cases {
		p, err := NewPrice(v, 2)
		require.NoError(t, err)
		assert.Equal(t, want, p.String(), v)
	}

	q, err := NewQuantityFromDecimal(decimal.RequireFromString("2.5"), 0)
	require.NoError(t, err)
	assert.Equal(t, "2", q.String())

	q, err = NewQuantityFromDecimal(decimal.RequireFromString("3.5"), 0)
	require.NoError(t, err)
	assert.Equal(t, "4", q.String())
}

func TestPriceFromRaw(t *testing.T) {
	p, err := PriceFromRaw(1_500_000_000, 1)
	require.NoError(t, err)
	assert.Equal(t, "1.5", p.String())

	_, err = PriceFromRaw(1_500_000_001, 2)
	assert.ErrorIs(t, err, exception.ErrInvalidArgument)
}

func TestPriceArithmetic(t *testing.T) {
	a := MustParsePrice("1.00001")
	b := MustParsePrice("0.5")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "1.50001", sum.String())

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, "-0.50001", diff.String())
	assert.Equal(t, -1, diff.Sign())
	assert.Equal(t, "0.50001", diff.Neg().String())

	assert.True(t, MustParsePrice("1.0").Equal(MustParsePrice("1.00")))
	assert.Equal(t, 1, a.Cmp(b))
	assert.True(t, a.AddDecimal(decimal.RequireFromString("0.00009")).Equal(decimal.RequireFromString("1.0001")))
	assert.InDelta(t, 1.50001, a.AddFloat(0.5), 1e-12)
}

func TestQuantityNegative(t *testing.T) {
	_, err := ParseQuantity("-1.0")
	assert.ErrorIs(t, err, exception.ErrNegativeQuantity)

	_, err = NewQuantity(-0.1, 1)
	assert.ErrorIs(t, err, exception.ErrNegativeQuantity)

	_, err = QuantityFromRaw(-1, 9)
	assert.ErrorIs(t, err, exception.ErrNegativeQuantity)
}

func TestQuantityArithmetic(t *testing.T) {
	a := MustParseQuantity("100000")
	b := MustParseQuantity("0.5")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "100000.5", sum.String())
	assert.Equal(t, uint8(1), sum.Precision())

	_, err = b.Sub(a)
	assert.ErrorIs(t, err, exception.ErrNegativeQuantity)

	d := a.AddDecimal(decimal.NewFromInt(1))
	assert.Equal(t, "100001", d.String())
	assert.Equal(t, "100000.5", a.SumDecimal(b).String())

	huge := MustParseQuantity("9000000000")
	_, err = huge.Add(huge)
	assert.ErrorIs(t, err, exception.ErrValueOutOfRange)
	assert.Equal(t, "18000000000", huge.SumDecimal(huge).String())
	assert.Equal(t, 100000.25, a.AddFloat(0.25))
	assert.True(t, QuantityZero(2).IsZero())
	assert.Equal(t, "0.00", QuantityZero(2).String())
}

func TestFormattedString(t *testing.T) {
	q, err := QuantityFromInt(100_000)
	require.NoError(t, err)
	assert.Equal(t, "100000", q.String())
	assert.Equal(t, "100_000", q.ToFormattedString())

	assert.Equal(t, "1_000.25", MustParsePrice("1_000.25").ToFormattedString())
	assert.Equal(t, "-1_234_567.5", MustParsePrice("-1234567.5").ToFormattedString())
	assert.Equal(t, "123.45", MustParsePrice("123.45").ToFormattedString())
	assert.Equal(t, "1_000_000.00 USD", MustParseMoney("1000000 USD").ToFormattedString())
}

func TestMoneyRounding(t *testing.T) {
	assert.Equal(t, "1.12 USD", MustParseMoney("1.125 USD").String())
	assert.Equal(t, "1.14 USD", MustParseMoney("1.135 USD").String())

	m, err := NewMoney(5293.64, JPY)
	require.NoError(t, err)
	assert.Equal(t, "5294 JPY", m.String())

	m, err = NewMoney(-0.5, USD)
	require.NoError(t, err)
	assert.Equal(t, "-0.50 USD", m.String())

	m, err = NewMoney(0.006549932, BTC)
	require.NoError(t, err)
	assert.Equal(t, "0.00654993 BTC", m.String())
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	usd := MustParseMoney("1.00 USD")
	aud := MustParseMoney("1.00 AUD")

	_, err := usd.Add(aud)
	assert.ErrorIs(t, err, exception.ErrCurrencyMismatch)
	_, err = usd.Sub(aud)
	assert.ErrorIs(t, err, exception.ErrCurrencyMismatch)
	_, err = usd.Cmp(aud)
	assert.ErrorIs(t, err, exception.ErrCurrencyMismatch)
	assert.False(t, usd.Equal(aud))

	sum, err := usd.Add(MustParseMoney("2.50 USD"))
	require.NoError(t, err)
	assert.Equal(t, "3.50 USD", sum.String())
}

func TestParseMoneyErrors(t *testing.T) {
	_, err := ParseMoney("1.00")
	assert.ErrorIs(t, err, exception.ErrMalformedDecimal)
	_, err = ParseMoney("1.00 XYZ")
	assert.ErrorIs(t, err, exception.ErrUnknownCurrency)
	_, err = ParseMoney("abc USD")
	assert.ErrorIs(t, err, exception.ErrMalformedDecimal)
}

func TestCurrency(t *testing.T) {
	c, err := CurrencyFromString("usdt")
	require.NoError(t, err)
	assert.Equal(t, USDT, c)
	assert.Equal(t, uint8(8), c.Precision)
	assert.Equal(t, uint8(0), JPY.Precision)

	_, err = NewCurrency("XAU", 10, 959, "Gold", enum.CurrencyTypeCommodityBacked)
	assert.ErrorIs(t, err, exception.ErrInvalidPrecision)
}

func TestTextEncoding(t *testing.T) {
	type payload struct {
		Price    Price    `json:"price"`
		Qty      Quantity `json:"qty"`
		Money    Money    `json:"money"`
		Currency Currency `json:"currency"`
	}
	in := payload{
		Price:    MustParsePrice("1.00001"),
		Qty:      MustParseQuantity("100000"),
		Money:    MustParseMoney("-2.00 USD"),
		Currency: ETH,
	}
	data, err := sonic.ConfigStd.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"1.00001","qty":"100000","money":"-2.00 USD","currency":"ETH"}`, string(data))

	var out payload
	require.NoError(t, sonic.ConfigStd.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func BenchmarkPriceString(b *testing.B) {
	p := MustParsePrice("11450.50")
	for b.Loop() {
		_ = p.String()
	}
}

func BenchmarkParsePrice(b *testing.B) {
	for b.Loop() {
		_, _ = ParsePrice("2_345.6e-3")
	}
}
