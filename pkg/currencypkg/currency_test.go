package currencypkg

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		amount string
		from   string
		to     string
		want   string
	}{
		{name: "Same currency", amount: "100", from: "USD", to: "USD", want: "100"},
		{name: "USD to INR", amount: "100", from: "USD", to: "INR", want: "8312"},
		{name: "USD to EUR", amount: "100", from: "USD", to: "EUR", want: "92"},
		{name: "EUR to USD", amount: "92", from: "EUR", to: "USD", want: "100"},
		{name: "Unknown code treated as base", amount: "55.5", from: "XXX", to: "USD", want: "55.5"},
		{name: "Rounded to 2 decimals", amount: "10", from: "USD", to: "GBP", want: "7.9"},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			amount := decimal.RequireFromString(tc.amount)
			got := Convert(amount, tc.from, tc.to)

			require.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"Convert(%v, %v, %v) = %v, want %v", tc.amount, tc.from, tc.to, got, tc.want)
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	t.Parallel()

	amount := decimal.RequireFromString("250")
	tolerance := decimal.RequireFromString("0.05")

	for _, c1 := range Currencies {
		for _, c2 := range Currencies {
			there := Convert(amount, c1.Code, c2.Code)
			back := Convert(there, c2.Code, c1.Code)

			diff := back.Sub(amount).Abs()
			require.True(t, diff.LessThanOrEqual(tolerance),
				"round trip %s->%s->%s drifted: got %v", c1.Code, c2.Code, c1.Code, back)
		}
	}
}

func TestToMinorUnits(t *testing.T) {
	t.Parallel()

	// 105 USD deposited to an INR settlement account.
	got := ToMinorUnits(decimal.RequireFromString("105"), INR)
	require.Equal(t, int64(872760), got)

	require.Equal(t, int64(10000), ToMinorUnits(decimal.RequireFromString("100"), USD))
}

func TestFormat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		amount string
		code   string
		want   string
	}{
		{name: "USD two decimals", amount: "1234.5", code: "USD", want: "$1234.50"},
		{name: "JPY no decimals grouped", amount: "1234567.4", code: "JPY", want: "¥1,234,567"},
		{name: "KRW no decimals", amount: "999", code: "KRW", want: "₩999"},
		{name: "Unknown code falls back to dollar", amount: "3", code: "XXX", want: "$3.00"},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Format(decimal.RequireFromString(tc.amount), tc.code)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDefaultForCountry(t *testing.T) {
	t.Parallel()

	require.Equal(t, "INR", DefaultForCountry("IN"))
	require.Equal(t, "EUR", DefaultForCountry("de"))
	require.Equal(t, "USD", DefaultForCountry("ZZ"))
	require.Equal(t, "USD", DefaultForCountry(""))
}
