// Package currencypkg provides currency reference data, conversion and formatting.
package currencypkg

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Codes of the most commonly used currencies.
const (
	USD = "USD"
	INR = "INR"
	EUR = "EUR"
	GBP = "GBP"
	JPY = "JPY"
	KRW = "KRW"
)

// Base is the settlement currency all wallet amounts are denominated in.
const Base = USD

// Currency is static reference data for one supported currency.
// Rate is the exchange rate relative to the base currency.
type Currency struct {
	Code   string          `json:"code"`
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
}

// Currencies holds all the supported currencies.
var Currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar", Rate: decimal.RequireFromString("1.0")},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee", Rate: decimal.RequireFromString("83.12")},
	{Code: "EUR", Symbol: "€", Name: "Euro", Rate: decimal.RequireFromString("0.92")},
	{Code: "GBP", Symbol: "£", Name: "British Pound", Rate: decimal.RequireFromString("0.79")},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Rate: decimal.RequireFromString("1.36")},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Rate: decimal.RequireFromString("1.53")},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Rate: decimal.RequireFromString("149.50")},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", Rate: decimal.RequireFromString("7.24")},
	{Code: "CHF", Symbol: "Fr", Name: "Swiss Franc", Rate: decimal.RequireFromString("0.88")},
	{Code: "SEK", Symbol: "kr", Name: "Swedish Krona", Rate: decimal.RequireFromString("10.87")},
	{Code: "NZD", Symbol: "NZ$", Name: "New Zealand Dollar", Rate: decimal.RequireFromString("1.67")},
	{Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", Rate: decimal.RequireFromString("1.34")},
	{Code: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar", Rate: decimal.RequireFromString("7.83")},
	{Code: "AED", Symbol: "د.إ", Name: "UAE Dirham", Rate: decimal.RequireFromString("3.67")},
	{Code: "SAR", Symbol: "ر.س", Name: "Saudi Riyal", Rate: decimal.RequireFromString("3.75")},
	{Code: "MXN", Symbol: "$", Name: "Mexican Peso", Rate: decimal.RequireFromString("17.08")},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real", Rate: decimal.RequireFromString("4.98")},
	{Code: "ZAR", Symbol: "R", Name: "South African Rand", Rate: decimal.RequireFromString("18.65")},
	{Code: "KRW", Symbol: "₩", Name: "South Korean Won", Rate: decimal.RequireFromString("1337.50")},
	{Code: "THB", Symbol: "฿", Name: "Thai Baht", Rate: decimal.RequireFromString("35.80")},
}

// zeroDecimal currencies render without fractional digits.
var zeroDecimal = map[string]bool{JPY: true, KRW: true}

// countryCurrency maps ISO country codes to default display currencies.
var countryCurrency = map[string]string{
	"US": "USD", "IN": "INR", "GB": "GBP", "DE": "EUR", "FR": "EUR", "IT": "EUR",
	"ES": "EUR", "NL": "EUR", "BE": "EUR", "AT": "EUR", "PT": "EUR", "IE": "EUR", "GR": "EUR",
	"CA": "CAD", "AU": "AUD", "JP": "JPY", "CN": "CNY", "CH": "CHF", "SE": "SEK", "NZ": "NZD",
	"SG": "SGD", "HK": "HKD", "AE": "AED", "SA": "SAR", "MX": "MXN", "BR": "BRL", "ZA": "ZAR",
	"KR": "KRW", "TH": "THB",
}

// Get returns the reference data for the given currency code.
func Get(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}

	return Currency{}, false
}

// IsSupportedCurrency returns true if the currency is supported.
func IsSupportedCurrency(code string) bool {
	_, ok := Get(code)
	return ok
}

// rateFor returns the exchange rate for the code. Unknown codes fall back to
// the base rate 1.0; user-supplied codes are rejected earlier by the
// ValidCurrency binding so the fallback only covers internal callers.
func rateFor(code string) decimal.Decimal {
	if c, ok := Get(code); ok {
		return c.Rate
	}

	return decimal.NewFromInt(1)
}

// Convert converts amount between two currencies via the base currency and
// rounds to 2 decimal places.
func Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to {
		return amount.Round(2)
	}

	return amount.Div(rateFor(from)).Mul(rateFor(to)).Round(2)
}

// ToMinorUnits converts a base-currency amount to the smallest unit of the
// given currency, as required on the payment gateway boundary.
func ToMinorUnits(amount decimal.Decimal, code string) int64 {
	return Convert(amount, Base, code).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Format renders the amount with the currency's symbol. Zero-decimal
// currencies render as a grouped integer, all others with 2 decimals.
func Format(amount decimal.Decimal, code string) string {
	c, ok := Get(code)
	if !ok {
		c = Currency{Code: Base, Symbol: "$"}
	}

	if zeroDecimal[c.Code] {
		return c.Symbol + groupDigits(amount.Round(0).String())
	}

	return c.Symbol + amount.StringFixed(2)
}

// DefaultForCountry returns the default display currency for an ISO country
// code, falling back to the base currency.
func DefaultForCountry(country string) string {
	if code, ok := countryCurrency[strings.ToUpper(country)]; ok {
		return code
	}

	return Base
}

// ValidCurrency validates the currency code of a binding field.
var ValidCurrency validator.Func = func(fieldLevel validator.FieldLevel) bool {
	if code, ok := fieldLevel.Field().Interface().(string); ok {
		return IsSupportedCurrency(code)
	}

	return false
}

// RegisterCurrencyValidator registers the "currency" binding tag with gin.
func RegisterCurrencyValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	return v.RegisterValidation("currency", ValidCurrency)
}

// groupDigits inserts thousands separators into a non-negative integer string.
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var sb strings.Builder

	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}

		sb.WriteRune(r)
	}

	if neg {
		return "-" + sb.String()
	}

	return sb.String()
}
