package money

import "sort"

// Currency describes one supported currency code.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

// DefaultCurrency is the currency a fresh ledger starts with.
const DefaultCurrency = "CNY"

// The currency set is closed: codes are not user-definable at runtime.
var currencies = map[string]Currency{
	"CNY": {Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	"KRW": {Code: "KRW", Symbol: "₩", Name: "South Korean Won"},
	"HKD": {Code: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar"},
	"TWD": {Code: "TWD", Symbol: "NT$", Name: "New Taiwan Dollar"},
	"SGD": {Code: "SGD", Symbol: "S$", Name: "Singapore Dollar"},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	"RUB": {Code: "RUB", Symbol: "₽", Name: "Russian Ruble"},
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	"THB": {Code: "THB", Symbol: "฿", Name: "Thai Baht"},
	"VND": {Code: "VND", Symbol: "₫", Name: "Vietnamese Dong"},
	"MYR": {Code: "MYR", Symbol: "RM", Name: "Malaysian Ringgit"},
}

// IsSupported reports whether code is a known currency code.
func IsSupported(code string) bool {
	_, ok := currencies[code]
	return ok
}

// Symbol returns the display symbol for a currency code, or the code itself
// when the code is unknown.
func Symbol(code string) string {
	if c, ok := currencies[code]; ok {
		return c.Symbol
	}
	return code
}

// Get returns the currency definition for a code.
func Get(code string) (Currency, bool) {
	c, ok := currencies[code]
	return c, ok
}

// Supported returns all supported currencies sorted by code.
func Supported() []Currency {
	out := make([]Currency, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
