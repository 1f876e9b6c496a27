package services

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency and DefaultLocale are the hard fallbacks used when neither
// the project nor the business settings carry a configuration.
const (
	DefaultCurrency = "USD"
	DefaultLocale   = "en-US"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"AUD": "$",
	"NZD": "$",
	"CAD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CHF": "CHF ",
	"SEK": "kr ",
	"ZAR": "R",
}

// FormatCurrency formats an amount with the symbol of the given ISO currency
// code and locale-aware digit grouping. Every money string in a document
// goes through this one routine so symbol, decimal separator and grouping
// stay consistent across tokens, tables and totals.
func FormatCurrency(amount float64, code, locale string) string {
	sym := CurrencySymbol(code)

	negative := amount < 0
	if negative {
		amount = -amount
	}

	p := message.NewPrinter(parseLocale(locale))
	formatted := p.Sprintf("%v", number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))

	result := sym + formatted
	if negative {
		result = "-" + result
	}
	return result
}

// CurrencySymbol returns the display symbol for an ISO currency code,
// falling back to "CODE " for codes without a dedicated symbol.
func CurrencySymbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code + " "
}

func parseLocale(locale string) language.Tag {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.MustParse(DefaultLocale)
	}
	return tag
}
