package internal

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats money amounts for display
type Currency struct {
	Code    string // "SEK", "USD", "EUR"
	symbol  string
	prefix  bool
	scale   int // Fraction digits
	printer *message.Printer
}

// FallbackCurrency is used when no currency is configured and none can be detected
const FallbackCurrency = "USD"

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"ISK": "kr",
}

// prefixCurrencies place their symbol before the amount. x/text does not expose
// CLDR symbol placement, so this is kept by hand.
var prefixCurrencies = map[string]bool{
	"USD": true, "GBP": true, "JPY": true, "CAD": true, "AUD": true,
	"MXN": true, "HKD": true, "SGD": true, "NZD": true, "ZAR": true,
}

// homeLocales are used to format a currency when the system locale is unknown
var homeLocales = map[string]language.Tag{
	"SEK": language.Swedish,
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"JPY": language.Japanese,
	"CAD": language.CanadianFrench,
	"AUD": language.MustParse("en-AU"),
	"BRL": language.BrazilianPortuguese,
	"MXN": language.LatinAmericanSpanish,
	"INR": language.MustParse("en-IN"),
	"PLN": language.Polish,
	"CZK": language.Czech,
	"ZAR": language.MustParse("en-ZA"),
	"NZD": language.MustParse("en-NZ"),
	"SGD": language.MustParse("en-SG"),
}

// GetCurrency returns the Currency for a code, formatted in the currency's home locale.
func GetCurrency(code string) Currency {
	code = strings.ToUpper(code)
	tag, ok := homeLocales[code]
	if !ok {
		tag = language.English
	}
	return GetCurrencyWithLocale(code, tag)
}

// GetCurrencyWithLocale returns a Currency formatted with a specific locale.
// Unknown codes format with two fraction digits and the code as symbol.
func GetCurrencyWithLocale(code string, tag language.Tag) Currency {
	code = strings.ToUpper(code)
	printer := message.NewPrinter(tag)

	c := Currency{
		Code:    code,
		prefix:  prefixCurrencies[code],
		scale:   2,
		printer: printer,
	}

	unit, err := currency.ParseISO(code)
	switch {
	case err != nil:
		c.symbol = code
	default:
		c.scale, _ = currency.Standard.Rounding(unit)
		if sym, ok := symbolOverrides[code]; ok {
			c.symbol = sym
		} else {
			c.symbol = printer.Sprint(currency.NarrowSymbol(unit))
		}
	}
	return c
}

// ResolveCurrency returns the configured currency, or the one of the system
// locale when code is empty, or FallbackCurrency.
func ResolveCurrency(code string) Currency {
	if code != "" {
		return GetCurrency(code)
	}
	if detected, tag := DetectSystemCurrency(); detected != "" {
		return GetCurrencyWithLocale(detected, tag)
	}
	return GetCurrency(FallbackCurrency)
}

// DetectSystemCurrency attempts to detect the currency and locale of the user.
// Environment variables (LC_MONETARY, LC_ALL, LANG) are checked first, then
// the platform setting. Returns an empty code if detection fails.
func DetectSystemCurrency() (string, language.Tag) {
	locale := localeFromEnv()
	if locale == "" {
		locale = detectSystemLocale()
	}
	if locale == "" {
		return "", language.Und
	}
	return parseCurrencyFromLocale(locale)
}

// localeFromEnv returns the most specific usable locale from the environment.
func localeFromEnv() string {
	for _, envVar := range []string{"LC_MONETARY", "LC_ALL", "LANG"} {
		locale := getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" {
			return locale
		}
	}
	return ""
}

// parseCurrencyFromLocale extracts currency code and language tag from a locale string.
// Examples: "sv_SE.UTF-8" -> ("SEK", sv-SE), "pt_BR.UTF-8" -> ("BRL", pt-BR)
func parseCurrencyFromLocale(locale string) (string, language.Tag) {
	base, _, _ := strings.Cut(locale, ".")
	base, _, _ = strings.Cut(base, "@")

	tag, err := language.Parse(strings.Replace(base, "_", "-", 1))
	if err != nil {
		return "", language.Und
	}

	_, _, region := tag.Raw()
	if region.String() == "" || region.String() == "ZZ" {
		return "", language.Und
	}

	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", language.Und
	}
	return unit.String(), tag
}

// Format formats an amount with the currency symbol. Negative amounts get a
// leading minus in front of the symbol.
func (c Currency) Format(amount decimal.Decimal) string {
	if c.printer == nil {
		c = GetCurrency(FallbackCurrency)
	}
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	formatted := c.printer.Sprint(number.Decimal(
		amount.Round(int32(c.scale)).InexactFloat64(),
		number.MinFractionDigits(c.scale),
		number.MaxFractionDigits(c.scale),
	))

	if c.prefix {
		return sign + c.symbol + formatted
	}
	return sign + formatted + " " + c.symbol
}

// FormatPercent formats a percentage with one fraction digit, e.g. "11.5%".
func (c Currency) FormatPercent(pct decimal.Decimal) string {
	if c.printer == nil {
		c = GetCurrency(FallbackCurrency)
	}
	sign := ""
	if pct.IsNegative() {
		sign = "-"
		pct = pct.Neg()
	}
	return sign + c.printer.Sprint(number.Decimal(
		pct.Round(1).InexactFloat64(),
		number.MinFractionDigits(1),
		number.MaxFractionDigits(1),
	)) + "%"
}
