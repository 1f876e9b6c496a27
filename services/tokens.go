package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TokenContext carries everything token resolution may read. Resolution is a
// pure function of this context; the clock is injected so repeated renders of
// the same snapshot produce identical output.
type TokenContext struct {
	Data ProjectData
	Now  time.Time
}

var tokenPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// SubstituteTokens replaces every {{token_name}} occurrence in text with its
// resolved value. Unknown tokens resolve to the empty string.
func SubstituteTokens(text string, ctx TokenContext) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := tokenPattern.FindStringSubmatch(match)[1]
		return ResolveToken(name, ctx)
	})
}

// ResolveToken maps a symbolic token name to a formatted string. It never
// returns a literal placeholder: unresolved or empty-source tokens resolve
// to "". Currency tokens share FormatCurrency; date tokens honor the
// business timezone and date-format preference.
func ResolveToken(name string, ctx TokenContext) string {
	d := ctx.Data
	b := d.Business

	switch name {
	case "company_name":
		return b.CompanyName
	case "company_address":
		return b.CompanyAddress
	case "company_email":
		return b.CompanyEmail
	case "company_phone":
		return b.CompanyPhone
	case "company_website":
		return b.CompanyWebsite
	case "company_contact":
		return joinPresent(" | ", b.CompanyEmail, b.CompanyPhone, b.CompanyWebsite)
	case "company_registration":
		return CompanyRegistration(b)
	case "company_bank_details":
		return BankDetails(b)

	case "client_name":
		return d.Client.Name
	case "client_email":
		return d.Client.Email
	case "client_phone":
		return d.Client.Phone
	case "client_company":
		return d.Client.Company
	case "client_address":
		return d.Client.Address

	case "quote_number":
		return d.Project.QuoteNumber
	case "job_number":
		return d.Project.JobNumber
	case "project_name":
		return d.Project.Name

	case "date":
		return formatDateFallback(ctx, d.Project.QuoteDate, d.Project.CreatedAt)
	case "quote_date":
		return formatDateFallback(ctx, d.Project.QuoteDate, d.Project.CreatedAt)
	case "due_date":
		return formatDate(d.Project.DueDate, b)
	case "valid_until":
		return formatDate(d.Project.ValidUntil, b)

	case "currency":
		return documentCurrency(d)
	case "currency_symbol":
		return strings.TrimSpace(CurrencySymbol(documentCurrency(d)))

	case "subtotal":
		return formatMoney(d.Subtotal, d)
	case "discount":
		return formatMoney(d.Discount, d)
	case "tax_amount":
		return formatMoney(d.TaxAmount, d)
	case "tax_rate":
		if d.TaxRate == 0 {
			return ""
		}
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", d.TaxRate), "0"), ".") + "%"
	case "total":
		return formatMoney(d.Total, d)
	case "payment_amount":
		return formatMoney(d.Payment.Amount, d)

	case "terms":
		return d.Terms
	case "notes":
		return d.Notes
	}

	return ""
}

// CompanyRegistration builds the registration footer from whichever
// identifiers are configured, in fixed order.
func CompanyRegistration(b BusinessSettings) string {
	var parts []string
	if b.RegistrationNumber != "" {
		parts = append(parts, "Reg. No. "+b.RegistrationNumber)
	}
	if b.TaxNumber != "" {
		label := b.TaxType
		if label == "" {
			label = "Tax"
		}
		parts = append(parts, label+" No. "+b.TaxNumber)
	}
	return strings.Join(parts, " | ")
}

// BankDetails builds the combined bank-details string. The country code
// selects which identifying fields are relevant; an unknown country falls
// back to whichever identifying fields exist.
func BankDetails(b BusinessSettings) string {
	base := []string{}
	if b.BankName != "" {
		base = append(base, b.BankName)
	}
	if b.BankAccountName != "" {
		base = append(base, b.BankAccountName)
	}

	switch strings.ToUpper(b.CountryCode) {
	case "US":
		base = appendField(base, "Account", b.BankAccountNumber)
		base = appendField(base, "Routing", b.BankRoutingNumber)
	case "GB", "UK":
		base = appendField(base, "Account", b.BankAccountNumber)
		base = appendField(base, "Sort Code", b.BankSortCode)
	case "AU", "NZ":
		base = appendField(base, "BSB", b.BankRoutingNumber)
		base = appendField(base, "Account", b.BankAccountNumber)
	default:
		base = appendField(base, "Account", b.BankAccountNumber)
		base = appendField(base, "IBAN", b.BankIBAN)
		base = appendField(base, "SWIFT", b.BankSwift)
	}

	return strings.Join(base, " | ")
}

func appendField(parts []string, label, value string) []string {
	if value == "" {
		return parts
	}
	return append(parts, label+": "+value)
}

func joinPresent(sep string, parts ...string) string {
	var present []string
	for _, p := range parts {
		if p != "" {
			present = append(present, p)
		}
	}
	return strings.Join(present, sep)
}

func documentCurrency(d ProjectData) string {
	if d.Currency != "" {
		return d.Currency
	}
	if d.Business.Currency != "" {
		return d.Business.Currency
	}
	return DefaultCurrency
}

func formatMoney(amount float64, d ProjectData) string {
	if amount == 0 {
		return ""
	}
	return FormatCurrency(amount, documentCurrency(d), d.Business.Locale)
}

// formatDate renders a date in the business timezone using the configured
// date-format preference. Zero dates render as "".
func formatDate(t time.Time, b BusinessSettings) string {
	if t.IsZero() {
		return ""
	}
	loc := businessLocation(b)
	return t.In(loc).Format(dateLayout(b.DateFormat))
}

// formatDateFallback walks the candidate dates in order and formats the first
// non-zero one, finally defaulting to the injected clock.
func formatDateFallback(ctx TokenContext, candidates ...time.Time) string {
	for _, t := range candidates {
		if !t.IsZero() {
			return formatDate(t, ctx.Data.Business)
		}
	}
	return formatDate(ctx.Now, ctx.Data.Business)
}

func businessLocation(b BusinessSettings) *time.Location {
	if b.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func dateLayout(preference string) string {
	switch preference {
	case "DD/MM/YYYY":
		return "02/01/2006"
	case "MM/DD/YYYY":
		return "01/02/2006"
	case "YYYY-MM-DD":
		return "2006-01-02"
	default:
		return "02 Jan 2006"
	}
}
