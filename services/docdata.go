package services

import (
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
)

// BusinessSettings holds the company identity, banking and locale
// configuration used by token resolution and document rendering.
type BusinessSettings struct {
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string
	CompanyWebsite string

	RegistrationNumber string
	TaxNumber          string

	BankName          string
	BankAccountName   string
	BankAccountNumber string
	BankRoutingNumber string
	BankSortCode      string
	BankIBAN          string
	BankSwift         string
	CountryCode       string

	Locale           string
	Timezone         string
	DateFormat       string
	Currency         string
	TaxType          string
	TaxRate          float64
	DocumentLanguage string
}

// Client holds the customer-facing contact details for a project.
type Client struct {
	Name       string
	Email      string
	Phone      string
	Company    string
	Address    string
	IsBusiness bool
}

// Project holds the identifying fields of a project.
type Project struct {
	ID          string
	Name        string
	Status      string
	QuoteNumber string
	JobNumber   string
	CreatedAt   time.Time
	QuoteDate   time.Time
	DueDate     time.Time
	ValidUntil  time.Time
}

// BreakdownComponent is a raw priced sub-part of a line item as stored.
// Only components flagged IsChild participate in breakdown grouping.
type BreakdownComponent struct {
	Name      string
	Category  string
	Quantity  float64
	Unit      string
	UnitPrice float64
	Total     float64
	ImageURL  string
	Color     string
	IsChild   bool
}

// LineItem is one priced treatment row of a project.
type LineItem struct {
	ID               string
	Name             string
	TreatmentType    string
	RoomName         string
	Category         string
	Quantity         float64
	UnitPrice        float64
	TotalCost        float64
	Total            float64
	Description      string
	ImageURL         string
	ImageURLOverride string
	Children         []BreakdownComponent
}

// Payment holds the payment request attached to a document.
type Payment struct {
	Type       string // "full" or "deposit"
	Amount     float64
	Percentage float64
	Status     string
}

// ProjectData is the read-only aggregate the document engine renders from.
// Every field may be zero; the engine degrades to empty output rather than
// failing when a subtree is missing.
type ProjectData struct {
	Project  Project
	Client   Client
	Business BusinessSettings
	Items    []LineItem
	Currency string

	Subtotal  float64
	TaxAmount float64
	TaxRate   float64
	Discount  float64
	Total     float64

	Payment Payment
	Terms   string
	Notes   string
}

// BuildProjectData assembles a ProjectData snapshot from PocketBase records.
// Missing related records degrade to zero values and are logged, never fatal.
func BuildProjectData(app *pocketbase.PocketBase, projectID string) ProjectData {
	data := ProjectData{}

	project, err := app.FindRecordById("projects", projectID)
	if err != nil {
		log.Printf("doc_data: could not find project %s: %v", projectID, err)
		return data
	}

	data.Project = Project{
		ID:          project.Id,
		Name:        project.GetString("name"),
		Status:      project.GetString("status"),
		QuoteNumber: project.GetString("quote_number"),
		JobNumber:   project.GetString("job_number"),
		CreatedAt:   project.GetDateTime("created").Time(),
		QuoteDate:   project.GetDateTime("quote_date").Time(),
		DueDate:     project.GetDateTime("due_date").Time(),
		ValidUntil:  project.GetDateTime("valid_until").Time(),
	}
	data.Subtotal = project.GetFloat("subtotal")
	data.TaxAmount = project.GetFloat("tax_amount")
	data.TaxRate = project.GetFloat("tax_rate")
	data.Discount = project.GetFloat("discount")
	data.Total = project.GetFloat("total")
	data.Terms = project.GetString("terms")
	data.Notes = project.GetString("notes")
	data.Payment = Payment{
		Type:       project.GetString("payment_type"),
		Amount:     project.GetFloat("payment_amount"),
		Percentage: project.GetFloat("payment_percentage"),
		Status:     project.GetString("payment_status"),
	}

	if clientID := project.GetString("client"); clientID != "" {
		if c, err := app.FindRecordById("clients", clientID); err == nil {
			data.Client = Client{
				Name:       c.GetString("name"),
				Email:      c.GetString("email"),
				Phone:      c.GetString("phone"),
				Company:    c.GetString("company"),
				Address:    c.GetString("address"),
				IsBusiness: c.GetBool("is_business"),
			}
		} else {
			log.Printf("doc_data: could not find client %s: %v", clientID, err)
		}
	}

	data.Business = LoadBusinessSettings(app)
	data.Currency = project.GetString("currency")
	if data.Currency == "" {
		data.Currency = data.Business.Currency
	}

	data.Items = loadLineItems(app, projectID)

	return data
}

// LoadBusinessSettings reads the singleton business_settings record.
// A missing record yields zero settings; token resolution falls back to
// hard defaults for currency and locale.
func LoadBusinessSettings(app *pocketbase.PocketBase) BusinessSettings {
	records, err := app.FindRecordsByFilter("business_settings", "id != ''", "-created", 1, 0, nil)
	if err != nil || len(records) == 0 {
		log.Printf("doc_data: no business settings record: %v", err)
		return BusinessSettings{}
	}
	b := records[0]
	return BusinessSettings{
		CompanyName:        b.GetString("company_name"),
		CompanyAddress:     b.GetString("company_address"),
		CompanyEmail:       b.GetString("company_email"),
		CompanyPhone:       b.GetString("company_phone"),
		CompanyWebsite:     b.GetString("company_website"),
		RegistrationNumber: b.GetString("registration_number"),
		TaxNumber:          b.GetString("tax_number"),
		BankName:           b.GetString("bank_name"),
		BankAccountName:    b.GetString("bank_account_name"),
		BankAccountNumber:  b.GetString("bank_account_number"),
		BankRoutingNumber:  b.GetString("bank_routing_number"),
		BankSortCode:       b.GetString("bank_sort_code"),
		BankIBAN:           b.GetString("bank_iban"),
		BankSwift:          b.GetString("bank_swift"),
		CountryCode:        b.GetString("country_code"),
		Locale:             b.GetString("locale"),
		Timezone:           b.GetString("timezone"),
		DateFormat:         b.GetString("date_format"),
		Currency:           b.GetString("currency"),
		TaxType:            b.GetString("tax_type"),
		TaxRate:            b.GetFloat("tax_rate"),
		DocumentLanguage:   b.GetString("document_language"),
	}
}

// loadLineItems fetches the treatments of a project together with their
// breakdown components, sorted by sort_order.
func loadLineItems(app *pocketbase.PocketBase, projectID string) []LineItem {
	records, err := app.FindRecordsByFilter(
		"treatments",
		"project = {:projectId}",
		"sort_order",
		0,
		0,
		map[string]any{"projectId": projectID},
	)
	if err != nil {
		log.Printf("doc_data: could not fetch treatments for project %s: %v", projectID, err)
		return nil
	}

	var items []LineItem
	for _, r := range records {
		items = append(items, LineItem{
			ID:               r.Id,
			Name:             r.GetString("name"),
			TreatmentType:    r.GetString("treatment_type"),
			RoomName:         r.GetString("room_name"),
			Category:         r.GetString("category"),
			Quantity:         r.GetFloat("quantity"),
			UnitPrice:        r.GetFloat("unit_price"),
			TotalCost:        r.GetFloat("total_cost"),
			Total:            r.GetFloat("total"),
			Description:      r.GetString("description"),
			ImageURL:         r.GetString("image_url"),
			ImageURLOverride: r.GetString("image_url_override"),
			Children:         loadComponents(app, r.Id),
		})
	}
	return items
}

func loadComponents(app *pocketbase.PocketBase, treatmentID string) []BreakdownComponent {
	records, err := app.FindRecordsByFilter(
		"treatment_components",
		"treatment = {:treatmentId}",
		"sort_order",
		0,
		0,
		map[string]any{"treatmentId": treatmentID},
	)
	if err != nil {
		log.Printf("doc_data: could not fetch components for treatment %s: %v", treatmentID, err)
		return nil
	}

	var components []BreakdownComponent
	for _, r := range records {
		components = append(components, BreakdownComponent{
			Name:      r.GetString("name"),
			Category:  r.GetString("category"),
			Quantity:  r.GetFloat("quantity"),
			Unit:      r.GetString("unit"),
			UnitPrice: r.GetFloat("unit_price"),
			Total:     r.GetFloat("total"),
			ImageURL:  r.GetString("image_url"),
			Color:     r.GetString("color"),
			IsChild:   r.GetBool("is_child"),
		})
	}
	return components
}
