package collections

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type componentDef struct {
	sortOrder int
	name      string
	category  string
	quantity  float64
	unit      string
	unitPrice float64
	total     float64
	color     string
	imageURL  string
	isChild   bool
}

type treatmentDef struct {
	sortOrder     int
	name          string
	treatmentType string
	roomName      string
	category      string
	quantity      float64
	unitPrice     float64
	totalCost     float64
	imageURL      string
	components    []componentDef
}

// Seed inserts a demo business profile, a default quote template and a
// sample curtains project. It is safe to call on every startup because it
// returns early when projects already exist.
func Seed(app *pocketbase.PocketBase) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty – inserting seed data …")

	settingsCol, err := app.FindCollectionByNameOrId("business_settings")
	if err != nil {
		return fmt.Errorf("seed: could not find business_settings collection: %w", err)
	}
	clientsCol, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		return fmt.Errorf("seed: could not find clients collection: %w", err)
	}
	treatmentsCol, err := app.FindCollectionByNameOrId("treatments")
	if err != nil {
		return fmt.Errorf("seed: could not find treatments collection: %w", err)
	}
	componentsCol, err := app.FindCollectionByNameOrId("treatment_components")
	if err != nil {
		return fmt.Errorf("seed: could not find treatment_components collection: %w", err)
	}
	templatesCol, err := app.FindCollectionByNameOrId("document_templates")
	if err != nil {
		return fmt.Errorf("seed: could not find document_templates collection: %w", err)
	}
	documentsCol, err := app.FindCollectionByNameOrId("documents")
	if err != nil {
		return fmt.Errorf("seed: could not find documents collection: %w", err)
	}

	// ── Business settings ────────────────────────────────────────────
	settings := core.NewRecord(settingsCol)
	settings.Set("company_name", "Harborview Window Furnishings")
	settings.Set("company_address", "12 Fairlight Street, Mosman NSW 2088")
	settings.Set("company_email", "hello@harborviewfurnishings.com.au")
	settings.Set("company_phone", "+61 2 9960 4400")
	settings.Set("company_website", "www.harborviewfurnishings.com.au")
	settings.Set("registration_number", "ABN 53 004 085 616")
	settings.Set("tax_number", "53004085616")
	settings.Set("bank_name", "Westpac")
	settings.Set("bank_account_name", "Harborview Window Furnishings Pty Ltd")
	settings.Set("bank_account_number", "432981")
	settings.Set("bank_routing_number", "032-166")
	settings.Set("country_code", "AU")
	settings.Set("locale", "en-AU")
	settings.Set("timezone", "Australia/Sydney")
	settings.Set("date_format", "DD/MM/YYYY")
	settings.Set("currency", "AUD")
	settings.Set("tax_type", "GST")
	settings.Set("tax_rate", 10)
	settings.Set("document_language", "en")
	if err := app.Save(settings); err != nil {
		return fmt.Errorf("seed: save business settings: %w", err)
	}

	// ── Default quote template ───────────────────────────────────────
	template := core.NewRecord(templatesCol)
	template.Set("name", "Standard Quote")
	template.Set("type", "quote")
	template.Set("is_default", true)
	blocksJSON, err := json.Marshal(defaultQuoteBlocks())
	if err != nil {
		return fmt.Errorf("seed: encode default blocks: %w", err)
	}
	template.Set("blocks", string(blocksJSON))
	if err := app.Save(template); err != nil {
		return fmt.Errorf("seed: save default template: %w", err)
	}

	// ── Client & project ─────────────────────────────────────────────
	client := core.NewRecord(clientsCol)
	client.Set("name", "Fiona Whitmore")
	client.Set("email", "fiona.whitmore@example.com")
	client.Set("phone", "+61 412 555 301")
	client.Set("address", "8 Clifton Gardens Road, Mosman NSW 2088")
	if err := app.Save(client); err != nil {
		return fmt.Errorf("seed: save client: %w", err)
	}

	project := core.NewRecord(projectsCol)
	project.Set("name", "Whitmore Residence — Full House Curtains & Blinds")
	project.Set("client", client.Id)
	project.Set("status", "quoted")
	project.Set("quote_number", "Q-2026-0114")
	project.Set("job_number", "J-0432")
	project.Set("quote_date", "2026-08-20 00:00:00")
	project.Set("valid_until", "2026-09-20 00:00:00")
	project.Set("currency", "AUD")
	project.Set("subtotal", 9470)
	project.Set("tax_rate", 10)
	project.Set("tax_amount", 947)
	project.Set("total", 10417)
	project.Set("payment_type", "deposit")
	project.Set("payment_amount", 5208.50)
	project.Set("payment_percentage", 50)
	project.Set("terms", "Quote valid until {{valid_until}}. A {{payment_amount}} deposit confirms your order; the balance is due on completion of installation.")
	if err := app.Save(project); err != nil {
		return fmt.Errorf("seed: save project: %w", err)
	}

	// ── Treatments ───────────────────────────────────────────────────
	createTreatment := func(d treatmentDef) error {
		r := core.NewRecord(treatmentsCol)
		r.Set("project", project.Id)
		r.Set("sort_order", d.sortOrder)
		r.Set("name", d.name)
		r.Set("treatment_type", d.treatmentType)
		r.Set("room_name", d.roomName)
		r.Set("category", d.category)
		r.Set("quantity", d.quantity)
		r.Set("unit_price", d.unitPrice)
		r.Set("total_cost", d.totalCost)
		if d.imageURL != "" {
			r.Set("image_url", d.imageURL)
		}
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save treatment %q: %w", d.name, err)
		}

		for _, c := range d.components {
			cr := core.NewRecord(componentsCol)
			cr.Set("treatment", r.Id)
			cr.Set("sort_order", c.sortOrder)
			cr.Set("name", c.name)
			cr.Set("category", c.category)
			cr.Set("quantity", c.quantity)
			cr.Set("unit", c.unit)
			cr.Set("unit_price", c.unitPrice)
			cr.Set("total", c.total)
			cr.Set("color", c.color)
			cr.Set("image_url", c.imageURL)
			cr.Set("is_child", c.isChild)
			if err := app.Save(cr); err != nil {
				return fmt.Errorf("seed: save component %q: %w", c.name, err)
			}
		}
		return nil
	}

	treatments := []treatmentDef{
		{
			sortOrder: 1, name: "S-Fold Sheer Curtains", treatmentType: "Curtains",
			roomName: "Living Room", quantity: 2, unitPrice: 1240, totalCost: 2480,
			components: []componentDef{
				{sortOrder: 1, name: "Fabric: Linen Voile", category: "fabric", quantity: 9.6, unit: "m", unitPrice: 68, total: 652.80, color: "Oyster", isChild: true},
				{sortOrder: 2, name: "Lining Types: Sheer", category: "lining", total: 0, isChild: true},
				{sortOrder: 3, name: "Lining Types Colour: Ivory", category: "option", total: 0, isChild: true},
				{sortOrder: 4, name: "Track: Motorised S-Fold Track", category: "hardware", quantity: 2, unit: "ea", unitPrice: 420, total: 840, isChild: true},
				{sortOrder: 5, name: "brackets", category: "hardware_accessory", quantity: 8, unitPrice: 6.50, total: 52, isChild: true},
				{sortOrder: 6, name: "Hardware Type: Track", category: "hardware", total: 0, isChild: true},
			},
		},
		{
			sortOrder: 2, name: "Blockout Roller Blinds", treatmentType: "Roller Blinds",
			roomName: "Master Bedroom", quantity: 3, unitPrice: 380, totalCost: 1140,
			components: []componentDef{
				{sortOrder: 1, name: "Material: Blockout Acrylic", category: "material", quantity: 3, unit: "ea", unitPrice: 210, total: 630, color: "Charcoal", isChild: true},
				{sortOrder: 2, name: "Chain: Stainless Chain", category: "hardware_accessory", quantity: 3, unitPrice: 12, total: 36, isChild: true},
				{sortOrder: 3, name: "Bottom Rail Colour: Anodised Silver", category: "option", total: 0, isChild: true},
			},
		},
		{
			sortOrder: 3, name: "Plantation Shutters", treatmentType: "Shutters",
			roomName: "Study", quantity: 2, unitPrice: 890, totalCost: 1780,
			components: []componentDef{
				{sortOrder: 1, name: "Material: Basswood", category: "material", quantity: 2, unit: "ea", unitPrice: 640, total: 1280, color: "Pure White", isChild: true},
				{sortOrder: 2, name: "Louvre: 89mm Louvre", category: "option", total: 0, isChild: true},
				{sortOrder: 3, name: "Hinges", category: "hardware_accessory", quantity: 8, unitPrice: 4.50, total: 36, isChild: true},
			},
		},
		{
			sortOrder: 4, name: "Pinch Pleat Curtains", treatmentType: "Curtains",
			roomName: "Dining Room", quantity: 1, unitPrice: 1650, totalCost: 1650,
			components: []componentDef{
				{sortOrder: 1, name: "Fabric: Belgian Linen", category: "fabric", quantity: 12.4, unit: "m", unitPrice: 94, total: 1165.60, color: "Natural Flax", isChild: true},
				{sortOrder: 2, name: "Lining Types: Blockout", category: "lining", quantity: 12.4, unit: "m", unitPrice: 18, total: 223.20, isChild: true},
				{sortOrder: 3, name: "Rod: Wrought Iron Rod 35mm", category: "hardware", quantity: 1, unit: "ea", unitPrice: 185, total: 185, color: "Matte Black", isChild: true},
				{sortOrder: 4, name: "finials", category: "hardware_accessory", quantity: 2, unitPrice: 22, total: 44, isChild: true},
			},
		},
		{
			sortOrder: 5, name: "Measure & Check", treatmentType: "Measurement Service",
			roomName: "", category: "service", quantity: 1, unitPrice: 180, totalCost: 180,
		},
		{
			sortOrder: 6, name: "Professional Installation", treatmentType: "Installation Service",
			roomName: "", category: "service", quantity: 1, unitPrice: 2240, totalCost: 2240,
		},
	}
	for _, d := range treatments {
		if err := createTreatment(d); err != nil {
			return err
		}
	}

	// ── Document ─────────────────────────────────────────────────────
	doc := core.NewRecord(documentsCol)
	doc.Set("project", project.Id)
	doc.Set("template", template.Id)
	doc.Set("name", "Quote Q-2026-0114")
	doc.Set("type", "quote")
	doc.Set("show_detailed_breakdown", true)
	doc.Set("show_images", true)
	doc.Set("group_by_room", true)
	doc.Set("layout", "detailed")
	if err := app.Save(doc); err != nil {
		return fmt.Errorf("seed: save document: %w", err)
	}

	log.Println("seed: all seed data inserted successfully (1 project, 6 treatments, 1 template, 1 document)")
	return nil
}

// defaultQuoteBlocks is the block list of the standard quote template. The
// document-settings block carries page geometry and is never rendered.
func defaultQuoteBlocks() []map[string]any {
	return []map[string]any{
		{
			"id":   uuid.NewString(),
			"type": "document-settings",
			"content": map[string]any{
				"page_size":     "A4",
				"orientation":   "portrait",
				"margin_top":    12.0,
				"margin_right":  10.0,
				"margin_bottom": 12.0,
				"margin_left":   10.0,
			},
		},
		{
			"id":   uuid.NewString(),
			"type": "header",
			"content": map[string]any{
				"title":             "Quote",
				"show_quote_number": true,
				"show_date":         true,
			},
		},
		{
			"id":   uuid.NewString(),
			"type": "client-info",
			"content": map[string]any{
				"title": "Prepared for",
			},
		},
		{
			"id":   uuid.NewString(),
			"type": "line-items",
			"content": map[string]any{
				"theme": "classic",
			},
		},
		{
			"id":   uuid.NewString(),
			"type": "totals",
			"content": map[string]any{
				"show_tax":         true,
				"show_payment_due": true,
			},
		},
		{
			"id":   uuid.NewString(),
			"type": "terms",
			"content": map[string]any{
				"title": "Terms & Conditions",
				"body":  "This quote is valid until {{valid_until}}. Prices include {{tax_rate}} GST. A deposit of {{payment_amount}} is required to confirm your order.",
			},
		},
		{
			"id":   uuid.NewString(),
			"type": "signature",
			"content": map[string]any{
				"label": "Accepted and agreed",
			},
		},
		{
			"id":   uuid.NewString(),
			"type": "footer",
			"content": map[string]any{
				"text":              "{{company_name}} | {{company_contact}}",
				"show_bank_details": true,
				"show_registration": true,
			},
		},
	}
}
