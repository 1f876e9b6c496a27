package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically ensures the document engine's collections exist:
// business settings, clients, projects, treatments and their components,
// document templates, documents and overlay block data.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "business_settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "company_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_address", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_email", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_website", Required: false})
		c.Fields.Add(&core.TextField{Name: "registration_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "tax_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "bank_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "bank_account_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "bank_account_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "bank_routing_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "bank_sort_code", Required: false})
		c.Fields.Add(&core.TextField{Name: "bank_iban", Required: false})
		c.Fields.Add(&core.TextField{Name: "bank_swift", Required: false})
		c.Fields.Add(&core.TextField{Name: "country_code", Required: false})
		c.Fields.Add(&core.TextField{Name: "locale", Required: false})
		c.Fields.Add(&core.TextField{Name: "timezone", Required: false})
		c.Fields.Add(&core.TextField{Name: "date_format", Required: false})
		c.Fields.Add(&core.TextField{Name: "currency", Required: false})
		c.Fields.Add(&core.TextField{Name: "tax_type", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax_rate", Required: false})
		c.Fields.Add(&core.TextField{Name: "document_language", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	clients := ensureCollection(app, "clients", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "company", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_business"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "client",
			Required:     false,
			CollectionId: clients.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  false,
			Values:    []string{"draft", "quoted", "accepted", "in_progress", "completed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "quote_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "job_number", Required: false})
		c.Fields.Add(&core.DateField{Name: "quote_date"})
		c.Fields.Add(&core.DateField{Name: "due_date"})
		c.Fields.Add(&core.DateField{Name: "valid_until"})
		c.Fields.Add(&core.TextField{Name: "currency", Required: false})
		c.Fields.Add(&core.NumberField{Name: "subtotal", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "discount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "payment_type",
			Required:  false,
			Values:    []string{"full", "deposit"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "payment_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "payment_percentage", Required: false})
		c.Fields.Add(&core.TextField{Name: "payment_status", Required: false})
		c.Fields.Add(&core.TextField{Name: "terms", Required: false})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	treatments := ensureCollection(app, "treatments", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "treatment_type", Required: false})
		c.Fields.Add(&core.TextField{Name: "room_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total", Required: false})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "image_url", Required: false})
		c.Fields.Add(&core.TextField{Name: "image_url_override", Required: false})
	})

	ensureCollection(app, "treatment_components", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "treatment",
			Required:      true,
			CollectionId:  treatments.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total", Required: false})
		c.Fields.Add(&core.TextField{Name: "image_url", Required: false})
		c.Fields.Add(&core.TextField{Name: "color", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_child"})
	})

	docTemplates := ensureCollection(app, "document_templates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "type",
			Required:  false,
			Values:    []string{"quote", "invoice"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "blocks"})
		c.Fields.Add(&core.BoolField{Name: "is_default"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	documents := ensureCollection(app, "documents", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "template",
			Required:     true,
			CollectionId: docTemplates.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "type",
			Required:  false,
			Values:    []string{"quote", "invoice"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.BoolField{Name: "show_detailed_breakdown"})
		c.Fields.Add(&core.BoolField{Name: "show_images"})
		c.Fields.Add(&core.BoolField{Name: "group_by_room"})
		c.Fields.Add(&core.TextField{Name: "layout", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "block_data", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "document",
			Required:      true,
			CollectionId:  documents.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "key", Required: true})
		c.Fields.Add(&core.TextField{Name: "value", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection returns the existing collection by name or creates a new
// base collection populated by the addFields callback.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
