// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"orderdocs/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestBusinessSettings creates the singleton business settings record.
func CreateTestBusinessSettings(t *testing.T, app *pocketbase.PocketBase) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("business_settings")
	if err != nil {
		t.Fatalf("failed to find business_settings collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("company_name", "Harborview Window Furnishings")
	record.Set("company_email", "hello@harborview.example")
	record.Set("company_phone", "+61 2 9960 4400")
	record.Set("country_code", "AU")
	record.Set("locale", "en-AU")
	record.Set("date_format", "DD/MM/YYYY")
	record.Set("currency", "AUD")
	record.Set("tax_type", "GST")
	record.Set("tax_rate", 10)
	record.Set("bank_name", "Westpac")
	record.Set("bank_account_name", "Harborview Window Furnishings Pty Ltd")
	record.Set("bank_account_number", "432981")
	record.Set("bank_routing_number", "032-166")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test business settings: %v", err)
	}

	return record
}

// CreateTestClient creates a client record with the given name and returns it.
func CreateTestClient(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		t.Fatalf("failed to find clients collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("email", "client@example.com")
	record.Set("phone", "+61 400 000 000")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test client: %v", err)
	}

	return record
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("status", "quoted")
	record.Set("quote_number", "Q-TEST-001")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestTreatment creates a treatment row linked to a project.
func CreateTestTreatment(t *testing.T, app *pocketbase.PocketBase, projectID, name, roomName string, totalCost float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("treatments")
	if err != nil {
		t.Fatalf("failed to find treatments collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("name", name)
	record.Set("treatment_type", "Curtains")
	record.Set("room_name", roomName)
	record.Set("quantity", 1)
	record.Set("total_cost", totalCost)
	record.Set("sort_order", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test treatment: %v", err)
	}

	return record
}

// CreateTestComponent creates a breakdown component under a treatment.
func CreateTestComponent(t *testing.T, app *pocketbase.PocketBase, treatmentID, name, category string, total float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("treatment_components")
	if err != nil {
		t.Fatalf("failed to find treatment_components collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("treatment", treatmentID)
	record.Set("name", name)
	record.Set("category", category)
	record.Set("total", total)
	record.Set("is_child", true)
	record.Set("sort_order", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test component: %v", err)
	}

	return record
}

// CreateTestTemplate creates a document template with the given blocks JSON.
func CreateTestTemplate(t *testing.T, app *pocketbase.PocketBase, name, blocksJSON string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("document_templates")
	if err != nil {
		t.Fatalf("failed to find document_templates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("type", "quote")
	record.Set("blocks", blocksJSON)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test template: %v", err)
	}

	return record
}

// CreateTestDocument creates a document linking a project and a template.
func CreateTestDocument(t *testing.T, app *pocketbase.PocketBase, projectID, templateID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("documents")
	if err != nil {
		t.Fatalf("failed to find documents collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("template", templateID)
	record.Set("name", "Test Quote")
	record.Set("type", "quote")
	record.Set("show_detailed_breakdown", true)
	record.Set("group_by_room", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test document: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
