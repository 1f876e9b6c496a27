package services

import (
	"math"
	"testing"

	"orderdocs/testhelpers"
)

func TestBuildProjectData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestBusinessSettings(t, app)

	client := testhelpers.CreateTestClient(t, app, "Fiona Whitmore")
	project := testhelpers.CreateTestProject(t, app, "Whitmore Residence")
	project.Set("client", client.Id)
	project.Set("subtotal", 9470)
	project.Set("tax_rate", 10)
	project.Set("tax_amount", 947)
	project.Set("total", 10417)
	project.Set("payment_type", "deposit")
	project.Set("payment_amount", 5208.50)
	if err := app.Save(project); err != nil {
		t.Fatalf("save project: %v", err)
	}

	treatment := testhelpers.CreateTestTreatment(t, app, project.Id, "S-Fold Sheers", "Living Room", 2480)
	testhelpers.CreateTestComponent(t, app, treatment.Id, "Fabric: Linen", "fabric", 100)

	data := BuildProjectData(app, project.Id)

	if data.Project.Name != "Whitmore Residence" || data.Project.QuoteNumber != "Q-TEST-001" {
		t.Errorf("unexpected project: %+v", data.Project)
	}
	if data.Client.Name != "Fiona Whitmore" {
		t.Errorf("unexpected client: %+v", data.Client)
	}
	if data.Business.CompanyName != "Harborview Window Furnishings" {
		t.Errorf("unexpected business settings: %+v", data.Business)
	}
	if data.Currency != "AUD" {
		t.Errorf("expected business currency fallback, got %q", data.Currency)
	}
	if math.Abs(data.Subtotal-9470) > 0.001 || math.Abs(data.Total-10417) > 0.001 {
		t.Errorf("unexpected money fields: subtotal %f, total %f", data.Subtotal, data.Total)
	}
	if data.Payment.Type != "deposit" || math.Abs(data.Payment.Amount-5208.50) > 0.001 {
		t.Errorf("unexpected payment: %+v", data.Payment)
	}

	if len(data.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(data.Items))
	}
	item := data.Items[0]
	if item.Name != "S-Fold Sheers" || item.RoomName != "Living Room" {
		t.Errorf("unexpected item: %+v", item)
	}
	if len(item.Children) != 1 || item.Children[0].Name != "Fabric: Linen" {
		t.Errorf("unexpected components: %+v", item.Children)
	}
	if !item.Children[0].IsChild {
		t.Error("component should be flagged is_child")
	}
}

func TestBuildProjectData_MissingProjectDegrades(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	data := BuildProjectData(app, "missing")
	if data.Project.ID != "" || len(data.Items) != 0 {
		t.Errorf("expected zero-value data for a missing project, got %+v", data)
	}
}

func TestBuildProjectData_MissingRelationsDegrade(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	// No business settings, no client, no treatments.
	project := testhelpers.CreateTestProject(t, app, "Bare Project")

	data := BuildProjectData(app, project.Id)
	if data.Project.Name != "Bare Project" {
		t.Errorf("project fields should still load: %+v", data.Project)
	}
	if data.Client.Name != "" {
		t.Errorf("expected zero client, got %+v", data.Client)
	}
	if data.Business.CompanyName != "" {
		t.Errorf("expected zero business settings, got %+v", data.Business)
	}
	if len(data.Items) != 0 {
		t.Errorf("expected no items, got %+v", data.Items)
	}
}
