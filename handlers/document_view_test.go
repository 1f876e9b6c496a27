package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"

	"orderdocs/services"
	"orderdocs/testhelpers"
)

// newTestRegistry wires an overlay registry against the test app's block_data
// collection, matching the production wiring.
func newTestRegistry(app *pocketbase.PocketBase) *services.OverlayRegistry {
	return services.NewOverlayRegistry(
		func(documentID, key, value string) error {
			return services.PersistOverlayValue(app, documentID, key, value)
		},
		nil,
		func(documentID string) (map[string]bool, map[string]string, map[string]string) {
			return services.LoadOverlayState(app, documentID)
		},
	)
}

const viewTestBlocks = `[
	{"id":"b1","type":"header","content":{"title":"Quote {{quote_number}}"}},
	{"id":"b2","type":"line-items","content":{}},
	{"id":"b3","type":"totals","content":{}},
	{"id":"b4","type":"terms","content":{"body":"Payment within 7 days."}}
]`

func setupDocumentFixture(t *testing.T, app *pocketbase.PocketBase) (projectID, documentID string) {
	t.Helper()

	testhelpers.CreateTestBusinessSettings(t, app)
	project := testhelpers.CreateTestProject(t, app, "Whitmore Residence")
	project.Set("subtotal", 2480)
	project.Set("total", 2480)
	if err := app.Save(project); err != nil {
		t.Fatalf("save project: %v", err)
	}
	testhelpers.CreateTestTreatment(t, app, project.Id, "S-Fold Sheers", "Living Room", 2480)

	template := testhelpers.CreateTestTemplate(t, app, "Standard Quote", viewTestBlocks)
	doc := testhelpers.CreateTestDocument(t, app, project.Id, template.Id)
	return project.Id, doc.Id
}

func TestHandleDocumentView_FullPage(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	projectID, documentID := setupDocumentFixture(t, app)

	handler := HandleDocumentView(app, newTestRegistry(app))

	req := httptest.NewRequest(http.MethodGet, "/projects/"+projectID+"/documents/"+documentID, nil)
	req.SetPathValue("projectId", projectID)
	req.SetPathValue("id", documentID)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<html") {
		t.Error("expected a full HTML page without HX-Request")
	}
	testhelpers.AssertHTMLContains(t, body,
		"Quote Q-TEST-001", "S-Fold Sheers", "Living Room", "$2,480.00")
}

func TestHandleDocumentView_HTMXPartial(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	projectID, documentID := setupDocumentFixture(t, app)

	handler := HandleDocumentView(app, newTestRegistry(app))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.SetPathValue("projectId", projectID)
	req.SetPathValue("id", documentID)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<html") {
		t.Error("HX-Request must get the partial, not a full page")
	}
	testhelpers.AssertHTMLContains(t, body, "S-Fold Sheers")
}

func TestHandleDocumentView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleDocumentView(app, newTestRegistry(app))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.SetPathValue("projectId", "proj1")
	req.SetPathValue("id", "nonexistent")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleDocumentView_WrongProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, documentID := setupDocumentFixture(t, app)
	other := testhelpers.CreateTestProject(t, app, "Other Project")

	handler := HandleDocumentView(app, newTestRegistry(app))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.SetPathValue("projectId", other.Id)
	req.SetPathValue("id", documentID)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("a document must not render under a foreign project, got %d", rec.Code)
	}
}

func TestHandleDocumentView_ShowsOverlayTextEdit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	projectID, documentID := setupDocumentFixture(t, app)
	registry := newTestRegistry(app)

	registry.Get(documentID).SetBlockText("b4", "Payment within 30 days.")

	handler := HandleDocumentView(app, registry)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.SetPathValue("projectId", projectID)
	req.SetPathValue("id", documentID)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Payment within 30 days.")
	if strings.Contains(body, "Payment within 7 days.") {
		t.Error("the render must show the edited text, not the template body")
	}
}

func TestHandleDocumentView_EditModeShowsDiagnostics(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestBusinessSettings(t, app)
	project := testhelpers.CreateTestProject(t, app, "Diag Project")
	template := testhelpers.CreateTestTemplate(t, app, "Broken Template",
		`[{"id":"b1","type":"mystery-widget","content":{}}]`)
	doc := testhelpers.CreateTestDocument(t, app, project.Id, template.Id)

	handler := HandleDocumentView(app, newTestRegistry(app))

	req := httptest.NewRequest(http.MethodGet, "/test?edit=true", nil)
	req.SetPathValue("projectId", project.Id)
	req.SetPathValue("id", doc.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Unsupported block type: mystery-widget")
}
