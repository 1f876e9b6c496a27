package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"orderdocs/services"
	"orderdocs/testhelpers"
)

func TestHandleToggleItemExclusion(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	projectID, documentID := setupDocumentFixture(t, app)
	registry := newTestRegistry(app)

	item, err := app.FindRecordsByFilter("treatments", "project = {:p}", "", 1, 0, map[string]any{"p": projectID})
	if err != nil || len(item) == 0 {
		t.Fatalf("fixture treatment missing: %v", err)
	}
	itemID := item[0].Id

	handler := HandleToggleItemExclusion(app, registry)

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.SetPathValue("projectId", projectID)
	req.SetPathValue("id", documentID)
	req.SetPathValue("itemId", itemID)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	overlay := registry.Get(documentID)
	if !overlay.Snapshot().Excluded[itemID] {
		t.Error("toggle should exclude the item")
	}

	// The interactive re-render keeps the row visible but marked.
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "S-Fold Sheers", "excluded")

	// The exclusion set lands in block_data.
	overlay.Flush()
	excluded, _, _ := services.LoadOverlayState(app, documentID)
	if !excluded[itemID] {
		t.Error("exclusion was not persisted")
	}
}

func TestHandleSetItemImage(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	projectID, documentID := setupDocumentFixture(t, app)
	registry := newTestRegistry(app)

	handler := HandleSetItemImage(app, registry)

	form := url.Values{"url": {"https://example.com/override.jpg"}}
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("projectId", projectID)
	req.SetPathValue("id", documentID)
	req.SetPathValue("itemId", "t1")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	overlay := registry.Get(documentID)
	if overlay.Snapshot().Images["t1"] != "https://example.com/override.jpg" {
		t.Error("image override not recorded")
	}

	overlay.Flush()
	_, images, _ := services.LoadOverlayState(app, documentID)
	if images["t1"] != "https://example.com/override.jpg" {
		t.Error("image override was not persisted")
	}
}

func TestHandleSetBlockText(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, documentID := setupDocumentFixture(t, app)
	registry := newTestRegistry(app)

	handler := HandleSetBlockText(registry)

	form := url.Values{"text": {"Payment within 14 days of invoice."}}
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", documentID)
	req.SetPathValue("blockId", "b5")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	overlay := registry.Get(documentID)
	if text, ok := overlay.BlockText("b5"); !ok || text != "Payment within 14 days of invoice." {
		t.Errorf("block text not recorded: %q, %v", text, ok)
	}

	// Closing the document forces the debounced write out.
	registry.Close(documentID)
	_, _, texts := services.LoadOverlayState(app, documentID)
	if texts["b5"] != "Payment within 14 days of invoice." {
		t.Error("debounced text edit was not persisted on close")
	}
}

func TestHandleDocumentClose_RestoresOnReopen(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, documentID := setupDocumentFixture(t, app)
	registry := newTestRegistry(app)

	registry.Get(documentID).ToggleExclusion("t9")
	registry.Get(documentID).Flush()

	handler := HandleDocumentClose(registry)
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.SetPathValue("id", documentID)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	// A fresh Get restores the persisted state from block_data.
	if !registry.Get(documentID).Snapshot().Excluded["t9"] {
		t.Error("overlay state should survive close and reopen")
	}
}
