package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"orderdocs/services"
	"orderdocs/templates"
)

// HandleToggleItemExclusion flips an item's include/exclude state and
// re-renders the document in interactive mode so subtotals update at once.
func HandleToggleItemExclusion(app *pocketbase.PocketBase, registry *services.OverlayRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		documentID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		overlay := registry.Get(documentID)
		overlay.ToggleExclusion(itemID)

		return renderInteractive(app, registry, e)
	}
}

// HandleSetItemImage records a per-item image override. An empty url form
// value clears the override.
func HandleSetItemImage(app *pocketbase.PocketBase, registry *services.OverlayRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		documentID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		url := e.Request.FormValue("url")

		overlay := registry.Get(documentID)
		overlay.SetImageOverride(itemID, url)

		return renderInteractive(app, registry, e)
	}
}

// HandleSetBlockText records a block text edit. Writes debounce inside the
// overlay, so a typing burst persists once; the response is empty because
// the editing element already shows the new text.
func HandleSetBlockText(registry *services.OverlayRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		documentID := e.Request.PathValue("id")
		blockID := e.Request.PathValue("blockId")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		text := e.Request.FormValue("text")

		overlay := registry.Get(documentID)
		overlay.SetBlockText(blockID, text)

		return e.NoContent(http.StatusNoContent)
	}
}

// HandleDocumentClose flushes pending edits and releases the overlay.
func HandleDocumentClose(registry *services.OverlayRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		registry.Close(e.Request.PathValue("id"))
		return e.NoContent(http.StatusNoContent)
	}
}

// renderInteractive re-assembles the document in interactive mode and
// returns the content partial for an HTMX swap.
func renderInteractive(app *pocketbase.PocketBase, registry *services.OverlayRegistry, e *core.RequestEvent) error {
	projectID := e.Request.PathValue("projectId")
	documentID := e.Request.PathValue("id")

	doc, err := app.FindRecordById("documents", documentID)
	if err != nil {
		log.Printf("document_overlay: could not find document %s: %v", documentID, err)
		return e.String(http.StatusNotFound, "Document not found")
	}
	if doc.GetString("project") != projectID {
		return e.String(http.StatusNotFound, "Document not found")
	}

	blocks, err := services.LoadTemplateBlocks(app, doc.GetString("template"))
	if err != nil {
		log.Printf("document_overlay: %v", err)
		return e.String(http.StatusInternalServerError, "Could not load document template")
	}

	overlay := registry.Get(documentID)
	data := services.BuildProjectData(app, projectID)

	assembled := services.Assemble(blocks, services.RenderContext{
		Data:     data,
		Mode:     services.ModeInteractive,
		Defaults: documentDefaults(doc),
		Overlay:  overlay.Snapshot(),
		Now:      services.TokenContext{Data: data, Now: time.Now()},
	})

	return templates.DocumentContent(templates.DocumentViewData{
		ProjectID:   projectID,
		DocumentID:  documentID,
		Title:       doc.GetString("name"),
		Doc:         assembled,
		Interactive: true,
	}).Render(e.Request.Context(), e.Response)
}
