package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"orderdocs/services"
	"orderdocs/templates"
)

// HandleDocumentView renders a composed document for a project. The edit
// query flag switches to interactive mode where excluded items stay visible
// and blocks carry edit controls.
func HandleDocumentView(app *pocketbase.PocketBase, registry *services.OverlayRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		documentID := e.Request.PathValue("id")

		doc, err := app.FindRecordById("documents", documentID)
		if err != nil {
			log.Printf("document_view: could not find document %s: %v", documentID, err)
			return e.String(http.StatusNotFound, "Document not found")
		}
		if doc.GetString("project") != projectID {
			log.Printf("document_view: document %s does not belong to project %s", documentID, projectID)
			return e.String(http.StatusNotFound, "Document not found")
		}

		blocks, err := services.LoadTemplateBlocks(app, doc.GetString("template"))
		if err != nil {
			log.Printf("document_view: %v", err)
			return e.String(http.StatusInternalServerError, "Could not load document template")
		}

		interactive := e.Request.URL.Query().Get("edit") == "true"
		mode := services.ModePrint
		if interactive {
			mode = services.ModeInteractive
		}

		data := services.BuildProjectData(app, projectID)
		overlay := registry.Get(documentID)

		assembled := services.Assemble(blocks, services.RenderContext{
			Data:     data,
			Mode:     mode,
			Defaults: documentDefaults(doc),
			Overlay:  overlay.Snapshot(),
			Now:      services.TokenContext{Data: data, Now: time.Now()},
		})

		viewData := templates.DocumentViewData{
			ProjectID:   projectID,
			DocumentID:  documentID,
			Title:       doc.GetString("name"),
			Doc:         assembled,
			Interactive: interactive,
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.DocumentContent(viewData)
		} else {
			component = templates.DocumentPage(viewData)
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// documentDefaults reads the document-level display defaults off the record.
func documentDefaults(doc *core.Record) services.DisplaySettings {
	layout := doc.GetString("layout")
	if layout == "" {
		layout = services.LayoutDetailed
	}
	return services.DisplaySettings{
		ShowDetailedBreakdown: doc.GetBool("show_detailed_breakdown"),
		ShowImages:            doc.GetBool("show_images"),
		GroupByRoom:           doc.GetBool("group_by_room"),
		Layout:                layout,
	}
}
