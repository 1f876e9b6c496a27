package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"orderdocs/services"
)

var errDocumentNotFound = errors.New("document not found")

// HandleDocumentExportPDF renders a document to PDF and streams it as a
// download. Export always uses print mode: excluded items are gone and edit
// affordances are absent.
func HandleDocumentExportPDF(app *pocketbase.PocketBase, registry *services.OverlayRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		assembled, name, err := assembleForExport(app, registry, e)
		if err != nil {
			return exportError(e, err)
		}

		pdf, err := services.GenerateDocumentPDF(assembled)
		if err != nil {
			log.Printf("document_export: pdf generation failed: %v", err)
			return e.String(http.StatusInternalServerError, "Could not generate PDF")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", name+".pdf"))
		_, err = e.Response.Write(pdf)
		return err
	}
}

// HandleDocumentExportExcel renders a document's tables to a spreadsheet.
func HandleDocumentExportExcel(app *pocketbase.PocketBase, registry *services.OverlayRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		assembled, name, err := assembleForExport(app, registry, e)
		if err != nil {
			return exportError(e, err)
		}

		xlsx, err := services.GenerateDocumentExcel(assembled, name)
		if err != nil {
			log.Printf("document_export: excel generation failed: %v", err)
			return e.String(http.StatusInternalServerError, "Could not generate Excel file")
		}

		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
		_, err = e.Response.Write(xlsx)
		return err
	}
}

func exportError(e *core.RequestEvent, err error) error {
	log.Printf("document_export: %v", err)
	if errors.Is(err, errDocumentNotFound) {
		return e.String(http.StatusNotFound, "Document not found")
	}
	return e.String(http.StatusInternalServerError, "Could not load document")
}

// assembleForExport loads, validates and assembles a document in print mode.
// Pending debounced edits flush first so the export reflects the latest
// on-screen state.
func assembleForExport(app *pocketbase.PocketBase, registry *services.OverlayRegistry, e *core.RequestEvent) (services.Document, string, error) {
	projectID := e.Request.PathValue("projectId")
	documentID := e.Request.PathValue("id")

	doc, err := app.FindRecordById("documents", documentID)
	if err != nil {
		return services.Document{}, "", fmt.Errorf("find document %s: %w", documentID, errDocumentNotFound)
	}
	if doc.GetString("project") != projectID {
		return services.Document{}, "", fmt.Errorf("document %s not in project %s: %w", documentID, projectID, errDocumentNotFound)
	}

	blocks, err := services.LoadTemplateBlocks(app, doc.GetString("template"))
	if err != nil {
		return services.Document{}, "", err
	}

	overlay := registry.Get(documentID)
	overlay.Flush()

	data := services.BuildProjectData(app, projectID)
	assembled := services.Assemble(blocks, services.RenderContext{
		Data:     data,
		Mode:     services.ModePrint,
		Defaults: documentDefaults(doc),
		Overlay:  overlay.Snapshot(),
		Now:      services.TokenContext{Data: data, Now: time.Now()},
	})

	name := doc.GetString("name")
	if name == "" {
		name = "document"
	}
	return assembled, name, nil
}
