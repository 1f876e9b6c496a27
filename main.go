package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"orderdocs/collections"
	"orderdocs/handlers"
	"orderdocs/services"
)

func main() {
	app := pocketbase.New()

	registry := services.NewOverlayRegistry(
		func(documentID, key, value string) error {
			return services.PersistOverlayValue(app, documentID, key, value)
		},
		func(documentID, message string) {
			log.Printf("overlay: document %s: %s", documentID, message)
		},
		func(documentID string) (map[string]bool, map[string]string, map[string]string) {
			return services.LoadOverlayState(app, documentID)
		},
	)

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// ── Document view & export ───────────────────────────────
		se.Router.GET("/projects/{projectId}/documents/{id}", handlers.HandleDocumentView(app, registry))
		se.Router.GET("/projects/{projectId}/documents/{id}/export/pdf", handlers.HandleDocumentExportPDF(app, registry))
		se.Router.GET("/projects/{projectId}/documents/{id}/export/excel", handlers.HandleDocumentExportExcel(app, registry))
		se.Router.POST("/projects/{projectId}/documents/{id}/close", handlers.HandleDocumentClose(registry))

		// ── Editable overlay ─────────────────────────────────────
		se.Router.POST("/projects/{projectId}/documents/{id}/items/{itemId}/toggle", handlers.HandleToggleItemExclusion(app, registry))
		se.Router.POST("/projects/{projectId}/documents/{id}/items/{itemId}/image", handlers.HandleSetItemImage(app, registry))
		se.Router.POST("/projects/{projectId}/documents/{id}/blocks/{blockId}/text", handlers.HandleSetBlockText(registry))

		// ── Template block management ────────────────────────────
		se.Router.POST("/templates/{templateId}/blocks/reorder", handlers.HandleReorderBlocks(app))
		se.Router.POST("/templates/{templateId}/blocks/{blockId}/duplicate", handlers.HandleDuplicateBlock(app))
		se.Router.DELETE("/templates/{templateId}/blocks/{blockId}", handlers.HandleDeleteBlock(app))
		se.Router.PATCH("/templates/{templateId}/blocks/{blockId}", handlers.HandleUpdateBlockContent(app))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/_/")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
