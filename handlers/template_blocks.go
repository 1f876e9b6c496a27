package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"orderdocs/services"
)

// HandleReorderBlocks applies a drag-and-drop block order to a template.
// The order form value carries comma-separated block IDs.
func HandleReorderBlocks(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		templateID := e.Request.PathValue("templateId")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		var orderedIDs []string
		for _, id := range strings.Split(e.Request.FormValue("order"), ",") {
			if id = strings.TrimSpace(id); id != "" {
				orderedIDs = append(orderedIDs, id)
			}
		}
		if len(orderedIDs) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "No block order provided")
		}

		blocks, err := services.LoadTemplateBlocks(app, templateID)
		if err != nil {
			log.Printf("template_blocks: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Template not found")
		}

		blocks = services.ReorderBlocks(blocks, orderedIDs)
		if err := services.SaveTemplateBlocks(app, templateID, blocks); err != nil {
			log.Printf("template_blocks: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save block order")
		}

		SetToast(e, "success", "Block order saved")
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleDuplicateBlock copies a block in place, directly after the original.
func HandleDuplicateBlock(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		templateID := e.Request.PathValue("templateId")
		blockID := e.Request.PathValue("blockId")

		blocks, err := services.LoadTemplateBlocks(app, templateID)
		if err != nil {
			log.Printf("template_blocks: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Template not found")
		}

		blocks, err = services.DuplicateBlock(blocks, blockID)
		if err != nil {
			log.Printf("template_blocks: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Could not duplicate block")
		}
		if err := services.SaveTemplateBlocks(app, templateID, blocks); err != nil {
			log.Printf("template_blocks: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save template")
		}

		SetToast(e, "success", "Block duplicated")
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleDeleteBlock removes a block from a template.
func HandleDeleteBlock(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		templateID := e.Request.PathValue("templateId")
		blockID := e.Request.PathValue("blockId")

		blocks, err := services.LoadTemplateBlocks(app, templateID)
		if err != nil {
			log.Printf("template_blocks: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Template not found")
		}

		blocks, err = services.RemoveBlock(blocks, blockID)
		if err != nil {
			log.Printf("template_blocks: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Could not remove block")
		}
		if err := services.SaveTemplateBlocks(app, templateID, blocks); err != nil {
			log.Printf("template_blocks: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save template")
		}

		SetToast(e, "success", "Block removed")
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleUpdateBlockContent merges posted JSON content keys into a block,
// covering per-block display-setting overrides and text edits made in the
// template editor.
func HandleUpdateBlockContent(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		templateID := e.Request.PathValue("templateId")
		blockID := e.Request.PathValue("blockId")

		var content map[string]any
		if err := json.NewDecoder(e.Request.Body).Decode(&content); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid block content")
		}

		blocks, err := services.LoadTemplateBlocks(app, templateID)
		if err != nil {
			log.Printf("template_blocks: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Template not found")
		}

		blocks, err = services.UpdateBlockContent(blocks, blockID, content)
		if err != nil {
			log.Printf("template_blocks: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Block not found")
		}
		if err := services.SaveTemplateBlocks(app, templateID, blocks); err != nil {
			log.Printf("template_blocks: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save template")
		}

		SetToast(e, "success", "Block updated")
		return e.NoContent(http.StatusNoContent)
	}
}
