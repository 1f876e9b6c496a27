package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// LoadTemplateBlocks reads the ordered block list of a document template.
// The blocks field is stored as a JSON array; malformed JSON is an error the
// caller surfaces, not a silent empty template.
func LoadTemplateBlocks(app *pocketbase.PocketBase, templateID string) ([]Block, error) {
	record, err := app.FindRecordById("document_templates", templateID)
	if err != nil {
		return nil, fmt.Errorf("find template %s: %w", templateID, err)
	}

	raw := record.GetString("blocks")
	if raw == "" {
		return nil, nil
	}

	var blocks []Block
	if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
		return nil, fmt.Errorf("decode template %s blocks: %w", templateID, err)
	}
	return blocks, nil
}

// SaveTemplateBlocks writes the full ordered block list back to the template.
func SaveTemplateBlocks(app *pocketbase.PocketBase, templateID string, blocks []Block) error {
	record, err := app.FindRecordById("document_templates", templateID)
	if err != nil {
		return fmt.Errorf("find template %s: %w", templateID, err)
	}

	data, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("encode template %s blocks: %w", templateID, err)
	}
	record.Set("blocks", string(data))

	if err := app.Save(record); err != nil {
		return fmt.Errorf("save template %s: %w", templateID, err)
	}
	return nil
}

// ReorderBlocks returns the blocks rearranged to follow orderedIDs. IDs not
// present in the template are ignored; blocks missing from orderedIDs keep
// their relative order after the reordered ones, so a stale drag payload
// never drops content.
func ReorderBlocks(blocks []Block, orderedIDs []string) []Block {
	byID := make(map[string]int, len(blocks))
	for i, b := range blocks {
		byID[b.ID] = i
	}

	used := make([]bool, len(blocks))
	out := make([]Block, 0, len(blocks))
	for _, id := range orderedIDs {
		if i, ok := byID[id]; ok && !used[i] {
			out = append(out, blocks[i])
			used[i] = true
		}
	}
	for i, b := range blocks {
		if !used[i] {
			out = append(out, b)
		}
	}
	return out
}

// DuplicateBlock inserts a copy of the block directly after the original,
// with a fresh ID. The document-settings block is singular and refuses to
// duplicate.
func DuplicateBlock(blocks []Block, blockID string) ([]Block, error) {
	for i, b := range blocks {
		if b.ID != blockID {
			continue
		}
		if b.Type == BlockDocumentSettings {
			return nil, fmt.Errorf("block %s: document settings cannot be duplicated", blockID)
		}

		dup := Block{ID: uuid.NewString(), Type: b.Type}
		if b.Content != nil {
			dup.Content = make(map[string]any, len(b.Content))
			for k, v := range b.Content {
				dup.Content[k] = v
			}
		}

		out := make([]Block, 0, len(blocks)+1)
		out = append(out, blocks[:i+1]...)
		out = append(out, dup)
		out = append(out, blocks[i+1:]...)
		return out, nil
	}
	return nil, fmt.Errorf("block %s not found", blockID)
}

// RemoveBlock deletes a block by ID. Removing the document-settings block is
// refused; the document always has page geometry.
func RemoveBlock(blocks []Block, blockID string) ([]Block, error) {
	for i, b := range blocks {
		if b.ID != blockID {
			continue
		}
		if b.Type == BlockDocumentSettings {
			return nil, fmt.Errorf("block %s: document settings cannot be removed", blockID)
		}
		return append(blocks[:i:i], blocks[i+1:]...), nil
	}
	return nil, fmt.Errorf("block %s not found", blockID)
}

// UpdateBlockContent merges new content keys into a block's content map.
func UpdateBlockContent(blocks []Block, blockID string, content map[string]any) ([]Block, error) {
	out := make([]Block, len(blocks))
	copy(out, blocks)
	for i := range out {
		if out[i].ID != blockID {
			continue
		}
		merged := make(map[string]any, len(out[i].Content)+len(content))
		for k, v := range out[i].Content {
			merged[k] = v
		}
		for k, v := range content {
			merged[k] = v
		}
		out[i].Content = merged
		return out, nil
	}
	return nil, fmt.Errorf("block %s not found", blockID)
}

// PersistOverlayValue upserts one overlay key/value pair for a document in
// the block_data collection.
func PersistOverlayValue(app *pocketbase.PocketBase, documentID, key, value string) error {
	records, err := app.FindRecordsByFilter(
		"block_data",
		"document = {:doc} && key = {:key}",
		"",
		1,
		0,
		map[string]any{"doc": documentID, "key": key},
	)
	if err == nil && len(records) > 0 {
		record := records[0]
		record.Set("value", value)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("update overlay %s/%s: %w", documentID, key, err)
		}
		return nil
	}

	collection, err := app.FindCollectionByNameOrId("block_data")
	if err != nil {
		return fmt.Errorf("find block_data collection: %w", err)
	}
	record := core.NewRecord(collection)
	record.Set("document", documentID)
	record.Set("key", key)
	record.Set("value", value)
	if err := app.Save(record); err != nil {
		return fmt.Errorf("insert overlay %s/%s: %w", documentID, key, err)
	}
	return nil
}

// LoadOverlayState reads the persisted overlay rows of a document back into
// the maps Restore accepts.
func LoadOverlayState(app *pocketbase.PocketBase, documentID string) (excluded map[string]bool, images, texts map[string]string) {
	excluded = map[string]bool{}
	images = map[string]string{}
	texts = map[string]string{}

	records, err := app.FindRecordsByFilter(
		"block_data",
		"document = {:doc}",
		"",
		0,
		0,
		map[string]any{"doc": documentID},
	)
	if err != nil {
		return excluded, images, texts
	}

	for _, r := range records {
		key := r.GetString("key")
		value := r.GetString("value")
		switch {
		case key == "excluded_items":
			for _, id := range strings.Split(value, ",") {
				if id = strings.TrimSpace(id); id != "" {
					excluded[id] = true
				}
			}
		case strings.HasPrefix(key, "image:"):
			if value != "" {
				images[strings.TrimPrefix(key, "image:")] = value
			}
		case strings.HasPrefix(key, "text:"):
			texts[strings.TrimPrefix(key, "text:")] = value
		}
	}
	return excluded, images, texts
}
