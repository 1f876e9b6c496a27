package services

import (
	"testing"

	"orderdocs/testhelpers"
)

func editableBlocks() []Block {
	return []Block{
		{ID: "settings", Type: BlockDocumentSettings},
		{ID: "header", Type: BlockHeader, Content: map[string]any{"title": "Quote"}},
		{ID: "items", Type: BlockLineItems},
		{ID: "totals", Type: BlockTotals},
	}
}

func blockIDs(blocks []Block) []string {
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return ids
}

func TestReorderBlocks(t *testing.T) {
	tests := []struct {
		name    string
		order   []string
		wantIDs []string
	}{
		{
			"full reorder",
			[]string{"totals", "items", "header", "settings"},
			[]string{"totals", "items", "header", "settings"},
		},
		{
			"unknown ids ignored",
			[]string{"ghost", "totals", "header"},
			[]string{"totals", "header", "settings", "items"},
		},
		{
			"missing blocks keep relative order at the end",
			[]string{"items"},
			[]string{"items", "settings", "header", "totals"},
		},
		{
			"empty order keeps everything",
			nil,
			[]string{"settings", "header", "items", "totals"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := blockIDs(ReorderBlocks(editableBlocks(), tt.order))
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Fatalf("got %v, want %v", got, tt.wantIDs)
				}
			}
		})
	}
}

func TestDuplicateBlock(t *testing.T) {
	out, err := DuplicateBlock(editableBlocks(), "header")
	if err != nil {
		t.Fatalf("DuplicateBlock: %v", err)
	}
	if len(out) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(out))
	}
	dup := out[2]
	if dup.Type != BlockHeader {
		t.Errorf("copy type = %q", dup.Type)
	}
	if dup.ID == "header" || dup.ID == "" {
		t.Errorf("copy needs a fresh ID, got %q", dup.ID)
	}
	if dup.Content["title"] != "Quote" {
		t.Errorf("copy content = %+v", dup.Content)
	}

	// Content is copied, not shared.
	dup.Content["title"] = "Changed"
	if out[1].Content["title"] != "Quote" {
		t.Error("duplicate must not share the original's content map")
	}
}

func TestDuplicateBlock_RefusesDocumentSettings(t *testing.T) {
	if _, err := DuplicateBlock(editableBlocks(), "settings"); err == nil {
		t.Error("expected error duplicating document settings")
	}
	if _, err := DuplicateBlock(editableBlocks(), "nope"); err == nil {
		t.Error("expected error for unknown block")
	}
}

func TestRemoveBlock(t *testing.T) {
	out, err := RemoveBlock(editableBlocks(), "items")
	if err != nil {
		t.Fatalf("RemoveBlock: %v", err)
	}
	for _, b := range out {
		if b.ID == "items" {
			t.Error("block still present after removal")
		}
	}
	if len(out) != 3 {
		t.Errorf("expected 3 blocks, got %d", len(out))
	}

	if _, err := RemoveBlock(editableBlocks(), "settings"); err == nil {
		t.Error("expected error removing document settings")
	}
}

func TestUpdateBlockContent(t *testing.T) {
	blocks := editableBlocks()
	out, err := UpdateBlockContent(blocks, "header", map[string]any{
		"title":     "Final Invoice",
		"show_date": false,
	})
	if err != nil {
		t.Fatalf("UpdateBlockContent: %v", err)
	}

	updated := out[1]
	if updated.Content["title"] != "Final Invoice" {
		t.Errorf("title not merged: %+v", updated.Content)
	}
	if updated.Content["show_date"] != false {
		t.Errorf("new key not merged: %+v", updated.Content)
	}
	// The input slice is untouched.
	if blocks[1].Content["title"] != "Quote" {
		t.Error("UpdateBlockContent must not mutate its input")
	}

	if _, err := UpdateBlockContent(blocks, "nope", nil); err == nil {
		t.Error("expected error for unknown block")
	}
}

func TestTemplateBlocks_SaveLoadRoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	id := testhelpers.CreateTestTemplate(t, app, "Standard Quote",
		`[{"id":"b1","type":"header","content":{"title":"Quote {{quote_number}}"}}]`).Id

	blocks, err := LoadTemplateBlocks(app, id)
	if err != nil {
		t.Fatalf("LoadTemplateBlocks: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Type != BlockHeader {
		t.Fatalf("unexpected blocks: %+v", blocks)
	}

	blocks = append(blocks, Block{ID: "b2", Type: BlockFooter})
	if err := SaveTemplateBlocks(app, id, blocks); err != nil {
		t.Fatalf("SaveTemplateBlocks: %v", err)
	}

	reloaded, err := LoadTemplateBlocks(app, id)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded) != 2 || reloaded[1].Type != BlockFooter {
		t.Fatalf("round trip lost blocks: %+v", reloaded)
	}
}

func TestLoadTemplateBlocks_MalformedJSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	id := testhelpers.CreateTestTemplate(t, app, "Broken", `{not json]`).Id

	if _, err := LoadTemplateBlocks(app, id); err == nil {
		t.Error("malformed blocks JSON must be an error, not an empty template")
	}
}

func TestOverlayPersistence_RoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	projectID := testhelpers.CreateTestProject(t, app, "Whitmore Residence").Id
	templateID := testhelpers.CreateTestTemplate(t, app, "Standard Quote", `[]`).Id
	docID := testhelpers.CreateTestDocument(t, app, projectID, templateID).Id

	writes := map[string]string{
		"excluded_items": "t1,t3",
		"image:t2":       "https://example.com/override.jpg",
		"text:b5":        "Edited terms",
	}
	for key, value := range writes {
		if err := PersistOverlayValue(app, docID, key, value); err != nil {
			t.Fatalf("PersistOverlayValue(%s): %v", key, err)
		}
	}

	// Upsert replaces rather than duplicating.
	if err := PersistOverlayValue(app, docID, "excluded_items", "t1"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	excluded, images, texts := LoadOverlayState(app, docID)
	if !excluded["t1"] || excluded["t3"] {
		t.Errorf("unexpected exclusions: %+v", excluded)
	}
	if images["t2"] != "https://example.com/override.jpg" {
		t.Errorf("unexpected images: %+v", images)
	}
	if texts["b5"] != "Edited terms" {
		t.Errorf("unexpected texts: %+v", texts)
	}
}

func TestLoadOverlayState_UnknownDocumentIsEmpty(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	excluded, images, texts := LoadOverlayState(app, "missing")
	if len(excluded) != 0 || len(images) != 0 || len(texts) != 0 {
		t.Errorf("expected empty state, got %v %v %v", excluded, images, texts)
	}
}
