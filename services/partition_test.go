package services

import (
	"math"
	"testing"
)

func sampleItems() []LineItem {
	return []LineItem{
		{ID: "t1", Name: "S-Fold Sheer Curtains", TreatmentType: "Curtains", RoomName: "Living Room", TotalCost: 2480},
		{ID: "t2", Name: "Blockout Roller Blinds", TreatmentType: "Roller Blinds", RoomName: "Master Bedroom", TotalCost: 1140},
		{ID: "t3", Name: "Pinch Pleat Curtains", TreatmentType: "Curtains", RoomName: "Living Room", TotalCost: 1650},
		{ID: "t4", Name: "Professional Installation", TreatmentType: "Installation Service", TotalCost: 2240},
		{ID: "t5", Name: "Measure & Check", Category: "service", TotalCost: 180},
	}
}

func TestPartitionItems_RoomsAndServices(t *testing.T) {
	result := PartitionItems(sampleItems(), PartitionOptions{GroupByRoom: true})

	if len(result.Rooms) != 2 {
		t.Fatalf("expected 2 room groups, got %d", len(result.Rooms))
	}
	// Rooms follow first occurrence.
	if result.Rooms[0].Room != "Living Room" || result.Rooms[1].Room != "Master Bedroom" {
		t.Errorf("unexpected room order: %q, %q", result.Rooms[0].Room, result.Rooms[1].Room)
	}
	if len(result.Rooms[0].Items) != 2 {
		t.Errorf("expected 2 living room items, got %d", len(result.Rooms[0].Items))
	}
	if math.Abs(result.Rooms[0].Subtotal-4130) > 0.001 {
		t.Errorf("living room subtotal = %f, want 4130", result.Rooms[0].Subtotal)
	}

	if len(result.Services) != 2 {
		t.Fatalf("expected 2 service rows, got %d", len(result.Services))
	}
	if math.Abs(result.ServicesSubtotal-2420) > 0.001 {
		t.Errorf("services subtotal = %f, want 2420", result.ServicesSubtotal)
	}
}

func TestPartitionItems_UngroupedSingleBucket(t *testing.T) {
	result := PartitionItems(sampleItems(), PartitionOptions{GroupByRoom: false})

	if len(result.Rooms) != 1 {
		t.Fatalf("expected one unlabeled bucket, got %d", len(result.Rooms))
	}
	if result.Rooms[0].Room != "" {
		t.Errorf("expected empty bucket label, got %q", result.Rooms[0].Room)
	}
	if len(result.Rooms[0].Items) != 3 {
		t.Errorf("expected 3 product items, got %d", len(result.Rooms[0].Items))
	}
}

func TestPartitionItems_MissingRoomFallsBack(t *testing.T) {
	items := []LineItem{
		{ID: "t1", Name: "Roman Blinds", TreatmentType: "Roman Blinds", TotalCost: 600},
	}
	result := PartitionItems(items, PartitionOptions{GroupByRoom: true})
	if len(result.Rooms) != 1 || result.Rooms[0].Room != DefaultRoomName {
		t.Errorf("expected %q bucket, got %+v", DefaultRoomName, result.Rooms)
	}
}

func TestPartitionItems_ExclusionOutsideEditMode(t *testing.T) {
	result := PartitionItems(sampleItems(), PartitionOptions{
		GroupByRoom: true,
		Excluded:    map[string]bool{"t3": true, "t4": true},
	})

	if len(result.Rooms[0].Items) != 1 {
		t.Errorf("expected excluded item omitted, got %d living room items", len(result.Rooms[0].Items))
	}
	if math.Abs(result.Rooms[0].Subtotal-2480) > 0.001 {
		t.Errorf("subtotal should drop excluded item: %f", result.Rooms[0].Subtotal)
	}
	if len(result.Services) != 1 {
		t.Errorf("expected excluded service omitted, got %d", len(result.Services))
	}
	if math.Abs(result.ServicesSubtotal-180) > 0.001 {
		t.Errorf("services subtotal = %f, want 180", result.ServicesSubtotal)
	}
}

func TestPartitionItems_ExclusionInEditMode(t *testing.T) {
	result := PartitionItems(sampleItems(), PartitionOptions{
		GroupByRoom: true,
		EditMode:    true,
		Excluded:    map[string]bool{"t3": true},
	})

	// Edit mode keeps the excluded item visible but flagged, and still
	// leaves it out of the subtotal.
	if len(result.Rooms[0].Items) != 2 {
		t.Fatalf("expected excluded item kept in edit mode, got %d", len(result.Rooms[0].Items))
	}
	var excludedSeen bool
	for _, pi := range result.Rooms[0].Items {
		if pi.Item.ID == "t3" && pi.Excluded {
			excludedSeen = true
		}
	}
	if !excludedSeen {
		t.Error("expected t3 flagged excluded")
	}
	if math.Abs(result.Rooms[0].Subtotal-2480) > 0.001 {
		t.Errorf("subtotal must ignore excluded item: %f", result.Rooms[0].Subtotal)
	}
}

func TestPartitionItems_HardwareOnlyDropped(t *testing.T) {
	items := []LineItem{
		{ID: "h1", Name: "Spare Brackets", Category: "hardware", TotalCost: 30},
		{ID: "t1", Name: "Sheer Curtains", TreatmentType: "Curtains", RoomName: "Lounge", TotalCost: 900},
	}
	result := PartitionItems(items, PartitionOptions{GroupByRoom: true})

	if len(result.Rooms) != 1 || len(result.Rooms[0].Items) != 1 {
		t.Fatalf("expected hardware-only row dropped, got %+v", result.Rooms)
	}
	if len(result.Services) != 0 {
		t.Errorf("hardware-only row must not appear as a service: %+v", result.Services)
	}
}

func TestIsServiceItem(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want bool
	}{
		{"category service", LineItem{Category: "service"}, true},
		{"install keyword in type", LineItem{TreatmentType: "Installation Service"}, true},
		{"measure keyword in name", LineItem{Name: "Measure & Check"}, true},
		{"consult keyword", LineItem{Name: "Design Consultation"}, true},
		{"plain product", LineItem{Name: "Roller Blinds", TreatmentType: "Roller Blinds"}, false},
	}
	for _, tt := range tests {
		if got := IsServiceItem(tt.item); got != tt.want {
			t.Errorf("%s: IsServiceItem = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestItemAmount_FallbackChain(t *testing.T) {
	if got := itemAmount(LineItem{TotalCost: 100, Total: 90, UnitPrice: 80}); got != 100 {
		t.Errorf("total_cost should win, got %f", got)
	}
	if got := itemAmount(LineItem{Total: 90, UnitPrice: 80}); got != 90 {
		t.Errorf("total fallback, got %f", got)
	}
	if got := itemAmount(LineItem{UnitPrice: 80}); got != 80 {
		t.Errorf("unit_price fallback, got %f", got)
	}
}
