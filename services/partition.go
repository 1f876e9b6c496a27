package services

import "strings"

// DefaultRoomName is the bucket for items that carry no room assignment.
const DefaultRoomName = "Unassigned Room"

// PartitionOptions controls room grouping and overlay-driven visibility.
type PartitionOptions struct {
	GroupByRoom bool
	// EditMode keeps excluded items in the output (flagged) so the author
	// sees what will disappear; outside edit mode they are omitted.
	EditMode bool
	Excluded map[string]bool
}

// PartitionedItem wraps a line item with its overlay visibility state.
type PartitionedItem struct {
	Item     LineItem
	Excluded bool
}

// RoomGroup is one room bucket with its visible-items subtotal.
type RoomGroup struct {
	Room     string
	Items    []PartitionedItem
	Subtotal float64
}

// PartitionResult splits a project's items into room-grouped product rows
// and a trailing services section. The grand subtotal for the document is
// sourced from ProjectData, not recomputed from these buckets.
type PartitionResult struct {
	Rooms            []RoomGroup
	Services         []PartitionedItem
	ServicesSubtotal float64
}

var serviceKeywords = []string{"install", "measure", "service", "consult"}

// IsServiceItem reports whether a line item is a service row (installation,
// measurement, etc.) rather than a priced product.
func IsServiceItem(item LineItem) bool {
	if item.Category == CategoryService {
		return true
	}
	text := strings.ToLower(item.TreatmentType + " " + item.Name)
	for _, kw := range serviceKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// isHardwareOnlyItem reports a standalone hardware row with no treatment:
// excluded from room grouping and from the services section display.
func isHardwareOnlyItem(item LineItem) bool {
	return item.Category == CategoryHardware && item.TreatmentType == ""
}

// PartitionItems splits items into room buckets and a trailing services
// list. Buckets are ordered by first occurrence; per-bucket subtotals cover
// visible items only.
func PartitionItems(items []LineItem, opts PartitionOptions) PartitionResult {
	result := PartitionResult{}
	roomIdx := map[string]int{}

	for _, item := range items {
		excluded := opts.Excluded[item.ID]
		if excluded && !opts.EditMode {
			continue
		}

		if isHardwareOnlyItem(item) {
			continue
		}
		if IsServiceItem(item) {
			result.Services = append(result.Services, PartitionedItem{Item: item, Excluded: excluded})
			if !excluded {
				result.ServicesSubtotal += itemAmount(item)
			}
			continue
		}

		room := ""
		if opts.GroupByRoom {
			room = item.RoomName
			if room == "" {
				room = DefaultRoomName
			}
		}

		idx, ok := roomIdx[room]
		if !ok {
			idx = len(result.Rooms)
			roomIdx[room] = idx
			result.Rooms = append(result.Rooms, RoomGroup{Room: room})
		}
		g := &result.Rooms[idx]
		g.Items = append(g.Items, PartitionedItem{Item: item, Excluded: excluded})
		if !excluded {
			g.Subtotal += itemAmount(item)
		}
	}

	return result
}

// itemAmount resolves the priced amount of a row: total_cost, falling back
// to total, falling back to unit_price.
func itemAmount(item LineItem) float64 {
	if item.TotalCost != 0 {
		return item.TotalCost
	}
	if item.Total != 0 {
		return item.Total
	}
	return item.UnitPrice
}
