package services

import (
	"fmt"
	"strings"
)

// Breakdown component categories.
const (
	CategoryFabric            = "fabric"
	CategoryMaterial          = "material"
	CategoryOption            = "option"
	CategoryOptions           = "options"
	CategoryHardware          = "hardware"
	CategoryHardwareAccessory = "hardware_accessory"
	CategoryLining            = "lining"
	CategoryService           = "service"
	CategoryOther             = "other"
)

// BreakdownEntry is a display-ready row of an item's itemized breakdown.
// Entries are derived fresh on every render and never persisted. For a
// non-grouped entry it is a relabeling of one component; for a merged entry
// TotalCost is the exact sum of the totals it absorbed.
type BreakdownEntry struct {
	Name        string
	Category    string
	Description string
	Quantity    float64
	Unit        string
	UnitPrice   float64
	TotalCost   float64
	ImageURL    string
	Color       string
	IsAccessory bool

	// IsHardwareGroup marks the single synthesized entry that consolidates
	// all hardware rows; HardwareItems holds the retained rows for
	// optional expanded display.
	IsHardwareGroup bool
	HardwareItems   []BreakdownEntry
}

// GroupComponents converts the raw priced sub-components of a line item into
// a consolidated, human-readable breakdown: classify and relabel each
// component, merge related parent/child option rows, then collapse hardware
// rows into one group. Malformed components (missing name, not flagged as a
// child) are skipped silently.
func GroupComponents(children []BreakdownComponent) []BreakdownEntry {
	var entries []BreakdownEntry
	for _, c := range children {
		if e, ok := classifyComponent(c); ok {
			entries = append(entries, e)
		}
	}
	return GroupEntries(entries)
}

// GroupEntries runs the parent/child merge and hardware consolidation over
// already-classified entries. It is idempotent: applying it to its own
// output changes nothing.
func GroupEntries(entries []BreakdownEntry) []BreakdownEntry {
	merged := mergeRelated(entries)
	return consolidateHardware(merged)
}

// classifyComponent relabels one raw component into a breakdown entry.
// The second return is false for components that must not participate.
func classifyComponent(c BreakdownComponent) (BreakdownEntry, bool) {
	if !c.IsChild || strings.TrimSpace(c.Name) == "" {
		return BreakdownEntry{}, false
	}

	label, value := splitLabel(c.Name)
	e := BreakdownEntry{
		Category:  c.Category,
		Quantity:  c.Quantity,
		Unit:      c.Unit,
		UnitPrice: c.UnitPrice,
		TotalCost: c.Total,
		ImageURL:  c.ImageURL,
		Color:     c.Color,
	}

	switch c.Category {
	case CategoryHardwareAccessory:
		e.IsAccessory = true
		if value != "" {
			e.Name = value
		} else {
			e.Name = titleLabel(label)
		}
		if c.Quantity > 1 {
			e.Description = fmt.Sprintf("%g × %.2f each", c.Quantity, c.UnitPrice)
		}
	default:
		// fabric, material, option(s), hardware, lining, other: split a
		// "Category Label: Selected Value" name into label and value.
		e.Name = titleLabel(label)
		e.Description = value
	}

	return e, true
}

// splitLabel splits a component name on the first colon into its category
// label and selected value. Names without a colon are all label.
func splitLabel(name string) (label, value string) {
	if idx := strings.Index(name, ":"); idx >= 0 {
		return strings.TrimSpace(name[:idx]), strings.TrimSpace(name[idx+1:])
	}
	return strings.TrimSpace(name), ""
}

// titleLabel turns a raw label like "lining_types" into "Lining Types".
func titleLabel(label string) string {
	words := strings.Fields(strings.ReplaceAll(label, "_", " "))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}

// ── Stage B: parent/child merge ─────────────────────────────────────────

// childSuffixes is the fixed table of recognized child suffixes; an entry
// whose normalized type-key ends with one of these belongs to the entry
// whose key equals the base. Longer suffixes come first within each family
// so the longest form matches.
var childSuffixes = []string{
	"_colours", "_colour", "_colors", "_color",
	"_sizes", "_size",
	"_styles", "_style",
	"_finishes", "_finish",
	"_materials", "_material",
	"_tracks", "_track",
	"_rods", "_rod",
	"_widths", "_width",
	"_lengths", "_length",
	"_heights", "_height",
	"_chains", "_chain",
	"_slats", "_slat",
	"_vanes", "_vane",
	"_louvres", "_louvre",
}

var typeKeyReplacer = strings.NewReplacer("-", " ")

// typeKey normalizes the text before the first colon of an entry name:
// lowercase, whitespace and dashes collapse to single underscores, other
// symbols are stripped.
func typeKey(name string) string {
	label, _ := splitLabel(name)
	label = strings.ToLower(typeKeyReplacer.Replace(label))

	var b strings.Builder
	lastUnderscore := true
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ' || r == '_':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// childSuffix reports whether key ends with a recognized child suffix and
// returns the suffix and the parent base key.
func childSuffix(key string) (suffix, base string, ok bool) {
	for _, s := range childSuffixes {
		if strings.HasSuffix(key, s) && len(key) > len(s) {
			return s, strings.TrimSuffix(key, s), true
		}
	}
	return "", "", false
}

// suffixTitle turns a suffix like "_colour" into "Colour".
func suffixTitle(suffix string) string {
	return titleLabel(strings.TrimPrefix(suffix, "_"))
}

// mergeRelated merges child entries (keys ending in a recognized suffix)
// into their parent entry regardless of relative input position. The merged
// description appends "; <Suffix Title>: <child value>" per child in
// discovery order and the merged total is the exact sum of parent and child
// totals. Orphan children pass through standalone; emission follows the
// original input order of the surviving entries.
func mergeRelated(entries []BreakdownEntry) []BreakdownEntry {
	if len(entries) < 2 {
		return entries
	}

	keys := make([]string, len(entries))
	parentIdx := make(map[string]int, len(entries))
	for i, e := range entries {
		keys[i] = typeKey(e.Name)
		if _, _, isChild := childSuffix(keys[i]); isChild {
			continue
		}
		if _, dup := parentIdx[keys[i]]; !dup {
			parentIdx[keys[i]] = i
		}
	}

	merged := make([]BreakdownEntry, len(entries))
	copy(merged, entries)
	consumed := make([]bool, len(entries))

	for i := range merged {
		if merged[i].IsHardwareGroup {
			continue // already consolidated, never re-merged
		}
		suffix, base, isChild := childSuffix(keys[i])
		if !isChild {
			continue
		}
		pi, found := parentIdx[base]
		if !found || pi == i {
			continue
		}

		child := merged[i]
		value := child.Description
		if value == "" {
			value = child.Name
		}
		detail := suffixTitle(suffix) + ": " + value

		parent := &merged[pi]
		if parent.Description != "" {
			parent.Description += "; " + detail
		} else {
			parent.Description = detail
		}
		parent.TotalCost += child.TotalCost
		consumed[i] = true
	}

	out := merged[:0]
	for i := range merged {
		if !consumed[i] {
			out = append(out, merged[i])
		}
	}
	return out
}

// ── Stage C: hardware consolidation ─────────────────────────────────────

func isHardwareEntry(e BreakdownEntry) bool {
	return e.IsHardwareGroup || e.IsAccessory ||
		e.Category == CategoryHardware || e.Category == CategoryHardwareAccessory
}

// meaninglessHardware reports whether an entry is purely a zero-price
// category selection with no distinguishing detail, e.g. a bare
// "Hardware Type: Rod" chooser row.
func meaninglessHardware(e BreakdownEntry) bool {
	if e.IsHardwareGroup || e.TotalCost != 0 {
		return false
	}
	if e.Color != "" || e.ImageURL != "" {
		return false
	}
	if e.Description == "" {
		return true
	}
	// A zero-price "... Type" row is a chooser, not a selection.
	key := typeKey(e.Name)
	return key == "type" || strings.HasSuffix(key, "_type") || strings.HasSuffix(key, "_types")
}

// consolidateHardware collapses all hardware-tagged entries into one
// synthesized group entry, positioned first. Meaningless selections are
// filtered; if nothing meaningful remains no hardware appears at all.
func consolidateHardware(entries []BreakdownEntry) []BreakdownEntry {
	var hardware, others []BreakdownEntry
	for _, e := range entries {
		if isHardwareEntry(e) {
			hardware = append(hardware, e)
		} else {
			others = append(others, e)
		}
	}
	if len(hardware) == 0 {
		return others
	}

	var retained []BreakdownEntry
	for _, e := range hardware {
		if !meaninglessHardware(e) {
			retained = append(retained, e)
		}
	}
	if len(retained) == 0 {
		return others
	}

	// An existing group with nothing new to absorb passes through as-is,
	// which keeps grouping idempotent.
	if len(retained) == 1 && retained[0].IsHardwareGroup {
		return append([]BreakdownEntry{retained[0]}, others...)
	}

	items := make([]BreakdownEntry, 0, len(retained))
	var total float64
	for _, e := range retained {
		if e.IsHardwareGroup {
			items = append(items, e.HardwareItems...)
		} else {
			items = append(items, e)
		}
		total += e.TotalCost
	}

	group := BreakdownEntry{
		Name:            hardwareGroupName(retained),
		Category:        CategoryHardware,
		TotalCost:       total,
		IsHardwareGroup: true,
		HardwareItems:   items,
	}

	return append([]BreakdownEntry{group}, others...)
}

// hardwareGroupName draws the group name from the most specific meaningful
// hardware selection: the first retained entry carrying a price, falling
// back to the first retained entry.
func hardwareGroupName(retained []BreakdownEntry) string {
	for _, e := range retained {
		if e.TotalCost != 0 && e.Name != "" {
			return e.Name
		}
	}
	return retained[0].Name
}
