package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateDocumentExcel writes an assembled document's line-items and totals
// sections to a spreadsheet and returns the file contents. Room groups become
// labeled sub-sections; breakdown entries indent under their item row.
func GenerateDocumentExcel(doc Document, title string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := title
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Quote"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E"}
	lastCol := columns[len(columns)-1]

	widths := []float64{44, 10, 16, 16, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	roomStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 10,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#F5F3EF"},
			Pattern: 1,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create room style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 10,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	detailStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:   9,
			Italic: true,
			Color:  "#666666",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create detail style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Title rows ──────────────────────────────────────────────────────

	row := 1
	for _, s := range doc.Sections {
		if s.Header == nil {
			continue
		}
		if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
			return nil, fmt.Errorf("merge title: %w", err)
		}
		f.SetCellValue(sheetName, "A1", sanitizeSheetCell(s.Header.Title))
		f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)
		row = 2

		if s.Header.QuoteNumber != "" {
			f.SetCellValue(sheetName, "A2", "Quote #: "+s.Header.QuoteNumber)
			f.SetCellStyle(sheetName, "A2", "A2", subtitleStyle)
			row = 3
		}
		if s.Header.Date != "" {
			cell := fmt.Sprintf("A%d", row)
			f.SetCellValue(sheetName, cell, "Date: "+s.Header.Date)
			f.SetCellStyle(sheetName, cell, cell, subtitleStyle)
			row++
		}
		break
	}
	row++ // blank separator

	// ── Line items ──────────────────────────────────────────────────────

	for _, s := range doc.Sections {
		if s.LineItems == nil {
			continue
		}

		headers := []string{"Item", "Qty", "Unit Price", "Total", "Room"}
		headerRow := fmt.Sprintf("%d", row)
		for i, h := range headers {
			f.SetCellValue(sheetName, columns[i]+headerRow, h)
		}
		f.SetCellStyle(sheetName, "A"+headerRow, lastCol+headerRow, headerStyle)
		row++

		for _, group := range s.LineItems.Rooms {
			if group.Room != "" {
				roomRow := fmt.Sprintf("%d", row)
				if err := f.MergeCell(sheetName, "A"+roomRow, lastCol+roomRow); err != nil {
					return nil, fmt.Errorf("merge room row: %w", err)
				}
				f.SetCellValue(sheetName, "A"+roomRow, sanitizeSheetCell(group.Room))
				f.SetCellStyle(sheetName, "A"+roomRow, lastCol+roomRow, roomStyle)
				row++
			}

			for _, r := range group.Rows {
				if r.Excluded {
					continue
				}
				rowStr := fmt.Sprintf("%d", row)
				f.SetCellValue(sheetName, "A"+rowStr, sanitizeSheetCell(r.Name))
				if r.Quantity != 0 {
					f.SetCellValue(sheetName, "B"+rowStr, r.Quantity)
				}
				f.SetCellValue(sheetName, "C"+rowStr, r.UnitPrice)
				f.SetCellValue(sheetName, "D"+rowStr, r.Total)
				f.SetCellValue(sheetName, "E"+rowStr, sanitizeSheetCell(r.Room))
				f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, itemStyle)
				row++

				for _, entry := range r.Breakdown {
					detailRow := fmt.Sprintf("%d", row)
					line := entry.Name
					if entry.Description != "" {
						line += ": " + entry.Description
					}
					f.SetCellValue(sheetName, "A"+detailRow, sanitizeSheetCell("  "+line))
					f.SetCellStyle(sheetName, "A"+detailRow, lastCol+detailRow, detailStyle)
					row++
				}
			}

			if group.Room != "" && group.Subtotal != "" {
				subRow := fmt.Sprintf("%d", row)
				f.SetCellValue(sheetName, "C"+subRow, group.Room+" subtotal:")
				f.SetCellStyle(sheetName, "C"+subRow, "C"+subRow, summaryLabelStyle)
				f.SetCellValue(sheetName, "D"+subRow, group.Subtotal)
				f.SetCellStyle(sheetName, "D"+subRow, "D"+subRow, summaryValueStyle)
				row++
			}
		}

		for _, svc := range s.LineItems.Services {
			if svc.Excluded {
				continue
			}
			rowStr := fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "A"+rowStr, sanitizeSheetCell(svc.Name))
			f.SetCellValue(sheetName, "D"+rowStr, svc.Amount)
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, itemStyle)
			row++
		}
		break
	}

	// ── Totals ──────────────────────────────────────────────────────────

	row++ // blank separator

	for _, s := range doc.Sections {
		if s.Totals == nil {
			continue
		}
		for _, t := range s.Totals.Rows {
			rowStr := fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "C"+rowStr, t.Label+":")
			f.SetCellStyle(sheetName, "C"+rowStr, "C"+rowStr, summaryLabelStyle)
			f.SetCellValue(sheetName, "D"+rowStr, t.Amount)
			f.SetCellStyle(sheetName, "D"+rowStr, "D"+rowStr, summaryValueStyle)
			row++
		}
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "C"+rowStr, s.Totals.Total.Label+":")
		f.SetCellStyle(sheetName, "C"+rowStr, "C"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "D"+rowStr, s.Totals.Total.Amount)
		f.SetCellStyle(sheetName, "D"+rowStr, "D"+rowStr, summaryValueStyle)
		row++
		break
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeSheetCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas.
func sanitizeSheetCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns excelize.Border entries for thin borders on all sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
