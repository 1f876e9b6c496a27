package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateDocumentPDF renders an assembled document to PDF using maroto/v2.
// Sections appear in assembly order; page size and orientation follow the
// document's page setup.
func GenerateDocumentPDF(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(pageOrientation(doc.Page)).
		WithPageSize(mappedPageSize(doc.Page)).
		WithLeftMargin(doc.Page.Margins.Left).
		WithTopMargin(doc.Page.Margins.Top).
		WithRightMargin(doc.Page.Margins.Right).
		WithBottomMargin(doc.Page.Margins.Bottom).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	for _, section := range doc.Sections {
		addSection(m, section)
	}

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document PDF: %w", err)
	}

	return pdf.GetBytes(), nil
}

func pageOrientation(p PageSetup) orientation.Type {
	if p.Orientation == "landscape" {
		return orientation.Horizontal
	}
	return orientation.Vertical
}

func mappedPageSize(p PageSetup) pagesize.Type {
	switch p.Size {
	case "Letter", "letter":
		return pagesize.Letter
	case "A5":
		return pagesize.A5
	default:
		return pagesize.A4
	}
}

func addSection(m core.Maroto, s Section) {
	switch {
	case s.Header != nil:
		addHeaderSection(m, s.Header)
	case s.ClientInfo != nil:
		addClientInfoSection(m, s.ClientInfo)
	case s.LineItems != nil:
		addLineItemsSection(m, s.LineItems)
	case s.Totals != nil:
		addTotalsSection(m, s.Totals)
	case s.Text != nil:
		addTextSection(m, s.Text)
	case s.Signature != nil:
		addSignatureSection(m, s.Signature)
	case s.Footer != nil:
		addFooterSection(m, s.Footer)
	case s.Payment != nil:
		addPaymentSection(m, s.Payment)
	case s.Installation != nil:
		addInstallationSection(m, s.Installation)
	case s.Diagnostic != nil:
		// The full notice is screen-only; print carries a neutral marker so
		// the reader knows a section exists that could not be rendered.
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New("Section unavailable", props.Text{
					Size:  7,
					Style: fontstyle.Italic,
					Align: align.Center,
					Color: &props.Color{Red: 150, Green: 150, Blue: 150},
				})),
			),
		)
	}
}

func sectionLabelStyle() props.Text {
	return props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
}

func bodyStyle() props.Text {
	return props.Text{Size: 8, Align: align.Left}
}

func addHeaderSection(m core.Maroto, h *HeaderSection) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(h.CompanyName, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New(h.Title, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)

	rightMeta := ""
	if h.QuoteNumber != "" {
		rightMeta = "Quote #: " + h.QuoteNumber
	}
	if h.Date != "" {
		if rightMeta != "" {
			rightMeta += "  |  "
		}
		rightMeta += h.Date
	}

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(h.CompanyInfo, props.Text{
					Size:  8,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
			col.New(6).Add(
				text.New(rightMeta, props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

func addClientInfoSection(m core.Maroto, c *ClientInfoSection) {
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New(c.Title, sectionLabelStyle())),
		),
	)
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(text.New(c.Name, props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
		),
	)

	lines := []string{c.Company, c.Address, joinPresent(" | ", c.Email, c.Phone)}
	for _, line := range lines {
		if line == "" {
			continue
		}
		m.AddRows(
			row.New(6).Add(col.New(12).Add(text.New(line, bodyStyle()))),
		)
	}

	m.AddRows(row.New(3))
}

func addLineItemsSection(m core.Maroto, s *LineItemsSection) {
	if s.Theme == ThemeGallery {
		addGalleryLineItems(m, s)
		return
	}
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextRight := headerText
	headerTextRight.Align = align.Right
	headerCell := props.Cell{BackgroundColor: headerBg}

	roomLabel := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
	}
	roomBg := &props.Color{Red: 245, Green: 243, Blue: 239}
	roomCell := &props.Cell{BackgroundColor: roomBg}

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(text.New("Item", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Qty", headerTextRight)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Unit Price", headerTextRight)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Total", headerTextRight)).WithStyle(&headerCell),
		),
	)

	for _, group := range s.Rooms {
		if group.Room != "" {
			m.AddRows(
				row.New(7).Add(
					col.New(12).Add(text.New(group.Room, roomLabel)).WithStyle(roomCell),
				),
			)
		}
		for _, r := range group.Rows {
			if r.Excluded {
				continue
			}
			addItemRow(m, r, s.Settings)
		}
		if group.Room != "" && group.Subtotal != "" {
			m.AddRows(
				row.New(6).Add(
					col.New(10).Add(text.New(group.Room+" subtotal", props.Text{
						Size:  7,
						Style: fontstyle.Bold,
						Align: align.Right,
						Color: &props.Color{Red: 100, Green: 100, Blue: 100},
					})),
					col.New(2).Add(text.New(group.Subtotal, props.Text{
						Size:  7,
						Style: fontstyle.Bold,
						Align: align.Right,
					})),
				),
			)
		}
	}

	addServiceRows(m, s)

	m.AddRows(row.New(2))
}

// addGalleryLineItems renders each item as a card: bold name and total on
// one line, quantity and unit price beneath, then the breakdown. No header
// band; the room label is the only band retained.
func addGalleryLineItems(m core.Maroto, s *LineItemsSection) {
	roomLabel := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
	}
	roomBg := &props.Color{Red: 245, Green: 243, Blue: 239}
	roomCell := &props.Cell{BackgroundColor: roomBg}

	for _, group := range s.Rooms {
		if group.Room != "" {
			m.AddRows(
				row.New(7).Add(
					col.New(12).Add(text.New(group.Room, roomLabel)).WithStyle(roomCell),
				),
			)
		}
		for _, r := range group.Rows {
			if r.Excluded {
				continue
			}
			addGalleryItemCard(m, r, s.Settings)
		}
		if group.Room != "" && group.Subtotal != "" {
			m.AddRows(
				row.New(6).Add(
					col.New(12).Add(text.New(group.Room+" subtotal: "+group.Subtotal, props.Text{
						Size:  8,
						Style: fontstyle.Bold,
						Align: align.Right,
					})),
				),
			)
		}
	}

	addServiceRows(m, s)

	m.AddRows(row.New(2))
}

func addGalleryItemCard(m core.Maroto, r ItemRow, settings DisplaySettings) {
	m.AddRows(
		row.New(7).Add(
			col.New(8).Add(text.New(r.Name, props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
			col.New(4).Add(text.New(r.Total, props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Align: align.Right,
			})),
		),
	)

	detail := formatQuantity(r.Quantity)
	if detail != "" && r.UnitPrice != "" {
		detail += " × " + r.UnitPrice
	} else if r.UnitPrice != "" {
		detail = r.UnitPrice
	}
	mutedStyle := props.Text{
		Size:  7,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	if detail != "" {
		m.AddRows(
			row.New(5).Add(col.New(12).Add(text.New(detail, mutedStyle))),
		)
	}

	if settings.ShowDetailedBreakdown {
		for _, entry := range r.Breakdown {
			line := entry.Name
			if entry.Description != "" {
				line += ": " + entry.Description
			}
			m.AddRows(
				row.New(5).Add(
					col.New(1),
					col.New(11).Add(text.New(line, mutedStyle)),
				),
			)
		}
	}

	m.AddRows(row.New(2))
}

func addServiceRows(m core.Maroto, s *LineItemsSection) {
	if len(s.Services) == 0 {
		return
	}
	roomBg := &props.Color{Red: 245, Green: 243, Blue: 239}
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(text.New("Services", props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Align: align.Left,
			})).WithStyle(&props.Cell{BackgroundColor: roomBg}),
		),
	)
	for _, svc := range s.Services {
		if svc.Excluded {
			continue
		}
		m.AddRows(
			row.New(6).Add(
				col.New(10).Add(text.New(svc.Name, bodyStyle())),
				col.New(2).Add(text.New(svc.Amount, props.Text{Size: 8, Align: align.Right})),
			),
		)
	}
}

func addItemRow(m core.Maroto, r ItemRow, settings DisplaySettings) {
	bodyText := props.Text{Size: 8, Align: align.Left}
	bodyRight := props.Text{Size: 8, Align: align.Right}

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New(r.Name, bodyText)),
			col.New(2).Add(text.New(formatQuantity(r.Quantity), bodyRight)),
			col.New(2).Add(text.New(r.UnitPrice, bodyRight)),
			col.New(2).Add(text.New(r.Total, bodyRight)),
		),
	)

	if !settings.ShowDetailedBreakdown {
		return
	}
	detailText := props.Text{
		Size:  7,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	for _, entry := range r.Breakdown {
		line := entry.Name
		if entry.Description != "" {
			line += ": " + entry.Description
		}
		m.AddRows(
			row.New(5).Add(
				col.New(1),
				col.New(11).Add(text.New(line, detailText)),
			),
		)
	}
}

func addTotalsSection(m core.Maroto, s *TotalsSection) {
	if s.Theme == ThemeGallery {
		addGalleryTotals(m, s)
		return
	}
	summaryBg := &props.Color{Red: 245, Green: 245, Blue: 245}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}
	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{Size: 8, Align: align.Right}

	for _, r := range s.Rows {
		m.AddRows(
			row.New(7).Add(
				col.New(9).Add(text.New(r.Label, labelStyle)).WithStyle(summaryCell),
				col.New(3).Add(text.New(r.Amount, valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	grandBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	grandCell := &props.Cell{BackgroundColor: grandBg}
	grandStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}

	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New(s.Total.Label, grandStyle)).WithStyle(grandCell),
			col.New(3).Add(text.New(s.Total.Amount, grandStyle)).WithStyle(grandCell),
		),
	)

	m.AddRows(row.New(3))
}

// addGalleryTotals stacks plain right-aligned rows with an oversized grand
// total instead of the banded summary table.
func addGalleryTotals(m core.Maroto, s *TotalsSection) {
	rowStyle := props.Text{Size: 8, Align: align.Right}
	labelStyle := props.Text{
		Size:  8,
		Align: align.Right,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}

	for _, r := range s.Rows {
		m.AddRows(
			row.New(6).Add(
				col.New(9).Add(text.New(r.Label, labelStyle)),
				col.New(3).Add(text.New(r.Amount, rowStyle)),
			),
		)
	}

	grandStyle := props.Text{
		Size:  12,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	m.AddRows(
		row.New(10).Add(
			col.New(9).Add(text.New(s.Total.Label, grandStyle)),
			col.New(3).Add(text.New(s.Total.Amount, grandStyle)),
		),
	)

	m.AddRows(row.New(3))
}

func addTextSection(m core.Maroto, s *TextSection) {
	if s.Title != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New(s.Title, props.Text{
					Size:  8,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				})),
			),
		)
	}
	if s.Body != "" {
		m.AddRows(
			row.New(7).Add(col.New(12).Add(text.New(s.Body, bodyStyle()))),
		)
	}
	m.AddRows(row.New(3))
}

func addSignatureSection(m core.Maroto, s *SignatureSection) {
	m.AddRows(row.New(10))

	lineStyle := props.Text{
		Size:  8,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}

	cols := []core.Col{
		col.New(6).Add(text.New("____________________________", lineStyle)),
	}
	labels := []core.Col{
		col.New(6).Add(text.New(s.Label, labelStyle)),
	}
	if s.ShowDate {
		cols = append(cols, col.New(6).Add(text.New("____________________________", lineStyle)))
		labels = append(labels, col.New(6).Add(text.New("Date", labelStyle)))
	}

	m.AddRows(row.New(6).Add(cols...))
	m.AddRows(row.New(7).Add(labels...))

	if s.ShowPrintedName {
		m.AddRows(
			row.New(6).Add(
				col.New(6).Add(text.New("Print name: ______________________", lineStyle)),
			),
		)
	}
}

func addFooterSection(m core.Maroto, s *FooterSection) {
	m.AddRows(row.New(3))

	footerStyle := props.Text{
		Size:  7,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}

	for _, line := range []string{s.Text, s.BankDetails, s.Registration} {
		if line == "" {
			continue
		}
		m.AddRows(
			row.New(5).Add(col.New(12).Add(text.New(line, footerStyle))),
		)
	}
}

func addPaymentSection(m core.Maroto, s *PaymentSection) {
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New("PAYMENT", sectionLabelStyle())),
		),
	)
	if s.Instructions != "" {
		m.AddRows(
			row.New(7).Add(col.New(12).Add(text.New(s.Instructions, bodyStyle()))),
		)
	}
	if s.Amount != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New("Amount due: "+s.Amount, props.Text{
					Size:  8,
					Style: fontstyle.Bold,
					Align: align.Left,
				})),
			),
		)
	}
	if s.BankDetails != "" {
		m.AddRows(
			row.New(6).Add(col.New(12).Add(text.New(s.BankDetails, bodyStyle()))),
		)
	}
	m.AddRows(row.New(3))
}

func addInstallationSection(m core.Maroto, s *InstallationSection) {
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New("INSTALLATION", sectionLabelStyle())),
		),
	)
	if s.Notes != "" {
		m.AddRows(
			row.New(7).Add(col.New(12).Add(text.New(s.Notes, bodyStyle()))),
		)
	}
	if len(s.Rooms) > 0 {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New("Rooms: "+joinPresent(", ", s.Rooms...), bodyStyle())),
			),
		)
	}
	m.AddRows(row.New(3))
}

// formatQuantity drops trailing zeros so whole quantities print clean.
func formatQuantity(q float64) string {
	if q == 0 {
		return ""
	}
	return fmt.Sprintf("%g", q)
}
