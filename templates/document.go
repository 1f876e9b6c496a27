package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"orderdocs/services"
)

// DocumentViewData is everything the document view needs to render.
type DocumentViewData struct {
	ProjectID   string
	DocumentID  string
	Title       string
	Doc         services.Document
	Interactive bool
}

// DocumentPage renders the full document page including the HTMX shell.
func DocumentPage(data DocumentViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<link rel="stylesheet" href="/static/document.css">
</head>
<body>
<div id="toast-container"></div>
<main id="document-root">`, html.EscapeString(data.Title)); err != nil {
			return err
		}
		if err := DocumentContent(data).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main>
</body>
</html>`)
		return err
	})
}

// DocumentContent renders the document sections only, for HTMX swaps.
func DocumentContent(data DocumentViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="document" id="document-%s" data-page-size="%s" data-orientation="%s">`,
			html.EscapeString(data.DocumentID),
			html.EscapeString(data.Doc.Page.Size),
			html.EscapeString(data.Doc.Page.Orientation)); err != nil {
			return err
		}
		for _, section := range data.Doc.Sections {
			if err := renderSection(w, section, data); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func renderSection(w io.Writer, s services.Section, data DocumentViewData) error {
	if _, err := fmt.Fprintf(w, `<section class="block block-%s" data-block-id="%s">`,
		html.EscapeString(s.Type), html.EscapeString(s.BlockID)); err != nil {
		return err
	}

	var err error
	switch {
	case s.Header != nil:
		err = renderHeader(w, s.Header)
	case s.ClientInfo != nil:
		err = renderClientInfo(w, s.ClientInfo)
	case s.LineItems != nil:
		err = renderLineItems(w, s.LineItems, data)
	case s.Totals != nil:
		err = renderTotals(w, s.Totals)
	case s.Text != nil:
		err = renderText(w, s, data)
	case s.Signature != nil:
		err = renderSignature(w, s.Signature)
	case s.Footer != nil:
		err = renderFooter(w, s.Footer)
	case s.Payment != nil:
		err = renderPayment(w, s.Payment)
	case s.Installation != nil:
		err = renderInstallation(w, s.Installation)
	case s.Diagnostic != nil:
		err = renderDiagnostic(w, s.Diagnostic, data)
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, `</section>`)
	return err
}

func renderHeader(w io.Writer, h *services.HeaderSection) error {
	if h.LogoURL != "" {
		if _, err := fmt.Fprintf(w, `<img class="logo" src="%s" alt="">`, html.EscapeString(h.LogoURL)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, `<div class="header-main"><h1>%s</h1><div class="header-title">%s</div></div>`,
		html.EscapeString(h.CompanyName), html.EscapeString(h.Title)); err != nil {
		return err
	}
	meta := ""
	if h.QuoteNumber != "" {
		meta += `<span class="quote-number">Quote #: ` + html.EscapeString(h.QuoteNumber) + `</span>`
	}
	if h.Date != "" {
		meta += `<span class="quote-date">` + html.EscapeString(h.Date) + `</span>`
	}
	_, err := fmt.Fprintf(w, `<div class="header-meta">%s<div class="company-info">%s</div></div>`,
		meta, html.EscapeString(h.CompanyInfo))
	return err
}

func renderClientInfo(w io.Writer, c *services.ClientInfoSection) error {
	if _, err := fmt.Fprintf(w, `<h2>%s</h2><div class="client-name">%s</div>`,
		html.EscapeString(c.Title), html.EscapeString(c.Name)); err != nil {
		return err
	}
	for _, line := range []string{c.Company, c.Address, c.Email, c.Phone} {
		if line == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, `<div class="client-line">%s</div>`, html.EscapeString(line)); err != nil {
			return err
		}
	}
	return nil
}

func renderLineItems(w io.Writer, s *services.LineItemsSection, data DocumentViewData) error {
	if s.Theme == services.ThemeGallery {
		return renderGalleryItems(w, s, data)
	}

	if _, err := fmt.Fprintf(w, `<div class="line-items theme-%s">`, html.EscapeString(s.Theme)); err != nil {
		return err
	}

	for _, group := range s.Rooms {
		if group.Room != "" {
			if _, err := fmt.Fprintf(w, `<h3 class="room-name">%s</h3>`, html.EscapeString(group.Room)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<table class="items-table"><thead><tr><th>Item</th><th>Qty</th><th>Unit Price</th><th>Total</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, r := range group.Rows {
			if err := renderItemRow(w, r, s.Settings, data); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tbody></table>`); err != nil {
			return err
		}
		if group.Room != "" && group.Subtotal != "" {
			if _, err := fmt.Fprintf(w, `<div class="room-subtotal">%s subtotal: %s</div>`,
				html.EscapeString(group.Room), html.EscapeString(group.Subtotal)); err != nil {
				return err
			}
		}
	}

	if err := renderServiceRows(w, s, data); err != nil {
		return err
	}

	_, err := io.WriteString(w, `</div>`)
	return err
}

// renderGalleryItems is the card presentation of the line items: image-first
// cards in a grid per room instead of a table. Amounts are the same resolved
// strings the classic table shows.
func renderGalleryItems(w io.Writer, s *services.LineItemsSection, data DocumentViewData) error {
	if _, err := io.WriteString(w, `<div class="line-items theme-gallery">`); err != nil {
		return err
	}

	for _, group := range s.Rooms {
		if group.Room != "" {
			if _, err := fmt.Fprintf(w, `<h3 class="room-name">%s</h3>`, html.EscapeString(group.Room)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<div class="item-cards">`); err != nil {
			return err
		}
		for _, r := range group.Rows {
			if err := renderItemCard(w, r, s.Settings, data); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</div>`); err != nil {
			return err
		}
		if group.Room != "" && group.Subtotal != "" {
			if _, err := fmt.Fprintf(w, `<div class="room-subtotal">%s subtotal: %s</div>`,
				html.EscapeString(group.Room), html.EscapeString(group.Subtotal)); err != nil {
				return err
			}
		}
	}

	if err := renderServiceRows(w, s, data); err != nil {
		return err
	}

	_, err := io.WriteString(w, `</div>`)
	return err
}

func renderItemCard(w io.Writer, r services.ItemRow, settings services.DisplaySettings, data DocumentViewData) error {
	cls := "item-card"
	if r.Excluded {
		cls += " excluded"
	}
	if _, err := fmt.Fprintf(w, `<div class="%s" data-item-id="%s">`, cls, html.EscapeString(r.ID)); err != nil {
		return err
	}

	if r.ImageURL != "" {
		if _, err := fmt.Fprintf(w, `<img class="item-image" src="%s" alt="">`, html.EscapeString(r.ImageURL)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, `<div class="item-name">%s</div>`, html.EscapeString(r.Name)); err != nil {
		return err
	}

	if settings.ShowDetailedBreakdown && len(r.Breakdown) > 0 {
		if err := renderBreakdownList(w, r.Breakdown); err != nil {
			return err
		}
	}

	pricing := ""
	if r.Quantity != 0 && r.UnitPrice != "" {
		pricing = fmt.Sprintf(`<span class="item-qty">%g × %s</span> `, r.Quantity, html.EscapeString(r.UnitPrice))
	}
	if _, err := fmt.Fprintf(w, `<div class="item-pricing">%s<span class="item-total">%s</span></div>`,
		pricing, html.EscapeString(r.Total)); err != nil {
		return err
	}

	if data.Interactive {
		if _, err := io.WriteString(w, `<div class="item-actions">`); err != nil {
			return err
		}
		if err := renderExclusionButton(w, r.ID, r.Excluded, data); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</div>`); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, `</div>`)
	return err
}

func renderServiceRows(w io.Writer, s *services.LineItemsSection, data DocumentViewData) error {
	if len(s.Services) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, `<h3 class="services-heading">Services</h3><table class="services-table"><tbody>`); err != nil {
		return err
	}
	for _, svc := range s.Services {
		cls := "service-row"
		if svc.Excluded {
			cls += " excluded"
		}
		if _, err := fmt.Fprintf(w, `<tr class="%s" data-item-id="%s"><td>%s</td><td class="amount">%s</td>`,
			cls, html.EscapeString(svc.ID), html.EscapeString(svc.Name), html.EscapeString(svc.Amount)); err != nil {
			return err
		}
		if data.Interactive {
			if err := renderExclusionToggle(w, svc.ID, svc.Excluded, data); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tr>`); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `</tbody></table>`); err != nil {
		return err
	}
	if s.ServicesSubtotal != "" {
		if _, err := fmt.Fprintf(w, `<div class="services-subtotal">Services subtotal: %s</div>`,
			html.EscapeString(s.ServicesSubtotal)); err != nil {
			return err
		}
	}
	return nil
}

func renderItemRow(w io.Writer, r services.ItemRow, settings services.DisplaySettings, data DocumentViewData) error {
	cls := "item-row"
	if r.Excluded {
		cls += " excluded"
	}
	if _, err := fmt.Fprintf(w, `<tr class="%s" data-item-id="%s"><td>`, cls, html.EscapeString(r.ID)); err != nil {
		return err
	}

	if r.ImageURL != "" {
		if _, err := fmt.Fprintf(w, `<img class="item-image" src="%s" alt="">`, html.EscapeString(r.ImageURL)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, `<span class="item-name">%s</span>`, html.EscapeString(r.Name)); err != nil {
		return err
	}

	if settings.ShowDetailedBreakdown && len(r.Breakdown) > 0 {
		if err := renderBreakdownList(w, r.Breakdown); err != nil {
			return err
		}
	}

	qty := ""
	if r.Quantity != 0 {
		qty = fmt.Sprintf("%g", r.Quantity)
	}
	if _, err := fmt.Fprintf(w, `</td><td>%s</td><td class="amount">%s</td><td class="amount">%s</td>`,
		qty, html.EscapeString(r.UnitPrice), html.EscapeString(r.Total)); err != nil {
		return err
	}

	if data.Interactive {
		if err := renderExclusionToggle(w, r.ID, r.Excluded, data); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, `</tr>`)
	return err
}

func renderBreakdownList(w io.Writer, entries []services.BreakdownEntry) error {
	if _, err := io.WriteString(w, `<ul class="breakdown">`); err != nil {
		return err
	}
	for _, entry := range entries {
		line := entry.Name
		if entry.Description != "" {
			line += ": " + entry.Description
		}
		if _, err := fmt.Fprintf(w, `<li>%s</li>`, html.EscapeString(line)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</ul>`)
	return err
}

// renderExclusionToggle emits the per-item include/exclude control as a
// table cell for the classic rows.
func renderExclusionToggle(w io.Writer, itemID string, excluded bool, data DocumentViewData) error {
	if _, err := io.WriteString(w, `<td class="item-actions">`); err != nil {
		return err
	}
	if err := renderExclusionButton(w, itemID, excluded, data); err != nil {
		return err
	}
	_, err := io.WriteString(w, `</td>`)
	return err
}

func renderExclusionButton(w io.Writer, itemID string, excluded bool, data DocumentViewData) error {
	label := "Exclude"
	if excluded {
		label = "Include"
	}
	_, err := fmt.Fprintf(w,
		`<button hx-post="/projects/%s/documents/%s/items/%s/toggle" hx-target="#document-%s" hx-swap="outerHTML">%s</button>`,
		html.EscapeString(data.ProjectID),
		html.EscapeString(data.DocumentID),
		html.EscapeString(itemID),
		html.EscapeString(data.DocumentID),
		label)
	return err
}

func renderTotals(w io.Writer, t *services.TotalsSection) error {
	if t.Theme == services.ThemeGallery {
		return renderGalleryTotals(w, t)
	}
	if _, err := fmt.Fprintf(w, `<table class="totals theme-%s"><tbody>`, html.EscapeString(t.Theme)); err != nil {
		return err
	}
	for _, r := range t.Rows {
		if _, err := fmt.Fprintf(w, `<tr><td class="label">%s</td><td class="amount">%s</td></tr>`,
			html.EscapeString(r.Label), html.EscapeString(r.Amount)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, `<tr class="grand-total"><td class="label">%s</td><td class="amount">%s</td></tr></tbody></table>`,
		html.EscapeString(t.Total.Label), html.EscapeString(t.Total.Amount))
	return err
}

// renderGalleryTotals stacks the summary as plain rows with an oversized
// grand total, matching the card presentation of the items.
func renderGalleryTotals(w io.Writer, t *services.TotalsSection) error {
	if _, err := io.WriteString(w, `<div class="totals theme-gallery">`); err != nil {
		return err
	}
	for _, r := range t.Rows {
		if _, err := fmt.Fprintf(w, `<div class="total-row"><span class="label">%s</span><span class="amount">%s</span></div>`,
			html.EscapeString(r.Label), html.EscapeString(r.Amount)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, `<div class="total-row grand-total"><span class="label">%s</span><span class="amount">%s</span></div></div>`,
		html.EscapeString(t.Total.Label), html.EscapeString(t.Total.Amount))
	return err
}

func renderText(w io.Writer, s services.Section, data DocumentViewData) error {
	t := s.Text
	if t.Title != "" {
		if _, err := fmt.Fprintf(w, `<h2>%s</h2>`, html.EscapeString(t.Title)); err != nil {
			return err
		}
	}
	if data.Interactive {
		// Text blocks edit in place; the body posts on input with a debounce
		// handled server-side, so a keypress burst persists once.
		_, err := fmt.Fprintf(w,
			`<div class="block-body" contenteditable="true" hx-post="/projects/%s/documents/%s/blocks/%s/text" hx-trigger="input changed delay:300ms" hx-vals="js:{text: event.target.innerText}" hx-swap="none">%s</div>`,
			html.EscapeString(data.ProjectID),
			html.EscapeString(data.DocumentID),
			html.EscapeString(s.BlockID),
			html.EscapeString(t.Body))
		return err
	}
	_, err := fmt.Fprintf(w, `<div class="block-body">%s</div>`, html.EscapeString(t.Body))
	return err
}

func renderSignature(w io.Writer, s *services.SignatureSection) error {
	if _, err := fmt.Fprintf(w, `<div class="signature-line"></div><div class="signature-label">%s</div>`,
		html.EscapeString(s.Label)); err != nil {
		return err
	}
	if s.ShowPrintedName {
		if _, err := io.WriteString(w, `<div class="signature-printed">Print name:</div>`); err != nil {
			return err
		}
	}
	if s.ShowDate {
		if _, err := io.WriteString(w, `<div class="signature-date">Date:</div>`); err != nil {
			return err
		}
	}
	return nil
}

func renderFooter(w io.Writer, f *services.FooterSection) error {
	for _, line := range []string{f.Text, f.BankDetails, f.Registration} {
		if line == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, `<div class="footer-line">%s</div>`, html.EscapeString(line)); err != nil {
			return err
		}
	}
	return nil
}

func renderPayment(w io.Writer, p *services.PaymentSection) error {
	if _, err := io.WriteString(w, `<h2>Payment</h2>`); err != nil {
		return err
	}
	if p.Instructions != "" {
		if _, err := fmt.Fprintf(w, `<div class="payment-instructions">%s</div>`, html.EscapeString(p.Instructions)); err != nil {
			return err
		}
	}
	if p.Amount != "" {
		if _, err := fmt.Fprintf(w, `<div class="payment-amount">Amount due: %s</div>`, html.EscapeString(p.Amount)); err != nil {
			return err
		}
	}
	if p.BankDetails != "" {
		if _, err := fmt.Fprintf(w, `<div class="payment-bank">%s</div>`, html.EscapeString(p.BankDetails)); err != nil {
			return err
		}
	}
	return nil
}

func renderInstallation(w io.Writer, i *services.InstallationSection) error {
	if _, err := io.WriteString(w, `<h2>Installation</h2>`); err != nil {
		return err
	}
	if i.Notes != "" {
		if _, err := fmt.Fprintf(w, `<div class="installation-notes">%s</div>`, html.EscapeString(i.Notes)); err != nil {
			return err
		}
	}
	if len(i.Rooms) > 0 {
		if _, err := io.WriteString(w, `<ul class="installation-rooms">`); err != nil {
			return err
		}
		for _, room := range i.Rooms {
			if _, err := fmt.Fprintf(w, `<li>%s</li>`, html.EscapeString(room)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul>`); err != nil {
			return err
		}
	}
	return nil
}

// renderDiagnostic shows the full unknown-block notice in edit mode; print
// and read-only views carry a neutral placeholder so the reader knows a
// section exists that could not be rendered.
func renderDiagnostic(w io.Writer, d *services.DiagnosticSection, data DocumentViewData) error {
	if !data.Interactive {
		_, err := io.WriteString(w, `<div class="block-unavailable">Section unavailable</div>`)
		return err
	}
	_, err := fmt.Fprintf(w, `<div class="block-diagnostic">%s</div>`, html.EscapeString(d.Message))
	return err
}
