package services

import (
	"log"
)

// RenderMode selects the assembly target. Interactive output keeps edit
// affordances and excluded items visible; print output is final-form.
type RenderMode int

const (
	ModeInteractive RenderMode = iota
	ModePrint
)

// RenderContext is the full input to one assembly pass: the data snapshot,
// the overlay state, the context-level display defaults and the clock.
type RenderContext struct {
	Data     ProjectData
	Mode     RenderMode
	Defaults DisplaySettings
	Overlay  OverlaySnapshot
	Now      TokenContext
}

// Document is an assembled, ordered sequence of render-ready sections plus
// the page setup drawn from the reserved document-settings block.
type Document struct {
	Page     PageSetup
	Sections []Section
}

// Section is a tagged union: exactly one payload pointer is non-nil,
// matching the block that produced it. BlockID ties each section back to
// its source block for interactive editing.
type Section struct {
	BlockID string
	Type    string

	Header       *HeaderSection
	ClientInfo   *ClientInfoSection
	LineItems    *LineItemsSection
	Totals       *TotalsSection
	Text         *TextSection
	Signature    *SignatureSection
	Footer       *FooterSection
	Payment      *PaymentSection
	Installation *InstallationSection
	Diagnostic   *DiagnosticSection
}

type HeaderSection struct {
	Title       string
	LogoURL     string
	QuoteNumber string
	Date        string
	CompanyName string
	CompanyInfo string
}

type ClientInfoSection struct {
	Title   string
	Name    string
	Company string
	Email   string
	Phone   string
	Address string
}

// ItemRow is one display row of the line-items table with its resolved
// breakdown and overlay state.
type ItemRow struct {
	ID        string
	Name      string
	Room      string
	Quantity  float64
	UnitPrice string
	Total     string
	ImageURL  string
	Excluded  bool
	Breakdown []BreakdownEntry
}

type ItemRoomGroup struct {
	Room     string
	Rows     []ItemRow
	Subtotal string
}

type ServiceRow struct {
	ID       string
	Name     string
	Amount   string
	Excluded bool
}

type LineItemsSection struct {
	Settings         DisplaySettings
	Theme            string
	Rooms            []ItemRoomGroup
	Services         []ServiceRow
	ServicesSubtotal string
}

type TotalRow struct {
	Label  string
	Amount string
}

type TotalsSection struct {
	Theme string
	Rows  []TotalRow
	Total TotalRow
}

type TextSection struct {
	Title string
	Body  string
}

type SignatureSection struct {
	Label           string
	ShowDate        bool
	ShowPrintedName bool
}

type FooterSection struct {
	Text         string
	BankDetails  string
	Registration string
}

type PaymentSection struct {
	Instructions string
	BankDetails  string
	Amount       string
}

type InstallationSection struct {
	Notes string
	Rooms []string
}

// DiagnosticSection replaces a block whose type is not recognized, so a
// corrupted template still renders everything around it.
type DiagnosticSection struct {
	BlockType string
	Message   string
}

// Assemble walks the template blocks in order and builds one section per
// renderable block. The document-settings block contributes page setup only.
// Assembly is deterministic for a fixed context: same blocks, same snapshot,
// same overlay, same output.
func Assemble(blocks []Block, ctx RenderContext) Document {
	doc := Document{Page: PageSetup{Size: "A4", Orientation: "portrait",
		Margins: PageMargins{Top: 10, Right: 10, Bottom: 10, Left: 10}}}

	for _, block := range blocks {
		if block.Type == BlockDocumentSettings {
			doc.Page = decodePageSetup(block.Content)
			continue
		}
		doc.Sections = append(doc.Sections, buildSection(block, ctx))
	}
	return doc
}

func buildSection(block Block, ctx RenderContext) Section {
	s := Section{BlockID: block.ID, Type: block.Type}

	switch block.Type {
	case BlockHeader:
		s.Header = buildHeader(decodeHeaderContent(block.Content), ctx)
	case BlockClientInfo:
		s.ClientInfo = buildClientInfo(decodeClientInfoContent(block.Content), ctx)
	case BlockLineItems:
		s.LineItems = buildLineItems(decodeLineItemsContent(block.Content), ctx)
	case BlockTotals:
		s.Totals = buildTotals(decodeTotalsContent(block.Content), ctx)
	case BlockTerms:
		s.Text = &TextSection{
			Title: orDefault(contentString(block.Content, "title"), "Terms & Conditions"),
			Body:  SubstituteTokens(overlayBody(block, ctx, contentString(block.Content, "body")), ctx.Now),
		}
	case BlockText:
		c := decodeTextContent(block.Content)
		s.Text = &TextSection{
			Title: SubstituteTokens(c.Title, ctx.Now),
			Body:  SubstituteTokens(overlayBody(block, ctx, c.Body), ctx.Now),
		}
	case BlockSignature:
		c := decodeSignatureContent(block.Content)
		s.Signature = &SignatureSection{
			Label:           orDefault(c.Label, "Accepted and agreed"),
			ShowDate:        c.ShowDate,
			ShowPrintedName: c.ShowPrintedName,
		}
	case BlockFooter:
		s.Footer = buildFooter(decodeFooterContent(block.Content), ctx)
	case BlockPaymentDetails:
		s.Payment = buildPayment(decodePaymentContent(block.Content), ctx)
	case BlockInstallationDetails:
		s.Installation = buildInstallation(decodeInstallationContent(block.Content), ctx)
	default:
		log.Printf("assemble: unknown block type %q (block %s)", block.Type, block.ID)
		s.Diagnostic = &DiagnosticSection{
			BlockType: block.Type,
			Message:   "Unsupported block type: " + block.Type,
		}
	}
	return s
}

func buildHeader(c HeaderContent, ctx RenderContext) *HeaderSection {
	h := &HeaderSection{
		Title:       SubstituteTokens(orDefault(c.Title, "Quote"), ctx.Now),
		LogoURL:     c.LogoURL,
		CompanyName: ctx.Data.Business.CompanyName,
		CompanyInfo: ResolveToken("company_contact", ctx.Now),
	}
	if c.ShowQuoteNumber {
		h.QuoteNumber = ctx.Data.Project.QuoteNumber
	}
	if c.ShowDate {
		h.Date = ResolveToken("date", ctx.Now)
	}
	return h
}

func buildClientInfo(c ClientInfoContent, ctx RenderContext) *ClientInfoSection {
	client := ctx.Data.Client
	s := &ClientInfoSection{
		Title: orDefault(c.Title, "Prepared for"),
		Name:  client.Name,
	}
	if c.ShowCompany {
		s.Company = client.Company
	}
	if c.ShowEmail {
		s.Email = client.Email
	}
	if c.ShowPhone {
		s.Phone = client.Phone
	}
	if c.ShowAddress {
		s.Address = client.Address
	}
	return s
}

func buildLineItems(c LineItemsContent, ctx RenderContext) *LineItemsSection {
	settings := c.Override.Apply(ctx.Defaults)

	part := PartitionItems(ctx.Data.Items, PartitionOptions{
		GroupByRoom: settings.GroupByRoom,
		EditMode:    ctx.Mode == ModeInteractive,
		Excluded:    ctx.Overlay.Excluded,
	})

	section := &LineItemsSection{
		Settings: settings,
		Theme:    orDefault(c.Theme, ThemeClassic),
	}

	currency := documentCurrency(ctx.Data)
	locale := ctx.Data.Business.Locale

	for _, group := range part.Rooms {
		rg := ItemRoomGroup{
			Room:     group.Room,
			Subtotal: FormatCurrency(group.Subtotal, currency, locale),
		}
		for _, pi := range group.Items {
			rg.Rows = append(rg.Rows, buildItemRow(pi, settings, ctx))
		}
		section.Rooms = append(section.Rooms, rg)
	}

	for _, pi := range part.Services {
		section.Services = append(section.Services, ServiceRow{
			ID:       pi.Item.ID,
			Name:     pi.Item.Name,
			Amount:   FormatCurrency(itemAmount(pi.Item), currency, locale),
			Excluded: pi.Excluded,
		})
	}
	if len(part.Services) > 0 {
		section.ServicesSubtotal = FormatCurrency(part.ServicesSubtotal, currency, locale)
	}

	return section
}

func buildItemRow(pi PartitionedItem, settings DisplaySettings, ctx RenderContext) ItemRow {
	item := pi.Item
	currency := documentCurrency(ctx.Data)
	locale := ctx.Data.Business.Locale

	row := ItemRow{
		ID:       item.ID,
		Name:     item.Name,
		Room:     item.RoomName,
		Quantity: item.Quantity,
		Total:    FormatCurrency(itemAmount(item), currency, locale),
		Excluded: pi.Excluded,
	}
	if item.UnitPrice != 0 {
		row.UnitPrice = FormatCurrency(item.UnitPrice, currency, locale)
	}
	if settings.ShowImages {
		row.ImageURL = resolveItemImage(item, ctx.Overlay)
	}
	if settings.ShowDetailedBreakdown && settings.Layout != LayoutSimple {
		row.Breakdown = GroupComponents(item.Children)
	}
	return row
}

// overlayBody returns the user's edited text for a block when the overlay
// carries one, otherwise the template's own body. Edits substitute tokens
// the same way template text does.
func overlayBody(block Block, ctx RenderContext, body string) string {
	if edited, ok := ctx.Overlay.Texts[block.ID]; ok {
		return edited
	}
	return body
}

// resolveItemImage applies the overlay image override; an explicit empty
// override clears the image entirely.
func resolveItemImage(item LineItem, overlay OverlaySnapshot) string {
	if url, ok := overlay.Images[item.ID]; ok {
		return url
	}
	if item.ImageURLOverride != "" {
		return item.ImageURLOverride
	}
	return item.ImageURL
}

func buildTotals(c TotalsContent, ctx RenderContext) *TotalsSection {
	d := ctx.Data
	currency := documentCurrency(d)
	locale := d.Business.Locale

	section := &TotalsSection{Theme: orDefault(c.Theme, ThemeClassic)}
	section.Rows = append(section.Rows, TotalRow{
		Label:  "Subtotal",
		Amount: FormatCurrency(d.Subtotal, currency, locale),
	})
	if c.ShowDiscount && d.Discount != 0 {
		section.Rows = append(section.Rows, TotalRow{
			Label:  "Discount",
			Amount: "-" + FormatCurrency(d.Discount, currency, locale),
		})
	}
	if c.ShowTaxRow && d.TaxAmount != 0 {
		label := "Tax"
		if d.Business.TaxType != "" {
			label = d.Business.TaxType
		}
		if d.TaxRate != 0 {
			label += " (" + ResolveToken("tax_rate", ctx.Now) + ")"
		}
		section.Rows = append(section.Rows, TotalRow{
			Label:  label,
			Amount: FormatCurrency(d.TaxAmount, currency, locale),
		})
	}
	section.Total = TotalRow{
		Label:  "Total",
		Amount: FormatCurrency(d.Total, currency, locale),
	}
	if c.ShowPaymentDue && d.Payment.Amount != 0 {
		label := "Deposit due"
		if d.Payment.Type == "full" {
			label = "Payment due"
		}
		section.Rows = append(section.Rows, TotalRow{
			Label:  label,
			Amount: FormatCurrency(d.Payment.Amount, currency, locale),
		})
	}
	return section
}

func buildFooter(c FooterContent, ctx RenderContext) *FooterSection {
	s := &FooterSection{Text: SubstituteTokens(c.Text, ctx.Now)}
	if c.ShowBankDetails {
		s.BankDetails = BankDetails(ctx.Data.Business)
	}
	if c.ShowRegistration {
		s.Registration = CompanyRegistration(ctx.Data.Business)
	}
	return s
}

func buildPayment(c PaymentContent, ctx RenderContext) *PaymentSection {
	s := &PaymentSection{
		Instructions: SubstituteTokens(c.Instructions, ctx.Now),
	}
	if c.ShowBankDetails {
		s.BankDetails = BankDetails(ctx.Data.Business)
	}
	if ctx.Data.Payment.Amount != 0 {
		s.Amount = formatMoney(ctx.Data.Payment.Amount, ctx.Data)
	}
	return s
}

func buildInstallation(c InstallationContent, ctx RenderContext) *InstallationSection {
	s := &InstallationSection{Notes: SubstituteTokens(c.Notes, ctx.Now)}
	if c.ShowRooms {
		seen := map[string]bool{}
		for _, item := range ctx.Data.Items {
			room := item.RoomName
			if room == "" || seen[room] {
				continue
			}
			seen[room] = true
			s.Rooms = append(s.Rooms, room)
		}
	}
	return s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
