package services

// Block is one typed, configurable unit of a document template. Content is
// the open configuration map as stored; it is resolved into a typed schema
// once at dispatch time, never read ad hoc during rendering.
type Block struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Content map[string]any `json:"content"`
}

// Block type vocabulary. Unrecognized values render a diagnostic section
// instead of crashing the assembler.
const (
	BlockHeader              = "header"
	BlockClientInfo          = "client-info"
	BlockLineItems           = "line-items"
	BlockTotals              = "totals"
	BlockTerms               = "terms"
	BlockText                = "text"
	BlockSignature           = "signature"
	BlockFooter              = "footer"
	BlockPaymentDetails      = "payment-details"
	BlockInstallationDetails = "installation-details"

	// BlockDocumentSettings is reserved metadata (page geometry,
	// background); it is read for setup and never rendered as content.
	BlockDocumentSettings = "document-settings"
)

// Line-items/totals presentation themes. The theme changes presentation
// structure only, never financial values.
const (
	ThemeClassic = "classic"
	ThemeGallery = "gallery"
)

// Breakdown layout variants.
const (
	LayoutSimple   = "simple"
	LayoutDetailed = "detailed"
)

// DisplaySettings are the effective line-items display settings, resolvable
// globally via the render context or overridden per block.
type DisplaySettings struct {
	ShowDetailedBreakdown bool
	ShowImages            bool
	GroupByRoom           bool
	Layout                string
}

// SettingsOverride is a per-block partial override; nil fields defer to the
// context defaults.
type SettingsOverride struct {
	ShowDetailedBreakdown *bool
	ShowImages            *bool
	GroupByRoom           *bool
	Layout                string
}

// Apply resolves the effective settings as override ?? defaults.
func (o SettingsOverride) Apply(defaults DisplaySettings) DisplaySettings {
	s := defaults
	if o.ShowDetailedBreakdown != nil {
		s.ShowDetailedBreakdown = *o.ShowDetailedBreakdown
	}
	if o.ShowImages != nil {
		s.ShowImages = *o.ShowImages
	}
	if o.GroupByRoom != nil {
		s.GroupByRoom = *o.GroupByRoom
	}
	if o.Layout != "" {
		s.Layout = o.Layout
	}
	return s
}

// Typed content schemas, one per block type.

type HeaderContent struct {
	Title           string
	LogoURL         string
	ShowQuoteNumber bool
	ShowDate        bool
}

type ClientInfoContent struct {
	Title       string
	ShowEmail   bool
	ShowPhone   bool
	ShowCompany bool
	ShowAddress bool
}

type LineItemsContent struct {
	Override SettingsOverride
	Theme    string
}

type TotalsContent struct {
	ShowTaxRow     bool
	ShowDiscount   bool
	ShowPaymentDue bool
	Theme          string
}

type TextContent struct {
	Title string
	Body  string
}

type SignatureContent struct {
	Label           string
	ShowDate        bool
	ShowPrintedName bool
}

type FooterContent struct {
	Text             string
	ShowBankDetails  bool
	ShowRegistration bool
}

type PaymentContent struct {
	Instructions    string
	ShowBankDetails bool
}

type InstallationContent struct {
	Notes     string
	ShowRooms bool
}

// PageMargins are per-edge print margins in millimetres.
type PageMargins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// PageSetup is the print geometry carried by the reserved
// document-settings block.
type PageSetup struct {
	Size        string // "A4", "Letter"
	Orientation string // "portrait", "landscape"
	Margins     PageMargins
	Background  string
}

// Content decoding. Missing keys degrade to the stated defaults; wrong
// types degrade the same way, matching the never-throw policy for
// malformed template content.

func decodeHeaderContent(m map[string]any) HeaderContent {
	return HeaderContent{
		Title:           contentString(m, "title"),
		LogoURL:         contentString(m, "logo_url"),
		ShowQuoteNumber: contentBool(m, "show_quote_number", true),
		ShowDate:        contentBool(m, "show_date", true),
	}
}

func decodeClientInfoContent(m map[string]any) ClientInfoContent {
	return ClientInfoContent{
		Title:       contentString(m, "title"),
		ShowEmail:   contentBool(m, "show_email", true),
		ShowPhone:   contentBool(m, "show_phone", true),
		ShowCompany: contentBool(m, "show_company", true),
		ShowAddress: contentBool(m, "show_address", true),
	}
}

func decodeLineItemsContent(m map[string]any) LineItemsContent {
	return LineItemsContent{
		Override: SettingsOverride{
			ShowDetailedBreakdown: contentBoolPtr(m, "show_detailed_breakdown"),
			ShowImages:            contentBoolPtr(m, "show_images"),
			GroupByRoom:           contentBoolPtr(m, "group_by_room"),
			Layout:                contentString(m, "layout"),
		},
		Theme: contentString(m, "theme"),
	}
}

func decodeTotalsContent(m map[string]any) TotalsContent {
	return TotalsContent{
		ShowTaxRow:     contentBool(m, "show_tax", true),
		ShowDiscount:   contentBool(m, "show_discount", true),
		ShowPaymentDue: contentBool(m, "show_payment_due", true),
		Theme:          contentString(m, "theme"),
	}
}

func decodeTextContent(m map[string]any) TextContent {
	return TextContent{
		Title: contentString(m, "title"),
		Body:  contentString(m, "body"),
	}
}

func decodeSignatureContent(m map[string]any) SignatureContent {
	return SignatureContent{
		Label:           contentString(m, "label"),
		ShowDate:        contentBool(m, "show_date", true),
		ShowPrintedName: contentBool(m, "show_printed_name", true),
	}
}

func decodeFooterContent(m map[string]any) FooterContent {
	return FooterContent{
		Text:             contentString(m, "text"),
		ShowBankDetails:  contentBool(m, "show_bank_details", false),
		ShowRegistration: contentBool(m, "show_registration", true),
	}
}

func decodePaymentContent(m map[string]any) PaymentContent {
	return PaymentContent{
		Instructions:    contentString(m, "instructions"),
		ShowBankDetails: contentBool(m, "show_bank_details", true),
	}
}

func decodeInstallationContent(m map[string]any) InstallationContent {
	return InstallationContent{
		Notes:     contentString(m, "notes"),
		ShowRooms: contentBool(m, "show_rooms", true),
	}
}

func decodePageSetup(m map[string]any) PageSetup {
	setup := PageSetup{
		Size:        contentString(m, "page_size"),
		Orientation: contentString(m, "orientation"),
		Background:  contentString(m, "background"),
		Margins: PageMargins{
			Top:    contentFloat(m, "margin_top", 10),
			Right:  contentFloat(m, "margin_right", 10),
			Bottom: contentFloat(m, "margin_bottom", 10),
			Left:   contentFloat(m, "margin_left", 10),
		},
	}
	if setup.Size == "" {
		setup.Size = "A4"
	}
	if setup.Orientation == "" {
		setup.Orientation = "portrait"
	}
	return setup
}

func contentString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func contentBool(m map[string]any, key string, def bool) bool {
	if m == nil {
		return def
	}
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

func contentBoolPtr(m map[string]any, key string) *bool {
	if m == nil {
		return nil
	}
	if v, ok := m[key].(bool); ok {
		return &v
	}
	return nil
}

func contentFloat(m map[string]any, key string, def float64) float64 {
	if m == nil {
		return def
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}
