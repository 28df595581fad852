package views

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/rivo/tview"
)

// LinkView stands in for an embedded browser: it shows the URL and a QR code
// so the page can be opened on a phone, and can hand it to the system opener.
type LinkView struct {
	*tview.TextView
	theme  *ui.Theme
	url    string
	onOpen func(url string)
}

// NewLinkView creates a link page.
func NewLinkView(theme *ui.Theme) *LinkView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitleColor(theme.TitleColor)

	return &LinkView{
		TextView: tv,
		theme:    theme,
	}
}

func (lv *LinkView) Name() string { return "Link" }

func (lv *LinkView) Start() {}

func (lv *LinkView) Stop() {}

func (lv *LinkView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "o", Description: "Open in browser"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnOpen sets the handler for the open key.
func (lv *LinkView) SetOnOpen(fn func(url string)) { lv.onOpen = fn }

// Open hands the shown URL to the open handler.
func (lv *LinkView) Open() {
	if lv.onOpen != nil && lv.url != "" {
		lv.onOpen(lv.url)
	}
}

// URL returns the shown link.
func (lv *LinkView) URL() string { return lv.url }

// Show renders title, url and its QR code.
func (lv *LinkView) Show(title, url string) {
	lv.url = url
	lv.Clear()
	lv.SetTitle(" " + tview.Escape(title) + " ")
	_, _ = fmt.Fprintf(lv, "\n[%s]%s[-]\n\n%s\n[::d]Scan to open on your phone, or press o[-:-:-]",
		ui.ColorTag(lv.theme.MenuKeyColor), tview.Escape(url), renderQR(url))
	lv.ScrollToBeginning()
}

// renderQR converts a string to a compact QR code using Unicode half-block
// characters. Two bitmap rows become one terminal line.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "(QR generation failed: " + err.Error() + ")"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := y+1 < rows && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
