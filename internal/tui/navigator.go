package tui

import (
	"context"

	"github.com/matheus3301/portal/internal/amenity"
	"github.com/matheus3301/portal/internal/auth"
	"github.com/matheus3301/portal/internal/login"
	"github.com/matheus3301/portal/internal/mapping"
	"github.com/matheus3301/portal/internal/search"
	"github.com/matheus3301/portal/internal/tui/views"
	"go.uber.org/zap"
)

// loginNav leaves the login page.
type loginNav struct{ a *App }

var _ login.Navigator = loginNav{}

func (n loginNav) ShowHome(link *auth.DeepLink) {
	n.a.home.SetDeepLink(link)
	n.a.pages.Reset(n.a.home)
	n.a.refreshHeader()
	n.a.flash.Info("Signed in")
}

func (n loginNav) ShowPasswordReset(url string) { n.a.showLink("Reset your password", url) }

func (n loginNav) OpenURL(url string) { n.a.showLink("MyChart", url) }

func (n loginNav) Dial(phone string) { n.a.open("tel:" + phone) }

func (n loginNav) Email(address string) { n.a.open("mailto:" + address) }

// searchNav opens search results.
type searchNav struct{ a *App }

var _ search.Navigator = searchNav{}

func (n searchNav) ShowAmenity(a *amenity.Amenity) {
	n.a.amenityV.Show(a)
	n.a.pages.Push(n.a.amenityV)
}

func (n searchNav) ShowNearby(a *amenity.Amenity) {
	n.a.mapV.ShowNearby(a)
	n.a.pages.Push(n.a.mapV)
}

func (n searchNav) ShowAmenityTable(a *amenity.Amenity) {
	n.a.amenityT.Show(a)
	n.a.pages.Push(n.a.amenityT)
}

func (n searchNav) ShowPlacemarks(key mapping.MapKey, placemarks []mapping.Placemark) {
	n.a.mapV.ShowPlacemarks(key, placemarks)
	n.a.pages.Push(n.a.mapV)
	if n.a.mapV.SheetVisible() {
		n.a.setFocus(n.a.mapV.Sheet())
	}
}

func (n searchNav) Dial(url string) { n.a.open(url) }

func (n searchNav) OpenLink(title, url string) { n.a.showLink(title, url) }

func (n searchNav) ShowUrgentCare() { n.a.pages.Push(n.a.urgentV) }

func (n searchNav) ShowLocations() { n.a.showLocations() }

// Pick shows the location chooser as a modal.
func (a *App) Pick(title string, choices []string, cancel string, chosen func(i int)) {
	back := a.app.GetFocus()
	m := views.NewPicker(a.theme, title, choices, cancel, func(i int) {
		a.pages.HideModal()
		a.setFocus(back)
		chosen(i)
	})
	a.pages.ShowModal("picker", m, 50, 9+len(choices))
	a.setFocus(m)
}

// notifier asks for notification permission. A terminal has no system
// prompt, so the request is acknowledged in the flash bar.
type notifier struct{ a *App }

func (n notifier) RequestPermission(context.Context) (bool, error) {
	n.a.flash.Info("Notifications are on for this profile")
	return true, nil
}

func (a *App) open(target string) {
	if err := a.d.Opener.Open(a.ctx, target); err != nil {
		a.log.Warn("open link", zap.String("target", target), zap.Error(err))
		a.flash.Errf("Could not open %s", target)
		return
	}
	a.flash.Info("Opened " + target)
}

func (a *App) showLink(title, url string) {
	a.linkV.Show(title, url)
	a.pages.Push(a.linkV)
}
