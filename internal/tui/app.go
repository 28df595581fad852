package tui

import (
	"context"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/portal/internal/amenity"
	"github.com/matheus3301/portal/internal/analytics"
	"github.com/matheus3301/portal/internal/auth"
	"github.com/matheus3301/portal/internal/bus"
	"github.com/matheus3301/portal/internal/config"
	"github.com/matheus3301/portal/internal/login"
	"github.com/matheus3301/portal/internal/mapping"
	"github.com/matheus3301/portal/internal/netx"
	"github.com/matheus3301/portal/internal/opener"
	"github.com/matheus3301/portal/internal/prefs"
	"github.com/matheus3301/portal/internal/sched"
	"github.com/matheus3301/portal/internal/search"
	"github.com/matheus3301/portal/internal/tui/keys"
	"github.com/matheus3301/portal/internal/tui/ui"
	"github.com/matheus3301/portal/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const promptHeight = 3

// Maps is the map service as seen by the app: search lookups plus the
// facility list for the locations page.
type Maps interface {
	search.Maps
	Facilities(ctx context.Context) ([]mapping.Facility, error)
}

// Deps are the services the app drives. Thumbnails, Bus and Logger may be
// nil.
type Deps struct {
	Profile    string
	Config     *config.Config
	Prefs      *prefs.Service
	Provider   auth.Provider
	Recorder   analytics.Recorder
	Reach      netx.Reachability
	Searcher   search.Searcher
	Thumbnails search.Thumbnails
	Amenities  search.Amenities
	Maps       Maps
	Opener     opener.Opener
	Bus        *bus.Bus
	Logger     *zap.Logger
	// Language is the search query language.
	Language string
}

// App is the main TUI application shell.
type App struct {
	d     Deps
	app   *tview.Application
	theme *ui.Theme
	log   *zap.Logger
	sched sched.Scheduler

	root        *tview.Flex
	pages       *ui.Pages
	registry    *keys.Registry
	crumbs      *ui.Crumbs
	profileInfo *ui.ProfileInfo
	menu        *ui.Menu
	prompt      *ui.Prompt
	flash       *ui.FlashModel
	flashBar    *ui.FlashBar
	promptOpen  bool

	loginV     *views.LoginView
	home       *views.HomeView
	searchV    *views.SearchView
	amenityV   *views.AmenityView
	amenityT   *views.AmenityTable
	mapV       *views.MapView
	linkV      *views.LinkView
	urgentV    *views.UrgentCareView
	locationsV *views.LocationsView
	helpV      *views.HelpView

	loginFlow  *login.Flow
	searchFlow *search.Flow

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(d Deps) *App {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Config == nil {
		d.Config = config.Default()
	}
	if d.Opener == nil {
		d.Opener = opener.NewSystem(d.Logger)
	}
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		d:           d,
		app:         tview.NewApplication(),
		theme:       theme,
		log:         d.Logger.Named("tui"),
		pages:       ui.NewPages(),
		registry:    keys.NewRegistry(),
		crumbs:      ui.NewCrumbs(theme, d.Profile),
		profileInfo: ui.NewProfileInfo(theme),
		menu:        ui.NewMenu(theme),
		prompt:      ui.NewPrompt(theme),
		flash:       ui.NewFlashModel(),
		flashBar:    ui.NewFlashBar(theme),
		ctx:         ctx,
		cancel:      cancel,
	}
	a.sched = sched.NewAsync(func(fn func()) { a.app.QueueUpdateDraw(fn) })

	a.setupViews()
	a.setupFlows()
	a.setupBindings()
	a.setupLayout()
	return a
}

func (a *App) setupViews() {
	focus := views.Focuser(a.setFocus)
	cfg := a.d.Config

	a.loginV = views.NewLoginView(a.theme, a.pages, focus)
	a.home = views.NewHomeView(a.theme, views.HomeActions{
		Search:     func() { a.openSearch("") },
		Locations:  a.showLocations,
		UrgentCare: func() { a.pages.Push(a.urgentV) },
		Help:       func() { a.pages.Push(a.helpV) },
		SignOut:    a.signOut,
	})
	a.searchV = views.NewSearchView(a.theme, focus)
	a.amenityV = views.NewAmenityView(a.theme)
	a.amenityT = views.NewAmenityTable(a.theme)
	a.mapV = views.NewMapView(a.theme)
	a.linkV = views.NewLinkView(a.theme)
	a.urgentV = views.NewUrgentCareView(a.theme, cfg.Help.Phone)
	a.locationsV = views.NewLocationsView(a.theme)
	a.helpV = views.NewHelpView(a.theme)

	a.amenityT.SetOnSelect(func(am *amenity.Amenity) { searchNav{a}.ShowAmenity(am) })
	a.linkV.SetOnOpen(a.open)
	a.locationsV.SetHandlers(a.loadFacilities, func(f mapping.Facility) {
		a.mapV.ShowFacility(f)
		a.pages.Push(a.mapV)
	})
}

func (a *App) setupFlows() {
	cfg := a.d.Config
	a.loginFlow = login.New(login.Deps{
		View:      a.loginV,
		Navigator: loginNav{a},
		Provider:  a.d.Provider,
		Prefs:     a.d.Prefs,
		Recorder:  a.d.Recorder,
		Reach:     a.d.Reach,
		Notifier:  notifier{a},
		Scheduler: a.sched,
		Bus:       a.d.Bus,
		Logger:    a.d.Logger,
		Help:      cfg.Help,
		Banner:    cfg.Banner,
	})
	a.loginV.SetHandlers(views.LoginHandlers{
		Appear:         a.loginFlow.Appear,
		Submit:         func() { a.loginFlow.Submit() },
		AltLogin:       a.loginFlow.AltLogin,
		PasscodeSubmit: func(code string) { a.loginFlow.SubmitPasscode(code) },
		PasscodeCancel: a.loginFlow.PasscodeCanceled,
	})
	a.loginV.SetAnnouncement(a.loginFlow.BannerText())
	a.loginFlow.Loaded()
}

// openSearch starts a fresh search page, optionally with text already typed.
func (a *App) openSearch(text string) {
	a.searchV.Reset()
	a.searchFlow = search.New(search.Deps{
		View:       a.searchV,
		Navigator:  searchNav{a},
		Picker:     a,
		Searcher:   a.d.Searcher,
		Thumbnails: a.d.Thumbnails,
		Amenities:  a.d.Amenities,
		Maps:       a.d.Maps,
		Prefs:      a.d.Prefs,
		Recorder:   a.d.Recorder,
		Scheduler:  a.sched,
		Logger:     a.d.Logger,
		Language:   a.d.Language,
	})
	f := a.searchFlow
	a.searchV.SetHandlers(views.SearchHandlers{
		Changed: f.TextChanged,
		Cancel:  f.Cancel,
		Clear:   f.Clear,
		Select:  f.Select,
		Close: func() {
			if a.pages.Current() == a.searchV.Name() {
				a.pages.Pop()
			}
		},
	})
	f.Loaded()
	a.pages.Push(a.searchV)
	if text != "" {
		a.searchV.Input().SetText(text)
	}
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("command", &keys.Action{
		Key: tcell.KeyRune, Rune: ':',
		Label: ":", Description: "Command", Visible: true,
		Handler: a.showPrompt,
	})
	a.registry.AddGlobal("help", &keys.Action{
		Key: tcell.KeyRune, Rune: '?',
		Label: "?", Description: "Help", Visible: true,
		Handler: func() { a.pages.Push(a.helpV) },
	})
	a.registry.AddGlobal("quit", &keys.Action{
		Key: tcell.KeyRune, Rune: 'q',
		Label: "q", Description: "Quit", Visible: true,
		Handler: a.Stop,
	})

	loginName := a.loginV.Name()
	for _, b := range []struct {
		name, desc string
		key        tcell.Key
		fn         func()
	}{
		{"alt", "Passcode/biometrics", tcell.KeyCtrlA, a.loginFlow.AltLogin},
		{"signup", "Sign up", tcell.KeyF2, a.loginFlow.SignUp},
		{"username", "Forgot username", tcell.KeyF3, a.loginFlow.ForgotUsername},
		{"password", "Forgot password", tcell.KeyF4, a.loginFlow.ForgotPassword},
		{"call", "Call help", tcell.KeyF5, a.loginFlow.CallHelp},
		{"email", "Email help", tcell.KeyF6, a.loginFlow.EmailHelp},
		{"faq", "FAQ", tcell.KeyF7, a.loginFlow.FAQ},
		{"banner", "Announcement", tcell.KeyF8, a.loginFlow.BannerTapped},
	} {
		a.registry.AddView(loginName, b.name, &keys.Action{
			Key: b.key, Label: tcell.KeyNames[b.key], Description: b.desc,
			Handler: b.fn,
		})
	}

	a.registry.AddView(a.linkV.Name(), "open", &keys.Action{
		Key: tcell.KeyRune, Rune: 'o', Handler: a.linkV.Open,
	})
	a.registry.AddView(a.amenityV.Name(), "call", &keys.Action{
		Key: tcell.KeyRune, Rune: 'c',
		Handler: func() {
			if am := a.amenityV.Current(); am != nil && am.Phone != "" {
				a.open("tel://" + am.Phone)
			}
		},
	})
	a.registry.AddView(a.amenityV.Name(), "open", &keys.Action{
		Key: tcell.KeyRune, Rune: 'o',
		Handler: func() {
			if am := a.amenityV.Current(); am != nil && am.URL != "" {
				a.showLink(am.Title, am.URL)
			}
		},
	})
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		AddItem(a.crumbs, 0, 1, false).
		AddItem(a.profileInfo, 0, 1, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.flashBar, 1, 0, false).
		AddItem(a.menu, 1, 0, false)
	a.app.SetRoot(a.root, true)

	a.prompt.SetOnSubmit(func(text string) {
		a.hidePrompt()
		a.runCommand(ParseCommand(text))
	})
	a.prompt.SetOnCancel(a.hidePrompt)

	a.pages.SetOnChange(func(stack []string) {
		a.crumbs.Update(stack)
		a.updateMenu()
		if top := a.pages.Top(); top != nil && a.pages.Modal() == "" {
			a.setFocus(top)
		}
	})

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if a.promptOpen || a.pages.Modal() != "" {
			return event
		}
		page := a.pages.Current()

		// Text input widgets keep printable keys.
		_, typing := a.app.GetFocus().(*tview.InputField)
		if typing && event.Key() == tcell.KeyRune {
			return event
		}

		if event.Key() == tcell.KeyEscape && !typing && a.pages.Depth() > 1 {
			a.pages.Pop()
			return nil
		}

		if a.registry.HandleEvent(page, event) {
			a.updateMenu()
			return nil
		}
		return event
	})
}

func (a *App) updateMenu() {
	top := a.pages.Top()
	if top == nil {
		a.menu.Update(a.registry.Hints(""))
		return
	}
	a.menu.Update(append(top.Hints(), a.registry.Hints(top.Name())...))
}

func (a *App) showPrompt() {
	a.promptOpen = true
	a.root.ResizeItem(a.prompt, promptHeight, 0)
	a.setFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.promptOpen = false
	a.root.ResizeItem(a.prompt, 0, 0)
	if top := a.pages.Top(); top != nil {
		a.setFocus(top)
	}
}

// runCommand executes a parsed ":" command.
func (a *App) runCommand(cmd Command) {
	if cmd.Name == "" {
		return
	}
	stack := a.pages.Stack()
	signedIn := len(stack) > 0 && stack[0] == a.home.Name()
	switch cmd.Canonical() {
	case "search":
		if !signedIn {
			a.flash.Warn("Sign in to search")
			return
		}
		a.openSearch(cmd.Args)
	case "locations":
		if !signedIn {
			a.flash.Warn("Sign in to see locations")
			return
		}
		a.showLocations()
	case "urgent":
		a.pages.Push(a.urgentV)
	case "help":
		a.pages.Push(a.helpV)
	case "shared":
		a.setShared(cmd.Args)
	case "logout":
		a.signOut()
	case "quit":
		a.Stop()
	default:
		a.flash.Warn("Unknown command: " + cmd.Name)
	}
}

func (a *App) setShared(arg string) {
	arg = strings.ToLower(arg)
	if arg != "on" && arg != "off" {
		a.flash.Warn("Usage: shared on|off")
		return
	}
	on := arg == "on"
	if err := a.d.Prefs.SetBool(prefs.SharedDevice, on); err != nil {
		a.flash.Errf("Could not save: %v", err)
		return
	}
	if on {
		a.flash.Info("Shared device mode on")
	} else {
		a.flash.Info("Shared device mode off")
	}
	a.refreshHeader()
}

// signOut drops the session and returns to the login page.
func (a *App) signOut() {
	a.loginFlow.Logout()
	a.pages.Reset(a.loginV)
	a.refreshHeader()
}

func (a *App) showLocations() {
	a.pages.Push(a.locationsV)
}

// loadFacilities fills the locations page, preloading the facility list
// when nothing is cached yet.
func (a *App) loadFacilities() {
	a.sched.Go(func() {
		facilities, err := a.d.Maps.Facilities(a.ctx)
		if err == nil && len(facilities) == 0 {
			if err = a.d.Maps.Preload(a.ctx); err == nil {
				facilities, err = a.d.Maps.Facilities(a.ctx)
			}
		}
		a.sched.UI(func() {
			if err != nil {
				a.log.Warn("load facilities", zap.Error(err))
				a.flash.Errf("Could not load locations: %v", err)
				return
			}
			a.locationsV.Update(facilities)
		})
	})
}

func (a *App) setFocus(p tview.Primitive) {
	if p != nil {
		a.app.SetFocus(p)
	}
}

func (a *App) refreshHeader() {
	a.profileInfo.Update(ui.ProfileData{
		Profile:  a.d.Profile,
		User:     a.d.Prefs.String(prefs.Username),
		Status:   a.d.Provider.Status().String(),
		Language: a.d.Language,
		Shared:   a.d.Prefs.Bool(prefs.SharedDevice),
	})
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	a.loginFlow.Start(a.ctx)
	a.refreshHeader()
	a.pages.Reset(a.loginV)
	a.startFlashLoop()
	a.startBusLoop()

	err := a.app.Run()
	a.cancel()
	a.loginFlow.Stop()
	return err
}

func (a *App) startFlashLoop() {
	ch := a.flash.Watch()
	ticker := time.NewTicker(time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ch:
			case <-ticker.C:
			case <-a.ctx.Done():
				return
			}
			a.app.QueueUpdateDraw(func() {
				a.flashBar.Update(a.flash.Current())
			})
		}
	}()
}

// startBusLoop keeps the header in step with login and preference changes.
func (a *App) startBusLoop() {
	if a.d.Bus == nil {
		return
	}
	loginCh, unsubLogin := a.d.Bus.Subscribe("login.", 16)
	prefsCh, unsubPrefs := a.d.Bus.Subscribe("prefs.", 16)
	go func() {
		defer unsubLogin()
		defer unsubPrefs()
		for {
			select {
			case <-loginCh:
			case <-prefsCh:
			case <-a.ctx.Done():
				return
			}
			a.app.QueueUpdateDraw(a.refreshHeader)
		}
	}()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
