package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/matheus3301/portal/internal/app"
	"github.com/matheus3301/portal/internal/auth"
	"github.com/matheus3301/portal/internal/config"
	"github.com/matheus3301/portal/internal/prefs"
	"github.com/matheus3301/portal/internal/search"
	"github.com/matheus3301/portal/internal/session"
	"github.com/matheus3301/portal/internal/store"
	"golang.org/x/term"
)

// readPassword reads a line without echo. Tests replace it.
var readPassword = func() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	return string(b), err
}

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	sessionName := session.Resolve(*sessionFlag)
	if err := session.ValidateName(sessionName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	if args[0] == "config" {
		if len(args) < 2 || args[1] != "init" {
			fmt.Fprintln(os.Stderr, "usage: portalctl config init")
			os.Exit(1)
		}
		if err := cmdConfigInit(session.ConfigPath()); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	svc, stop, err := app.Open(ctx, app.Params{Profile: sessionName, Owner: "portalctl", Console: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot open profile %q: %v\n", sessionName, err)
		os.Exit(1)
	}

	c := &cli{svc: svc, profile: sessionName, json: *jsonFlag, out: os.Stdout}
	err = c.run(ctx, args)
	if stopErr := stop(context.Background()); stopErr != nil && err == nil {
		err = stopErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: portalctl [--session <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login [username]       Sign in (password read from the terminal)")
	fmt.Fprintln(os.Stderr, "  logout                 Sign out")
	fmt.Fprintln(os.Stderr, "  status                 Show login state")
	fmt.Fprintln(os.Stderr, "  search <text>          Run a universal search")
	fmt.Fprintln(os.Stderr, "  prefs list             List preferences")
	fmt.Fprintln(os.Stderr, "  prefs get <key>        Show one preference")
	fmt.Fprintln(os.Stderr, "  prefs set <key> <val>  Change a preference")
	fmt.Fprintln(os.Stderr, "  passcode set|clear     Manage the local passcode")
	fmt.Fprintln(os.Stderr, "  events [--pending]     List recorded analytics events")
	fmt.Fprintln(os.Stderr, "  config init            Write the default config file")
}

func cmdConfigInit(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

type cli struct {
	svc     app.Services
	profile string
	json    bool
	out     io.Writer
}

var errUsage = errors.New("invalid arguments, see portalctl without arguments")

func (c *cli) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "login":
		return c.login(ctx, args[1:])
	case "logout":
		return c.logout(ctx)
	case "status":
		return c.status(ctx)
	case "search":
		if len(args) < 2 {
			return errUsage
		}
		return c.search(ctx, strings.Join(args[1:], " "))
	case "prefs":
		return c.prefs(args[1:])
	case "passcode":
		if len(args) != 2 {
			return errUsage
		}
		return c.passcode(args[1])
	case "events":
		pending := len(args) > 1 && args[1] == "--pending"
		return c.events(ctx, pending)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (c *cli) login(ctx context.Context, args []string) error {
	username := c.svc.Prefs.String(prefs.Username)
	if len(args) > 0 {
		username = args[0]
	}
	if username == "" {
		return errors.New("username required")
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	password, err := readPassword()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	res, err := c.svc.Auth.Login(ctx, username, password)
	if err != nil {
		var ae *auth.Error
		if errors.As(err, &ae) {
			return fmt.Errorf("%s (%s)", ae.Error(), ae.Kind)
		}
		return err
	}
	if err := c.svc.Prefs.SetString(prefs.Username, username); err != nil {
		return err
	}
	if err := c.svc.Prefs.SetBool(prefs.HasSignedIntoMychart, true); err != nil {
		return err
	}

	if c.json {
		return c.outputJSON(map[string]any{"username": username, "deep_link": res.DeepLink})
	}
	fmt.Fprintf(c.out, "Signed in as %s\n", username)
	if res.DeepLink != nil && res.DeepLink.Target != "" {
		fmt.Fprintf(c.out, "Continue to: %s\n", res.DeepLink.Target)
	}
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if err := c.svc.Auth.Logout(ctx); err != nil {
		return err
	}
	if err := c.svc.Prefs.SetBool(prefs.LoggedIn, false); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Signed out")
	return nil
}

type statusOutput struct {
	Profile      string    `json:"profile"`
	Status       string    `json:"status"`
	Username     string    `json:"username"`
	Expires      time.Time `json:"expires,omitzero"`
	SharedDevice bool      `json:"shared_device"`
	Passcode     bool      `json:"passcode"`
	Language     string    `json:"language"`
	Pending      int       `json:"pending_events"`
}

func (c *cli) status(ctx context.Context) error {
	pending, err := c.svc.DB.PendingEvents(ctx, 1000)
	if err != nil {
		return err
	}
	out := statusOutput{
		Profile:      c.profile,
		Status:       c.svc.Auth.Status().String(),
		Username:     c.svc.Prefs.String(prefs.Username),
		Expires:      auth.TokenExpiry(c.svc.Prefs.String(prefs.SessionToken)),
		SharedDevice: c.svc.Prefs.Bool(prefs.SharedDevice),
		Passcode:     c.svc.Auth.IsPasscodeEnabled(),
		Language:     string(c.svc.Language),
		Pending:      len(pending),
	}
	if c.json {
		return c.outputJSON(out)
	}
	fmt.Fprintf(c.out, "Profile:  %s\n", out.Profile)
	fmt.Fprintf(c.out, "Status:   %s\n", out.Status)
	fmt.Fprintf(c.out, "User:     %s\n", out.Username)
	if !out.Expires.IsZero() {
		fmt.Fprintf(c.out, "Expires:  %s\n", out.Expires.Local().Format(time.RFC1123))
	}
	fmt.Fprintf(c.out, "Shared:   %v\n", out.SharedDevice)
	fmt.Fprintf(c.out, "Passcode: %v\n", out.Passcode)
	fmt.Fprintf(c.out, "Language: %s\n", out.Language)
	fmt.Fprintf(c.out, "Pending:  %d events\n", out.Pending)
	return nil
}

func (c *cli) search(ctx context.Context, text string) error {
	results, err := c.svc.Search.Search(ctx, search.Query{
		Text:       text,
		Language:   string(c.svc.Language),
		OpenSearch: c.svc.Prefs.Bool(prefs.OpenSearch),
	})
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(results)
	}
	if len(results) == 0 {
		fmt.Fprintln(c.out, "No results found.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(c.out, "%-32s %-28s %s\n", r.Title, r.Subtitle(), r.EntityType)
	}
	return nil
}

func (c *cli) prefs(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		all, err := c.svc.Prefs.All()
		if err != nil {
			return err
		}
		for i := range all {
			all[i].Value = displayValue(all[i].Key, all[i].Value)
		}
		if c.json {
			return c.outputJSON(all)
		}
		for _, p := range all {
			fmt.Fprintf(c.out, "%-22s %s\n", p.Key, p.Value)
		}
	case "get":
		if len(args) != 2 {
			return errUsage
		}
		v, ok, err := c.svc.Prefs.Lookup(args[1])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: %w", args[1], store.ErrNotFound)
		}
		fmt.Fprintln(c.out, displayValue(args[1], v))
	case "set":
		if len(args) != 3 {
			return errUsage
		}
		if prefs.Secret(args[1]) {
			return fmt.Errorf("%s cannot be set by hand", args[1])
		}
		return c.svc.Prefs.SetString(args[1], args[2])
	default:
		return errUsage
	}
	return nil
}

// displayValue masks credentials.
func displayValue(key, value string) string {
	if prefs.Secret(key) && value != "" {
		return "********"
	}
	return value
}

func (c *cli) passcode(sub string) error {
	switch sub {
	case "set":
		fmt.Fprint(os.Stderr, "New passcode (4-8 digits): ")
		code, err := readPassword()
		if err != nil {
			return fmt.Errorf("read passcode: %w", err)
		}
		if err := c.svc.Auth.SetPasscode(code); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Passcode set")
	case "clear":
		if err := c.svc.Auth.ClearPasscode(); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Passcode cleared")
	default:
		return errUsage
	}
	return nil
}

func (c *cli) events(ctx context.Context, pending bool) error {
	var (
		events []store.Event
		err    error
	)
	if pending {
		events, err = c.svc.DB.PendingEvents(ctx, 100)
	} else {
		events, err = c.svc.DB.ListEvents(ctx, 100)
	}
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(events)
	}
	if len(events) == 0 {
		fmt.Fprintln(c.out, "No events.")
		return nil
	}
	for _, e := range events {
		state := "pending"
		if e.FlushedAt != 0 {
			state = "sent"
		}
		ts := time.UnixMilli(e.CreatedAt).Local().Format("2006-01-02 15:04:05")
		fmt.Fprintf(c.out, "%s  %-14s %-7s %s\n", ts, e.Type, state, e.Properties)
	}
	return nil
}

func (c *cli) outputJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}
