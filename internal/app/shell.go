package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/patric-chuzhbe/linkdash/internal/controller"
	"github.com/patric-chuzhbe/linkdash/internal/logger"
	"github.com/patric-chuzhbe/linkdash/internal/models"
	"github.com/patric-chuzhbe/linkdash/internal/routeguard"
	"github.com/patric-chuzhbe/linkdash/internal/router"
	"github.com/patric-chuzhbe/linkdash/internal/session"
)

var errUsage = errors.New("wrong number of arguments")

type command struct {
	usage   string
	summary string
	run     func(a *App, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":    {"help", "list commands", (*App).cmdHelp},
		"goto":    {"goto <path>", "open a view, e.g. /dashboard", (*App).cmdGoto},
		"login":   {"login <email> [password]", "log in", (*App).cmdLogin},
		"signup":  {"signup <name> <email> [password]", "create an account", (*App).cmdSignup},
		"logout":  {"logout", "forget the session", (*App).cmdLogout},
		"whoami":  {"whoami", "show the logged-in account", (*App).cmdWhoami},
		"verify":  {"verify [token]", "verify your email address", (*App).cmdVerify},
		"forgot":  {"forgot <email>", "request a password reset link", (*App).cmdForgot},
		"reset":   {"reset [token] [password]", "set a new password", (*App).cmdReset},
		"links":   {"links", "list your short URLs", (*App).cmdLinks},
		"shorten": {"shorten <url> [alias]", "create a short URL", (*App).cmdShorten},
		"delete":  {"delete <id>", "delete a short URL", (*App).cmdDelete},
		"clear":   {"clear", "dismiss the current error", (*App).cmdClear},
	}
}

// Execute runs one shell line and reports whether the shell should stop.
func (a *App) Execute(ctx context.Context, line string) bool {
	args := splitArgs(line)
	if len(args) == 0 {
		return false
	}

	name := strings.ToLower(args[0])
	if name == "quit" || name == "exit" {
		return true
	}

	cmd, found := commands[name]
	if !found {
		a.console.printf("Unknown command %q. Type `help` for commands.\n", args[0])
		return false
	}

	err := cmd.run(a, ctx, args[1:])
	a.report(cmd, err)

	if current := a.router.Current(); current.Path != a.lastRendered {
		a.render(ctx, current)
	}

	return false
}

func (a *App) report(cmd command, err error) {
	if err == nil {
		return
	}

	var validationErr *models.ValidationError
	var formErr *controller.FormError

	switch {
	case errors.Is(err, errUsage):
		a.console.printf("Usage: %s\n", cmd.usage)
	case errors.As(err, &validationErr):
		a.console.printf("Invalid input: %s\n", validationErr.Error())
	case errors.As(err, &formErr):
		if formErr.Cause == nil {
			a.console.printf("%s\n", formErr.Message)
		}
	default:
		// Already surfaced through a notification.
		logger.Log.Debugln("command failed", "command", cmd.usage, "error", err)
	}
}

func (a *App) navigate(ctx context.Context, target string) router.Location {
	loc := a.router.Navigate(target)
	a.render(ctx, loc)

	return loc
}

// render prints the view the client is on. Entering the dashboard loads
// the links.
func (a *App) render(ctx context.Context, loc router.Location) {
	a.lastRendered = loc.Path
	a.console.printf("\n== %s (%s) ==\n", loc.Route.Title, loc.Path)

	switch {
	case !loc.Found():
		a.console.println("The page you are looking for does not exist. Try `goto /`.")

	case loc.Path == router.PathDashboard:
		a.dashboard.Mount(ctx)
		a.printLinks()

	case loc.Path == router.PathResetPassword && loc.Query.Get("token") == "":
		a.console.println("The password reset link is invalid or has expired. Request a new one with `forgot <email>`.")

	case loc.Path == router.PathHome && !a.store.IsAuthenticated():
		a.console.println("Shorten your long URLs with ease. `signup` or `login` to start.")
	}
}

func (a *App) printLinks() {
	if msg := a.dashboard.Error(); msg != "" {
		a.console.printf("Error: %s\n", msg)
	}

	links := a.dashboard.Links()
	if len(links) == 0 {
		a.console.println("You have not created any short URLs yet. Use `shorten <url>`.")
		return
	}

	w := tabwriter.NewWriter(a.console.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSHORT URL\tORIGINAL URL\tCLICKS\tCREATED")
	for _, link := range links {
		fmt.Fprintf(
			w,
			"%s\t%s\t%s\t%d\t%s\n",
			link.ID,
			a.dashboard.ShortLink(link),
			link.OriginalURL,
			link.Clicks,
			link.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

func (a *App) promptText() string {
	state := a.store.Snapshot()
	who := "guest"
	if state.IsAuthenticated {
		who = state.User.Email
	}

	return fmt.Sprintf("linkdash:%s (%s)> ", a.router.Current().Path, who)
}

func (a *App) cmdHelp(_ context.Context, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(a.console.out, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", commands[name].usage, commands[name].summary)
	}
	fmt.Fprintf(w, "  quit\tleave the shell\n")

	return w.Flush()
}

func (a *App) cmdGoto(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	a.navigate(ctx, args[0])

	return nil
}

// enter moves to the form view at target. It reports false when the guard
// sent the user elsewhere.
func (a *App) enter(ctx context.Context, target string) bool {
	want := routeguard.Clean(target)

	loc := a.router.Current()
	if loc.Path != want || strings.Contains(target, "?") {
		loc = a.navigate(ctx, target)
	}

	return loc.Path == want
}

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}

	if !a.enter(ctx, router.PathLogin) {
		a.console.println("You are already logged in.")
		return nil
	}
	a.controller.ClearError()

	password, err := a.argOrSecret(args, 1, "Password")
	if err != nil {
		return err
	}

	return a.controller.Login(ctx, args[0], password)
}

func (a *App) cmdSignup(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errUsage
	}

	if !a.enter(ctx, router.PathSignup) {
		a.console.println("You are already logged in.")
		return nil
	}
	a.controller.ClearError()

	password, err := a.argOrSecret(args, 2, "Password")
	if err != nil {
		return err
	}

	return a.controller.Signup(ctx, args[0], args[1], password)
}

func (a *App) cmdLogout(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	a.controller.Logout(ctx)

	return nil
}

func (a *App) cmdWhoami(_ context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	state := a.store.Snapshot()
	if !state.IsAuthenticated {
		a.console.println("Not logged in.")
		return nil
	}

	a.console.printf("%s <%s> (id %s)\n", state.User.Name, state.User.Email, state.User.ID)
	if expiry, ok := session.TokenExpiry(state.Token); ok {
		a.console.printf("Session token expires at %s\n", expiry.Local().Format("2006-01-02 15:04:05"))
	}

	return nil
}

func (a *App) cmdVerify(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}

	target := router.PathVerifyEmail
	if len(args) == 1 {
		target += "?token=" + url.QueryEscape(args[0])
	}
	a.enter(ctx, target)

	_, err := a.controller.VerifyEmail(ctx, a.router.Current().Query.Get("token"))

	return err
}

func (a *App) cmdForgot(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	a.enter(ctx, router.PathForgotPassword)

	_, err := a.controller.ForgotPassword(ctx, args[0])

	return err
}

func (a *App) cmdReset(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return errUsage
	}

	target := router.PathResetPassword
	if len(args) >= 1 {
		target += "?token=" + url.QueryEscape(args[0])
	}
	a.enter(ctx, target)

	token := a.router.Current().Query.Get("token")
	if token == "" {
		_, err := a.controller.ResetPassword(ctx, "", "")
		return err
	}

	password, err := a.argOrSecret(args, 1, "New password")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		confirmation, err := a.console.readPassword("Confirm password")
		if err != nil {
			return err
		}
		if confirmation != password {
			a.console.println("Passwords don't match.")
			return nil
		}
	}

	message, err := a.controller.ResetPassword(ctx, token, password)
	if err == nil {
		a.console.println(message)
	}

	return err
}

// openDashboard makes sure the dashboard is the current view, loading it
// when it was not. It reports false when the guard refused.
func (a *App) openDashboard(ctx context.Context) bool {
	if a.router.Current().Path == router.PathDashboard {
		return true
	}

	if a.navigate(ctx, router.PathDashboard).Path != router.PathDashboard {
		a.console.println("Log in to manage your links.")
		return false
	}

	return true
}

func (a *App) cmdLinks(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	if a.router.Current().Path == router.PathDashboard {
		a.render(ctx, a.router.Current())
		return nil
	}

	a.openDashboard(ctx)

	return nil
}

func (a *App) cmdShorten(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}

	if !a.openDashboard(ctx) {
		return nil
	}

	alias := ""
	if len(args) == 2 {
		alias = args[1]
	}

	link, err := a.dashboard.Create(ctx, args[0], alias)
	if err != nil {
		return err
	}

	a.console.printf("Short URL: %s\n", a.dashboard.ShortLink(*link))

	return nil
}

func (a *App) cmdDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	if !a.openDashboard(ctx) {
		return nil
	}

	deleted, err := a.dashboard.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	if deleted {
		a.printLinks()
	}

	return nil
}

func (a *App) cmdClear(_ context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	a.controller.ClearError()
	a.dashboard.ClearError()

	return nil
}

func (a *App) argOrSecret(args []string, index int, label string) (string, error) {
	if len(args) > index {
		return args[index], nil
	}

	return a.console.readPassword(label)
}

// splitArgs splits a shell line on spaces, keeping double-quoted parts
// together.
func splitArgs(line string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case (r == ' ' || r == '\t') && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}

	return args
}
