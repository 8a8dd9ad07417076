package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"evcharging/frontend/internal/api"
	"evcharging/frontend/internal/session"
)

// ErrUnknownCommand is returned by Run for commands it does not know.
var ErrUnknownCommand = errors.New("unknown command")

// ErrSessionExpired replaces a 401 from the API after the stored session was dropped.
var ErrSessionExpired = errors.New("session expired, please log in again")

// Cli runs one command against the stations API.
type Cli struct {
	io     IO
	client *api.Client
	store  *session.Store
	guard  *session.Guard
}

// New builds Cli.
func New(terminal IO, client *api.Client, store *session.Store) *Cli {
	return &Cli{
		io:     terminal,
		client: client,
		store:  store,
		guard:  session.NewGuard(store),
	}
}

// Run dispatches command with its arguments.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	page := session.Page(command)
	if command == "logout" {
		return c.runLogout()
	}

	handler, ok := c.commands()[page]
	if !ok {
		c.PrintUsage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}

	token, err := c.guard.Allow(page)
	if err != nil {
		return err
	}
	c.client.SetToken(token)

	err = handler(ctx, args)
	if api.IsUnauthorized(err) && !session.Public(page) {
		if clearErr := c.store.Clear(); clearErr != nil {
			return errors.Join(err, clearErr)
		}
		return ErrSessionExpired
	}
	return err
}

func (c *Cli) commands() map[session.Page]func(context.Context, []string) error {
	return map[session.Page]func(context.Context, []string) error{
		session.PageRegister:  c.runRegister,
		session.PageLogin:     c.runLogin,
		session.PageDashboard: c.runDashboard,
		session.PageList:      c.runList,
		session.PageMap:       c.runMap,
		session.PageDetail:    c.runShow,
		session.PageAdd:       c.runAdd,
		session.PageEdit:      c.runEdit,
		session.PageDelete:    c.runDelete,
		session.PageWatch:     c.runWatch,
	}
}

// PrintUsage lists the commands.
func (c *Cli) PrintUsage() {
	c.io.Println("EV charging stations client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  evctl [OPTIONS] COMMAND [ARGS]")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  -server URL      API base URL (default: http://localhost:3001/api)")
	c.io.Println("  -session PATH    Local session file")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  register                     Create an account")
	c.io.Println("  login                        Log in")
	c.io.Println("  logout                       Forget the stored session")
	c.io.Println("  dashboard                    Fleet summary")
	c.io.Println("  list [filters] [-search s]   List stations")
	c.io.Println("  map [-status s]              Station positions and bounds")
	c.io.Println("  show <id>                    Station details")
	c.io.Println("  add                          Add a station")
	c.io.Println("  edit <id>                    Edit a station")
	c.io.Println("  delete [-yes] <id>           Delete a station")
	c.io.Println("  watch                        Follow station changes")
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one station id")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid station id %q", args[0])
	}
	return id, nil
}
