package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ministore/internal/checkout"
	"github.com/roach88/ministore/internal/engine"
	"github.com/roach88/ministore/internal/ir"
	"github.com/roach88/ministore/internal/store"
)

// ShellOptions holds flags for the shell command.
type ShellOptions struct {
	*RootOptions
	Catalog     string
	Journal     string
	SubmitDelay time.Duration
	Session     string // fixed session token; empty generates a UUIDv7
}

// ShellReply is the JSON output of one shell command.
type ShellReply struct {
	Action   ir.ActionType   `json:"action,omitempty"`
	Case     string          `json:"case,omitempty"`
	Result   ir.IRObject     `json:"result,omitempty"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

const shellHelp = `Commands:
  search <text>          set the search text (empty clears it)
  category <name>        set the category filter ("All" for every product)
  add <product-id>       add one unit to the cart
  qty <product-id> <n>   set a line quantity (n <= 0 removes the line)
  remove <product-id>    remove a line
  view <name>            show catalog, cart, or checkout
  set <field> <value>    edit a checkout field (name, email, address, city,
                         zip, paymentMethod)
  submit                 place the order
  wait                   wait for a submitted order to complete
  show                   print the current view
  help                   print this help
  quit                   end the session`

// NewShellCommand creates the shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShellOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive storefront session",
		Long: `Start a storefront session that reads one command per line from stdin.

Every command is a user action applied by the single-writer engine. The
session and all its state are discarded on quit or end of input. Actions
and outcomes are journaled to --journal; the default is in memory.

` + shellHelp + `

Examples:
  ministore shell
  ministore shell --journal ./sessions.db --submit-delay 500ms
  printf 'add 1\nview cart\n' | ministore shell --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to a CUE catalog (default: built-in)")
	cmd.Flags().StringVar(&opts.Journal, "journal", ":memory:", "path to the SQLite session journal")
	cmd.Flags().DurationVar(&opts.SubmitDelay, "submit-delay", engine.DefaultSubmitDelay, "simulated order submission latency")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token (default: new UUIDv7)")

	return cmd
}

func runShell(opts *ShellOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := loadSettings(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg, opts.Verbose)

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing journal", "error", closeErr)
		}
	}()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}

	engOpts := []engine.Option{
		engine.WithJournal(st),
		engine.WithSubmitDelay(cfg.SubmitDelay),
		engine.WithLogger(logger),
	}
	if opts.Session != "" {
		engOpts = append(engOpts, engine.WithSessionGenerator(engine.NewFixedGenerator(opts.Session)))
		resume, err := resumeOptions(parentCtx, st, opts.Session)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		if len(resume) > 0 {
			formatter.VerboseLog("resuming session %s from journal", opts.Session)
		}
		engOpts = append(engOpts, resume...)
	}
	eng := engine.New(cat, engOpts...)

	ctx, cancel := context.WithCancel(parentCtx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = eng.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	sh := &shell{engine: eng, out: formatter}
	formatter.VerboseLog("session %s (journal %s)", eng.Session(), cfg.Journal)
	if !formatter.JSON() {
		fmt.Fprintf(formatter.Writer, "Session %s. Type 'help' for commands.\n", eng.Session())
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		quit, err := sh.exec(ctx, scanner.Text())
		if err != nil {
			return WrapExitError(ExitFailure, "session failed", err)
		}
		if quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	if eng.Snapshot().Phase == checkout.Processing {
		logger.Warn("session ended with an order in flight", "session", eng.Session())
	}
	return nil
}

// resumeOptions rebuilds a journaled session so new actions continue its
// state and seq numbering. It returns nil for a session with no history.
func resumeOptions(ctx context.Context, st *store.Store, session string) ([]engine.Option, error) {
	history, err := st.ReadSession(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}
	last, err := st.LastSeq(ctx, session)
	if err != nil {
		return nil, err
	}
	return []engine.Option{
		engine.WithHistory(history),
		engine.WithClock(engine.NewClockAt(last)),
	}, nil
}

// shell interprets line commands against one engine.
type shell struct {
	engine *engine.Engine
	out    *OutputFormatter
}

// exec runs one input line. It returns quit=true on quit or exit. Usage
// mistakes and rejected actions are reported and are not errors; only
// engine and journal failures are.
func (s *shell) exec(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "quit", "exit":
		return true, nil

	case "help":
		fmt.Fprintln(s.out.Writer, shellHelp)

	case "show":
		s.show(s.engine.Snapshot())

	case "wait":
		snap, err := s.engine.AwaitIdle(ctx)
		if err != nil {
			return false, err
		}
		s.show(snap)

	case "search":
		return false, s.dispatch(ctx, ir.ActionSearchChanged, ir.IRObject{"text": ir.IRString(rest)})

	case "category":
		return false, s.dispatch(ctx, ir.ActionCategoryChanged, ir.IRObject{"category": ir.IRString(rest)})

	case "add", "remove":
		if rest == "" || strings.ContainsAny(rest, " \t") {
			return false, s.usage("usage: %s <product-id>", verb)
		}
		typ := ir.ActionAddToCart
		if verb == "remove" {
			typ = ir.ActionRemoveFromCart
		}
		return false, s.dispatch(ctx, typ, ir.IRObject{"product_id": ir.IRString(rest)})

	case "qty":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return false, s.usage("usage: qty <product-id> <n>")
		}
		n, convErr := strconv.ParseInt(fields[1], 10, 64)
		if convErr != nil {
			return false, s.usage("quantity must be an integer, got %q", fields[1])
		}
		return false, s.dispatch(ctx, ir.ActionSetQuantity, ir.IRObject{
			"product_id": ir.IRString(fields[0]),
			"quantity":   ir.IRInt(n),
		})

	case "view":
		if rest == "" {
			return false, s.usage("usage: view <catalog|cart|checkout>")
		}
		return false, s.dispatch(ctx, ir.ActionNavigate, ir.IRObject{"view": ir.IRString(rest)})

	case "set":
		field, value, _ := strings.Cut(rest, " ")
		if field == "" {
			return false, s.usage("usage: set <field> <value>")
		}
		return false, s.dispatch(ctx, ir.ActionFieldChanged, ir.IRObject{
			"field": ir.IRString(field),
			"value": ir.IRString(strings.TrimSpace(value)),
		})

	case "submit":
		return false, s.dispatch(ctx, ir.ActionSubmitCheckout, ir.IRObject{})

	default:
		return false, s.usage("unknown command %q (try 'help')", verb)
	}
	return false, nil
}

func (s *shell) usage(format string, args ...any) error {
	return s.out.Error(ErrCodeGeneric, fmt.Sprintf(format, args...), nil)
}

func (s *shell) dispatch(ctx context.Context, typ ir.ActionType, args ir.IRObject) error {
	res, err := s.engine.Dispatch(ctx, typ, args)
	if err != nil && !engine.IsActionError(err) {
		return err
	}

	if s.out.JSON() {
		reply := ShellReply{
			Action:   res.Action.Type,
			Case:     res.Outcome.Case,
			Result:   res.Outcome.Result,
			Snapshot: res.Snapshot,
		}
		if err != nil {
			return s.out.Failure(reply, string(engine.ErrorCode(err)), err.Error())
		}
		return s.out.Success(reply, nil)
	}

	w := s.out.Writer
	if err != nil {
		var msg string
		if r, ok := res.Outcome.Result.String("message"); ok {
			msg = r
		} else {
			msg = err.Error()
		}
		fmt.Fprintf(w, "✗ %s [%s]: %s\n", typ, engine.ErrorCode(err), msg)
		return nil
	}
	summarize(w, res)
	return nil
}

// summarize prints the outcome of an applied action in one or a few lines.
func summarize(w io.Writer, res engine.Result) {
	snap := res.Snapshot
	switch res.Outcome.Case {
	case ir.CaseValidationFailed:
		fmt.Fprintf(w, "✗ %s\n", snap.Status)
		for _, f := range checkout.Fields {
			if msg, ok := snap.Errors[f]; ok {
				fmt.Fprintf(w, "  %s: %s\n", f, msg)
			}
		}
		return
	case ir.CaseProcessing:
		fmt.Fprintf(w, "… %s\n", snap.PayLabel)
		return
	}

	switch res.Action.Type {
	case ir.ActionSearchChanged, ir.ActionCategoryChanged:
		fmt.Fprintf(w, "✓ %d product(s)\n", len(snap.Products))
		renderProducts(w, snap.Products, snap.EmptyText)
	case ir.ActionNavigate:
		renderSnapshot(w, snap)
	case ir.ActionFieldChanged:
		field, _ := res.Outcome.Result.String("field")
		fmt.Fprintf(w, "✓ %s updated\n", field)
	default:
		msg := snap.Notice
		if msg == "" {
			msg = string(res.Action.Type)
		}
		fmt.Fprintf(w, "✓ %s  (cart: %d, total %s)\n", msg, snap.Cart.Badge, snap.Cart.Total)
	}
}

func (s *shell) show(snap engine.Snapshot) {
	_ = s.out.Success(ShellReply{Snapshot: snap}, func(w io.Writer) {
		renderSnapshot(w, snap)
	})
}
