package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/garage"
	"github.com/GKRMP/garage/internal/gateway"
)

type rootFlags struct {
	customer string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "garage",
		Short: "Manage a customer's saved vehicles through the sync gateway",
		Long: `garage drives the selection widget from a terminal: it loads the customer's
saved vehicles from the gateway, searches the catalog and toggles vehicles,
saving the garage the same way the storefront widget does.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.customer, "customer", "c", "", "Customer id (numeric or gid://shopify/Customer/...)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log gateway requests")

	cmd.AddCommand(newShowCmd(&flags))
	cmd.AddCommand(newSearchCmd(&flags))
	cmd.AddCommand(newToggleCmd(&flags))
	cmd.AddCommand(newShellCmd(&flags))

	return cmd
}

// newWidget loads the client configuration and the customer's saved garage
func newWidget(cmd *cobra.Command, flags *rootFlags) (*garage.Controller, error) {
	if flags.customer == "" {
		return nil, fmt.Errorf("--customer is required")
	}
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := zap.NewNop()
	if flags.verbose {
		logger, _ = zap.NewDevelopment()
	}

	client := gateway.NewClient(*cfg, logger)
	w := garage.New(client, flags.customer, garage.Options{
		SaveDebounce: cfg.SaveDebounce,
		Logger:       logger,
	})
	if err := w.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return w, nil
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved garage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWidget(cmd, flags)
			if err != nil {
				return err
			}
			// resolve labels from the catalog
			if err := w.Open(cmd.Context()); err != nil {
				return err
			}
			w.Close()
			fmt.Fprint(cmd.OutOrStdout(), garage.Render(w.View()))
			return nil
		},
	}
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "search [query]",
		Short:   "Search the vehicle catalog",
		Example: `  garage search --customer 123456 "2020 ford"`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWidget(cmd, flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := w.Dispatch(ctx, garage.Event{Kind: garage.EventOpen}); err != nil {
				return err
			}
			if len(args) == 1 {
				w.Dispatch(ctx, garage.Event{Kind: garage.EventSearch, Query: args[0]})
			}
			fmt.Fprint(cmd.OutOrStdout(), garage.Render(w.View()))
			return nil
		},
	}
}

func newToggleCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <vehicle-id>...",
		Short: "Add or remove vehicles and save the garage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWidget(cmd, flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := w.Open(ctx); err != nil {
				return err
			}
			w.Close()
			for _, id := range args {
				if err := w.Dispatch(ctx, garage.Event{Kind: garage.EventToggle, VehicleID: id}); err != nil {
					return err
				}
			}
			saveErr := w.Flush(ctx)
			fmt.Fprint(cmd.OutOrStdout(), garage.Render(w.View()))
			return saveErr
		},
	}
}

func newShellCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive picker: open, close, search <q>, toggle <id>, show, quit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWidget(cmd, flags)
			if err != nil {
				return err
			}
			runShell(cmd, w, cmd.InOrStdin(), cmd.OutOrStdout())
			return w.Flush(cmd.Context())
		},
	}
}

// runShell maps each input line to one widget event and prints the new view
func runShell(cmd *cobra.Command, w *garage.Controller, in io.Reader, out io.Writer) {
	ctx := cmd.Context()
	fmt.Fprint(out, garage.Render(w.View()))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		verb, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		var ev garage.Event
		switch verb {
		case "":
			continue
		case "quit", "exit":
			return
		case "show":
			fmt.Fprint(out, garage.Render(w.View()))
			continue
		case "open":
			ev = garage.Event{Kind: garage.EventOpen}
		case "close":
			ev = garage.Event{Kind: garage.EventClose}
		case "search":
			ev = garage.Event{Kind: garage.EventSearch, Query: arg}
		case "toggle":
			ev = garage.Event{Kind: garage.EventToggle, VehicleID: arg}
		default:
			fmt.Fprintf(out, "unknown command %q\n", verb)
			continue
		}

		if err := w.Dispatch(ctx, ev); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		fmt.Fprint(out, garage.Render(w.View()))
	}
}
