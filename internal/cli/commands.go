package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vikasavnish/hunterbot/internal/models"
	"github.com/vikasavnish/hunterbot/internal/trade"
)

type options struct {
	server   string
	timeout  time.Duration
	username string
	password string
}

// NewRootCmd creates the hunterctl root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "hunterctl",
		Short:         "hunterctl - command line client for the Hunter Bot trade desk",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.server, "server", envOr("HUNTER_SERVER", "http://localhost:8000"), "Server base URL")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(newHealthCmd(opts))
	rootCmd.AddCommand(newStrategiesCmd(opts))
	rootCmd.AddCommand(newBotCmd(opts))
	rootCmd.AddCommand(newSubmitCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))

	return rootCmd
}

func (o *options) client() *Client {
	return NewClient(o.server, o.timeout)
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := opts.client().Health()
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(health))
			for k := range health {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", k, health[k])
			}
			return nil
		},
	}
}

func newStrategiesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the bot strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := opts.client().Strategies()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tDESCRIPTION")
			for _, s := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Key, s.Name, s.Description)
			}
			return tw.Flush()
		},
	}
}

func newBotCmd(opts *options) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "bot [STRATEGY]",
		Short: "Let the bot draft and submit trades",
		Long: `Open a session, start the mock bot with the given strategy and wait for it
to submit its trades. Without a strategy the first one in the catalog is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy := ""
			if len(args) == 1 {
				strategy = args[0]
			}

			c := opts.client()
			session, err := c.OpenSession()
			if err != nil {
				return err
			}
			defer c.CloseSession(session.ID)

			if _, err := c.GenerateBot(session.ID, strategy); err != nil {
				return err
			}
			view, err := c.WaitForBot(session.ID, 250*time.Millisecond, wait)
			if err != nil {
				return err
			}
			return printTrades(cmd.OutOrStdout(), view.Trades)
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "How long to wait for the bot")
	return cmd
}

func newSubmitCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit trade instructions from a file",
		Long: `Open a session, load the instructions from a JSON or YAML file into the
draft and submit it.
Example: hunterctl submit -f trades.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := LoadInstructions(file)
			if err != nil {
				return err
			}

			c := opts.client()
			session, err := c.OpenSession()
			if err != nil {
				return err
			}
			defer c.CloseSession(session.ID)

			if _, err := c.ReplaceRows(session.ID, rows); err != nil {
				return err
			}
			trades, err := c.Submit(session.ID)
			if err != nil {
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					for _, v := range apiErr.Violations {
						fmt.Fprintf(cmd.ErrOrStderr(), "row %s: %s %s\n", v.RowID, v.Field, v.Message)
					}
				}
				return err
			}
			return printTrades(cmd.OutOrStdout(), trades)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Instruction file (.json, .yaml)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent submissions from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			if err := c.Login(opts.username, opts.password); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			subs, err := c.Submissions(limit)
			if err != nil {
				return err
			}
			return printSubmissions(cmd.OutOrStdout(), subs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of submissions to show")
	cmd.Flags().StringVar(&opts.username, "username", envOr("HUNTER_USERNAME", "admin"), "Journal username")
	cmd.Flags().StringVar(&opts.password, "password", os.Getenv("HUNTER_PASSWORD"), "Journal password")
	return cmd
}

func printTrades(w io.Writer, trades []trade.DisplayRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSYMBOL\tDIRECTION\tENTRY\tEXIT\tSTOP\tLOTS\tR:R\tSTATUS")
	for _, t := range trades {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%g\t%g\t%g\t%.2f\t%s\n",
			t.ID, t.Symbol, directionLabel(t.Direction), t.EntryPrice, t.ExitPrice, t.StopLoss, t.LotSize, t.RiskReward, t.Badge)
	}
	return tw.Flush()
}

func printSubmissions(w io.Writer, subs []models.Submission) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSOURCE\tSTRATEGY\tSYMBOLS")
	for _, s := range subs {
		symbols := make([]string, 0, len(s.Instructions))
		for _, in := range s.Instructions {
			symbols = append(symbols, in.Symbol)
		}
		strategy := s.Strategy
		if strategy == "" {
			strategy = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			s.ID, s.CreatedAt.Format(time.RFC3339), s.Source, strategy, strings.Join(symbols, ","))
	}
	return tw.Flush()
}

func directionLabel(d models.Direction) string {
	if d == models.DirectionNeutral {
		return "-"
	}
	return string(d)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
