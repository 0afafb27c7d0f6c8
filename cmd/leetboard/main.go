// Command leetboard is the student ranking dashboard CLI.
//
// Usage:
//
//	leetboard rankings today
//	leetboard rankings contest --search al
//	leetboard add-user some_student --name "Some Student"
//	leetboard track
//	leetboard refresh-total
//	leetboard refresh-contests
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ducslabs/leetboard/internal/config"
	"github.com/ducslabs/leetboard/internal/dashboard"
	"github.com/ducslabs/leetboard/internal/ranking"
	"github.com/ducslabs/leetboard/internal/tracker"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "leetboard",
		Short:         "Student LeetCode ranking dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(rankingsCmd())
	root.AddCommand(addUserCmd())
	root.AddCommand(trackCmd())
	root.AddCommand(refreshTotalCmd())
	root.AddCommand(refreshContestsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// newStore builds the tracker client and dashboard store from env config.
func newStore() (*dashboard.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	client := tracker.NewClient(cfg.TrackerBaseURL, cfg.RequestTimeout, cfg.TrackerRateLimit, logger)
	return dashboard.NewStore(client, cfg.DefaultView, logger), cfg, nil
}

// --------------------------------------------------------------------------
// rankings command
// --------------------------------------------------------------------------

func rankingsCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "rankings [view]",
		Short: "Show the ranked leaderboard for a view",
		Long: "Shows the leaderboard for one of: " +
			strings.Join(viewIDs(), ", ") + ". Defaults to the configured default view.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := newStore()
			if err != nil {
				return err
			}

			view := cfg.DefaultView
			if len(args) == 1 {
				view, err = ranking.ParseView(args[0])
				if err != nil {
					return err
				}
			}
			if !cfg.ViewEnabled(view) {
				return fmt.Errorf("view %q is not enabled (ENABLED_VIEWS=%v)", view, cfg.EnabledViews)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			snap, err := store.Rankings(ctx, view, search)
			if err != nil {
				return err
			}
			printRankings(cmd, snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Filter by username substring (case-insensitive)")
	return cmd
}

func printRankings(cmd *cobra.Command, snap dashboard.Snapshot) {
	out := cmd.OutOrStdout()
	view := snap.View

	fmt.Fprintf(out, "Ranking by: %s\n", view.Label())
	if snap.Err != "" {
		fmt.Fprintf(out, "note: %s\n", snap.Err)
	}
	if len(snap.Rows) == 0 {
		fmt.Fprintln(out, "No data found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if view.IsContest() {
		fmt.Fprintln(w, "RANK\tUSERNAME\tRATING\tGLOBAL RANK\tATTENDED\tTOP %\tBADGE")
		for _, row := range snap.Rows {
			topPct := "N/A"
			if row.TopPercentage != nil {
				topPct = fmt.Sprintf("%.2f%%", *row.TopPercentage)
			}
			fmt.Fprintf(w, "#%d\t%s\t%.2f\t%s\t%d\t%s\t%s\n",
				row.Rank, row.Username, row.Metric(view), row.GlobalRank, row.AttendedContests, topPct, row.Badge)
		}
	} else {
		fmt.Fprintf(w, "RANK\tUSERNAME\t%s\tTOTAL SOLVED\tE/M/H\n", strings.ToUpper(view.Label()))
		for _, row := range snap.Rows {
			fmt.Fprintf(w, "#%d\t%s\t%.0f\t%d\t%d/%d/%d\n",
				row.Rank, row.Username, row.Metric(view), row.TotalSolved,
				row.Difficulty.Easy, row.Difficulty.Medium, row.Difficulty.Hard)
		}
	}
	w.Flush()

	fmt.Fprintf(out, "\nTop performer: %s  |  Average %s: %.0f  |  Displayed: %d\n",
		snap.Summary.TopPerformer, view.Label(), snap.Summary.AverageMetric, snap.Summary.DisplayedEntries)
}

// --------------------------------------------------------------------------
// action commands
// --------------------------------------------------------------------------

func addUserCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add-user <username>",
		Short: "Register a LeetCode username with the tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, func(ctx context.Context, store *dashboard.Store) error {
				if err := store.AddUser(ctx, args[0], name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %q added\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name (optional)")
	return cmd
}

func trackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Trigger the daily tracking job and show today's leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, func(ctx context.Context, store *dashboard.Store) error {
				if err := store.TrackDaily(ctx); err != nil {
					return err
				}
				printRankings(cmd, store.Snapshot())
				return nil
			})
		},
	}
}

func refreshTotalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-total",
		Short: "Recompute aggregate problem-solving stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, func(ctx context.Context, store *dashboard.Store) error {
				if err := store.RefreshStats(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "problem-solving stats refreshed")
				return nil
			})
		},
	}
}

func refreshContestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-contests",
		Short: "Recompute contest rankings and show the contest leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, func(ctx context.Context, store *dashboard.Store) error {
				if err := store.RefreshContests(ctx); err != nil {
					return err
				}
				printRankings(cmd, store.Snapshot())
				return nil
			})
		},
	}
}

func runAction(cmd *cobra.Command, fn func(context.Context, *dashboard.Store) error) error {
	store, _, err := newStore()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	return fn(ctx, store)
}

func viewIDs() []string {
	views := ranking.AllViews()
	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = string(v)
	}
	return ids
}
