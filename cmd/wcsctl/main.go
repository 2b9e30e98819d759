// Command wcsctl administers a West Cairo Stars deployment: schema
// migration, directory seeding, API key issuance, score resets and
// leaderboard snapshots from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdouthematrix/westcairostars/internal/aggregate"
	"github.com/abdouthematrix/westcairostars/internal/auth"
	"github.com/abdouthematrix/westcairostars/internal/config"
	"github.com/abdouthematrix/westcairostars/internal/database"
	"github.com/abdouthematrix/westcairostars/internal/directory"
	"github.com/abdouthematrix/westcairostars/internal/leaderboard"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/score"
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// backend is everything a command may touch. Tests swap in memory
// implementations.
type backend struct {
	migrate      func(ctx context.Context) error
	directory    directory.Repository
	keys         auth.KeyRepository
	store        score.Store
	bcryptCost   int
	loc          *time.Location
	limit        int
	maxRangeDays int
	close        func()
}

// opener builds the backend lazily so that --help works without a database.
type opener func(ctx context.Context) (*backend, error)

func openPostgres(ctx context.Context) (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &backend{
		migrate:      db.Migrate,
		directory:    directory.NewRepository(db.Pool()),
		keys:         auth.NewRepository(db.Pool()),
		store:        score.NewPostgresStore(db.Pool()),
		bcryptCost:   cfg.BcryptCost,
		loc:          loc,
		limit:        cfg.LeaderboardLimit,
		maxRangeDays: cfg.MaxRangeDays,
		close:        db.Close,
	}, nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	root := newRootCmd(openPostgres, os.Stdout)
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "wcsctl",
		Short:         "Administer the West Cairo Stars leaderboard",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)

	// withBackend opens the backend for the duration of one command.
	withBackend := func(run func(ctx context.Context, b *backend, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			b, err := open(ctx)
			if err != nil {
				return codeError(3, "opening backend: %s", err)
			}
			if b.close != nil {
				defer b.close()
			}
			return run(ctx, b, args)
		}
	}

	root.AddCommand(
		newMigrateCmd(withBackend, out),
		newSeedCmd(withBackend, out),
		newIssueKeyCmd(withBackend, out),
		newResetCmd(withBackend, out),
		newLeaderboardCmd(withBackend, out),
	)
	return root
}

type runner func(run func(ctx context.Context, b *backend, args []string) error) func(*cobra.Command, []string) error

func newMigrateCmd(with runner, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, b *backend, _ []string) error {
			if err := b.migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "schema applied")
			return nil
		}),
	}
}

func newSeedCmd(with runner, out io.Writer) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load teams and members from a YAML file",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, b *backend, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return codeError(3, "opening seed file: %s", err)
			}
			defer f.Close()

			seed, err := directory.ParseSeed(f)
			if err != nil {
				return codeError(3, "%s", err)
			}
			teams, members, err := seed.Apply(ctx, b.directory)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "seeded %d teams and %d members\n", teams, members)
			return nil
		}),
	}
	cmd.Flags().StringVar(&file, "file", "", "Seed YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newIssueKeyCmd(with runner, out io.Writer) *cobra.Command {
	var team string
	cmd := &cobra.Command{
		Use:   "issue-key",
		Short: "Issue a new API key for a team, revoking the previous one",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, b *backend, _ []string) error {
			key, err := auth.NewService(b.keys, b.bcryptCost).IssueKey(ctx, team)
			if errors.Is(err, auth.ErrTeamNotFound) {
				return codeError(2, "team %q not found", team)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, key)
			return nil
		}),
	}
	cmd.Flags().StringVar(&team, "team", "", "Team code")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func newResetCmd(with runner, out io.Writer) *cobra.Command {
	var day, team string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Zero every score of a day, for one team or all teams",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, b *backend, _ []string) error {
			d, err := period.ParseDay(day)
			if err != nil {
				return codeError(3, "%s", err)
			}

			snap, err := directory.NewCache(b.directory, directory.DefaultTTL, nil).Snapshot(ctx)
			if err != nil {
				return err
			}

			writer := score.NewWriter(b.store, nil, nil)
			var n int
			if team != "" {
				t, ok := snap.Teams[team]
				if !ok || t.IsAdmin {
					return codeError(2, "team %q not found", team)
				}
				n, err = writer.ResetTeam(ctx, d, team)
			} else {
				var codes []string
				for _, t := range snap.RankedTeams() {
					codes = append(codes, t.Code)
				}
				n, err = writer.ResetAll(ctx, d, codes)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "reset %d records for %s\n", n, period.FormatDay(d))
			return nil
		}),
	}
	cmd.Flags().StringVar(&day, "day", "", "Day to reset (YYYY-MM-DD)")
	cmd.Flags().StringVar(&team, "team", "", "Team code; all teams when empty")
	_ = cmd.MarkFlagRequired("day")
	return cmd
}

func newLeaderboardCmd(with runner, out io.Writer) *cobra.Command {
	var preset, start, end, board string
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print leaderboards for a period",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, b *backend, _ []string) error {
			rng, err := period.NewResolver(b.loc).Resolve(period.Preset(preset), start, end)
			if err != nil {
				return codeError(3, "%s", err)
			}
			var only leaderboard.Board
			if board != "" {
				if only, err = leaderboard.ParseBoard(board); err != nil {
					return codeError(3, "%s", err)
				}
			}

			svc := leaderboard.NewService(
				directory.NewCache(b.directory, directory.DefaultTTL, nil),
				aggregate.New(b.store),
				leaderboard.NewBuilder(b.limit),
				b.maxRangeDays,
				nil,
			)
			boards, err := svc.Build(ctx, rng)
			if err != nil {
				return err
			}
			return printBoards(out, boards, only)
		}),
	}
	f := cmd.Flags()
	f.StringVar(&preset, "period", "today", "today, yesterday, week, month or range")
	f.StringVar(&start, "start", "", "First day when --period=range")
	f.StringVar(&end, "end", "", "Last day when --period=range")
	f.StringVar(&board, "board", "", "Print only this board: achievers, teams, leaders or zero-scores")
	return cmd
}

func printBoards(out io.Writer, b *leaderboard.Boards, only leaderboard.Board) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Range\t%s (%d days)\n", b.Range, b.Range.Len())

	show := func(board leaderboard.Board) bool { return only == "" || only == board }

	if show(leaderboard.BoardAchievers) {
		fmt.Fprintln(tw, "\nTOP ACHIEVERS\nRANK\tMEMBER\tTEAM\tPRODUCTS\tTOTAL")
		for i, a := range b.Achievers {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", i+1, a.Name, a.TeamName, a.Products, a.Total)
		}
	}
	if show(leaderboard.BoardTeams) {
		fmt.Fprintln(tw, "\nTOP TEAMS\nRANK\tTEAM\tLEADER\tMEMBERS\tTOTAL")
		for i, t := range b.Teams {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", i+1, t.TeamName, t.Leader, t.Members, t.Total)
		}
	}
	if show(leaderboard.BoardLeaders) {
		fmt.Fprintln(tw, "\nTOP LEADERS\nRANK\tLEADER\tTEAM\tTOTAL")
		for i, l := range b.Leaders {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, l.Leader, l.TeamName, l.Total)
		}
	}
	if show(leaderboard.BoardZeroScores) {
		fmt.Fprintln(tw, "\nZERO SCORES\nTEAM\tZERO\tUNAVAILABLE\tACTIVE")
		for _, z := range b.ZeroScores {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", z.TeamName, names(z.ZeroScore), names(z.Unavailable), names(z.Active))
		}
	}
	return tw.Flush()
}

func names(ms []leaderboard.MemberStatus) string {
	if len(ms) == 0 {
		return "-"
	}
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return strings.Join(out, ", ")
}
