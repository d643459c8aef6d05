package app

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soothsayer/adjudicator/internal/domain"
	"github.com/soothsayer/adjudicator/internal/leaderboard"
	"github.com/soothsayer/adjudicator/internal/market"
	"github.com/soothsayer/adjudicator/internal/notify"
	"github.com/soothsayer/adjudicator/internal/pipeline"
)

// Scan runs a single prediction scan pass over the forum feeds.
func (a *App) Scan(ctx context.Context, deps *Dependencies) error {
	unlock, err := deps.Locker.Acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := a.scan(ctx, deps); err != nil {
		return err
	}
	return a.archive(ctx, deps)
}

// Resolve runs a single free-form resolution pass.
func (a *App) Resolve(ctx context.Context, deps *Dependencies) error {
	unlock, err := deps.Locker.Acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := a.resolve(ctx, deps); err != nil {
		return err
	}
	return a.archive(ctx, deps)
}

// Leaderboard rebuilds the free-form leaderboard projection and the rendered
// forum post.
func (a *App) Leaderboard(ctx context.Context, deps *Dependencies) error {
	unlock, err := deps.Locker.Acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return a.leaderboard(ctx, deps)
}

// All runs the full adjudication cycle: scan, resolve, leaderboard, archive.
func (a *App) All(ctx context.Context, deps *Dependencies) error {
	unlock, err := deps.Locker.Acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := a.scan(ctx, deps); err != nil {
		return err
	}
	if err := a.resolve(ctx, deps); err != nil {
		return err
	}
	if err := a.leaderboard(ctx, deps); err != nil {
		return err
	}
	return a.archive(ctx, deps)
}

func (a *App) scan(ctx context.Context, deps *Dependencies) error {
	scanner := pipeline.NewScanner(deps.Store, deps.Moltbook, pipeline.ScannerConfig{
		Sorts:          a.cfg.Scan.Sorts,
		PostLimit:      a.cfg.Scan.PostLimit,
		CommentWorkers: a.cfg.Scan.CommentWorkers,
		MinQuality:     a.cfg.Scan.MinQuality,
	}, a.logger)

	stats, err := scanner.Run(ctx)
	if err != nil {
		return fmt.Errorf("app: scan: %w", err)
	}

	_ = deps.Notifier.Notify(ctx, notify.EventScanComplete, "Scan complete",
		fmt.Sprintf("%d posts and %d comments scanned, %d new predictions (%d tracked)",
			stats.ScannedPosts, stats.ScannedComments, stats.NewPredictions, stats.TotalTracked))
	return nil
}

func (a *App) resolve(ctx context.Context, deps *Dependencies) error {
	resolver := pipeline.NewResolver(deps.Store, deps.Oracle, a.logger)

	stats, err := resolver.Run(ctx)
	if err != nil {
		return fmt.Errorf("app: resolve: %w", err)
	}

	_ = deps.Notifier.Notify(ctx, notify.EventResolveComplete, "Resolution pass complete",
		fmt.Sprintf("%d resolved, %d expired", stats.Resolved, stats.Expired))
	return nil
}

func (a *App) leaderboard(ctx context.Context, deps *Dependencies) error {
	book, err := deps.Store.LoadPredictions(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	lb := leaderboard.Build(book, now)

	if err := deps.Store.SaveLeaderboard(ctx, lb); err != nil {
		return err
	}
	if err := deps.Store.SaveLeaderboardPost(ctx, leaderboard.FormatPost(lb, now)); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "leaderboard generated",
		slog.Int("agents", lb.TotalAgents),
		slog.Int("predictions", lb.TotalPredictions),
		slog.Int("resolved", lb.TotalResolved),
	)

	_ = deps.Notifier.Notify(ctx, notify.EventLeaderboard, "Leaderboard updated",
		fmt.Sprintf("%d agents, %d predictions, %d resolved",
			lb.TotalAgents, lb.TotalPredictions, lb.TotalResolved))
	return nil
}

// archive uploads dated snapshot copies when archival is configured.
func (a *App) archive(ctx context.Context, deps *Dependencies) error {
	if deps.Archiver == nil {
		return nil
	}
	return deps.Archiver.ArchiveSnapshots(ctx, uuid.NewString(), time.Now().UTC())
}

// Market dispatches the market subcommands.
func (a *App) Market(ctx context.Context, deps *Dependencies, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("app: market needs a subcommand (create, list, show, sync, check, resolve, graduation, post-results)")
	}

	svc := market.New(deps.Store, deps.Moltbook, deps.Oracle, a.logger)

	switch args[0] {
	case "create":
		return a.marketCreate(ctx, svc, args[1:])
	case "list":
		return a.marketList(ctx, svc)
	case "show":
		if len(args) < 2 {
			return fmt.Errorf("app: market show needs a market id")
		}
		return a.marketShow(ctx, svc, args[1])
	case "sync":
		return svc.SyncCommitments(ctx)
	case "check":
		return a.marketCheck(ctx, deps, svc)
	case "resolve":
		return a.marketResolve(ctx, deps, svc, args[1:])
	case "graduation":
		return a.marketGraduation(ctx, svc)
	case "post-results":
		if len(args) < 2 {
			return fmt.Errorf("app: market post-results needs a market id")
		}
		return svc.PostResults(ctx, args[1])
	default:
		return fmt.Errorf("app: unknown market subcommand %q", args[0])
	}
}

func (a *App) marketCreate(ctx context.Context, svc *market.Service, args []string) error {
	fs := flag.NewFlagSet("market create", flag.ContinueOnError)
	question := fs.String("question", "", "market question")
	deadlineStr := fs.String("deadline", "", "resolution deadline (RFC3339)")
	source := fs.String("source", "", "resolution source, e.g. coingecko:bitcoin or manual")
	threshold := fs.Float64("threshold", 0, "price threshold for coingecko sources")
	operator := fs.String("operator", "gte", "comparison operator (gte, gt, lte, lt, eq)")
	submolt := fs.String("submolt", a.cfg.Market.Submolt, "submolt to post the market in")
	dryRun := fs.Bool("dry-run", false, "print the post without creating it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *question == "" || *deadlineStr == "" || *source == "" {
		return fmt.Errorf("app: market create requires -question, -deadline, and -source")
	}

	deadline, err := time.Parse(time.RFC3339, *deadlineStr)
	if err != nil {
		return fmt.Errorf("app: invalid deadline %q: %w", *deadlineStr, err)
	}

	m, err := svc.Create(ctx, market.CreateParams{
		Question:  *question,
		Deadline:  deadline,
		Source:    *source,
		Threshold: *threshold,
		Operator:  domain.Operator(*operator),
		Submolt:   *submolt,
		DryRun:    *dryRun,
	})
	if err != nil {
		return err
	}

	fmt.Printf("market %s created", m.ID)
	if m.PostID != "" {
		fmt.Printf(" (post %s)", m.PostID)
	}
	fmt.Println()
	return nil
}

func (a *App) marketList(ctx context.Context, svc *market.Service) error {
	markets, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if len(markets) == 0 {
		fmt.Println("no markets")
		return nil
	}

	ids := make([]string, 0, len(markets))
	for id := range markets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		m := markets[id]
		fmt.Printf("%s  [%s]  %s  (deadline %s, %d commitments)\n",
			id, m.Status, m.Question, m.Deadline.Format(time.RFC3339), len(m.Commitments))
	}
	return nil
}

func (a *App) marketShow(ctx context.Context, svc *market.Service, id string) error {
	m, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Market:     %s\n", m.ID)
	fmt.Printf("Question:   %s\n", m.Question)
	fmt.Printf("Status:     %s\n", m.Status)
	fmt.Printf("Deadline:   %s\n", m.Deadline.Format(time.RFC3339))
	fmt.Printf("Source:     %s\n", m.Source)
	if m.PostID != "" {
		fmt.Printf("Post:       %s\n", m.PostID)
	}
	fmt.Printf("Commitments (%d):\n", len(m.Commitments))
	for _, c := range m.Commitments {
		fmt.Printf("  %s %s %.0f%%\n", c.Agent, c.Position, c.Confidence*100)
	}
	if m.Status == domain.MarketStatusResolved {
		fmt.Printf("Outcome:    %s (%s)\n", m.Outcome, m.OutcomeDescription)
		for _, s := range m.Scores {
			mark := "✗"
			if s.Correct {
				mark = "✓"
			}
			fmt.Printf("  %s brier=%.4f %s\n", s.Agent, s.BrierScore, mark)
		}
	}
	return nil
}

// marketCheck advances open markets past their deadline to closed without
// attempting resolution.
func (a *App) marketCheck(ctx context.Context, deps *Dependencies, svc *market.Service) error {
	book, err := deps.Store.LoadMarkets(ctx)
	if err != nil {
		return err
	}

	closed := svc.AdvanceStates(book)
	if err := deps.Store.SaveMarkets(ctx, book); err != nil {
		return err
	}

	fmt.Printf("%d market(s) closed\n", len(closed))
	return nil
}

func (a *App) marketResolve(ctx context.Context, deps *Dependencies, svc *market.Service, args []string) error {
	fs := flag.NewFlagSet("market resolve", flag.ContinueOnError)
	only := fs.String("id", "", "resolve only this market")
	post := fs.Bool("post", false, "post results comments for newly resolved markets")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := svc.ResolveAll(ctx, *only)
	if err != nil {
		return err
	}

	// Fold resolved markets into the market leaderboard.
	mlb, err := deps.Store.LoadMarketLeaderboard(ctx)
	if err != nil {
		return err
	}
	book, err := deps.Store.LoadMarkets(ctx)
	if err != nil {
		return err
	}
	leaderboard.UpdateMarketLeaderboard(mlb, book, time.Now().UTC())
	if err := deps.Store.SaveMarketLeaderboard(ctx, mlb); err != nil {
		return err
	}

	for _, id := range resolved {
		m := book.Markets[id]
		_ = deps.Notifier.Notify(ctx, notify.EventMarketResolved, "Market resolved",
			fmt.Sprintf("%s: %s -> %s", id, m.Question, m.Outcome))
		if *post {
			if err := svc.PostResults(ctx, id); err != nil {
				a.logger.WarnContext(ctx, "results post failed",
					slog.String("market_id", id),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	fmt.Printf("%d market(s) resolved\n", len(resolved))
	return nil
}

func (a *App) marketGraduation(ctx context.Context, svc *market.Service) error {
	reports, err := svc.CheckGraduation(ctx)
	if err != nil {
		return err
	}

	for _, r := range reports {
		fmt.Printf("%s: %s\n", r.MarketID, truncateQuestion(r.Question))
		for _, c := range r.Checks {
			mark := "✗"
			if c.OK {
				mark = "✓"
			}
			fmt.Printf("  %s %s: %d/%d\n", mark, c.Name, c.Have, c.Want)
		}
		if r.Ready {
			fmt.Println("  READY FOR GRADUATION")
		}
	}
	return nil
}

func truncateQuestion(q string) string {
	if len(q) <= 50 {
		return q
	}
	return strings.TrimSpace(q[:50]) + "..."
}
