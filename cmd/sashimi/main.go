package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sashimi-app/sashimi/internal/ai"
	"github.com/sashimi-app/sashimi/internal/budget"
	"github.com/sashimi-app/sashimi/internal/bulk"
	"github.com/sashimi-app/sashimi/internal/cli"
	"github.com/sashimi-app/sashimi/internal/config"
	"github.com/sashimi-app/sashimi/internal/credentials"
	"github.com/sashimi-app/sashimi/internal/history"
	"github.com/sashimi-app/sashimi/internal/logging"
	"github.com/sashimi-app/sashimi/internal/reply"
	"github.com/sashimi-app/sashimi/internal/schedule"
	"github.com/sashimi-app/sashimi/internal/xapi"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	logging.Setup(os.Getenv("SASHIMI_DEBUG") != "")

	switch os.Args[1] {
	case "post":
		cmdPost()
	case "schedule":
		cmdSchedule()
	case "bulk":
		cmdBulk()
	case "autoreply":
		cmdAutoReply()
	case "tokens":
		cmdTokens()
	case "history":
		cmdHistory()
	case "status":
		cmdStatus()
	case "onboard":
		cli.RunOnboard()
	case "version", "--version", "-v":
		fmt.Println(cli.TitleStyle.Render(
			fmt.Sprintf("  %s sashimi v%s", cli.Logo, cli.Version),
		))
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	dim := cli.DimStyle.Render
	fmt.Println()
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("  %s sashimi", cli.Logo)) + dim(" — Tweet scheduler & mention auto-reply"))
	fmt.Println()
	fmt.Println("  " + cli.BoldStyle.Render("Usage"))
	fmt.Println()
	fmt.Printf("    sashimi %-22s %s\n", "post [\"text\"]", dim("Post now, or open the composer"))
	fmt.Printf("    sashimi %-22s %s\n", "schedule -m \"…\" -in 30", dim("Post after N minutes"))
	fmt.Printf("    sashimi %-22s %s\n", "schedule -m \"…\" -at 18:30", dim("Post today at HH:MM"))
	fmt.Printf("    sashimi %-22s %s\n", "schedule -m \"…\" -on 2026-12-24 -at 09:00", dim("Post on a calendar day"))
	fmt.Printf("    sashimi %-22s %s\n", "bulk <file>", dim("Post every line of a txt/csv/xlsx file"))
	fmt.Printf("    sashimi %-22s %s\n", "autoreply", dim("Reply to new mentions until stopped"))
	fmt.Printf("    sashimi %-22s %s\n", "tokens [refill]", dim("Show or reset the monthly AI budget"))
	fmt.Printf("    sashimi %-22s %s\n", "history [-n 20]", dim("Show recently sent tweets"))
	fmt.Printf("    sashimi %-22s %s\n", "status", dim("Show configuration"))
	fmt.Printf("    sashimi %-22s %s\n", "onboard", dim("Initialize setup"))
	fmt.Printf("    sashimi %-22s %s\n", "version", dim("Show version"))
	fmt.Println()
}

// --- post command ---

func cmdPost() {
	cfg := mustLoadConfig()
	post := mustPostFunc(cfg)

	ctx, cancel := signalContext()
	defer cancel()

	text := strings.TrimSpace(strings.Join(os.Args[2:], " "))
	if text == "" {
		if err := cli.RunCompose(ctx, post); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		return
	}
	if err := cli.RunSinglePost(ctx, post, text); err != nil {
		os.Exit(1)
	}
}

// --- schedule command ---

func cmdSchedule() {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	message := fs.String("m", "", "tweet text (required)")
	inMin := fs.Int("in", 0, "delay in minutes")
	at := fs.String("at", "", "clock time HH:MM")
	on := fs.String("on", "", "calendar day YYYY-MM-DD (requires -at)")
	fs.Parse(os.Args[2:])

	if *message == "" {
		fmt.Fprintln(os.Stderr, "schedule: -m is required")
		fs.Usage()
		os.Exit(1)
	}

	inSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "in" {
			inSet = true
		}
	})

	cfg := mustLoadConfig()
	s := schedule.NewScheduler(mustPostFunc(cfg))

	var h *schedule.Handle
	var err error
	switch {
	case *on != "":
		if *at == "" {
			fmt.Fprintln(os.Stderr, "schedule: -on requires -at HH:MM")
			os.Exit(1)
		}
		day, perr := time.Parse("2006-01-02", *on)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "schedule: bad -on date %q: %s\n", *on, perr)
			os.Exit(1)
		}
		h, err = s.AtMonthDay(*message, day.Year(), int(day.Month()), day.Day(), *at)
	case inSet && *at != "":
		fmt.Fprintln(os.Stderr, "schedule: use -in or -at, not both")
		os.Exit(1)
	case *at != "":
		h, err = s.OnceAtClockTime(*message, *at)
	case inSet:
		h, err = s.OnceAfterMinutes(*message, *inMin)
	default:
		fmt.Fprintln(os.Stderr, "schedule: one of -in, -at, or -on is required")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "schedule: %s\n", err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println(cli.DimStyle.Render("  Waiting; Ctrl+C cancels the pending tweet"))
	select {
	case <-h.Done():
	case <-ctx.Done():
		if h.Cancel() {
			fmt.Println("\n  " + cli.DimStyle.Render("Pending tweet canceled"))
		}
	}
}

// --- bulk command ---

func cmdBulk() {
	fs := flag.NewFlagSet("bulk", flag.ExitOnError)
	delay := fs.Duration("delay", 0, "pause between sequential posts")
	every := fs.Duration("every", 0, "schedule posts this far apart instead of posting now")
	fs.Parse(os.Args[2:])

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "bulk: exactly one input file is required")
		os.Exit(1)
	}

	messages, err := bulk.ReadMessages(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bulk: %s\n", err)
		os.Exit(1)
	}

	cfg := mustLoadConfig()
	post := mustPostFunc(cfg)

	ctx, cancel := signalContext()
	defer cancel()

	if *every > 0 {
		s := schedule.NewScheduler(post)
		handles := bulk.NewPoster(post).ScheduleWithFrequency(s, messages, *every)
		for _, h := range handles {
			select {
			case <-h.Done():
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			canceled := 0
			for _, h := range handles {
				if h.Cancel() {
					canceled++
				}
			}
			if canceled > 0 {
				fmt.Printf("\n  Canceled %d pending tweets\n", canceled)
			}
		}
		return
	}

	if err := bulk.NewPoster(post).PostSequential(ctx, messages, *delay); err != nil {
		fmt.Fprintf(os.Stderr, "bulk: %s\n", err)
		os.Exit(1)
	}
}

// --- autoreply command ---

func cmdAutoReply() {
	fs := flag.NewFlagSet("autoreply", flag.ExitOnError)
	mode := fs.String("mode", "", "fixed or ai (default from config)")
	message := fs.String("message", "", "fixed reply text (default from config)")
	interval := fs.Int("interval", 0, "poll interval in minutes (default from config)")
	fs.Parse(os.Args[2:])

	cfg := mustLoadConfig()
	if *mode != "" {
		cfg.AutoReply.Mode = *mode
	}
	if *message != "" {
		cfg.AutoReply.FixedMessage = *message
	}
	if *interval > 0 {
		cfg.AutoReply.IntervalMinutes = *interval
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	client := mustClient()

	ec := reply.Config{
		Transport:       client,
		Cursor:          reply.NewCursor(config.CursorPath(cfg.AutoReply.Mode)),
		FixedMessage:    cfg.AutoReply.FixedMessage,
		IntervalMinutes: cfg.AutoReply.IntervalMinutes,
	}
	if cfg.AutoReply.Mode == "ai" {
		ec.Mode = reply.ModeAI
		ec.Budget = budget.NewStore(config.TokensPath(), cfg.Budget.MonthlyLimit)
		ec.Generator = ai.NewOpenAIGenerator(
			cfg.OpenAI.APIKey, cfg.OpenAI.Model,
			"", cfg.AutoReply.Targeting,
			float32(cfg.OpenAI.Temperature),
		)
	}
	if cfg.History.Enabled {
		store, err := history.Open(config.HistoryPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "history: %s\n", err)
			os.Exit(1)
		}
		defer store.Close()
		ec.History = store
	}

	engine, err := reply.NewEngine(ec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println()
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("  %s sashimi Auto-reply", cli.Logo)))
	fmt.Println(cli.DimStyle.Render("  Press Ctrl+C to stop"))
	fmt.Println()

	if err := engine.Run(ctx); errors.Is(err, reply.ErrBudgetExhausted) {
		fmt.Println()
		fmt.Println(cli.ErrStyle.Render("  Monthly AI budget exhausted — run \"sashimi tokens refill\" or wait for next month"))
		os.Exit(1)
	}
}

// --- tokens command ---

func cmdTokens() {
	cfg := mustLoadConfig()
	store := budget.NewStore(config.TokensPath(), cfg.Budget.MonthlyLimit)

	if len(os.Args) > 2 && os.Args[2] == "refill" {
		if err := store.Refill(); err != nil {
			fmt.Fprintf(os.Stderr, "tokens: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n  %s Budget reset to %d tokens\n\n", cli.OkStyle.Render("✓"), store.Limit())
		return
	}

	left, err := store.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokens: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n  %d of %d AI reply tokens left this month\n\n", left, store.Limit())
}

// --- history command ---

func cmdHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	n := fs.Int("n", 20, "number of entries")
	fs.Parse(os.Args[2:])

	store, err := history.Open(config.HistoryPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "history: %s\n", err)
		os.Exit(1)
	}
	defer store.Close()

	entries, err := store.Recent(*n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "history: %s\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println(cli.DimStyle.Render("\n  Nothing sent yet\n"))
		return
	}

	fmt.Println()
	for _, e := range entries {
		when := cli.DateLabel.Render(e.CreatedAt.Format("2006-01-02 15:04"))
		kind := e.Kind
		if e.Kind == history.KindReply {
			kind = fmt.Sprintf("reply→%d", e.InReplyTo)
		}
		fmt.Printf("  %s  %s  %s\n", when, cli.DimStyle.Render(kind), e.Text)
	}
	fmt.Println()
}

// --- status command ---

func cmdStatus() {
	cfg, _ := config.Load()
	cli.RunStatus(cfg)
}

// --- helpers ---

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
	}
	return cfg
}

func mustClient() *xapi.Client {
	creds, err := credentials.Load()
	if err != nil {
		fmt.Println()
		fmt.Println(cli.ErrStyle.Render("  Error: " + err.Error()))
		fmt.Println(cli.DimStyle.Render("  Fill in " + config.EnvPath() + " (run \"sashimi onboard\" to create it)"))
		fmt.Println()
		os.Exit(1)
	}
	return xapi.New(creds)
}

// mustPostFunc returns a PostFunc that posts through the API client and,
// when enabled, records each sent tweet in the local history.
func mustPostFunc(cfg *config.Config) schedule.PostFunc {
	client := mustClient()
	if !cfg.History.Enabled {
		return client.CreateTweet
	}

	store, err := history.Open(config.HistoryPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history disabled: %s\n", err)
		return client.CreateTweet
	}
	return func(ctx context.Context, text string) (string, error) {
		id, err := client.CreateTweet(ctx, text)
		if err != nil {
			return "", err
		}
		if rerr := store.RecordPost(text, id); rerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: history write failed: %s\n", rerr)
		}
		return id, nil
	}
}
