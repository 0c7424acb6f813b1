package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	reelpredictor "reel-predictor/agents/reel-predictor"
	"reel-predictor/agents/reel-predictor/predictor"
	"reel-predictor/internal/models"
	"reel-predictor/shared/config"
	"reel-predictor/shared/scheduler"

	"github.com/lmittmann/tint"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.Logging.SlogLevel(),
			TimeFormat: "15:04:05",
		}),
	))

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if len(os.Args) > 1 && os.Args[1] == "analyze" {
		if err := analyze(ctx, cfg, os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	agent := reelpredictor.NewReelAgent(cfg)
	s := scheduler.New(cfg, agent)

	if len(os.Args) > 1 && os.Args[1] == "--once" {
		fmt.Println("Running once...")
		if err := agent.Initialize(); err != nil {
			log.Fatalf("Failed to initialize agent: %v", err)
		}

		if err := s.RunOnce(ctx); err != nil {
			log.Fatalf("Failed to run: %v", err)
		}
		return
	}

	fmt.Println("Starting scheduler...")
	if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

// analyze submits a single reel and prints its report
func analyze(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	videoPath := fs.String("video", "", "path to the video file")
	caption := fs.String("caption", "", "current caption of the reel")
	endpoint := fs.String("endpoint", cfg.Analyzer.Endpoint, "analyzer endpoint (defaults to the hosted analyzer)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := models.Input{Caption: *caption}
	if *videoPath != "" {
		media, err := predictor.LoadMedia(*videoPath)
		if err != nil {
			return err
		}
		in.Media = media
	}

	client := predictor.NewHTTPClient(ctx, cfg.Analyzer.APIToken)
	dispatcher := predictor.NewDispatcher(client, *endpoint)

	snap, err := dispatcher.Submit(ctx, in)
	if err != nil {
		var ferr *predictor.Error
		if errors.As(err, &ferr) {
			return errors.New(ferr.Message)
		}
		return err
	}

	return predictor.WriteText(os.Stdout, predictor.Render(snap.Result))
}
