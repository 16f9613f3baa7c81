package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ohare93/immich-auto-uploader/internal/config"
	"github.com/ohare93/immich-auto-uploader/internal/dedup"
	"github.com/ohare93/immich-auto-uploader/internal/fs"
	"github.com/ohare93/immich-auto-uploader/internal/immich"
	"github.com/ohare93/immich-auto-uploader/internal/logging"
	"github.com/ohare93/immich-auto-uploader/internal/notify"
	"github.com/ohare93/immich-auto-uploader/internal/report"
	"github.com/ohare93/immich-auto-uploader/internal/watcher"
	"github.com/ohare93/immich-auto-uploader/internal/worker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		cancel()
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	logg.Info("starting immich-auto-uploader",
		"server", cfg.Server.URL,
		"watch", cfg.Watch.Directories,
		"archive", cfg.Archive.Directory,
		"workers", cfg.Pipeline.Workers)

	filesystem := fs.New()
	if err := filesystem.MkdirAll(cfg.Archive.Directory); err != nil {
		log.Fatalf("cannot create archive directory: %v", err)
	}

	client := immich.NewClient(cfg, logg)
	if err := client.Ping(ctx); err != nil {
		logg.Warn("server not reachable at startup, uploads will retry", "error", err)
	}

	tracker := dedup.New()
	stats := worker.NewStats()

	notifier := notify.New(cfg.Notify, logg)
	go notifier.Run(ctx)

	queue := worker.NewQueue(cfg.Pipeline.QueueSize)
	wrk := worker.New(cfg, client, tracker, stats, notifier, logg, filesystem)
	pool := worker.NewPool(queue, wrk, stats, cfg.Pipeline.Workers, logg)
	pool.Start(ctx)

	watch := watcher.New(cfg, tracker, pool.Enqueue, logg)
	if err := watch.Start(ctx); err != nil {
		log.Fatalf("failed to start watcher: %v", err)
	}

	reporter := report.New(stats, logg)
	if err := reporter.Start(ctx, cfg.Schedule, watch.Rescan); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	<-ctx.Done()

	// watcher first, then workers: no new candidates, finish in-flight files
	watch.Wait()
	pool.Wait()
	reporter.Stop()
	notifier.Flush()

	logg.Info("final stats", "summary", stats.Summary())
	log.Println("exit complete")
}
