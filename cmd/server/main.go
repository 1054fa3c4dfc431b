package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/config"
	"github.com/DoyleJ11/clan-vaults-backend/internal/feed"
	"github.com/DoyleJ11/clan-vaults-backend/internal/hooks"
	"github.com/DoyleJ11/clan-vaults-backend/internal/httpapi"
	"github.com/DoyleJ11/clan-vaults-backend/internal/hub"
	"github.com/DoyleJ11/clan-vaults-backend/internal/journal"
	"github.com/DoyleJ11/clan-vaults-backend/internal/leaderboard"
	"github.com/DoyleJ11/clan-vaults-backend/internal/logging"
	"github.com/DoyleJ11/clan-vaults-backend/internal/mockapi"
	"github.com/DoyleJ11/clan-vaults-backend/internal/repository"
	"github.com/DoyleJ11/clan-vaults-backend/internal/seed"
	"github.com/DoyleJ11/clan-vaults-backend/internal/session"
	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seedValue := seed.ResolveSeed(cfg.Seed)
	log.Info("seeding mock data", zap.Int64("seed", seedValue))
	gen := seed.New(seedValue)
	repo := repository.Seeded(gen, repository.DefaultSeedOptions())

	board := leaderboard.NewTracker()
	board.Snapshot(repo.Clans())
	sched := cron.New()
	if _, err := board.Schedule(sched, cfg.LeaderboardSchedule, repo.Clans); err != nil {
		return fmt.Errorf("leaderboard schedule %q: %w", cfg.LeaderboardSchedule, err)
	}

	feedCfg := feed.DefaultConfig()
	feedCfg.ConnectMin, feedCfg.ConnectMax = cfg.FeedConnectMin, cfg.FeedConnectMax
	feedCfg.TickMin, feedCfg.TickMax = cfg.FeedTickMin, cfg.FeedTickMax
	sim := feed.NewSimulator(ctx, feedCfg, gen, repo, log)
	defer sim.Close()

	api := mockapi.New(repo, gen, board, log,
		mockapi.WithLatency(mockapi.RandomLatency(gen.Rand(), cfg.APILatencyMin, cfg.APILatencyMax)),
		mockapi.WithPublisher(sim),
	)

	sinks := journal.Multi{journal.NewZapSink(log)}
	if cfg.JournalDSN != "" {
		pg, err := journal.OpenPostgres(cfg.JournalDSN)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		sinks = append(sinks, pg)
		log.Info("journal writing to postgres")
	}
	defer func() { err = multierr.Append(err, sinks.Close()) }()

	clients := hooks.NewRegistry(api, log)
	h := hub.NewHub(ctx, sinks, log,
		hub.IdleTimeout(cfg.SessionIdleTimeout),
		hub.OnCreate(func(ctx context.Context, s *session.Session) {
			go func() {
				c := clients.For(s)
				c.BindLiveFeed(ctx, sim)
				if err := c.Refresh(ctx); err != nil {
					log.Warn("initial load failed", zap.String("session", s.ID()), zap.Error(err))
				}
			}()
		}),
	)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:         h,
			API:         api,
			Clients:     clients,
			Feed:        sim,
			Log:         log,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sched.Start()
		if err := sim.Connect(gctx); err != nil {
			log.Warn("live feed did not connect", zap.Error(err))
			return nil
		}
		log.Info("live feed connected")
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		errs := srv.Shutdown(shutdownCtx)

		select {
		case h.Inbox() <- hub.ShutdownHub{}:
		case <-h.Done():
		}
		<-h.Done()
		sim.Close()
		<-sched.Stop().Done()
		return errs
	})

	return g.Wait()
}
