package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"hotelverse/internal/adapters/observability"
	redisad "hotelverse/internal/adapters/redis"
	"hotelverse/internal/app"
	"hotelverse/internal/domain"
	"hotelverse/internal/shared"
	"hotelverse/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		driver  string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "seeder [rooms|dishes|experiences|all]...",
		Short: "Seed hotel content into empty collections",
		Long: "Inserts the built-in rooms, dishes and experiences into their collections.\n" +
			"A collection that already holds documents is left untouched.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(args)
			if err != nil {
				return err
			}

			cfg := shared.Load()
			log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
			if driver != "" {
				cfg.StoreDriver = strings.ToLower(driver)
			}
			if workers <= 0 {
				workers = cfg.SeedWorkers
			}

			log.Info().
				Str("driver", cfg.StoreDriver).
				Int("workers", workers).
				Int("kinds", len(kinds)).
				Msg("seeder starting")

			ctx := cmd.Context()
			store, closeStore, err := storage.Open(ctx, cfg)
			if err != nil {
				log.Error().Err(err).Msg("store open failed")
				return err
			}
			defer func() { _ = closeStore(context.Background()) }()

			var cache domain.Cache
			if cfg.RedisAddr != "" {
				rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
				defer func() { _ = rc.Close() }()
				cache = rc
			}

			catalog := app.NewCatalogService(store, cache, cfg.CacheTTL)
			if err := seedAll(ctx, catalog, kinds, workers); err != nil {
				log.Error().Err(err).Msg("seeding finished with errors")
				return err
			}
			log.Info().Msg("seeding completed")
			return nil
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "", "store driver (mongo|mysql); overrides STORE_DRIVER")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent seed workers; overrides SEED_WORKERS")
	return cmd
}

// parseKinds expands "all" and rejects unknown names. No arguments means all kinds.
func parseKinds(args []string) ([]domain.Kind, error) {
	if len(args) == 0 {
		return domain.AllKinds, nil
	}
	seen := map[domain.Kind]bool{}
	var out []domain.Kind
	add := func(k domain.Kind) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, a := range args {
		if a == "all" {
			for _, k := range domain.AllKinds {
				add(k)
			}
			continue
		}
		k, err := domain.ParseKind(a)
		if err != nil {
			return nil, err
		}
		add(k)
	}
	return out, nil
}

type seeder interface {
	Seed(ctx context.Context, kind domain.Kind) (int, error)
}

// seedAll runs one seed per kind with at most workers in flight and joins every failure.
func seedAll(ctx context.Context, s seeder, kinds []domain.Kind, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, k := range kinds {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("seed %s: %w", k, err))
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(kind domain.Kind) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := s.Seed(ctx, kind)
			if err != nil {
				log.Warn().Str("kind", string(kind)).Err(err).Msg("seed failed")
				mu.Lock()
				errs = append(errs, fmt.Errorf("seed %s: %w", kind, err))
				mu.Unlock()
				return
			}
			log.Info().Str("kind", string(kind)).Int("inserted", n).Msg("seed ok")
		}(k)
	}

	wg.Wait()
	return errors.Join(errs...)
}
