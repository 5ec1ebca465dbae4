package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/ecotrack/gamification/internal/config"
	"github.com/ecotrack/gamification/internal/db"
	"github.com/ecotrack/gamification/internal/logger"
	"github.com/ecotrack/gamification/internal/repository"
	"github.com/ecotrack/gamification/internal/service"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type seedActor struct {
	ID          string
	DisplayName string
	Role        string
	Actions     []string
}

var demoActors = []seedActor{
	{ID: "demo-citizen-1", DisplayName: "Aiko", Role: "citizen",
		Actions: []string{service.ActionReportFiled, service.ActionReportFiled, service.ActionChallengeCompleted, service.ActionChallengeCompleted}},
	{ID: "demo-citizen-2", DisplayName: "Ben", Role: "citizen",
		Actions: []string{service.ActionReportFiled, service.ActionSensorAlertConfirmed}},
	{ID: "demo-agent-1", DisplayName: "Chen", Role: "agent",
		Actions: []string{service.ActionCollectionPerformed, service.ActionReportResolved, service.ActionReportResolved}},
}

func main() {
	reconcile := flag.Bool("reconcile", false, "rewrite every cached total from the ledger sum and exit")
	skipDemo := flag.Bool("skip-demo", false, "seed only the badge catalog")
	flag.Parse()

	if err := run(*reconcile, *skipDemo); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run(reconcile, skipDemo bool) error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	zl, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	thresholds, err := service.NewBadgeThresholds(cfg.BadgeThresholds)
	if err != nil {
		return err
	}
	txm := repository.NewTxManager(gdb)
	userRepo := repository.NewUserRepository(gdb)
	badgeRepo := repository.NewBadgeRepository(gdb)
	ledger := service.NewPointsLedger(userRepo, repository.NewPointLedgerRepository(gdb), txm)

	if reconcile {
		return reconcileAll(ctx, zl, userRepo, ledger)
	}

	catalog := service.NewBadgeCatalogService(badgeRepo, thresholds)
	n, err := catalog.SeedDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	zl.Info("badge catalog seeded", zap.Int("inserted", n))
	if skipDemo {
		return nil
	}

	users := service.NewUserService(userRepo, badgeRepo, thresholds)
	awarder := service.NewBadgeAwarder(userRepo, badgeRepo, thresholds, txm)
	gam := service.NewGamificationService(txm, ledger, awarder, service.NewPointsTable(cfg.ActionPoints), nil, nil, zl)

	for _, a := range demoActors {
		_, err := users.Register(ctx, service.RegisterInput{ID: a.ID, DisplayName: a.DisplayName, Role: a.Role})
		if errors.Is(err, service.ErrActorExists) {
			zl.Info("demo actor exists; skipping", zap.String("actor", a.ID))
			continue
		}
		if err != nil {
			return fmt.Errorf("register %s: %w", a.ID, err)
		}
		for i, action := range a.Actions {
			if _, err := gam.AwardPoints(ctx, service.AwardPointsInput{
				ActorID:    a.ID,
				ActionType: action,
				Reference:  fmt.Sprintf("seed-%s-%d", a.ID, i+1),
			}); err != nil {
				return fmt.Errorf("award %s to %s: %w", action, a.ID, err)
			}
		}
	}
	zl.Info("demo actors seeded", zap.Int("count", len(demoActors)))
	return nil
}

func reconcileAll(ctx context.Context, zl *zap.Logger, users repository.UserRepository, ledger *service.PointsLedger) error {
	ids, err := users.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list actors: %w", err)
	}
	repaired := 0
	for _, id := range ids {
		before, after, err := ledger.Reconcile(ctx, id)
		if err != nil {
			return fmt.Errorf("reconcile %s: %w", id, err)
		}
		if before != after {
			repaired++
			zl.Warn("total repaired", zap.String("actor", id), zap.Int64("before", before), zap.Int64("after", after))
		}
	}
	zl.Info("reconcile finished", zap.Int("actors", len(ids)), zap.Int("repaired", repaired))
	return nil
}
