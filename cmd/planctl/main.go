// Command planctl changes a user's subscription plan.
//
//	planctl -user user_123 -plan exclusive
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/config"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/observability"
	"github.com/spec-kit/content-service/internal/persistence"
	"github.com/spec-kit/content-service/internal/repository"
)

func main() {
	userID := flag.String("user", "", "user id")
	plan := flag.String("plan", "", "free or exclusive")
	flag.Parse()

	target := domain.Plan(*plan)
	if *userID == "" || (target != domain.PlanFree && target != domain.PlanExclusive) {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	users := repository.NewUserRepository(pg.PoolHandle())
	if err := users.UpdatePlan(ctx, *userID, target); err != nil {
		logger.Fatal("update plan", zap.String("user_id", *userID), zap.Error(err))
	}
	fmt.Printf("%s is now on the %s plan\n", *userID, target)
}
