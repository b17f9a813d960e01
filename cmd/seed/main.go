package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MrKriegler/go-renewals/internal/platform/config"
	"github.com/MrKriegler/go-renewals/internal/platform/logging"
	"github.com/MrKriegler/go-renewals/internal/seed"
	"github.com/MrKriegler/go-renewals/internal/store"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env, cfg.LogLevel)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.DBType == "memory" {
		log.Error("nothing to seed: DB_TYPE=memory loads demo data on startup")
		return
	}

	stores, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open stores", "err", err)
		return
	}
	defer stores.Close(context.Background())

	log.Info("seeding records", "db", cfg.DBType)

	for _, rec := range seed.DemoRecords(time.Now()) {
		if err := stores.Records.Upsert(ctx, rec); err != nil {
			fmt.Printf("failed to seed %s: %v\n", rec.ID, err)
		} else {
			fmt.Printf("seeded: %s (%s)\n", rec.ID, rec.CustomerName)
		}
	}

	log.Info("done seeding")
}
