package main

import (
	"context"
	"log"

	router "github.com/Renal37/go-orderflow/internal/app"
	"github.com/Renal37/go-orderflow/internal/database"
	"github.com/Renal37/go-orderflow/internal/logger"
	"github.com/Renal37/go-orderflow/internal/services"
	"github.com/Renal37/go-orderflow/internal/utils"
)

func main() {
	ctx := context.Background()
	config := NewConfig()

	if err := logger.Initialize(config.logLevel, config.env); err != nil {
		log.Fatalf("Logger wasn't initialized due to %s", err)
	}

	db, err := database.New(ctx, config.dsn)

	if err != nil {
		log.Fatalf("Database wasn't initialized due to %s", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Migrations weren't run due to %s", err)
	}

	log.Printf("Running server on %s\n", config.endpoint)

	utils.HandleTerminationProcess(func() {
		db.Close()
		_ = logger.Log.Sync()
	})

	router.New(
		router.Config{Endpoint: config.endpoint, PageSize: config.pageSize},
		services.NewProductService(db),
		services.NewOrderService(db),
	).Run()
}
