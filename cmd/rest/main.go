package main

import (
	"context"
	"log"
	"time"

	"ai-stylist-be/internal/bootstrap"
	"ai-stylist-be/internal/config"
	"ai-stylist-be/internal/server"
	"ai-stylist-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Activity Consumer...")
		if err := container.ActivityService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	stop := make(chan struct{})
	defer close(stop)
	container.SessionManager.StartSweeper(
		time.Duration(cfg.Session.SweepIntervalMinutes)*time.Minute,
		stop,
	)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
