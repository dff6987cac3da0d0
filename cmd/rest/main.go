package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ProbablyAY/SparkCo/internal/bootstrap"
	"github.com/ProbablyAY/SparkCo/internal/config"
	"github.com/ProbablyAY/SparkCo/internal/server"
	"github.com/ProbablyAY/SparkCo/internal/tracer"
)

func main() {
	// 0. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer("journal-api")
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Start Background Services
	container.StartPush(ctx)
	if cfg.App.WorkerEmbedded {
		go func() {
			log.Println("Background: Starting embedded curation worker...")
			if err := container.RunWorker(ctx); err != nil {
				log.Printf("Background Worker Error: %v", err)
			}
		}()
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 5. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
