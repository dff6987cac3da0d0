package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ProbablyAY/SparkCo/internal/bootstrap"
	"github.com/ProbablyAY/SparkCo/internal/config"
	"github.com/ProbablyAY/SparkCo/internal/tracer"
)

// Standalone curation worker: outbox dispatcher plus consumer. Run with
// WORKER_EMBEDDED=false on the API so jobs are only picked up here.
func main() {
	shutdownTracer := tracer.InitTracer("journal-worker")
	defer shutdownTracer(context.Background())

	cfg := config.Load()
	if cfg.Database.Driver == "memory" {
		log.Fatal("Error: the standalone worker needs STORE_DRIVER=postgres")
	}

	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Starting curation worker...")
	if err := container.RunWorker(ctx); err != nil {
		log.Printf("Worker stopped: %v", err)
	}
}
