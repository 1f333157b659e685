// Command seed fills a SkyLink database with reference and sample data.
//
//	go run ./cmd/seed --file seed/skylink.yaml --days 30
//	go run ./cmd/seed --flush            # delete everything first
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/config"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/database"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/seed"
)

func main() {
	var (
		file      = pflag.StringP("file", "f", "seed/skylink.yaml", "seed data file")
		days      = pflag.IntP("days", "d", 30, "days of flights to schedule per template")
		flush     = pflag.Bool("flush", false, "delete all data before seeding")
		flushOnly = pflag.Bool("flush-only", false, "delete all data and exit")
		migrate   = pflag.Bool("migrate", true, "create missing tables first")
	)
	pflag.Parse()

	log.SetPrefix("seed: ")
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}
	if *flush || *flushOnly {
		if err := seed.Flush(ctx, db); err != nil {
			log.Fatalf("flush: %v", err)
		}
		log.Printf("all data deleted")
		if *flushOnly {
			return
		}
	}

	f, err := seed.Load(*file)
	if err != nil {
		log.Fatalf("load %s: %v", *file, err)
	}
	s := seed.NewSeeder(db, cfg.BcryptCost, log.Printf)
	if err := s.Run(ctx, f, *days, time.Now().UTC()); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("done")
}
