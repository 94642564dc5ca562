package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jvale/takeaway/internal/config"
	"github.com/jvale/takeaway/internal/database"
	"github.com/jvale/takeaway/internal/database/repository"
	"github.com/jvale/takeaway/internal/media"
	"github.com/jvale/takeaway/internal/service"
	"github.com/jvale/takeaway/internal/syncstore"
	"github.com/jvale/takeaway/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	// repositories
	resRepo := repository.NewReservationRepo(db)
	menuRepo := repository.NewMenuRepo(db)
	payRepo := repository.NewPrepaymentRepo(db)

	svc := &service.ReservationService{
		Reservations: resRepo,
		Menu:         menuRepo,
		Prepayments:  payRepo,
	}

	uploader := buildUploader(cfg)

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.Printf("warn: using local timezone due to load failure: %v", err)
		loc = time.Local
	}

	p := tea.NewProgram(tui.New(ctx, cfg,
		tui.Repos{Reservations: resRepo, Menu: menuRepo, Prepayments: payRepo},
		tui.Services{Reservations: svc, Uploader: uploader},
		loc,
	), tea.WithAltScreen())

	// Realtime sync is optional: without a bus URL the app is local-only.
	if cfg.Sync.URL != "" {
		bus, err := syncstore.Connect(cfg.Sync.URL, cfg.Sync.SubjectPrefix)
		if err != nil {
			log.Fatalf("sync: %v", err)
		}
		defer bus.Close()

		svc.OnChange = func(kind, op, id string, doc interface{}) {
			if err := bus.Publish(kind, op, id, doc); err != nil {
				log.Printf("warn: publish %s %s: %v", kind, id, err)
			}
		}

		applier := &syncstore.Applier{Reservations: resRepo, Menu: menuRepo, Prepayments: payRepo}
		apply := func(ev syncstore.DocumentEvent) {
			if err := applier.Apply(ctx, ev); err != nil {
				log.Printf("warn: apply remote %s %s: %v", ev.Kind, ev.ID, err)
				return
			}
			p.Send(tui.RefreshMsg{})
		}
		for _, kind := range []string{service.KindReservation, service.KindMenuItem, service.KindPrepayment} {
			if err := bus.Subscribe(kind, apply); err != nil {
				log.Fatalf("sync subscribe: %v", err)
			}
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func buildUploader(cfg config.Config) *media.Uploader {
	if cfg.Media.UploadURL == "" {
		return nil
	}
	apiKey := os.Getenv(cfg.Media.APIKeyEnv)
	if apiKey == "" {
		apiKey = cfg.Media.APIKey
	}
	return media.NewUploader(cfg.Media.UploadURL, apiKey)
}
