package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"bookapp-ai-be/internal/bootstrap"
	"bookapp-ai-be/internal/config"
	"bookapp-ai-be/internal/dto"
	"bookapp-ai-be/internal/repository/specification"
	"bookapp-ai-be/pkg/database"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "ingest",
		Usage:     "Fetch books for keywords, filter them by similarity and store them in the corpus",
		ArgsUsage: "[KEYWORD...]",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "Override INGEST_SIMILARITY_THRESHOLD",
			},
			&cli.IntFlag{
				Name:  "max-pages",
				Usage: "Override INGEST_MAX_PAGES",
			},
			&cli.IntFlag{
				Name:  "retag-fallbacks",
				Usage: "Queue up to N stored books tagged by the rule fallback for LLM re-tagging",
			},
			&cli.BoolFlag{
				Name:  "no-flush",
				Usage: "Leave pending tagging retries queued instead of retrying them before exit",
			},
		},
		Action: ingestCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	var keywords []string
	for _, arg := range c.Args().Slice() {
		if kw := strings.TrimSpace(arg); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	retagLimit := c.Int("retag-fallbacks")
	if len(keywords) == 0 && retagLimit <= 0 {
		return cli.Exit("at least one keyword or --retag-fallbacks is required", 1)
	}

	cfg := config.Load()
	if c.IsSet("threshold") {
		cfg.Ingest.SimilarityThreshold = c.Float64("threshold")
	}
	if c.IsSet("max-pages") {
		cfg.Ingest.MaxPages = c.Int("max-pages")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	ctx := context.Background()

	var result *dto.IngestResult
	if len(keywords) > 0 {
		result, err = container.BookAIService.Ingest(ctx, uuid.New().String(), keywords)
		if err != nil {
			return err
		}
	}

	if retagLimit > 0 {
		books, err := container.UowFactory.NewUnitOfWork(ctx).BookCorpusRepository().FindAll(ctx,
			specification.FallbackTagged{},
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Pagination{Limit: retagLimit},
		)
		if err != nil {
			return fmt.Errorf("load fallback-tagged books: %w", err)
		}
		for _, b := range books {
			container.Coordinator.RecordFailure(b.Isbn)
		}
		log.Printf("Queued %d books for tagging retry", len(books))
	}

	if !c.Bool("no-flush") {
		container.Close(ctx)
	} else if container.Coordinator != nil {
		log.Printf("%d books left queued for tagging retry", container.Coordinator.Pending())
	}

	if result != nil {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
	}
	return nil
}
