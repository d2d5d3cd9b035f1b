package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"destek-backend/application/services"
	"destek-backend/domain/faq"
	"destek-backend/infrastructure/config"
	"destek-backend/infrastructure/di"
	"destek-backend/infrastructure/vectorindex"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const batchSize = 20

func main() {
	_ = godotenv.Load()

	var (
		csvPath = flag.String("csv", "faqs.csv", "path to the FAQ CSV file (id,question,answer,category)")
		dryRun  = flag.Bool("dry-run", false, "embed into an in-memory index instead of the configured one")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	corpus := container.Corpus
	if *dryRun {
		provider, err := di.ProvideEmbeddingProvider(cfg, logger)
		if err != nil {
			log.Fatalf("Failed to create embedding provider: %v", err)
		}
		corpus = services.NewCorpusService(provider, vectorindex.NewMemoryIndex(), logger)
		logger.Info("dry run: using in-memory vector index")
	}

	entries, err := readEntries(*csvPath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *csvPath, err)
	}
	logger.Info("loaded FAQ entries", zap.String("file", *csvPath), zap.Int("count", len(entries)))

	imported := 0
	for start := 0; start < len(entries); start += batchSize {
		end := start + batchSize
		if end > len(entries) {
			end = len(entries)
		}

		if err := corpus.UpsertEntries(ctx, entries[start:end]); err != nil {
			log.Fatalf("Failed to import batch starting at %d: %v", start, err)
		}
		imported = end
		logger.Info("import progress", zap.Int("done", imported), zap.Int("total", len(entries)))
	}

	fmt.Printf("Imported %d FAQ entries\n", imported)
}

// readEntries parses a CSV of id,question,answer,category rows.
// A header row is detected and skipped; missing ids are generated.
func readEntries(path string) ([]faq.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var entries []faq.Entry
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		if line == 1 && len(record) > 1 && record[1] == "question" {
			continue
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("line %d: expected at least 3 columns, got %d", line, len(record))
		}

		entry := faq.Entry{
			ID:       record[0],
			Question: record[1],
			Answer:   record[2],
		}
		if len(record) > 3 {
			entry.Category = record[3]
		}
		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
