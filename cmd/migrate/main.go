package main

import (
	"fmt"
	"log"
	"os"

	"bookapp-ai-be/internal/model"
	"bookapp-ai-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		log.Fatalf("Error: pgvector extension is required: %v", err)
	}

	log.Println("Step 2: Running AutoMigrate...")
	if err := db.AutoMigrate(&model.BookCorpus{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Creating Indexes...")
	indexSQL := []string{
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_book_corpus_embedding_hnsw ON %s USING hnsw (embedding vector_cosine_ops);`, model.BookCorpus{}.TableName()),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_book_corpus_created_at ON %s (created_at DESC);`, model.BookCorpus{}.TableName()),
	}
	for _, sql := range indexSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to create index: %v", err)
		}
	}

	log.Println("Success: Database migration completed.")
}
