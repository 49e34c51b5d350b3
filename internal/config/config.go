package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Host string
	Port string

	// Where the processed book folders (<id>_data) live.
	BooksDir string

	// Book cache
	BookCacheSize int

	// Largest book.json the loader will read.
	MaxBookBytes int64
}

func Load() Config {
	cfg := Config{
		Host: envOr("HOST", "127.0.0.1"),
		Port: envOr("PORT", "8123"),

		BooksDir: envOr("BOOKS_DIR", "."),

		BookCacheSize: envInt("BOOK_CACHE_SIZE", 10),

		MaxBookBytes: envInt64("MAX_BOOK_BYTES", 104857600), // 100MB
	}

	if cfg.BookCacheSize <= 0 {
		cfg.BookCacheSize = 10
	}
	if cfg.MaxBookBytes <= 0 {
		cfg.MaxBookBytes = 104857600
	}

	return cfg
}

func (c Config) Validate() error {
	if c.BooksDir == "" {
		return fmt.Errorf("BOOKS_DIR must not be empty")
	}
	info, err := os.Stat(c.BooksDir)
	if err != nil {
		return fmt.Errorf("BOOKS_DIR %q: %w", c.BooksDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("BOOKS_DIR %q is not a directory", c.BooksDir)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
