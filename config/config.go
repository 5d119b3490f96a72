package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultExportsSubDir = "exports"
)

const (
	defaultPort      = 8080
	defaultUndoDepth = 50
)

type Config struct {
	// database path (people table and history stacks share one file)
	DatabasePath string

	// http listener
	Port               int
	CORSAllowedOrigins []string

	// full-calculated path where export archives are written
	ExportStoragePath string

	// history settings
	UndoDepth      int
	PersistHistory bool

	// fill an empty database with the starter family
	SeedOnEmpty bool
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using default %t. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "familyring.db")

	exportStorage := getEnvOrDefault("EXPORT_STORAGE_PATH", filepath.Join(".", DefaultExportsSubDir))
	absExportStorage, err := filepath.Abs(exportStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for export storage '%s': %w", exportStorage, err)
	}

	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))
	if len(origins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS must name at least one origin")
	}

	cfg := Config{
		DatabasePath:       dbPath,
		Port:               getEnvIntOrDefault("PORT", defaultPort),
		CORSAllowedOrigins: origins,
		ExportStoragePath:  absExportStorage,
		UndoDepth:          getEnvIntOrDefault("UNDO_DEPTH", defaultUndoDepth),
		PersistHistory:     getEnvBoolOrDefault("PERSIST_HISTORY", true),
		SeedOnEmpty:        getEnvBoolOrDefault("SEED_ON_EMPTY", true),
	}

	return cfg, nil
}
