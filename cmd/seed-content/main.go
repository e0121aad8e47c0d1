package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/studylite/studylite-backend/internal/config"
	"github.com/studylite/studylite-backend/internal/database"
	"github.com/studylite/studylite-backend/internal/logger"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/repository"
	"github.com/studylite/studylite-backend/internal/validator"
)

// seed-content uploads every content file in a directory into the
// content_files table used by CONTENT_SOURCE=postgres.
func main() {
	cfg := config.Load()

	var dir string
	flag.StringVar(&dir, "dir", cfg.ContentDir, "Directory of subject JSON files")
	flag.Parse()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	files, err := collect(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("Failed to read content")
	}
	if len(files) == 0 {
		log.Fatal().Str("dir", dir).Msg("No content files found")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	src := repository.NewPostgresSource(pool)
	if err := src.UpsertAll(ctx, files); err != nil {
		log.Fatal().Err(err).Msg("Failed to store content")
	}

	names, err := src.ListNames(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list content")
	}
	fmt.Printf("Seed completed! %d files uploaded, %d stored in total.\n", len(files), len(names))
}

// collect reads and validates every *.json file in dir.
func collect(dir string) ([]repository.ContentFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	files := make([]repository.ContentFile, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		if err := repository.ValidateContentName(name); err != nil {
			fmt.Printf("Skipping %s: %v\n", name, err)
			continue
		}
		body, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if err := check(name, body); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		files = append(files, repository.ContentFile{Name: name, Body: body})
	}
	return files, nil
}

func check(name string, body []byte) error {
	var v interface{} = &model.QuestionBank{}
	if strings.HasSuffix(name, "-notes.json") {
		v = &model.NoteSet{}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return err
	}
	if err := validator.Validate(v); err != nil {
		return errors.New(validator.Describe(err))
	}
	return nil
}
