package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/studylite/studylite-backend/internal/config"
	"github.com/studylite/studylite-backend/internal/export"
	"github.com/studylite/studylite-backend/internal/logger"
	"github.com/studylite/studylite-backend/internal/quiz"
	"github.com/studylite/studylite-backend/internal/repository"
	"github.com/studylite/studylite-backend/internal/service"
	"github.com/studylite/studylite-backend/internal/validator"
)

// bank-export writes a subject's question bank to an .xlsx workbook.
func main() {
	cfg := config.Load()

	var code, out string
	flag.StringVar(&code, "subject", "", "Subject code, e.g. math")
	flag.StringVar(&out, "out", "", "Output file (default <subject>-questions.xlsx)")
	flag.Parse()

	if code == "" {
		fmt.Println("Usage: bank-export -subject <code> [-out file.xlsx]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if out == "" {
		out = code + "-questions.xlsx"
	}

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var source repository.ContentSource = repository.NewFileSource(cfg.ContentDir)
	if cfg.ContentSource == config.ContentSourceHTTP && cfg.ContentBaseURL != "" {
		source = repository.NewHTTPSource(cfg.ContentBaseURL, nil)
	}

	catalog := service.NewCatalogService(config.Subjects, nil, cfg.Payment, log)
	content := service.NewContentService(catalog, source, quiz.NewEngine(nil), log)

	bank, err := content.LoadQuestionBank(ctx, code)
	if err != nil {
		log.Fatal().Err(err).Str("subject", code).Msg("Failed to load questions")
	}

	f, err := export.BankWorkbook(bank)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build workbook")
	}
	defer f.Close()

	if err := f.SaveAs(out); err != nil {
		log.Fatal().Err(err).Str("out", out).Msg("Failed to save workbook")
	}
	fmt.Printf("Exported %d questions to %s\n", len(bank.Questions), out)
}
