package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"messenger-chat-stats/internal/adapters/exporter"
	"messenger-chat-stats/internal/adapters/source"
	"messenger-chat-stats/internal/domain"
	applog "messenger-chat-stats/internal/log"
	"messenger-chat-stats/internal/pkg/config"
	"messenger-chat-stats/internal/ports"
	"messenger-chat-stats/internal/server/usecase"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run возвращает код выхода: 0 - успех, 1 - ошибка данных или конфигурации, 2 - неверные флаги.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Data.RootDir, "root", cfg.Data.RootDir, "Directory with exported chats")
	chatID := fs.String("chat", "", "Chat folder name (list chats if empty)")
	fs.IntVar(&cfg.Stats.TopWords, "top", cfg.Stats.TopWords, "Number of top words")
	fs.StringVar(&cfg.Stats.Timezone, "tz", cfg.Stats.Timezone, "Report timezone")
	format := fs.String("format", "text", "Output format: text, json, xlsx")
	outPath := fs.String("out", "", "Output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	newExporter, err := exporterFor(*format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	// Логи идут в stderr, чтобы не смешиваться с отчетом
	logger := applog.NewLogger(stderr, cfg.Logging.Level)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config validation failed: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *chatID == "" {
		return listChats(ctx, cfg, stdout, stderr, logger)
	}

	uc, err := usecase.NewFromConfig(cfg, nil, logger)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	result, err := uc.ComputeStats(ctx, *chatID, usecase.StatsOptions{})
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", domain.ErrorKind(err), err)
		return 1
	}

	out := stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(stderr, "failed to create %s: %v\n", *outPath, err)
			return 1
		}
		defer file.Close()
		out = file
	}

	if err := newExporter(out).Export(result); err != nil {
		fmt.Fprintf(stderr, "failed to export result: %v\n", err)
		return 1
	}
	// Текстовый отчет сам печатает уведомление о пропусках
	if notice := exporter.SkippedNotice(result.Report); notice != "" && *format != "text" {
		fmt.Fprintln(stderr, notice)
	}
	return 0
}

func listChats(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) int {
	chats, err := source.NewCatalog(cfg.Data.RootDir, logger).ListChats(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", domain.ErrorKind(err), err)
		return 1
	}
	if len(chats) == 0 {
		fmt.Fprintln(stderr, "Чаты не найдены.")
		return 0
	}
	for _, chat := range chats {
		fmt.Fprintf(stdout, "%-40s %8d  %s\n", chat.ID, chat.MessageCount, chat.Title)
	}
	return 0
}

// exporterFor выбирает конструктор по имени формата до того, как будет создан файл вывода.
func exporterFor(format string) (func(io.Writer) ports.Exporter, error) {
	switch format {
	case "text":
		return exporter.NewConsoleExporter, nil
	case "json":
		return exporter.NewJSONExporter, nil
	case "xlsx":
		return exporter.NewExcelExporter, nil
	default:
		return nil, errors.New("unknown output format: " + format)
	}
}
