package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"messenger-chat-stats/internal/adapters/exporter"
	"messenger-chat-stats/internal/client"
	"messenger-chat-stats/internal/ports"
)

func main() {
	var (
		serverAddr   string
		topWords     int
		format       string
		outPath      string
		pollInterval time.Duration
	)
	flag.StringVar(&serverAddr, "server", "http://localhost:8080", "Server address")
	flag.IntVar(&topWords, "top", 0, "Number of top words (0 - server default)")
	flag.StringVar(&format, "format", "text", "Output format: text, json, xlsx")
	flag.StringVar(&outPath, "out", "", "Output file (stdout if empty)")
	flag.DurationVar(&pollInterval, "poll", 2*time.Second, "Task status poll interval")
	flag.Parse()

	newExporter, err := exporterFor(format)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.NewServerClient(serverAddr)

	// Без аргументов выводим каталог чатов
	if flag.NArg() == 0 {
		chats, err := c.ListChats(ctx)
		if err != nil {
			log.Fatalf("Не удалось получить список чатов: %v", err)
		}
		if len(chats) == 0 {
			fmt.Println("Чаты не найдены.")
			return
		}
		for _, chat := range chats {
			fmt.Printf("%-40s %8d  %s\n", chat.ID, chat.MessageCount, chat.Title)
		}
		return
	}

	chatID := flag.Arg(0)
	started, err := c.StartStats(ctx, chatID, topWords)
	if err != nil {
		log.Fatalf("Не удалось запустить задачу: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Задача создана с идентификатором: %s\n", started.TaskID)

	status, err := c.WaitForTask(ctx, started.TaskID, pollInterval)
	if err != nil {
		log.Fatalf("Не удалось опросить статус задачи: %v", err)
	}
	if status.Status == "failed" {
		fmt.Fprintf(os.Stderr, "Задача не выполнена (%s): %s\n", status.ErrorKind, status.ErrorMessage)
		os.Exit(1)
	}

	result, err := c.GetTaskResult(ctx, started.TaskID)
	if err != nil {
		log.Fatalf("Не удалось получить результат: %v", err)
	}

	out := io.Writer(os.Stdout)
	if outPath != "" {
		file, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("Не удалось создать файл %s: %v", outPath, err)
		}
		defer file.Close()
		out = file
	}

	if err := newExporter(out).Export(result); err != nil {
		log.Fatalf("Не удалось вывести результат: %v", err)
	}
	if notice := exporter.SkippedNotice(result.Report); notice != "" && format != "text" {
		fmt.Fprintln(os.Stderr, notice)
	}
}

func exporterFor(format string) (func(io.Writer) ports.Exporter, error) {
	switch format {
	case "text":
		return exporter.NewConsoleExporter, nil
	case "json":
		return exporter.NewJSONExporter, nil
	case "xlsx":
		return exporter.NewExcelExporter, nil
	default:
		return nil, errors.New("неизвестный формат вывода: " + format)
	}
}
