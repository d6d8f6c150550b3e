// Демонстрация слоя синхронизации: коллекция поверх in-memory remote
// и push-канала. "Второе устройство" публикует события в тот же канал,
// пока локальный клиент выполняет оптимистичные мутации.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/iudanet/livesync/internal/models"
	"github.com/iudanet/livesync/internal/push"
	"github.com/iudanet/livesync/internal/remote/memremote"
	"github.com/iudanet/livesync/internal/resource"
	"github.com/iudanet/livesync/pkg/api"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	channel := flag.String("channel", "schools", "Push channel name")
	pollInterval := flag.Duration("poll", 2*time.Second, "Poll interval")
	verbose := flag.Bool("v", false, "Enable debug logging")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *channel, *pollInterval); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, channel string, pollInterval time.Duration) error {
	ctx := context.Background()

	// "Сервер": in-memory коллекция с парой записей
	srv := memremote.New()
	srv.Seed(
		&models.Entity{ID: "school-1", Version: 1, Data: json.RawMessage(`{"id":"school-1","version":1,"name":"Hill Valley High"}`)},
		&models.Entity{ID: "school-2", Version: 1, Data: json.RawMessage(`{"id":"school-2","version":1,"name":"Shermer High"}`)},
	)

	hub := push.NewHub()

	collection, err := resource.New(resource.Config{
		Remote:       srv,
		Pusher:       hub,
		Channel:      channel,
		PollInterval: pollInterval,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	defer collection.Close()

	unsubscribe := collection.Subscribe(func() {
		status := collection.Status()
		names := make([]string, 0, len(collection.Data()))
		for _, entity := range collection.Data() {
			suffix := ""
			if entity.Pending {
				suffix = " (pending)"
			}
			names = append(names, entity.ID+suffix)
		}
		logger.Info("collection changed",
			"entities", names,
			"loading", status.Loading,
			"error", status.Err)
	})
	defer unsubscribe()

	if err := collection.Start(ctx); err != nil {
		return fmt.Errorf("failed to start collection: %w", err)
	}

	// Ждем начальный fetch
	time.Sleep(100 * time.Millisecond)

	// Локальная оптимистичная мутация
	logger.Info("creating school locally")
	if err := collection.Create(ctx, json.RawMessage(`{"name":"Sunnydale High"}`)); err != nil {
		return fmt.Errorf("create failed: %w", err)
	}

	// "Второе устройство" переименовывает школу и публикует push
	logger.Info("second device renames school-1")
	renamed, err := srv.Update(ctx, "school-1", json.RawMessage(`{"name":"Hill Valley High (renamed)"}`))
	if err != nil {
		return fmt.Errorf("remote update failed: %w", err)
	}
	hub.Publish(channel, api.EventResourceUpdated, renamed.Data)

	// И удаляет вторую
	logger.Info("second device deletes school-2")
	if err := srv.Delete(ctx, "school-2"); err != nil {
		return fmt.Errorf("remote delete failed: %w", err)
	}
	hub.Publish(channel, api.EventResourceDeleted, []byte(`{"id":"school-2"}`))

	// Даем поллеру сойтись и показываем финал
	time.Sleep(2 * pollInterval)

	fmt.Println("Final collection state:")
	for _, entity := range collection.Data() {
		fmt.Printf("  %s (version %d): %s\n", entity.ID, entity.Version, string(entity.Data))
	}
	return nil
}

func printVersion() {
	fmt.Printf("livesync-demo %s\n", Version)
	fmt.Printf("  build date: %s\n", BuildDate)
	fmt.Printf("  git commit: %s\n", GitCommit)
}
