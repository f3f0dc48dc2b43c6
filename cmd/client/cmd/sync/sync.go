package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gymsync/cmd/client/cmd/types"
	"gymsync/internal/app/client"
)

var syncStatus bool

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Управление синхронизацией",
	Long: `Синхронизация локальных данных с сервером.

Команда отправляет отложенные записи и показывает статус очереди.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}
		defer app.Close()

		if syncStatus {
			return showSyncStatus(app)
		}

		return runSync(cmd.Context(), app)
	},
}

func runSync(ctx context.Context, app *client.App) error {
	fmt.Println("=== Синхронизация данных ===")

	if app.PendingCount() == 0 {
		color.Green("Очередь пуста, все данные на сервере")
		return nil
	}

	fmt.Println("Проверка соединения с сервером...")
	if err := app.CheckConnection(); err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}

	// Сокет переподключается с задержкой, даем ему время после проверки
	for i := 0; i < 10 && !app.Online(); i++ {
		time.Sleep(time.Second)
	}

	start := time.Now()
	flushed, remaining := app.Flush(ctx)

	fmt.Println()
	if remaining == 0 {
		color.Green("Синхронизация завершена")
	} else {
		color.Yellow("Синхронизация завершена частично")
	}
	fmt.Printf("Время выполнения: %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("Отправлено: %d, осталось: %d\n", flushed, remaining)

	return nil
}

func showSyncStatus(app *client.App) error {
	fmt.Println("=== Статус синхронизации ===")

	if app.Online() {
		color.Green("Соединение: установлено")
	} else {
		color.Yellow("Соединение: офлайн")
	}

	fmt.Printf("Отложенных записей: %d\n", app.PendingCount())
	for _, collection := range app.PendingCollections() {
		fmt.Printf("  • %s\n", collection)
	}

	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "показать статус без отправки")
}
