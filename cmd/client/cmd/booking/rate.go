// cmd/client/cmd/booking/rate.go
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gymsync/cmd/client/cmd/types"
	"gymsync/internal/app/client"
)

var rating int

var RateCmd = &cobra.Command{
	Use:   "rate <id>",
	Short: "Оценить прошедшую тренировку",
	Long: `Оценка подтвержденной тренировки после ее окончания.

Оценка проверяется сервером, без сети команда не работает.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}
		defer app.Close()

		if !app.IsAuthenticated() {
			return fmt.Errorf("требуется аутентификация. Выполните: gymsync auth login")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.RateBooking(ctx, args[0], rating); err != nil {
			return fmt.Errorf("ошибка оценки: %w", err)
		}

		color.Green("Спасибо за оценку!")
		return nil
	},
}

func init() {
	RateCmd.Flags().IntVarP(&rating, "rating", "r", 0, "оценка от 1 до 5")
	_ = RateCmd.MarkFlagRequired("rating")
}
