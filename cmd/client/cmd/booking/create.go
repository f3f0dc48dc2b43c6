// cmd/client/cmd/booking/create.go
package booking

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gymsync/cmd/client/cmd/types"
	"gymsync/internal/app/client"
	"gymsync/internal/domain/booking"
)

var (
	trainerID string
	date      string
	timeSlot  string
	force     bool
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Записаться на тренировку",
	Long: `Создание заявки на персональную тренировку.

Заявка пишется локально и отправляется на сервер в фоне: команда работает
и без сети, запись доедет при восстановлении соединения. Занятый слот не
блокирует запись — решение принимает администратор.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}
		defer app.Close()

		if !app.IsAuthenticated() {
			return fmt.Errorf("требуется аутентификация. Выполните: gymsync auth login")
		}

		// Предупреждаем о состоянии слота до записи
		switch app.ClassifySlot(trainerID, date, timeSlot) {
		case booking.SlotMine:
			return fmt.Errorf("вы уже записаны на этот слот")
		case booking.SlotConflict:
			color.Yellow("Слот уже занят другой заявкой. Администратор рассмотрит обе.")
			if !force {
				fmt.Print("Продолжить? [y/N]: ")
				var answer string
				_, _ = fmt.Scanln(&answer)
				if !strings.EqualFold(answer, "y") {
					fmt.Println("Запись отменена")
					return nil
				}
			}
		}

		b, err := app.CreateBooking(trainerID, date, timeSlot)
		if err != nil {
			return fmt.Errorf("ошибка создания записи: %w", err)
		}

		fmt.Println()
		color.Green("Заявка создана: %s", b.ID)
		fmt.Printf("Тренер: %s, %s %s, статус: %s\n", b.TrainerID, b.Date, b.TimeSlot, b.Status)

		if !app.Online() {
			color.Yellow("Сервер недоступен, заявка отправится при восстановлении соединения")
		}

		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVarP(&trainerID, "trainer", "t", "", "ID тренера")
	CreateCmd.Flags().StringVarP(&date, "date", "d", "", "дата тренировки (2006-01-02)")
	CreateCmd.Flags().StringVarP(&timeSlot, "slot", "s", "", "слот, например \"10:00 - 11:00\"")
	CreateCmd.Flags().BoolVarP(&force, "force", "f", false, "не спрашивать подтверждение при конфликте")

	_ = CreateCmd.MarkFlagRequired("trainer")
	_ = CreateCmd.MarkFlagRequired("date")
	_ = CreateCmd.MarkFlagRequired("slot")
}
