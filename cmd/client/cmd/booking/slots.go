// cmd/client/cmd/booking/slots.go
package booking

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gymsync/cmd/client/cmd/types"
	"gymsync/internal/app/client"
	"gymsync/internal/domain/booking"
)

var (
	slotsTrainer string
	slotsDate    string
)

var SlotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Слоты рабочего дня",
	Long: `Сетка слотов рабочего дня с состоянием каждого слота по локальному
снимку записей: свободен, моя запись или занят другой заявкой.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}
		defer app.Close()

		slots := booking.GenerateDailySlots(booking.DefaultStartHour, booking.DefaultSlotCount)

		for _, slot := range slots {
			if slotsTrainer == "" || slotsDate == "" {
				fmt.Println(slot)
				continue
			}

			switch app.ClassifySlot(slotsTrainer, slotsDate, slot) {
			case booking.SlotMine:
				color.Cyan("%s  моя запись", slot)
			case booking.SlotConflict:
				color.Yellow("%s  занят", slot)
			default:
				fmt.Printf("%s  свободен\n", slot)
			}
		}

		return nil
	},
}

func init() {
	SlotsCmd.Flags().StringVarP(&slotsTrainer, "trainer", "t", "", "ID тренера")
	SlotsCmd.Flags().StringVarP(&slotsDate, "date", "d", "", "дата (2006-01-02)")
}
