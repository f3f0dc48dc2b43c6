package booking

import (
	"github.com/spf13/cobra"
)

// BookingCmd - родительская команда для операций с записями на тренировки
var BookingCmd = &cobra.Command{
	Use:   "booking",
	Short: "Записи на тренировки",
	Long:  `Запись на персональные тренировки, просмотр и оценка прошедших.`,
}

func init() {
	BookingCmd.AddCommand(CreateCmd)
	BookingCmd.AddCommand(ListCmd)
	BookingCmd.AddCommand(RateCmd)
	BookingCmd.AddCommand(SlotsCmd)
}
