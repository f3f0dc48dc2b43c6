// cmd/client/cmd/booking/list.go
package booking

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gymsync/cmd/client/cmd/types"
	"gymsync/internal/app/client"
	"gymsync/internal/domain/booking"
)

var (
	listFormat string
	listMine   bool
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список записей на тренировки",
	Long: `Просмотр записей по локальному снимку.

Офлайн показывается последнее известное состояние.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}
		defer app.Close()

		bookings := app.Bookings()

		if listMine {
			mine := make([]booking.Booking, 0, len(bookings))
			for _, b := range bookings {
				if b.UserID == app.UserID() {
					mine = append(mine, b)
				}
			}
			bookings = mine
		}

		switch listFormat {
		case "json":
			return printJSON(bookings)
		default:
			return printTable(bookings)
		}
	},
}

func printTable(bookings []booking.Booking) error {
	if len(bookings) == 0 {
		fmt.Println("Записи не найдены")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tТРЕНЕР\tДАТА\tСЛОТ\tСТАТУС\tОЦЕНКА")

	for _, b := range bookings {
		rating := "-"
		if b.Rating > 0 {
			rating = fmt.Sprintf("%d", b.Rating)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.TrainerID, b.Date, b.TimeSlot, b.Status, rating)
	}

	return w.Flush()
}

func printJSON(bookings []booking.Booking) error {
	data, err := json.MarshalIndent(bookings, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

func init() {
	ListCmd.Flags().StringVar(&listFormat, "format", "table", "формат вывода: table, json")
	ListCmd.Flags().BoolVar(&listMine, "mine", false, "только мои записи")
}
