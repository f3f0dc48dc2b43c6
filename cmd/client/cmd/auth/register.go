// cmd/client/cmd/auth/register.go
package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gymsync/cmd/client/cmd/types"
	"gymsync/internal/app/client"
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрироваться в Gymsync",
	Long: `Регистрация нового пользователя на сервере Gymsync.

Логин: 3-32 символа, латинские буквы, цифры и знаки _-.
Пароль: не менее 8 символов, хотя бы одна буква и одна цифра.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}
		defer app.Close()

		fmt.Println("=== Регистрация ===")
		fmt.Println()

		fmt.Print("Логин: ")
		var login string
		_, _ = fmt.Scanln(&login)

		fmt.Print("Пароль: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Println()

		fmt.Print("Повторите пароль: ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Println()

		if string(password) != string(confirm) {
			return fmt.Errorf("пароли не совпадают")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		id, err := app.Register(ctx, login, string(password))
		if err != nil {
			return fmt.Errorf("ошибка регистрации: %w", err)
		}

		fmt.Println()
		color.Green("Регистрация выполнена, ID пользователя: %d", id)
		fmt.Println("Теперь выполните вход: gymsync auth login")

		return nil
	},
}
