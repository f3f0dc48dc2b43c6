package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd - родительская команда для всех операций с авторизацией пользователя
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление пользователем",
	Long:  `Авторизация и регистрация в зале.`,
}

func init() {
	AuthCmd.AddCommand(LoginCmd)
	AuthCmd.AddCommand(RegisterCmd)
}
