// login.go implements the "fruitstand login" and "fruitstand logout"
// commands.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fruitstand-dev/fruitstand/internal/storefront"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the storefront",
	Long: `Prompt for a username and password and exchange them for a session.
The credential is persisted, so subsequent commands stay logged in until
logout or the server rejects it.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored credential",
	RunE:  runLogout,
}

func runLogin(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	fmt.Print("Username: ")
	reader := bufio.NewReader(os.Stdin)
	username, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading username: %w", err)
	}
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	result, err := env.Auth.Login(cmd.Context(), username, string(passwordBytes))
	if err != nil {
		var verrs storefront.ValidationErrors
		if errors.As(err, &verrs) {
			for _, v := range verrs {
				fmt.Fprintln(os.Stderr, v.Message)
			}
			return fmt.Errorf("login aborted")
		}
		return err
	}

	if result.Message != "" {
		fmt.Println(result.Message)
	}
	fmt.Printf("Logged in as %s (%s)\n", result.Username, result.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if !env.Sessions.Current().Status {
		fmt.Println("Not logged in.")
		return nil
	}

	env.Auth.Logout()
	fmt.Println("Logged out.")
	return nil
}
