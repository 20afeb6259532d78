// status.go implements the "fruitstand status" command showing the
// current session and recent logins.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	fmt.Println("Fruitstand Status")
	fmt.Printf("API: %s\n", env.Cfg.API.BaseURL)
	fmt.Println()

	sess := env.Sessions.Current()
	if !sess.Status {
		fmt.Println("Not logged in. Run 'fruitstand login' first.")
		return nil
	}

	fmt.Printf("Logged in as %s (%s), user #%d\n", sess.Username, sess.Role, sess.UserID)

	records, err := env.Store.ListLogins(5)
	if err != nil {
		return fmt.Errorf("listing logins: %w", err)
	}
	if len(records) > 0 {
		fmt.Println()
		fmt.Println("Recent logins:")
		for _, rec := range records {
			fmt.Printf("  %s  %-12s  %s\n", rec.CreatedAt.Format("02 Jan 06 15:04"), rec.Username, rec.Role)
		}
	}
	return nil
}
