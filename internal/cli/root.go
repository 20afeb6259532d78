// Package cli defines Cobra command definitions for the fruitstand CLI.
// This file contains the root command, version flag, and help output.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fruitstand-dev/fruitstand/internal/tui"
	"github.com/fruitstand-dev/fruitstand/internal/tui/app"
)

var (
	version = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "fruitstand",
	Short: "Storefront operations console",
	Long: `Fruitstand is the operator console for a small storefront.
Log in, manage the fruit inventory, and track or fulfil customer orders,
interactively or through subcommands.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When no subcommand is provided, launch the TUI if TTY, show
		// help otherwise.
		if !tui.IsTTY() {
			return cmd.Help()
		}

		env, err := newEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		tuiApp := app.New(env.Auth, env.Fruits, env.Orders, env.Sessions)
		return tui.Run(tuiApp)
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(fruitsCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(fulfillCmd)
	rootCmd.AddCommand(unfulfillCmd)
}
