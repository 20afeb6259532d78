// orders.go implements the "fruitstand orders", "queue", "fulfill", and
// "unfulfill" commands.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fruitstand-dev/fruitstand/internal/api"
	"github.com/fruitstand-dev/fruitstand/internal/store"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show your order history",
	RunE:  runOrders,
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the order fulfillment queue (admin)",
	RunE:  runQueue,
}

var fulfillCmd = &cobra.Command{
	Use:   "fulfill <order-id>",
	Short: "Mark an order fulfilled (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runFulfill,
}

var unfulfillCmd = &cobra.Command{
	Use:   "unfulfill <order-id>",
	Short: "Revert an order to unfulfilled (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnfulfill,
}

func runOrders(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Orders.LoadHistory(cmd.Context()); err != nil {
		return err
	}
	printOrders(env.Orders.History(), false)
	return nil
}

func runQueue(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Orders.LoadQueue(cmd.Context()); err != nil {
		return err
	}
	printOrders(env.Orders.Queue(), true)
	return nil
}

func runFulfill(cmd *cobra.Command, args []string) error {
	return toggleFulfilled(cmd, args[0], true)
}

func runUnfulfill(cmd *cobra.Command, args []string) error {
	return toggleFulfilled(cmd, args[0], false)
}

func toggleFulfilled(cmd *cobra.Command, rawID string, fulfilled bool) error {
	orderID, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("order id must be an integer: %w", err)
	}

	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Orders.LoadQueue(cmd.Context()); err != nil {
		return err
	}

	if fulfilled {
		err = env.Orders.Fulfill(cmd.Context(), orderID)
	} else {
		err = env.Orders.Unfulfill(cmd.Context(), orderID)
	}
	if err != nil {
		return err
	}

	if fulfilled {
		fmt.Printf("Order #%d fulfilled\n", orderID)
	} else {
		fmt.Printf("Order #%d reverted to unfulfilled\n", orderID)
	}
	return nil
}

func printOrders(orders *store.Store[api.Order], showUser bool) {
	snap := orders.Snapshot()
	if len(snap) == 0 {
		fmt.Println("No orders.")
		return
	}

	for _, o := range snap {
		status := "Ongoing"
		if o.Fulfilled {
			status = "Completed"
		}
		fmt.Printf("Order #%d  %s  %s  %s", o.ID, o.CreatedAt.Format("02 Jan 06 (15:04:05)"), dollars(o.TotalPriceCents), status)
		if showUser {
			fmt.Printf("  user #%d %s", o.UsersID, o.Username)
		}
		fmt.Println()
		for _, d := range o.Details {
			fmt.Printf("    %s x %d at %s each\n", d.FruitName, d.Quantity, dollars(d.PriceCents))
		}
	}
}
