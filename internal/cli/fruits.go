// fruits.go implements the "fruitstand fruits" command family for
// inventory management.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fruitstand-dev/fruitstand/internal/storefront"
)

var fruitsCmd = &cobra.Command{
	Use:   "fruits",
	Short: "List and manage the fruit inventory",
	Long: `List the fruit inventory. Subcommands add a fruit, amend stock, or
delete a row; those require an admin session.`,
	RunE: runFruitsList,
}

var fruitsAddCmd = &cobra.Command{
	Use:   "add <name> <price-cents> <stock>",
	Short: "Add a fruit to the inventory",
	Args:  cobra.ExactArgs(3),
	RunE:  runFruitsAdd,
}

var fruitsStockCmd = &cobra.Command{
	Use:   "stock <fruit-id> <quantity>",
	Short: "Amend the stock of a fruit",
	Args:  cobra.ExactArgs(2),
	RunE:  runFruitsStock,
}

var fruitsRmCmd = &cobra.Command{
	Use:   "rm <fruit-id>",
	Short: "Delete a fruit from the inventory",
	Args:  cobra.ExactArgs(1),
	RunE:  runFruitsRm,
}

func init() {
	fruitsCmd.AddCommand(fruitsAddCmd)
	fruitsCmd.AddCommand(fruitsStockCmd)
	fruitsCmd.AddCommand(fruitsRmCmd)
}

func runFruitsList(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Fruits.Load(cmd.Context()); err != nil {
		return err
	}

	fruits := env.Fruits.Store().Snapshot()
	if len(fruits) == 0 {
		fmt.Println("No fruits in the inventory.")
		return nil
	}

	fmt.Printf("%-6s  %-16s  %10s  %6s\n", "ID", "Name", "Price", "Stock")
	for _, fr := range fruits {
		fmt.Printf("%-6d  %-16s  %10s  %6d\n", fr.ID, fr.Name, dollars(fr.PriceCents), fr.Stock)
	}
	return nil
}

func runFruitsAdd(cmd *cobra.Command, args []string) error {
	priceCents, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("price must be an integer cent amount: %w", err)
	}
	stock, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("stock must be an integer: %w", err)
	}

	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	// Load first so the duplicate-name check sees the server's rows.
	if err := env.Fruits.Load(cmd.Context()); err != nil {
		return err
	}

	if err := env.Fruits.Add(cmd.Context(), args[0], priceCents, stock); err != nil {
		return reportMutationError(err)
	}
	fmt.Printf("Added %s at %s, stock %d\n", args[0], dollars(priceCents), stock)
	return nil
}

func runFruitsStock(cmd *cobra.Command, args []string) error {
	fruitID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("fruit id must be an integer: %w", err)
	}
	stock, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity must be an integer: %w", err)
	}

	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Fruits.Load(cmd.Context()); err != nil {
		return err
	}

	if err := env.Fruits.AmendStock(cmd.Context(), fruitID, stock); err != nil {
		return reportMutationError(err)
	}
	fmt.Printf("Fruit #%d stock set to %d\n", fruitID, stock)
	return nil
}

func runFruitsRm(cmd *cobra.Command, args []string) error {
	fruitID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("fruit id must be an integer: %w", err)
	}

	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Fruits.Load(cmd.Context()); err != nil {
		return err
	}

	if err := env.Fruits.Delete(cmd.Context(), fruitID); err != nil {
		return reportMutationError(err)
	}
	fmt.Printf("Fruit #%d deleted\n", fruitID)
	return nil
}

// reportMutationError prints field-level validation messages individually
// and passes every other failure through.
func reportMutationError(err error) error {
	var verrs storefront.ValidationErrors
	if errors.As(err, &verrs) {
		for _, v := range verrs {
			fmt.Fprintln(os.Stderr, v.Message)
		}
		return fmt.Errorf("invalid input")
	}
	return err
}
