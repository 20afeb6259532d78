// Command fruitstand is the operator console for the storefront.
package main

import "github.com/fruitstand-dev/fruitstand/internal/cli"

func main() {
	cli.Execute()
}
