// Command blockvm runs and inspects compiled blockvm bytecode.
package main

import (
	"fmt"
	"os"

	"github.com/blocklang/blockvm/cmd/blockvm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
