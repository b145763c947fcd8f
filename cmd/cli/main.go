package main

import (
	"fmt"
	"os"

	"github.com/crucial707/todoapp/cmd/cli/root"

	// Subcommands register themselves with the root command.
	_ "github.com/crucial707/todoapp/cmd/cli/migrate"
	_ "github.com/crucial707/todoapp/cmd/cli/users"
)

func main() {
	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
