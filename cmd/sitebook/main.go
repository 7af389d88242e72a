package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/sitebook/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.DefaultOptions()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
