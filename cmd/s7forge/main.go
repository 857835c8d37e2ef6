package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd, cc := newRootCommand()
	err := cmd.Execute()
	cc.close()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
