// Command tagctl renders tag images from the command line and manages the
// stored logo asset.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return NewApp(os.Stdout, nil).Execute()
}
