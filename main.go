package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/jobscout/internal/app"
)

func main() {
	if err := app.Run(os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "jobscout: %v\n", err)
		os.Exit(1)
	}
}
