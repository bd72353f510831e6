package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/download-zillow-listings/internal/app"
)

func main() {
	if err := app.Run(app.New(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
