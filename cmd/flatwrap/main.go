package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/blackwell-systems/flatwrap/internal/app"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var exitErr *app.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(app.ExitFailure)
	}
}
