package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/app"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/config"
)

// Exit codes: 0 success (including "no new matches"), 1 fetch or other
// runtime failure, 2 configuration error.
func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)

		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
