// Command linkdash is an interactive terminal client for the URL
// shortening API: sign up, log in, and manage your short links.
package main

import (
	"fmt"
	"os"

	"github.com/patric-chuzhbe/linkdash/internal/app"
	"github.com/patric-chuzhbe/linkdash/internal/config"
)

func main() {
	if err := run(); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run()
}
