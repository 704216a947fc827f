package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kthandra777/hotelfinder-pro/internal/app"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := app.Run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
