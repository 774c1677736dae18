package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Uzipoo/ToDo-app/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
