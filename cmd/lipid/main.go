package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"lipid/internal/di"
	"lipid/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "mirror logs to stderr")
	flag.Parse()

	// .env is optional; GEMINI_API_KEY may come from the environment.
	_ = godotenv.Load()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "lipid: %s\n", err)
		os.Exit(1)
	}
}
