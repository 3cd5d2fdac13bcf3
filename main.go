package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Collins-II/loudear-music-sub000/internal/di"
	"github.com/Collins-II/loudear-music-sub000/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "duplicate logs to stderr")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "loudeard: %s\n", err)
		os.Exit(1)
	}
}
