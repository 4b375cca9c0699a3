package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/um6_computer/internal/app"
	"github.com/relabs-tech/um6_computer/internal/config"
)

func main() {
	configPath := flag.String("config", "./um6_config.txt", "path to configuration file")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
