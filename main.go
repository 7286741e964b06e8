package main

import (
	"flag"
	"learnpath_backend/internal/app"
	"learnpath_backend/internal/config"
	"learnpath_backend/pkg/logger"
	"log"
)

func main() {
	configPath := flag.String("config", "configs", "directory containing config.yaml")
	contentFile := flag.String("content", "", "override path of the curriculum catalog file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *contentFile != "" {
		cfg.Content.File = *contentFile
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
