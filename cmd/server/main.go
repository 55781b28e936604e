// Package main is the entry point for the emubank API server
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/james-see/emubank/pkg/api"
	"github.com/james-see/emubank/pkg/config"
)

func main() {
	configPath := flag.String("config", config.DefaultFile, "Config file")
	port := flag.String("port", "", "Server port (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *port == "" {
		*port = cfg.Port
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fmt.Printf("Starting emubank API server on port %s...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%s/swagger/index.html\n", *port)

	if err := api.StartServer(*port, api.Options{
		Rate:     cfg.Rate,
		Burst:    cfg.Burst,
		Capacity: cfg.Capacity(),
		Logger:   log,
	}); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
