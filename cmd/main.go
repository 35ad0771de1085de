package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/quizkit/quizkit/internal/config"
	"github.com/quizkit/quizkit/internal/fuzzy"
	"github.com/quizkit/quizkit/internal/server"
	"github.com/quizkit/quizkit/internal/store"
)

func main() {
	c, err := loadConfig()
	if err != nil {
		log.Fatalf("Load config failed: %v", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, os.Interrupt)

	s, err := server.Init(c)
	if err != nil {
		log.Fatalf("Init server failed: %v", err)
	}

	go s.Start()

	<-shutdown
	s.Shutdown()
}

// loadConfig starts from runnable defaults and layers the CONFIG_PATH file,
// when set, and environment variables on top.
func loadConfig() (server.Config, error) {
	var c server.Config
	c.HTTP.Port = 8080
	c.Ops.Port = 9090
	c.Store.Driver = string(store.DriverMemory)
	c.Scoring.FuzzyThreshold = fuzzy.DefaultThreshold

	if err := config.Load(os.Getenv("CONFIG_PATH"), &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}

	return c, nil
}
