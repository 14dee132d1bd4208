package main

import (
	"fmt"
	"log"

	"github.com/dzyusuf20/voting-appAPI/internal/config"
	"github.com/dzyusuf20/voting-appAPI/internal/database"
	"github.com/dzyusuf20/voting-appAPI/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg.DBDSN)

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
