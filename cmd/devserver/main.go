package main

import (
	"fmt"
	"os"

	"github.com/quillhq/quill/cmd/devserver/server"
	"github.com/quillhq/quill/common/config"
	"github.com/quillhq/quill/common/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	srv := server.New(cfg.Server.JWTSecret, log)
	if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
