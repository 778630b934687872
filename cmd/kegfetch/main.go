package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	cmd "github.com/MrSnakeDoc/kegfetch/internal"
	"github.com/MrSnakeDoc/kegfetch/internal/logger"
	"github.com/MrSnakeDoc/kegfetch/internal/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, middleware.ErrLogged) {
			logger.LogError("%s", err)
		}
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}
