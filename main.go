package main

import (
	"fmt"
	"os"

	"newsdesk/pkg/app"
	"newsdesk/pkg/config"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	app.Run(cfg)
}
