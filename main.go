package main

import (
	"github.com/readscope/readscope/config"
	"github.com/readscope/readscope/models"
	"github.com/readscope/readscope/routes"
	"github.com/readscope/readscope/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Article{},
		&models.ContentBlock{},
		&models.ReadingStat{},
		&models.ReadingSession{},
		&models.Highlight{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
