package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/DRSN-tech/catalog-service/internal/app"
	config "github.com/DRSN-tech/catalog-service/internal/cfg"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/joho/godotenv"
)

//	@title			Catalog Service API
//	@version		1.0
//	@description	Каталог товаров и статистика по нему
//	@host			localhost:8080
//	@BasePath		/api/v1
func main() {
	log := logger.NewSlogLogger()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Errorf(err, "failed to load .env")
		os.Exit(1)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
