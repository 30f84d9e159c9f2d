package main

import (
	"medbook/internal/doctors/handler"
	"medbook/internal/doctors/repository"
	"medbook/internal/doctors/service"
	"medbook/pkg/app"
	"medbook/pkg/config"
)

const ServiceName = "doctors"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Doctors service")
	directoryService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewDirectoryHandler(directoryService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.DirectoryService {
	doctorRepo := repository.NewMongoDoctorRepository(cfg)
	specialtyRepo := repository.NewMongoSpecialtyRepository(cfg)
	directoryService := service.NewDirectoryService(doctorRepo, specialtyRepo, cfg.Log)

	cfg.Log.Info("Directory service initialized", "database", cfg.MongoDatabaseName)
	return directoryService
}
