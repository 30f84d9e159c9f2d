package main

import (
	apptsrepo "medbook/internal/appointments/repository"
	doctorsrepo "medbook/internal/doctors/repository"
	"medbook/internal/suggestions/handler"
	"medbook/internal/suggestions/service"
	"medbook/pkg/app"
	"medbook/pkg/config"
)

const ServiceName = "suggestions"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Suggestions service")
	suggestionService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewSuggestionHandler(suggestionService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.SuggestionService {
	apptRepo := apptsrepo.NewMongoAppointmentRepository(cfg)
	doctorRepo := doctorsrepo.NewMongoDoctorRepository(cfg)
	specialtyRepo := doctorsrepo.NewMongoSpecialtyRepository(cfg)
	suggestionService := service.NewSuggestionService(cfg, apptRepo, doctorRepo, specialtyRepo, cfg.Log)

	cfg.Log.Info("Suggestion service initialized",
		"database", cfg.MongoDatabaseName,
		"horizon_days", cfg.SuggestionHorizonDays,
		"limit", cfg.SuggestionLimit,
	)
	return suggestionService
}
