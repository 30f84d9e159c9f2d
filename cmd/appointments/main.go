package main

import (
	apptshandler "medbook/internal/appointments/handler"
	apptsrepo "medbook/internal/appointments/repository"
	apptsservice "medbook/internal/appointments/service"
	apptsvalidator "medbook/internal/appointments/validator"
	blockshandler "medbook/internal/blocks/handler"
	blocksservice "medbook/internal/blocks/service"
	doctorsrepo "medbook/internal/doctors/repository"
	doctorsservice "medbook/internal/doctors/service"
	usersrepo "medbook/internal/users/repository"
	"medbook/pkg/app"
	"medbook/pkg/config"
	"medbook/pkg/contracts"
	"medbook/pkg/events"
	"medbook/pkg/kafka"
	"medbook/pkg/mailer"
)

const ServiceName = "appointments"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Appointments service")

	appointmentHandler, blockHandler := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(contracts.Handlers{appointmentHandler, blockHandler})
	serverApp.Run()
}

func initServices(cfg *config.Config) (*apptshandler.AppointmentHandler, *blockshandler.BlockHandler) {
	apptRepo := apptsrepo.NewMongoAppointmentRepository(cfg)
	lockRepo := apptsrepo.NewSlotLockRepository(cfg)
	doctorRepo := doctorsrepo.NewMongoDoctorRepository(cfg)
	specialtyRepo := doctorsrepo.NewMongoSpecialtyRepository(cfg)
	userRepo := usersrepo.NewMongoUserRepository(cfg)

	resolver := doctorsservice.NewDoctorResolver(doctorRepo, userRepo, cfg.Log)
	apptValidator := apptsvalidator.NewAppointmentValidator(cfg.Log)
	publisher := buildPublisher(cfg)
	notifier := buildNotifier(cfg)

	apptService := apptsservice.NewAppointmentService(
		apptRepo,
		doctorRepo,
		specialtyRepo,
		userRepo,
		resolver,
		apptValidator,
		publisher,
		cfg.Log,
	)
	blockService := blocksservice.NewBlockService(
		cfg,
		apptRepo,
		lockRepo,
		resolver,
		userRepo,
		specialtyRepo,
		notifier,
		publisher,
		cfg.Log,
	)

	cfg.Log.Info("Appointment services initialized", "database", cfg.MongoDatabaseName)
	return apptshandler.NewAppointmentHandler(apptService, cfg.Log),
		blockshandler.NewBlockHandler(blockService, cfg.Log)
}

func buildPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, events disabled")
		return events.NoopPublisher{}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.KafkaBrokers}, cfg.KafkaTopic)
	if err != nil {
		cfg.Log.Error("Failed to create Kafka producer, events disabled", "error", err)
		return events.NoopPublisher{}
	}
	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log)
}

func buildNotifier(cfg *config.Config) mailer.Notifier {
	sender := mailer.NewSendGridSender(mailer.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.MailFromEmail,
		FromName:  cfg.MailFromName,
	})
	if sender == nil {
		cfg.Log.Info("No SendGrid key configured, using stub mail sender")
		return mailer.NewNotifier(mailer.NewStubSender(cfg.Log), cfg.Log)
	}
	return mailer.NewNotifier(sender, cfg.Log)
}
