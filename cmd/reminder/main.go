package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	apptsrepo "medbook/internal/appointments/repository"
	doctorsrepo "medbook/internal/doctors/repository"
	"medbook/internal/reminder"
	usersrepo "medbook/internal/users/repository"
	"medbook/pkg/config"
	"medbook/pkg/mailer"
)

const ServiceName = "reminder"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reminder worker")

	sweeper := reminder.NewSweeper(
		apptsrepo.NewMongoAppointmentRepository(cfg),
		doctorsrepo.NewMongoDoctorRepository(cfg),
		doctorsrepo.NewMongoSpecialtyRepository(cfg),
		usersrepo.NewMongoUserRepository(cfg),
		buildNotifier(cfg),
		cfg.Log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper.Run(ctx)
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
