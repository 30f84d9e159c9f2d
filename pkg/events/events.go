// Package events publishes appointment lifecycle events. Publishing is
// best-effort: a broker outage is logged and swallowed, never failing the
// operation that produced the event.
package events

import (
	"context"
	"time"

	"medbook/pkg/kafka"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

const (
	TypeAppointmentCreated   = "appointment.created"
	TypeAppointmentCancelled = "appointment.cancelled"
	TypeScheduleBlocked      = "schedule.blocked"
	TypeScheduleUnblocked    = "schedule.unblocked"
)

type AppointmentEvent struct {
	AppointmentID string `json:"appointment_id"`
	DoctorID      string `json:"doctor_id"`
	PatientID     string `json:"patient_id"`
	Date          string `json:"date"`
	TimeOfDay     string `json:"time_of_day"`
	Kind          string `json:"kind"`
}

type ScheduleBlockEvent struct {
	DoctorID  string   `json:"doctor_id"`
	Date      string   `json:"date"`
	Slots     []string `json:"slots"`
	Displaced int      `json:"displaced,omitempty"`
	Freed     int      `json:"freed,omitempty"`
}

// Publisher is the seam the engines depend on.
type Publisher interface {
	AppointmentCreated(ctx context.Context, appt *model.Appointment)
	AppointmentCancelled(ctx context.Context, appt *model.Appointment)
	ScheduleBlocked(ctx context.Context, doctorID string, date time.Time, slots []string, displaced int)
	ScheduleUnblocked(ctx context.Context, doctorID string, date time.Time, slots []string, freed int)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) Publisher {
	return &kafkaPublisher{producer: producer, source: source, log: log}
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType, key string, payload any) {
	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish event", "event_type", eventType, "key", key, "error", err)
		return
	}
	p.log.Debug("Event published", "event_type", eventType, "key", key)
}

func (p *kafkaPublisher) AppointmentCreated(ctx context.Context, appt *model.Appointment) {
	p.publish(ctx, TypeAppointmentCreated, appt.DoctorID, appointmentPayload(appt))
}

func (p *kafkaPublisher) AppointmentCancelled(ctx context.Context, appt *model.Appointment) {
	p.publish(ctx, TypeAppointmentCancelled, appt.DoctorID, appointmentPayload(appt))
}

func (p *kafkaPublisher) ScheduleBlocked(ctx context.Context, doctorID string, date time.Time, slots []string, displaced int) {
	p.publish(ctx, TypeScheduleBlocked, doctorID, ScheduleBlockEvent{
		DoctorID:  doctorID,
		Date:      date.Format("2006-01-02"),
		Slots:     slots,
		Displaced: displaced,
	})
}

func (p *kafkaPublisher) ScheduleUnblocked(ctx context.Context, doctorID string, date time.Time, slots []string, freed int) {
	p.publish(ctx, TypeScheduleUnblocked, doctorID, ScheduleBlockEvent{
		DoctorID: doctorID,
		Date:     date.Format("2006-01-02"),
		Slots:    slots,
		Freed:    freed,
	})
}

func appointmentPayload(appt *model.Appointment) AppointmentEvent {
	return AppointmentEvent{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		Date:          appt.Date.Format("2006-01-02"),
		TimeOfDay:     appt.TimeOfDay,
		Kind:          string(appt.Kind),
	}
}

// NoopPublisher is used when no broker is configured and in tests.
type NoopPublisher struct{}

func (NoopPublisher) AppointmentCreated(context.Context, *model.Appointment)   {}
func (NoopPublisher) AppointmentCancelled(context.Context, *model.Appointment) {}
func (NoopPublisher) ScheduleBlocked(context.Context, string, time.Time, []string, int) {
}
func (NoopPublisher) ScheduleUnblocked(context.Context, string, time.Time, []string, int) {
}
