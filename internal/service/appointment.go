package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"healthcare-appointments-api/internal/events"
	"healthcare-appointments-api/internal/model"
	"healthcare-appointments-api/internal/store"
)

type AppointmentStore interface {
	PatientByID(ctx context.Context, id uint) (*model.Patient, error)
	DoctorByID(ctx context.Context, id uint) (*model.Doctor, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	AppointmentsByPatient(ctx context.Context, patientID uint) ([]model.Appointment, error)
	AppointmentsByDoctor(ctx context.Context, doctorID uint) ([]model.Appointment, error)
}

type BookInput struct {
	PatientID   uint   `json:"patientId"`
	DoctorID    uint   `json:"doctorId"`
	ScheduledAt string `json:"scheduledAt"`
	Type        string `json:"type"`
}

// local date-times, seconds and fraction optional
var scheduleLayouts = []string{
	"2006-01-02T15:04",
	dateTimeLayout,
}

// time.Parse tolerates one-digit fields, comma fractions and over-long
// fractions; the accepted shape is fixed width with at most nanoseconds.
var scheduleShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2}(\.\d{1,9})?)?$`)

type Appointments struct {
	st  AppointmentStore
	pub events.Publisher
	log zerolog.Logger
}

func NewAppointments(st AppointmentStore, pub events.Publisher, log zerolog.Logger) *Appointments {
	return &Appointments{st: st, pub: pub, log: log}
}

// Book stores a BOOKED appointment. It does not check the doctor's
// availability or overlapping bookings.
func (s *Appointments) Book(ctx context.Context, in BookInput) error {
	if _, err := s.patient(ctx, in.PatientID); err != nil {
		return err
	}
	if _, err := s.doctor(ctx, in.DoctorID); err != nil {
		return err
	}
	at, err := ParseScheduledAt(in.ScheduledAt)
	if err != nil {
		return validation("invalid datetime format")
	}

	a := &model.Appointment{
		PatientID:   in.PatientID,
		DoctorID:    in.DoctorID,
		ScheduledAt: at,
		Type:        in.Type,
		Status:      model.StatusBooked,
	}
	if err := s.st.CreateAppointment(ctx, a); err != nil {
		return err
	}

	key := strconv.FormatUint(uint64(a.ID), 10)
	payload := toAppointmentViews([]model.Appointment{*a})[0]
	if err := s.pub.Publish(ctx, key, events.AppointmentBooked, payload); err != nil {
		s.log.Warn().Err(err).Str("appointment", key).Msg("publish failed")
	}
	return nil
}

func (s *Appointments) ForPatient(ctx context.Context, patientID uint) ([]AppointmentView, error) {
	if _, err := s.patient(ctx, patientID); err != nil {
		return nil, err
	}
	as, err := s.st.AppointmentsByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return toAppointmentViews(as), nil
}

func (s *Appointments) ForDoctor(ctx context.Context, doctorID uint) ([]AppointmentView, error) {
	if _, err := s.doctor(ctx, doctorID); err != nil {
		return nil, err
	}
	as, err := s.st.AppointmentsByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return toAppointmentViews(as), nil
}

func (s *Appointments) patient(ctx context.Context, id uint) (*model.Patient, error) {
	p, err := s.st.PatientByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("patient not found")
	}
	return p, err
}

func (s *Appointments) doctor(ctx context.Context, id uint) (*model.Doctor, error) {
	d, err := s.st.DoctorByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("doctor not found")
	}
	return d, err
}

// ParseScheduledAt accepts yyyy-MM-ddTHH:mm with optional seconds and
// fraction. The result carries no zone information beyond UTC.
func ParseScheduledAt(v string) (time.Time, error) {
	if !scheduleShape.MatchString(v) {
		return time.Time{}, fmt.Errorf("scheduledAt %q: not yyyy-MM-ddTHH:mm[:ss[.fraction]]", v)
	}
	var err error
	for _, layout := range scheduleLayouts {
		var t time.Time
		if t, err = time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
