package store

import (
	"context"

	"gorm.io/gorm/clause"

	"healthcare-appointments-api/internal/model"
)

func (s *Store) PatientByID(ctx context.Context, id uint) (*model.Patient, error) {
	p := &model.Patient{}
	if err := s.db.WithContext(ctx).Preload("User").First(p, id).Error; err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// CreateAppointment writes the row only; patient and doctor must already exist.
func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error)
}

func (s *Store) AppointmentsByPatient(ctx context.Context, patientID uint) ([]model.Appointment, error) {
	return s.listAppointments(ctx, "patient_id = ?", patientID)
}

func (s *Store) AppointmentsByDoctor(ctx context.Context, doctorID uint) ([]model.Appointment, error) {
	return s.listAppointments(ctx, "doctor_id = ?", doctorID)
}

func (s *Store) listAppointments(ctx context.Context, cond string, id uint) ([]model.Appointment, error) {
	out := []model.Appointment{}
	err := s.db.WithContext(ctx).
		Where(cond, id).
		Order("scheduled_at").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
