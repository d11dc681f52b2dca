package store

import (
	"context"

	"gorm.io/gorm/clause"

	"healthcare-appointments-api/internal/model"
)

func (s *Store) ListSpecializations(ctx context.Context) ([]model.Specialization, error) {
	out := []model.Specialization{}
	if err := s.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SpecializationByID(ctx context.Context, id uint) (*model.Specialization, error) {
	sp := &model.Specialization{}
	if err := s.db.WithContext(ctx).First(sp, id).Error; err != nil {
		return nil, translate(err)
	}
	return sp, nil
}

// EnsureSpecializations creates any missing names and leaves existing rows alone.
func (s *Store) EnsureSpecializations(ctx context.Context, names []string) (int, error) {
	created := 0
	for _, name := range names {
		sp := model.Specialization{}
		res := s.db.WithContext(ctx).Where(model.Specialization{Name: name}).FirstOrCreate(&sp)
		if res.Error != nil {
			return created, translate(res.Error)
		}
		created += int(res.RowsAffected)
	}
	return created, nil
}

func (s *Store) AddDoctorSpecialization(ctx context.Context, ds *model.DoctorSpecialization) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(ds).Error)
}

func (s *Store) CreateAvailability(ctx context.Context, slot *model.DoctorAvailability) error {
	return translate(s.db.WithContext(ctx).Create(slot).Error)
}

func (s *Store) ListAvailability(ctx context.Context, doctorID uint) ([]model.DoctorAvailability, error) {
	out := []model.DoctorAvailability{}
	err := s.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
