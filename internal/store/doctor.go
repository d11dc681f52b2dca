package store

import (
	"context"

	"healthcare-appointments-api/internal/model"
)

// ListDoctors returns every doctor with its user preloaded. A non-empty
// specialization narrows the result by case-insensitive name.
func (s *Store) ListDoctors(ctx context.Context, specialization string) ([]model.Doctor, error) {
	q := s.db.WithContext(ctx).Preload("User")
	if specialization != "" {
		// names differing only in case may both match
		q = q.Distinct("doctors.*").
			Joins("JOIN doctor_specializations ds ON ds.doctor_id = doctors.id").
			Joins("JOIN specializations sp ON sp.id = ds.specialization_id").
			Where("LOWER(sp.name) = LOWER(?)", specialization)
	}

	doctors := []model.Doctor{}
	if err := q.Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *Store) DoctorByID(ctx context.Context, id uint) (*model.Doctor, error) {
	d := &model.Doctor{}
	if err := s.db.WithContext(ctx).Preload("User").First(d, id).Error; err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// UpdateDoctorProfile overwrites location and fee; a nil fee stores NULL.
func (s *Store) UpdateDoctorProfile(ctx context.Context, id uint, location string, fee *float64) error {
	res := s.db.WithContext(ctx).Model(&model.Doctor{}).
		Where("id = ?", id).
		Updates(map[string]any{"location": location, "consultation_fee": fee})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
