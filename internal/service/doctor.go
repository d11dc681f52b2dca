package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"

	"healthcare-appointments-api/internal/model"
	"healthcare-appointments-api/internal/store"
)

type DoctorStore interface {
	ListDoctors(ctx context.Context, specialization string) ([]model.Doctor, error)
	DoctorByID(ctx context.Context, id uint) (*model.Doctor, error)
	UpdateDoctorProfile(ctx context.Context, id uint, location string, fee *float64) error
	ListAvailability(ctx context.Context, doctorID uint) ([]model.DoctorAvailability, error)
	CreateAvailability(ctx context.Context, slot *model.DoctorAvailability) error
	ListSpecializations(ctx context.Context) ([]model.Specialization, error)
	SpecializationByID(ctx context.Context, id uint) (*model.Specialization, error)
	AddDoctorSpecialization(ctx context.Context, ds *model.DoctorSpecialization) error
}

type ProfileInput struct {
	Location        string   `json:"location"`
	ConsultationFee *float64 `json:"consultationFee"`
}

type SlotInput struct {
	DayOfWeek      model.DayOfWeek `json:"dayOfWeek"`
	StartTime      string          `json:"startTime"`
	EndTime        string          `json:"endTime"`
	VirtualAllowed bool            `json:"virtualAllowed"`
}

type SpecializationInput struct {
	SpecializationID uint `json:"specializationId"`
	ExperienceYears  int  `json:"experienceYears"`
}

type Doctors struct {
	st DoctorStore
}

func NewDoctors(st DoctorStore) *Doctors {
	return &Doctors{st: st}
}

// List returns every doctor as a flat view. Order is unspecified.
func (s *Doctors) List(ctx context.Context, specialization string) ([]DoctorView, error) {
	ds, err := s.st.ListDoctors(ctx, specialization)
	if err != nil {
		return nil, err
	}
	return toDoctorViews(ds), nil
}

func (s *Doctors) Get(ctx context.Context, id uint) (DoctorView, error) {
	d, err := s.doctor(ctx, id)
	if err != nil {
		return DoctorView{}, err
	}
	return toDoctorView(d), nil
}

// UpdateProfile completes the shell created at signup.
func (s *Doctors) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (DoctorView, error) {
	if in.ConsultationFee != nil && *in.ConsultationFee < 0 {
		return DoctorView{}, validation("consultation fee must not be negative")
	}
	err := s.st.UpdateDoctorProfile(ctx, id, in.Location, in.ConsultationFee)
	if errors.Is(err, store.ErrNotFound) {
		return DoctorView{}, notFound("doctor not found")
	}
	if err != nil {
		return DoctorView{}, err
	}
	return s.Get(ctx, id)
}

func (s *Doctors) Availability(ctx context.Context, id uint) ([]SlotView, error) {
	if _, err := s.doctor(ctx, id); err != nil {
		return nil, err
	}
	slots, err := s.st.ListAvailability(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]SlotView, len(slots))
	for i := range slots {
		out[i] = toSlotView(slots[i])
	}
	return out, nil
}

func (s *Doctors) AddAvailability(ctx context.Context, id uint, in SlotInput) (SlotView, error) {
	if !in.DayOfWeek.Valid() {
		return SlotView{}, validation("invalid day of week")
	}
	start, err := parseClock(in.StartTime)
	if err != nil {
		return SlotView{}, validation("invalid start time, expected HH:mm")
	}
	end, err := parseClock(in.EndTime)
	if err != nil {
		return SlotView{}, validation("invalid end time, expected HH:mm")
	}
	if end <= start {
		return SlotView{}, validation("end must be after start")
	}
	if _, err := s.doctor(ctx, id); err != nil {
		return SlotView{}, err
	}

	slot := &model.DoctorAvailability{
		DoctorID:       id,
		DayOfWeek:      in.DayOfWeek,
		StartTime:      datatypes.Time(start),
		EndTime:        datatypes.Time(end),
		VirtualAllowed: in.VirtualAllowed,
	}
	err = s.st.CreateAvailability(ctx, slot)
	if errors.Is(err, store.ErrConflict) {
		return SlotView{}, conflict("availability slot already exists")
	}
	if err != nil {
		return SlotView{}, err
	}
	return toSlotView(*slot), nil
}

func (s *Doctors) Specializations(ctx context.Context) ([]SpecializationView, error) {
	sps, err := s.st.ListSpecializations(ctx)
	if err != nil {
		return nil, err
	}
	return toSpecializationViews(sps), nil
}

func (s *Doctors) AddSpecialization(ctx context.Context, id uint, in SpecializationInput) error {
	if in.ExperienceYears < 0 {
		return validation("experience years must not be negative")
	}
	if _, err := s.doctor(ctx, id); err != nil {
		return err
	}
	_, err := s.st.SpecializationByID(ctx, in.SpecializationID)
	if errors.Is(err, store.ErrNotFound) {
		return notFound("specialization not found")
	}
	if err != nil {
		return err
	}

	err = s.st.AddDoctorSpecialization(ctx, &model.DoctorSpecialization{
		DoctorID:         id,
		SpecializationID: in.SpecializationID,
		ExperienceYears:  in.ExperienceYears,
	})
	if errors.Is(err, store.ErrConflict) {
		return conflict("doctor already has this specialization")
	}
	return err
}

func (s *Doctors) doctor(ctx context.Context, id uint) (*model.Doctor, error) {
	d, err := s.st.DoctorByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("doctor not found")
	}
	return d, err
}

func parseClock(v string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, v)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
