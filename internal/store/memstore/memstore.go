// Package memstore is an in-memory stand-in for store.Store. It enforces the
// same unique constraints so callers see store.ErrConflict and
// store.ErrNotFound exactly where postgres would raise them.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"healthcare-appointments-api/internal/model"
	"healthcare-appointments-api/internal/store"
)

type Store struct {
	mu     sync.Mutex
	nextID uint

	users           map[uint]model.User
	patients        map[uint]model.Patient
	doctors         map[uint]model.Doctor
	appointments    map[uint]model.Appointment
	specializations map[uint]model.Specialization
	doctorSpecs     map[uint]model.DoctorSpecialization
	slots           map[uint]model.DoctorAvailability
}

func New() *Store {
	return &Store{
		users:           map[uint]model.User{},
		patients:        map[uint]model.Patient{},
		doctors:         map[uint]model.Doctor{},
		appointments:    map[uint]model.Appointment{},
		specializations: map[uint]model.Specialization{},
		doctorSpecs:     map[uint]model.DoctorSpecialization{},
		slots:           map[uint]model.DoctorAvailability{},
	}
}

func (s *Store) stamp(b *model.Base) {
	s.nextID++
	now := time.Now()
	b.ID = s.nextID
	b.CreatedAt = now
	b.UpdatedAt = now
}

// ----- users -----

func (s *Store) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emailTaken(email), nil
}

func (s *Store) emailTaken(email string) bool {
	for _, u := range s.users {
		if u.Email == email {
			return true
		}
	}
	return false
}

func (s *Store) CreateUser(_ context.Context, u *model.User, shell func(userID uint) any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(u.Email) {
		return store.ErrConflict
	}
	s.stamp(&u.Base)
	s.users[u.ID] = *u

	if shell == nil {
		return nil
	}
	switch rec := shell(u.ID).(type) {
	case *model.Patient:
		s.stamp(&rec.Base)
		s.patients[rec.ID] = *rec
	case *model.Doctor:
		s.stamp(&rec.Base)
		s.doctors[rec.ID] = *rec
	default:
		delete(s.users, u.ID)
		return fmt.Errorf("memstore: unsupported shell %T", rec)
	}
	return nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UserByID(_ context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

// ----- doctors -----

func (s *Store) ListDoctors(_ context.Context, specialization string) ([]model.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Doctor{}
	for _, d := range s.doctors {
		if specialization != "" && !s.hasSpecialization(d.ID, specialization) {
			continue
		}
		out = append(out, s.withUser(d))
	}
	return out, nil
}

func (s *Store) hasSpecialization(doctorID uint, name string) bool {
	for _, ds := range s.doctorSpecs {
		if ds.DoctorID != doctorID {
			continue
		}
		if sp, ok := s.specializations[ds.SpecializationID]; ok && strings.EqualFold(sp.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) withUser(d model.Doctor) model.Doctor {
	d.User = s.users[d.UserID]
	return d
}

func (s *Store) DoctorByID(_ context.Context, id uint) (*model.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	d = s.withUser(d)
	return &d, nil
}

func (s *Store) UpdateDoctorProfile(_ context.Context, id uint, location string, fee *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok {
		return store.ErrNotFound
	}
	d.Location = location
	d.ConsultationFee = fee
	d.UpdatedAt = time.Now()
	s.doctors[id] = d
	return nil
}

// ----- catalog -----

// AddSpecialization is a test helper; production seeds through the CLI.
func (s *Store) AddSpecialization(name string) model.Specialization {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp := model.Specialization{Name: name}
	s.stamp(&sp.Base)
	s.specializations[sp.ID] = sp
	return sp
}

func (s *Store) ListSpecializations(_ context.Context) ([]model.Specialization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Specialization, 0, len(s.specializations))
	for _, sp := range s.specializations {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SpecializationByID(_ context.Context, id uint) (*model.Specialization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.specializations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sp, nil
}

func (s *Store) AddDoctorSpecialization(_ context.Context, ds *model.DoctorSpecialization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doctors[ds.DoctorID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := s.specializations[ds.SpecializationID]; !ok {
		return store.ErrNotFound
	}
	for _, other := range s.doctorSpecs {
		if other.DoctorID == ds.DoctorID && other.SpecializationID == ds.SpecializationID {
			return store.ErrConflict
		}
	}
	s.stamp(&ds.Base)
	s.doctorSpecs[ds.ID] = *ds
	return nil
}

func (s *Store) CreateAvailability(_ context.Context, slot *model.DoctorAvailability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doctors[slot.DoctorID]; !ok {
		return store.ErrNotFound
	}
	for _, other := range s.slots {
		if other.DoctorID == slot.DoctorID && other.DayOfWeek == slot.DayOfWeek &&
			other.StartTime == slot.StartTime && other.EndTime == slot.EndTime {
			return store.ErrConflict
		}
	}
	s.stamp(&slot.Base)
	s.slots[slot.ID] = *slot
	return nil
}

func (s *Store) ListAvailability(_ context.Context, doctorID uint) ([]model.DoctorAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.DoctorAvailability{}
	for _, slot := range s.slots {
		if slot.DoctorID == doctorID {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ----- appointments -----

func (s *Store) PatientByID(_ context.Context, id uint) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.User = s.users[p.UserID]
	return &p, nil
}

func (s *Store) CreateAppointment(_ context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[a.PatientID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := s.doctors[a.DoctorID]; !ok {
		return store.ErrNotFound
	}
	s.stamp(&a.Base)
	s.appointments[a.ID] = *a
	return nil
}

func (s *Store) AppointmentsByPatient(_ context.Context, patientID uint) ([]model.Appointment, error) {
	return s.appointmentsWhere(func(a model.Appointment) bool { return a.PatientID == patientID }), nil
}

func (s *Store) AppointmentsByDoctor(_ context.Context, doctorID uint) ([]model.Appointment, error) {
	return s.appointmentsWhere(func(a model.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (s *Store) appointmentsWhere(keep func(model.Appointment) bool) []model.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Appointment{}
	for _, a := range s.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out
}

// ----- inspection helpers for tests -----

func (s *Store) Patients() []model.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, p)
	}
	return out
}

func (s *Store) Doctors() []model.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Doctor, 0, len(s.doctors))
	for _, d := range s.doctors {
		out = append(out, d)
	}
	return out
}

func (s *Store) Appointments() []model.Appointment {
	return s.appointmentsWhere(func(model.Appointment) bool { return true })
}

func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
