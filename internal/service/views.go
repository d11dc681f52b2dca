package service

import (
	"time"

	"github.com/samber/lo"

	"healthcare-appointments-api/internal/model"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
	clockLayout    = "15:04"
)

// UserView is the public projection of a user; it never carries the password.
type UserView struct {
	ID        uint       `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Gender    string     `json:"gender"`
	Dob       string     `json:"dob"`
	Role      model.Role `json:"role"`
}

type DoctorView struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	Location        string   `json:"location"`
	ConsultationFee *float64 `json:"consultationFee"`
	Rating          float32  `json:"rating"`
}

type AppointmentView struct {
	ID          uint         `json:"id"`
	PatientID   uint         `json:"patientId"`
	DoctorID    uint         `json:"doctorId"`
	ScheduledAt string       `json:"scheduledAt"`
	Type        string       `json:"type"`
	Status      model.Status `json:"status"`
}

type SlotView struct {
	ID             uint            `json:"id"`
	DayOfWeek      model.DayOfWeek `json:"dayOfWeek"`
	StartTime      string          `json:"startTime"`
	EndTime        string          `json:"endTime"`
	VirtualAllowed bool            `json:"virtualAllowed"`
}

type SpecializationView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func toUserView(u *model.User) UserView {
	return UserView{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Gender:    u.Gender,
		Dob:       time.Time(u.Dob).Format(dateLayout),
		Role:      u.Role,
	}
}

func toDoctorView(d *model.Doctor) DoctorView {
	return DoctorView{
		ID:              d.ID,
		Name:            d.FullName(),
		Location:        d.Location,
		ConsultationFee: d.ConsultationFee,
		Rating:          d.Rating,
	}
}

func toDoctorViews(ds []model.Doctor) []DoctorView {
	return lo.Map(ds, func(d model.Doctor, _ int) DoctorView { return toDoctorView(&d) })
}

func toAppointmentViews(as []model.Appointment) []AppointmentView {
	return lo.Map(as, func(a model.Appointment, _ int) AppointmentView {
		return AppointmentView{
			ID:          a.ID,
			PatientID:   a.PatientID,
			DoctorID:    a.DoctorID,
			ScheduledAt: a.ScheduledAt.Format(dateTimeLayout),
			Type:        a.Type,
			Status:      a.Status,
		}
	})
}

func toSlotView(s model.DoctorAvailability) SlotView {
	return SlotView{
		ID:             s.ID,
		DayOfWeek:      s.DayOfWeek,
		StartTime:      clock(time.Duration(s.StartTime)),
		EndTime:        clock(time.Duration(s.EndTime)),
		VirtualAllowed: s.VirtualAllowed,
	}
}

func toSpecializationViews(sps []model.Specialization) []SpecializationView {
	return lo.Map(sps, func(s model.Specialization, _ int) SpecializationView {
		return SpecializationView{ID: s.ID, Name: s.Name}
	})
}

// clock renders a time-of-day offset as HH:MM.
func clock(d time.Duration) string {
	return time.Time{}.Add(d).Format(clockLayout)
}
