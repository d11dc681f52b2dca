package model

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

type Status string

// only BOOKED is ever written
const (
	StatusBooked    Status = "BOOKED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

func (d DayOfWeek) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// Base carries the surrogate key and audit columns shared by every table.
type Base struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type User struct {
	Base
	FirstName string         `gorm:"type:varchar(100)"`
	LastName  string         `gorm:"type:varchar(100)"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string         `gorm:"type:text;not null"`
	Phone     string         `gorm:"type:varchar(30)"`
	Gender    string         `gorm:"type:varchar(20)"`
	Dob       datatypes.Date `gorm:"column:dob"`
	Role      Role           `gorm:"type:varchar(20)"`
}

func (User) TableName() string { return "users" }

type Patient struct {
	Base
	UserID  uint   `gorm:"not null;uniqueIndex"`
	User    User   `gorm:"foreignKey:UserID"`
	Address string `gorm:"type:text;not null"`
}

func (Patient) TableName() string { return "patients" }

// Doctor.ConsultationFee is nil until the profile is completed.
type Doctor struct {
	Base
	UserID          uint     `gorm:"not null;uniqueIndex"`
	User            User     `gorm:"foreignKey:UserID"`
	Location        string   `gorm:"type:text;not null"`
	ConsultationFee *float64 `gorm:"column:consultation_fee;type:numeric(10,2)"`
	Rating          float32

	Specializations []DoctorSpecialization `gorm:"foreignKey:DoctorID"`
	Availability    []DoctorAvailability   `gorm:"foreignKey:DoctorID"`
}

func (Doctor) TableName() string { return "doctors" }

func (d *Doctor) FullName() string {
	if d.User.ID == 0 {
		return ""
	}
	return d.User.FirstName + " " + d.User.LastName
}

type Appointment struct {
	Base
	PatientID   uint      `gorm:"not null;index"`
	Patient     Patient   `gorm:"foreignKey:PatientID"`
	DoctorID    uint      `gorm:"not null;index"`
	Doctor      Doctor    `gorm:"foreignKey:DoctorID"`
	ScheduledAt time.Time `gorm:"type:timestamp"`
	Type        string    `gorm:"type:varchar(100)"`
	Status      Status    `gorm:"type:varchar(20);not null;default:BOOKED"`
	Payment     *Payment  `gorm:"foreignKey:AppointmentID"`
}

func (Appointment) TableName() string { return "appointments" }

type Payment struct {
	Base
	AppointmentID uint    `gorm:"not null;uniqueIndex"`
	Amount        float64 `gorm:"type:numeric(10,2);not null"`
	Method        string  `gorm:"type:varchar(50);not null"`
	Status        string  `gorm:"type:varchar(50);not null"`
	TransactionID string  `gorm:"column:transaction_id;type:varchar(100);uniqueIndex;not null"`
	Receipt       []byte  `gorm:"column:transaction_receipt"`
}

func (Payment) TableName() string { return "payments" }

type MedicalReport struct {
	Base
	DoctorID   uint   `gorm:"not null;index"`
	PatientID  uint   `gorm:"not null;index"`
	ReportType string `gorm:"type:varchar(100);not null"`
	ReportFile []byte `gorm:"not null"`
}

func (MedicalReport) TableName() string { return "medical_reports" }

type Specialization struct {
	Base
	Name string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (Specialization) TableName() string { return "specializations" }

type DoctorSpecialization struct {
	Base
	DoctorID         uint           `gorm:"not null;uniqueIndex:idx_doctor_specialization"`
	SpecializationID uint           `gorm:"not null;uniqueIndex:idx_doctor_specialization"`
	Specialization   Specialization `gorm:"foreignKey:SpecializationID"`
	ExperienceYears  int            `gorm:"not null"`
}

func (DoctorSpecialization) TableName() string { return "doctor_specializations" }

// DoctorAvailability is a weekly recurring slot.
type DoctorAvailability struct {
	Base
	DoctorID       uint           `gorm:"not null;uniqueIndex:idx_doctor_slot"`
	DayOfWeek      DayOfWeek      `gorm:"type:varchar(10);not null;uniqueIndex:idx_doctor_slot"`
	StartTime      datatypes.Time `gorm:"not null;uniqueIndex:idx_doctor_slot"`
	EndTime        datatypes.Time `gorm:"not null;uniqueIndex:idx_doctor_slot"`
	VirtualAllowed bool           `gorm:"column:is_virtual_allowed;not null"`
}

func (DoctorAvailability) TableName() string { return "doctor_availability" }

// All lists every table in migration order.
func All() []any {
	return []any{
		&User{},
		&Patient{},
		&Doctor{},
		&Specialization{},
		&DoctorSpecialization{},
		&DoctorAvailability{},
		&Appointment{},
		&Payment{},
		&MedicalReport{},
	}
}
