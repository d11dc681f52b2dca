package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"healthcare-appointments-api/internal/auth"
	"healthcare-appointments-api/internal/events"
	"healthcare-appointments-api/internal/model"
	"healthcare-appointments-api/internal/service"
	"healthcare-appointments-api/internal/store/memstore"
)

type recorder struct {
	mu   sync.Mutex
	seen []string
	fail bool
}

func (r *recorder) Publish(_ context.Context, _, typ string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, typ)
	if r.fail {
		return errors.New("broker down")
	}
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

type fixture struct {
	st    *memstore.Store
	pub   *recorder
	users *service.Users
	docs  *service.Doctors
	appts *service.Appointments
}

func setup(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	pub := &recorder{}
	log := zerolog.Nop()
	return &fixture{
		st:    st,
		pub:   pub,
		users: service.NewUsers(st, auth.Plain{}, pub, log),
		docs:  service.NewDoctors(st),
		appts: service.NewAppointments(st, pub, log),
	}
}

func signupInput(role model.Role) service.SignupInput {
	return service.SignupInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8]),
		Password:  "testpass123",
		Phone:     "555-0100",
		Gender:    "F",
		Dob:       "1990-05-17",
		Role:      role,
	}
}

func wantKind(t *testing.T, err error, kind service.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := service.KindOf(err); got != kind {
		t.Fatalf("expected %s, got %s (%v)", kind, got, err)
	}
}

// patientID and doctorID return the shell row ids created at signup.
func (f *fixture) patientID(t *testing.T, userID uint) uint {
	t.Helper()
	for _, p := range f.st.Patients() {
		if p.UserID == userID {
			return p.ID
		}
	}
	t.Fatalf("no patient for user %d", userID)
	return 0
}

func (f *fixture) doctorID(t *testing.T, userID uint) uint {
	t.Helper()
	for _, d := range f.st.Doctors() {
		if d.UserID == userID {
			return d.ID
		}
	}
	t.Fatalf("no doctor for user %d", userID)
	return 0
}

// ----- users -----

func TestSignupCreatesShell(t *testing.T) {
	tests := []struct {
		role     model.Role
		patients int
		doctors  int
	}{
		{model.RolePatient, 1, 0},
		{model.RoleDoctor, 0, 1},
		{model.RoleAdmin, 0, 0},
		{"", 0, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			f := setup(t)
			u, err := f.users.Signup(context.Background(), signupInput(tt.role))
			if err != nil {
				t.Fatalf("signup: %v", err)
			}
			if u.ID == 0 {
				t.Fatal("empty user id")
			}
			if u.Dob != "1990-05-17" {
				t.Fatalf("dob = %q", u.Dob)
			}
			if n := len(f.st.Patients()); n != tt.patients {
				t.Fatalf("patients = %d, want %d", n, tt.patients)
			}
			if n := len(f.st.Doctors()); n != tt.doctors {
				t.Fatalf("doctors = %d, want %d", n, tt.doctors)
			}
		})
	}
}

func TestSignupDoctorShellIsEmpty(t *testing.T) {
	f := setup(t)
	u, err := f.users.Signup(context.Background(), signupInput(model.RoleDoctor))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	d, err := f.docs.Get(context.Background(), f.doctorID(t, u.ID))
	if err != nil {
		t.Fatalf("get doctor: %v", err)
	}
	if d.Location != "" || d.ConsultationFee != nil || d.Rating != 0 {
		t.Fatalf("shell not empty: %+v", d)
	}
	if d.Name != "Ada Lovelace" {
		t.Fatalf("name = %q", d.Name)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := setup(t)
	in := signupInput(model.RolePatient)
	if _, err := f.users.Signup(context.Background(), in); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	_, err := f.users.Signup(context.Background(), in)
	wantKind(t, err, service.KindConflict)
	if f.st.UserCount() != 1 || len(f.st.Patients()) != 1 {
		t.Fatal("duplicate signup wrote rows")
	}
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*service.SignupInput)
	}{
		{"bad dob", func(in *service.SignupInput) { in.Dob = "17/05/1990" }},
		{"empty dob", func(in *service.SignupInput) { in.Dob = "" }},
		{"unknown role", func(in *service.SignupInput) { in.Role = "NURSE" }},
		{"empty email", func(in *service.SignupInput) { in.Email = "" }},
		{"empty password", func(in *service.SignupInput) { in.Password = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			in := signupInput(model.RolePatient)
			tt.mod(&in)
			_, err := f.users.Signup(context.Background(), in)
			wantKind(t, err, service.KindValidation)
			if f.st.UserCount() != 0 {
				t.Fatal("rejected signup wrote a user")
			}
		})
	}
}

func TestSignupEmailCheckedBeforeDob(t *testing.T) {
	f := setup(t)
	in := signupInput(model.RolePatient)
	if _, err := f.users.Signup(context.Background(), in); err != nil {
		t.Fatalf("signup: %v", err)
	}
	in.Dob = "not-a-date"
	_, err := f.users.Signup(context.Background(), in)
	wantKind(t, err, service.KindConflict)
}

func TestSignupPublishes(t *testing.T) {
	f := setup(t)
	if _, err := f.users.Signup(context.Background(), signupInput(model.RolePatient)); err != nil {
		t.Fatalf("signup: %v", err)
	}
	got := f.pub.types()
	if len(got) != 1 || got[0] != events.UserSignedUp {
		t.Fatalf("events = %v", got)
	}
}

func TestSignupSurvivesPublishFailure(t *testing.T) {
	f := setup(t)
	f.pub.fail = true
	if _, err := f.users.Signup(context.Background(), signupInput(model.RolePatient)); err != nil {
		t.Fatalf("signup: %v", err)
	}
}

func TestLogin(t *testing.T) {
	f := setup(t)
	in := signupInput(model.RolePatient)
	created, err := f.users.Signup(context.Background(), in)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	t.Run("ok", func(t *testing.T) {
		u, err := f.users.Login(context.Background(), service.LoginInput{Email: in.Email, Password: in.Password})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		want := service.UserView{
			ID:        created.ID,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Phone:     in.Phone,
			Gender:    in.Gender,
			Dob:       in.Dob,
			Role:      in.Role,
		}
		if u != want {
			t.Fatalf("got %+v, want %+v", u, want)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.users.Login(context.Background(), service.LoginInput{Email: in.Email, Password: "nope"})
		wantKind(t, err, service.KindValidation)
		if err.Error() != "invalid credentials" {
			t.Fatalf("msg = %q", err.Error())
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.users.Login(context.Background(), service.LoginInput{Email: "ghost@test.com", Password: "x"})
		wantKind(t, err, service.KindNotFound)
	})
}

func TestLoginWithBcrypt(t *testing.T) {
	st := memstore.New()
	users := service.NewUsers(st, auth.Bcrypt{Cost: 4}, events.Nop{}, zerolog.Nop())
	in := signupInput(model.RolePatient)
	if _, err := users.Signup(context.Background(), in); err != nil {
		t.Fatalf("signup: %v", err)
	}
	stored, _ := st.UserByEmail(context.Background(), in.Email)
	if stored.Password == in.Password {
		t.Fatal("password stored in clear")
	}
	if _, err := users.Login(context.Background(), service.LoginInput{Email: in.Email, Password: in.Password}); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestGetUser(t *testing.T) {
	f := setup(t)
	created, err := f.users.Signup(context.Background(), signupInput(model.RoleAdmin))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	u, err := f.users.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u != created {
		t.Fatalf("got %+v, want %+v", u, created)
	}

	_, err = f.users.GetByID(context.Background(), 9999)
	wantKind(t, err, service.KindNotFound)
}

// ----- doctors -----

func TestListDoctors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	empty, err := f.docs.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("want empty non-nil list, got %v", empty)
	}

	want := map[service.DoctorView]bool{}
	for _, first := range []string{"Derek", "Meredith"} {
		in := signupInput(model.RoleDoctor)
		in.FirstName = first
		u, err := f.users.Signup(ctx, in)
		if err != nil {
			t.Fatalf("signup: %v", err)
		}
		want[service.DoctorView{ID: f.doctorID(t, u.ID), Name: first + " " + in.LastName}] = true
	}
	if _, err := f.users.Signup(ctx, signupInput(model.RolePatient)); err != nil {
		t.Fatalf("signup: %v", err)
	}

	all, err := f.docs.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := map[service.DoctorView]bool{}
	for _, d := range all {
		got[d] = true
	}
	if len(all) != len(want) || len(got) != len(want) {
		t.Fatalf("got %+v, want %v", all, want)
	}
	for d := range want {
		if !got[d] {
			t.Fatalf("missing %+v in %+v", d, all)
		}
	}
}

// racyStore hides existing emails from the pre-check, as a concurrent
// signup would, so only the insert can report the duplicate.
type racyStore struct {
	*memstore.Store
}

func (racyStore) EmailExists(context.Context, string) (bool, error) { return false, nil }

func TestSignupConflictFromInsert(t *testing.T) {
	st := memstore.New()
	users := service.NewUsers(racyStore{st}, auth.Plain{}, events.Nop{}, zerolog.Nop())
	in := signupInput(model.RolePatient)

	if _, err := users.Signup(context.Background(), in); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := users.Signup(context.Background(), in)
	wantKind(t, err, service.KindConflict)
	if err.Error() != "email already in use" {
		t.Fatalf("msg = %q", err.Error())
	}
	if st.UserCount() != 1 || len(st.Patients()) != 1 {
		t.Fatalf("users = %d, patients = %d", st.UserCount(), len(st.Patients()))
	}
}

func TestListDoctorsBySpecialization(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cardio := f.st.AddSpecialization("Cardiology")

	u, err := f.users.Signup(ctx, signupInput(model.RoleDoctor))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := f.users.Signup(ctx, signupInput(model.RoleDoctor)); err != nil {
		t.Fatalf("signup: %v", err)
	}
	id := f.doctorID(t, u.ID)
	if err := f.docs.AddSpecialization(ctx, id, service.SpecializationInput{SpecializationID: cardio.ID, ExperienceYears: 7}); err != nil {
		t.Fatalf("add specialization: %v", err)
	}

	got, err := f.docs.List(ctx, "cardiology")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Fatalf("got %+v", got)
	}

	err = f.docs.AddSpecialization(ctx, id, service.SpecializationInput{SpecializationID: cardio.ID})
	wantKind(t, err, service.KindConflict)

	err = f.docs.AddSpecialization(ctx, id, service.SpecializationInput{SpecializationID: 9999})
	wantKind(t, err, service.KindNotFound)
}

func TestGetDoctorNotFound(t *testing.T) {
	f := setup(t)
	_, err := f.docs.Get(context.Background(), 42)
	wantKind(t, err, service.KindNotFound)
}

func TestUpdateProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u, err := f.users.Signup(ctx, signupInput(model.RoleDoctor))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	id := f.doctorID(t, u.ID)

	fee := 150.0
	d, err := f.docs.UpdateProfile(ctx, id, service.ProfileInput{Location: "Lagos", ConsultationFee: &fee})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if d.Location != "Lagos" || d.ConsultationFee == nil || *d.ConsultationFee != 150 {
		t.Fatalf("got %+v", d)
	}

	neg := -1.0
	_, err = f.docs.UpdateProfile(ctx, id, service.ProfileInput{ConsultationFee: &neg})
	wantKind(t, err, service.KindValidation)

	_, err = f.docs.UpdateProfile(ctx, 9999, service.ProfileInput{Location: "x"})
	wantKind(t, err, service.KindNotFound)
}

func TestAvailability(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u, err := f.users.Signup(ctx, signupInput(model.RoleDoctor))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	id := f.doctorID(t, u.ID)

	slot := service.SlotInput{DayOfWeek: model.Monday, StartTime: "09:00", EndTime: "12:30", VirtualAllowed: true}
	got, err := f.docs.AddAvailability(ctx, id, slot)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.StartTime != "09:00" || got.EndTime != "12:30" || !got.VirtualAllowed {
		t.Fatalf("got %+v", got)
	}

	_, err = f.docs.AddAvailability(ctx, id, slot)
	wantKind(t, err, service.KindConflict)

	bad := []service.SlotInput{
		{DayOfWeek: "FUNDAY", StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: model.Friday, StartTime: "9am", EndTime: "10:00"},
		{DayOfWeek: model.Friday, StartTime: "11:00", EndTime: "10:00"},
	}
	for _, in := range bad {
		_, err := f.docs.AddAvailability(ctx, id, in)
		wantKind(t, err, service.KindValidation)
	}

	slots, err := f.docs.Availability(ctx, id)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("got %d slots, want 1", len(slots))
	}

	_, err = f.docs.Availability(ctx, 9999)
	wantKind(t, err, service.KindNotFound)
}

func TestSpecializations(t *testing.T) {
	f := setup(t)
	f.st.AddSpecialization("Neurology")
	f.st.AddSpecialization("Cardiology")

	got, err := f.docs.Specializations(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Cardiology" {
		t.Fatalf("got %+v", got)
	}
}

// ----- appointments -----

func (f *fixture) pair(t *testing.T) (patientID, doctorID uint) {
	t.Helper()
	ctx := context.Background()
	p, err := f.users.Signup(ctx, signupInput(model.RolePatient))
	if err != nil {
		t.Fatalf("signup patient: %v", err)
	}
	d, err := f.users.Signup(ctx, signupInput(model.RoleDoctor))
	if err != nil {
		t.Fatalf("signup doctor: %v", err)
	}
	return f.patientID(t, p.ID), f.doctorID(t, d.ID)
}

func TestBook(t *testing.T) {
	f := setup(t)
	pid, did := f.pair(t)

	err := f.appts.Book(context.Background(), service.BookInput{
		PatientID: pid, DoctorID: did, ScheduledAt: "2024-03-01T10:30", Type: "VIRTUAL",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	all := f.st.Appointments()
	if len(all) != 1 {
		t.Fatalf("got %d appointments", len(all))
	}
	a := all[0]
	if a.Status != model.StatusBooked || a.Type != "VIRTUAL" {
		t.Fatalf("got %+v", a)
	}
	if a.ScheduledAt.Hour() != 10 || a.ScheduledAt.Minute() != 30 {
		t.Fatalf("scheduledAt = %v", a.ScheduledAt)
	}

	got := f.pub.types()
	if got[len(got)-1] != events.AppointmentBooked {
		t.Fatalf("events = %v", got)
	}
}

func TestBookDoubleBookingAllowed(t *testing.T) {
	f := setup(t)
	pid, did := f.pair(t)
	in := service.BookInput{PatientID: pid, DoctorID: did, ScheduledAt: "2024-03-01T10:30:00", Type: "IN_PERSON"}

	for i := 0; i < 2; i++ {
		if err := f.appts.Book(context.Background(), in); err != nil {
			t.Fatalf("book %d: %v", i, err)
		}
	}
	if n := len(f.st.Appointments()); n != 2 {
		t.Fatalf("got %d appointments, want 2", n)
	}
}

func TestBookErrors(t *testing.T) {
	f := setup(t)
	pid, did := f.pair(t)

	tests := []struct {
		name string
		in   service.BookInput
		kind service.Kind
		msg  string
	}{
		{"unknown patient", service.BookInput{PatientID: 9999, DoctorID: did, ScheduledAt: "2024-03-01T10:30"}, service.KindNotFound, "patient not found"},
		{"unknown doctor", service.BookInput{PatientID: pid, DoctorID: 9999, ScheduledAt: "2024-03-01T10:30"}, service.KindNotFound, "doctor not found"},
		{"bad datetime", service.BookInput{PatientID: pid, DoctorID: did, ScheduledAt: "01/03/2024 10:30"}, service.KindValidation, "invalid datetime format"},
		{"patient checked first", service.BookInput{PatientID: 9999, DoctorID: 9999, ScheduledAt: "garbage"}, service.KindNotFound, "patient not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.appts.Book(context.Background(), tt.in)
			wantKind(t, err, tt.kind)
			if err.Error() != tt.msg {
				t.Fatalf("msg = %q, want %q", err.Error(), tt.msg)
			}
		})
	}
	if n := len(f.st.Appointments()); n != 0 {
		t.Fatalf("failed bookings wrote %d rows", n)
	}
}

func TestAppointmentListings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	pid, did := f.pair(t)

	for _, at := range []string{"2024-03-02T09:00", "2024-03-01T09:00"} {
		if err := f.appts.Book(ctx, service.BookInput{PatientID: pid, DoctorID: did, ScheduledAt: at}); err != nil {
			t.Fatalf("book: %v", err)
		}
	}

	mine, err := f.appts.ForPatient(ctx, pid)
	if err != nil {
		t.Fatalf("for patient: %v", err)
	}
	if len(mine) != 2 || mine[0].ScheduledAt != "2024-03-01T09:00:00" {
		t.Fatalf("got %+v", mine)
	}

	theirs, err := f.appts.ForDoctor(ctx, did)
	if err != nil {
		t.Fatalf("for doctor: %v", err)
	}
	if len(theirs) != 2 {
		t.Fatalf("got %d", len(theirs))
	}

	_, err = f.appts.ForPatient(ctx, 9999)
	wantKind(t, err, service.KindNotFound)
}

func TestParseScheduledAt(t *testing.T) {
	for _, v := range []string{"2024-03-01T10:30", "2024-03-01T10:30:15", "2024-03-01T10:30:15.250", "2024-03-01T10:30:15.123456789"} {
		if _, err := service.ParseScheduledAt(v); err != nil {
			t.Errorf("%s: %v", v, err)
		}
	}
	for _, v := range []string{
		"",
		"2024-03-01",
		"2024-03-01 10:30",
		"2024-03-01T10:30Z",
		"2024-03-01T9:30",
		"2024-03-01T10:30:15,5",
		"2024-03-01T10:30:15.1234567890123",
		"2024-3-01T10:30",
	} {
		if _, err := service.ParseScheduledAt(v); err == nil {
			t.Errorf("%s: expected error", v)
		}
	}
}
