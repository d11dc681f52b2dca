package memstore_test

import (
	"context"
	"errors"
	"testing"

	"healthcare-appointments-api/internal/model"
	"healthcare-appointments-api/internal/store"
	"healthcare-appointments-api/internal/store/memstore"
)

func TestConstraintsMatchStore(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	var d *model.Doctor
	u := &model.User{Email: "a@test.com"}
	if err := st.CreateUser(ctx, u, func(id uint) any { d = &model.Doctor{UserID: id}; return d }); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.CreateUser(ctx, &model.User{Email: "a@test.com"}, nil); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate email: %v", err)
	}
	if st.UserCount() != 1 {
		t.Fatalf("users = %d", st.UserCount())
	}

	slot := model.DoctorAvailability{DoctorID: d.ID, DayOfWeek: model.Monday}
	first, second := slot, slot
	if err := st.CreateAvailability(ctx, &first); err != nil {
		t.Fatalf("slot: %v", err)
	}
	if err := st.CreateAvailability(ctx, &second); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate slot: %v", err)
	}

	orphan := &model.Appointment{PatientID: 42, DoctorID: d.ID}
	if err := st.CreateAppointment(ctx, orphan); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("orphan appointment: %v", err)
	}
	if err := st.UpdateDoctorProfile(ctx, 42, "", nil); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
}

func TestUnsupportedShellRollsBack(t *testing.T) {
	st := memstore.New()
	err := st.CreateUser(context.Background(), &model.User{Email: "b@test.com"}, func(uint) any { return "nope" })
	if err == nil {
		t.Fatal("expected error")
	}
	if st.UserCount() != 0 {
		t.Fatal("user kept after failed shell")
	}
}
