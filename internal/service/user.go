package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"healthcare-appointments-api/internal/auth"
	"healthcare-appointments-api/internal/events"
	"healthcare-appointments-api/internal/model"
	"healthcare-appointments-api/internal/store"
)

type UserStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *model.User, shell func(userID uint) any) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id uint) (*model.User, error)
}

type SignupInput struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Phone     string     `json:"phone"`
	Gender    string     `json:"gender"`
	Dob       string     `json:"dob"`
	Role      model.Role `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// shells maps a role to the placeholder row created alongside the user.
var shells = map[model.Role]func(userID uint) any{
	model.RolePatient: func(id uint) any {
		return &model.Patient{UserID: id, Address: ""}
	},
	model.RoleDoctor: func(id uint) any {
		return &model.Doctor{UserID: id, Location: "", ConsultationFee: nil}
	},
}

type Users struct {
	st     UserStore
	hasher auth.Hasher
	pub    events.Publisher
	log    zerolog.Logger
}

func NewUsers(st UserStore, hasher auth.Hasher, pub events.Publisher, log zerolog.Logger) *Users {
	return &Users{st: st, hasher: hasher, pub: pub, log: log}
}

func (s *Users) Signup(ctx context.Context, in SignupInput) (UserView, error) {
	if in.Email == "" || in.Password == "" {
		return UserView{}, validation("email and password required")
	}
	if in.Role != "" && !in.Role.Valid() {
		return UserView{}, validation("invalid role")
	}

	// advisory only; the unique index decides under concurrency
	taken, err := s.st.EmailExists(ctx, in.Email)
	if err != nil {
		return UserView{}, err
	}
	if taken {
		return UserView{}, conflict("email already in use")
	}

	dob, err := time.Parse(dateLayout, in.Dob)
	if err != nil {
		return UserView{}, validation("invalid dob format, expected yyyy-MM-dd")
	}

	stored, err := s.hasher.Hash(in.Password)
	if err != nil {
		return UserView{}, err
	}

	u := &model.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  stored,
		Phone:     in.Phone,
		Gender:    in.Gender,
		Dob:       datatypes.Date(dob),
		Role:      in.Role,
	}
	if err := s.st.CreateUser(ctx, u, shells[in.Role]); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return UserView{}, conflict("email already in use")
		}
		return UserView{}, err
	}

	view := toUserView(u)
	s.publish(ctx, strconv.FormatUint(uint64(u.ID), 10), events.UserSignedUp, view)
	return view, nil
}

func (s *Users) Login(ctx context.Context, in LoginInput) (UserView, error) {
	u, err := s.st.UserByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		return UserView{}, notFound("user not found")
	}
	if err != nil {
		return UserView{}, err
	}
	if !s.hasher.Check(u.Password, in.Password) {
		return UserView{}, validation("invalid credentials")
	}
	return toUserView(u), nil
}

func (s *Users) GetByID(ctx context.Context, id uint) (UserView, error) {
	u, err := s.st.UserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return UserView{}, notFound("user not found")
	}
	if err != nil {
		return UserView{}, err
	}
	return toUserView(u), nil
}

func (s *Users) publish(ctx context.Context, key, typ string, payload any) {
	if err := s.pub.Publish(ctx, key, typ, payload); err != nil {
		s.log.Warn().Err(err).Str("event", typ).Str("key", key).Msg("publish failed")
	}
}
