package rpc

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"healthcare-appointments-api/internal/service"
)

type Server struct {
	users *service.Users
	docs  *service.Doctors
	appts *service.Appointments
	log   zerolog.Logger
}

func NewServer(users *service.Users, docs *service.Doctors, appts *service.Appointments, log zerolog.Logger) *Server {
	return &Server{users: users, docs: docs, appts: appts, log: log}
}

func (s *Server) Signup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in service.SignupInput
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	u, err := s.users.Signup(ctx, in)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return s.toStruct(u)
}

func (s *Server) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in service.LoginInput
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	u, err := s.users.Login(ctx, in)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return s.toStruct(u)
}

func (s *Server) GetUser(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	id, err := toID(req)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return s.toStruct(u)
}

func (s *Server) ListDoctors(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	ds, err := s.docs.List(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(err)
	}
	var items []any
	if err := roundTrip(ds, &items); err != nil {
		return nil, s.toStatus(err)
	}
	lv, err := structpb.NewList(items)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return lv, nil
}

func (s *Server) GetDoctor(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	id, err := toID(req)
	if err != nil {
		return nil, err
	}
	d, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return s.toStruct(d)
}

func (s *Server) BookAppointment(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	var in service.BookInput
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if err := s.appts.Book(ctx, in); err != nil {
		return nil, s.toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) toStatus(err error) error {
	switch service.KindOf(err) {
	case service.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case service.KindConflict:
		return status.Error(codes.AlreadyExists, err.Error())
	case service.KindValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	}
	s.log.Error().Err(err).Msg("rpc failed")
	return status.Error(codes.Internal, "internal error")
}

func (s *Server) toStruct(v any) (*structpb.Struct, error) {
	var m map[string]any
	if err := roundTrip(v, &m); err != nil {
		return nil, s.toStatus(err)
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return st, nil
}

// decode reads a request struct into one of the service inputs.
func decode(req *structpb.Struct, dst any) error {
	b, err := protojson.Marshal(req)
	if err != nil {
		return status.Error(codes.InvalidArgument, "invalid request")
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return status.Error(codes.InvalidArgument, "invalid request")
	}
	return nil
}

func roundTrip(v, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func toID(req *wrapperspb.Int64Value) (uint, error) {
	if req.GetValue() <= 0 {
		return 0, status.Error(codes.InvalidArgument, "invalid id")
	}
	return uint(req.GetValue()), nil
}
