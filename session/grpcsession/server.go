package grpcsession

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/veldtlabs/pqbin/session"
)

// Server exposes a session.Backend over the Session gRPC service.
type Server struct {
	UnimplementedSessionServer
	Backend session.Backend
}

func (s *Server) Exec(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s == nil || s.Backend == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing backend")
	}
	query, args, err := decodeExecRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	res, err := s.Backend.Exec(ctx, query, args)
	if err != nil {
		return nil, mapErr(err)
	}
	return encodeResult(res), nil
}

func (s *Server) GetVar(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if s == nil || s.Backend == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing backend")
	}
	name := in.GetValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "missing variable name")
	}
	v, err := s.Backend.GetVar(ctx, name)
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(v), nil
}

func (s *Server) SetVar(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	if s == nil || s.Backend == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing backend")
	}
	name, value, err := decodeVarRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.Backend.SetVar(ctx, name, value); err != nil {
		return nil, mapErr(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) ReadCopyLine(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	if s == nil || s.Backend == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing backend")
	}
	line, ok, err := s.Backend.ReadCopyLine(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	if !ok {
		// End of stream is a distinct, expected signal, not a failure.
		return nil, status.Error(codes.OutOfRange, "end of copy stream")
	}
	return wrapperspb.String(line), nil
}

func (s *Server) WriteCopyLine(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if s == nil || s.Backend == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing backend")
	}
	if err := s.Backend.WriteCopyLine(ctx, in.GetValue()); err != nil {
		return nil, mapErr(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) EndCopyWrite(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if s == nil || s.Backend == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing backend")
	}
	if err := s.Backend.EndCopyWrite(ctx); err != nil {
		return nil, mapErr(err)
	}
	return &emptypb.Empty{}, nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrUnknownQuery):
		return status.Error(codes.NotFound, session.ErrUnknownQuery.Error())
	case errors.Is(err, session.ErrVarNotFound):
		return status.Error(codes.NotFound, session.ErrVarNotFound.Error())
	case errors.Is(err, session.ErrNoCopy):
		return status.Error(codes.FailedPrecondition, session.ErrNoCopy.Error())
	case errors.Is(err, session.ErrCopyClosed):
		return status.Error(codes.FailedPrecondition, session.ErrCopyClosed.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
