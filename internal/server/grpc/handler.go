package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	pb "github.com/dmitrijs2005/secretsanta/internal/proto"
	"github.com/dmitrijs2005/secretsanta/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.reply(ctx, pb.PingResponse{Status: "OK"})
}

func (s *GRPCServer) InitUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.InitUsersRequest
	if err := pb.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	batch := make([]services.NewUser, 0, len(in.Users))
	for _, u := range in.Users {
		batch = append(batch, services.NewUser{Name: u.Name, SecretKey: u.SecretKey})
	}

	res, err := s.admin.InitUsers(ctx, batch)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := pb.InitUsersResponse{Created: make([]pb.UserRef, 0, len(res.Created))}
	for _, c := range res.Created {
		out.Created = append(out.Created, pb.UserRef{ID: c.ID, Name: c.Name})
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, pb.UserError{Name: e.Name, Error: e.Error})
	}

	s.logger.Info(ctx, "Users initialized", "created", len(out.Created))
	return s.reply(ctx, out)
}

func (s *GRPCServer) Shuffle(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	res, err := s.admin.Shuffle(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := pb.ShuffleResponse{Fallback: res.Fallback, ArchiveKey: res.ArchiveKey}
	for _, p := range res.Assignments {
		out.Assignments = append(out.Assignments, pb.Pair{Name: p.Name, AssignedTo: p.AssignedTo})
	}
	return s.reply(ctx, out)
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	users, err := s.admin.ListUsers(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := pb.ListUsersResponse{Users: make([]pb.User, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, pb.User{ID: u.ID, Name: u.Name, HasKey: u.HasKey, AssignedTo: u.AssignedTo})
	}
	return s.reply(ctx, out)
}

func (s *GRPCServer) ClearAssignments(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if err := s.admin.ClearAssignments(ctx); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.reply(ctx, struct{}{})
}

func (s *GRPCServer) ClearMessages(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	n, err := s.admin.ClearMessages(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.reply(ctx, pb.ClearMessagesResponse{Deleted: n})
}

func (s *GRPCServer) ListArchives(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	entries, err := s.admin.ListArchives(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := pb.ListArchivesResponse{Archives: make([]pb.Archive, 0, len(entries))}
	for _, e := range entries {
		out.Archives = append(out.Archives, pb.Archive{Key: e.Key, Size: e.Size, LastModified: e.LastModified, URL: e.URL})
	}
	return s.reply(ctx, out)
}

func (s *GRPCServer) reply(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := pb.Encode(v)
	if err != nil {
		s.logger.Error(ctx, "encode reply", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

// toStatus maps a service error to a gRPC status. Internal details are
// logged, not returned.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	msg := err.Error()
	var e *common.Error
	if errors.As(err, &e) {
		msg = e.Msg
	}

	switch {
	case errors.Is(err, common.ErrorInternal):
		s.logger.Error(ctx, "admin call failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, msg)
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, msg)
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, msg)
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, msg)
	default:
		s.logger.Error(ctx, "admin call failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
