package grpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	pb "github.com/dmitrijs2005/secretsanta/internal/proto"
	"github.com/dmitrijs2005/secretsanta/internal/server/archive"
	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secretsanta/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
)

type failingArchiver struct{}

func (failingArchiver) Save(context.Context, *archive.Snapshot) (string, error) { return "", nil }
func (failingArchiver) List(context.Context) ([]archive.Entry, error) {
	return nil, errors.New("denied")
}

// dialAdmin serves the admin service on an in-memory listener and returns a
// client for it.
func dialAdmin(t *testing.T, admin *services.AdminService) pb.AdminServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := NewGRPCServer("bufconn", nopLogger{}, admin, "adm")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return pb.NewAdminServiceClient(conn)
}

func adminCtx() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), common.AdminTokenHeaderName, "adm")
}

func TestAdminService_EndToEnd(t *testing.T) {
	m := repomanager.NewMemoryRepositoryManager()
	client := dialAdmin(t, services.NewAdminService(m, nil, nopLogger{}))

	resp, err := client.Ping(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	var ping pb.PingResponse
	require.NoError(t, pb.Decode(resp, &ping))
	assert.Equal(t, "OK", ping.Status)

	req, err := pb.Encode(pb.InitUsersRequest{Users: []pb.NewUser{{Name: "alice"}, {Name: "bob", SecretKey: "k"}, {Name: ""}}})
	require.NoError(t, err)
	resp, err = client.InitUsers(adminCtx(), req)
	require.NoError(t, err)
	var initRes pb.InitUsersResponse
	require.NoError(t, pb.Decode(resp, &initRes))
	assert.Len(t, initRes.Created, 2)
	assert.Equal(t, []pb.UserError{{Name: "Unknown", Error: "Name is required"}}, initRes.Errors)

	resp, err = client.Shuffle(adminCtx(), &emptypb.Empty{})
	require.NoError(t, err)
	var shuffled pb.ShuffleResponse
	require.NoError(t, pb.Decode(resp, &shuffled))
	assert.ElementsMatch(t, []pb.Pair{{Name: "alice", AssignedTo: "bob"}, {Name: "bob", AssignedTo: "alice"}}, shuffled.Assignments)

	resp, err = client.ListUsers(adminCtx(), &emptypb.Empty{})
	require.NoError(t, err)
	var users pb.ListUsersResponse
	require.NoError(t, pb.Decode(resp, &users))
	require.Len(t, users.Users, 2)
	assert.False(t, users.Users[0].HasKey)
	assert.True(t, users.Users[1].HasKey)
	assert.Equal(t, "bob", users.Users[0].AssignedTo)

	resp, err = client.ClearMessages(adminCtx(), &emptypb.Empty{})
	require.NoError(t, err)
	var cleared pb.ClearMessagesResponse
	require.NoError(t, pb.Decode(resp, &cleared))
	assert.Zero(t, cleared.Deleted)

	_, err = client.ClearAssignments(adminCtx(), &emptypb.Empty{})
	require.NoError(t, err)

	resp, err = client.ListArchives(adminCtx(), &emptypb.Empty{})
	require.NoError(t, err)
	var archives pb.ListArchivesResponse
	require.NoError(t, pb.Decode(resp, &archives))
	assert.Empty(t, archives.Archives)
}

func TestAdminService_Errors(t *testing.T) {
	m := repomanager.NewMemoryRepositoryManager()
	client := dialAdmin(t, services.NewAdminService(m, failingArchiver{}, nopLogger{}))

	_, err := client.ListUsers(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = client.Shuffle(adminCtx(), &emptypb.Empty{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, "need at least 2 users to shuffle", status.Convert(err).Message())

	req, err := pb.Encode(pb.InitUsersRequest{})
	require.NoError(t, err)
	_, err = client.InitUsers(adminCtx(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ListArchives(adminCtx(), &emptypb.Empty{})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, "internal error", status.Convert(err).Message())
}
