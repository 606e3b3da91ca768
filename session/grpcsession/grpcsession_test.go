package grpcsession

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/veldtlabs/pqbin/result"
	"github.com/veldtlabs/pqbin/session"
	"github.com/veldtlabs/pqbin/session/memory"
	"github.com/veldtlabs/pqbin/session/testkit"
)

func startClient(t *testing.T, backend session.Backend) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterSessionServer(srv, &Server{Backend: backend})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewSessionClient(cc), Timeout: 2 * time.Second}
}

func TestGRPCSession_Conformance(t *testing.T) {
	testkit.RunBackendConformance(t, func(t *testing.T) session.Backend {
		return startClient(t, memory.New())
	})
}

func TestGRPCSession_ScriptedExecRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	mem.ScriptArgs("SELECT payload FROM blobs WHERE id = $1", []string{"42"},
		&result.Result{Columns: []string{"payload"}, Rows: [][]string{{`\xdeadbeef`}}})

	client := startClient(t, mem)

	res, err := client.Exec(ctx, "SELECT payload FROM blobs WHERE id = $1", []string{"42"})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if len(res.Columns) != 1 || res.Columns[0] != "payload" {
		t.Fatalf("columns = %v", res.Columns)
	}
	got, err := res.One()
	if err != nil {
		t.Fatalf("One: %v", err)
	}
	if got != `\xdeadbeef` {
		t.Fatalf("value = %q", got)
	}
}

func TestGRPCSession_CopyOutAcrossTheWire(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	mem.QueueCopyLine("1\tfoo")
	mem.QueueCopyLine("2\tbar")

	client := startClient(t, mem)

	var lines []string
	for {
		line, ok, err := client.ReadCopyLine(ctx)
		if err != nil {
			t.Fatalf("ReadCopyLine: %v", err)
		}
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) != 2 || lines[0] != "1\tfoo" || lines[1] != "2\tbar" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestGRPCSession_EmptyQueryRejected(t *testing.T) {
	ctx := context.Background()
	client := startClient(t, memory.New())
	if _, err := client.Exec(ctx, "", nil); err == nil {
		t.Fatalf("expected error for empty query")
	}
}
