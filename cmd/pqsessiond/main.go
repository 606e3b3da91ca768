// Command pqsessiond serves an in-memory session backend over gRPC.
//
// It exists for integration tests and local development: clients exercise
// the full wire surface (exec, vars, copy-line I/O) against scripted or
// control-verb-only sessions without a real database.
package main

import (
	"flag"
	"net"
	"os"

	"google.golang.org/grpc"

	"github.com/veldtlabs/pqbin/internal/logging"
	"github.com/veldtlabs/pqbin/session/grpcsession"
	"github.com/veldtlabs/pqbin/session/memory"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, errOut *os.File) int {
	fs := flag.NewFlagSet("pqsessiond", flag.ExitOnError)
	listen := fs.String("listen", defaultListen(), "listen address (env PQSESSIOND_LISTEN)")
	_ = fs.Parse(args)

	logger := logging.New(errOut, "pqsessiond")

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		logger.Error().Err(err).Str("listen", *listen).Msg("listen failed")
		return 1
	}
	defer lis.Close()

	s := grpc.NewServer(grpc.UnaryInterceptor(logging.UnaryServerInterceptor(logger)))
	grpcsession.RegisterSessionServer(s, &grpcsession.Server{Backend: memory.New()})

	logger.Info().Str("addr", lis.Addr().String()).Msg("listening")
	if err := s.Serve(lis); err != nil {
		logger.Error().Err(err).Msg("serve failed")
		return 1
	}
	return 0
}

func defaultListen() string {
	if v := os.Getenv("PQSESSIOND_LISTEN"); v != "" {
		return v
	}
	return "127.0.0.1:7788"
}
