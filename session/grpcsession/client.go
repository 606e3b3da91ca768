package grpcsession

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/veldtlabs/pqbin/result"
	"github.com/veldtlabs/pqbin/session"
)

// Client implements session.Backend over a Session gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client SessionClient

	// Timeout applies per RPC when non-zero, on top of the caller's context.
	Timeout time.Duration
}

var _ session.Backend = (*Client)(nil)

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewSessionClient(cc), Timeout: 0}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) Exec(ctx context.Context, query string, args []string) (*result.Result, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Exec(ctx, encodeExecRequest(query, args))
	if err != nil {
		return nil, mapRPC(err, session.ErrUnknownQuery, nil)
	}
	return decodeResult(reply), nil
}

func (c *Client) GetVar(ctx context.Context, name string) (string, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.GetVar(ctx, wrapperspb.String(name))
	if err != nil {
		return "", mapRPC(err, session.ErrVarNotFound, nil)
	}
	return reply.GetValue(), nil
}

func (c *Client) SetVar(ctx context.Context, name, value string) error {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	_, err := c.client.SetVar(ctx, encodeVarRequest(name, value))
	return mapRPC(err, nil, nil)
}

func (c *Client) ReadCopyLine(ctx context.Context) (string, bool, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.ReadCopyLine(ctx, &emptypb.Empty{})
	if err != nil {
		if isOutOfRange(err) {
			return "", false, nil
		}
		return "", false, mapRPC(err, nil, session.ErrNoCopy)
	}
	return reply.GetValue(), true, nil
}

func (c *Client) WriteCopyLine(ctx context.Context, line string) error {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	_, err := c.client.WriteCopyLine(ctx, wrapperspb.String(line))
	return mapRPC(err, nil, session.ErrCopyClosed)
}

func (c *Client) EndCopyWrite(ctx context.Context) error {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	_, err := c.client.EndCopyWrite(ctx, &emptypb.Empty{})
	return mapRPC(err, nil, session.ErrCopyClosed)
}

func (c *Client) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}
