package grpcsession

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mapRPC translates RPC failures back into the session package's sentinel
// errors. The caller supplies the sentinel each status code stands for in
// the context of the method it just invoked; a nil sentinel leaves the RPC
// error as is.
func mapRPC(err, notFound, failedPrecondition error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		if notFound != nil {
			return notFound
		}
	case codes.FailedPrecondition:
		if failedPrecondition != nil {
			return failedPrecondition
		}
	}
	return err
}

func isOutOfRange(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.OutOfRange
}
