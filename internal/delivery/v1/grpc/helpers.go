package grpc

import (
	"context"
	"errors"

	"github.com/DRSN-tech/catalog-service/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, context.Canceled.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, context.DeadlineExceeded.Error())
	case errors.Is(err, e.ErrProductNotFound):
		return status.Error(codes.NotFound, e.ErrProductNotFound.Error())
	case errors.Is(err, e.ErrInvalidFilter):
		return status.Error(codes.InvalidArgument, e.ErrInvalidFilter.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}
