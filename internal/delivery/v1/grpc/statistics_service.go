package grpc

import (
	"context"

	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const StatisticsServiceName = "catalog.v1.StatisticsService"

// StatisticsServiceServer — серверная часть catalog.v1.StatisticsService.
// Отчёты передаются как google.protobuf.Struct с теми же ключами, что и в HTTP API.
type StatisticsServiceServer interface {
	GetOverview(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	GetProductStats(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	GetStockStats(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	GetPricingStats(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

type reportCall func(srv StatisticsServiceServer, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)

var StatisticsServiceDesc = grpc.ServiceDesc{
	ServiceName: StatisticsServiceName,
	HandlerType: (*StatisticsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetOverview", Handler: unaryHandler("GetOverview", StatisticsServiceServer.GetOverview)},
		{MethodName: "GetProductStats", Handler: unaryHandler("GetProductStats", StatisticsServiceServer.GetProductStats)},
		{MethodName: "GetStockStats", Handler: unaryHandler("GetStockStats", StatisticsServiceServer.GetStockStats)},
		{MethodName: "GetPricingStats", Handler: unaryHandler("GetPricingStats", StatisticsServiceServer.GetPricingStats)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/statistics.proto",
}

func RegisterStatisticsServiceServer(s grpc.ServiceRegistrar, srv StatisticsServiceServer) {
	s.RegisterService(&StatisticsServiceDesc, srv)
}

func unaryHandler(method string, call reportCall) grpc.MethodHandler {
	fullMethod := "/" + StatisticsServiceName + "/" + method

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StatisticsServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(StatisticsServiceServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// StatisticsServiceClient — клиент catalog.v1.StatisticsService.
type StatisticsServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewStatisticsServiceClient(cc grpc.ClientConnInterface) *StatisticsServiceClient {
	return &StatisticsServiceClient{cc: cc}
}

func (c *StatisticsServiceClient) GetOverview(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetOverview", opts...)
}

func (c *StatisticsServiceClient) GetProductStats(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetProductStats", opts...)
}

func (c *StatisticsServiceClient) GetStockStats(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetStockStats", opts...)
}

func (c *StatisticsServiceClient) GetPricingStats(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetPricingStats", opts...)
}

func (c *StatisticsServiceClient) invoke(ctx context.Context, method string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+StatisticsServiceName+"/"+method, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// StatisticsService реализует StatisticsServiceServer поверх usecase.StatisticsUC.
type StatisticsService struct {
	statsUC usecase.StatisticsUC
	logger  logger.Logger
}

func NewStatisticsService(statsUC usecase.StatisticsUC, logger logger.Logger) *StatisticsService {
	return &StatisticsService{statsUC: statsUC, logger: logger}
}

func (g *StatisticsService) GetOverview(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	const op = "grpc.GetOverview"

	stats, err := g.statsUC.Overview(ctx)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.toStruct(op, overviewFields(stats))
}

func (g *StatisticsService) GetProductStats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	const op = "grpc.GetProductStats"

	stats, err := g.statsUC.ProductStats(ctx)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.toStruct(op, productStatsFields(stats))
}

func (g *StatisticsService) GetStockStats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	const op = "grpc.GetStockStats"

	stats, err := g.statsUC.StockStats(ctx)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.toStruct(op, stockStatsFields(stats))
}

func (g *StatisticsService) GetPricingStats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	const op = "grpc.GetPricingStats"

	stats, err := g.statsUC.PricingStats(ctx)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.toStruct(op, pricingStatsFields(stats))
}

func (g *StatisticsService) toStruct(op string, fields map[string]any) (*structpb.Struct, error) {
	res, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return res, nil
}

func (g *StatisticsService) fail(op string, err error) error {
	g.logger.Errorf(e.Wrap(op, err), "%s", op)
	return GRPCErrorResponse(e.Wrap(op, err))
}
