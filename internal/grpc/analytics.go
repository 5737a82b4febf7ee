package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

const ServiceName = "avalia.v1.Analytics"

// FilterRequest selects the responses a call aggregates.
type FilterRequest struct {
	survey.Filter
}

// FilterOptionsRequest asks for the selectable values of a year.
type FilterOptionsRequest struct {
	Year string `json:"ano" validate:"omitempty,oneof=2023 2025"`
}

// AnalyticsServer is the server API of the analytics service.
type AnalyticsServer interface {
	GetDashboard(context.Context, *FilterRequest) (*service.DashboardView, error)
	GetFilterOptions(context.Context, *FilterOptionsRequest) (*survey.Options, error)
	GetSummary(context.Context, *FilterRequest) (*service.SummaryView, error)
}

// RegisterAnalyticsServer registers srv on s.
func RegisterAnalyticsServer(s grpc.ServiceRegistrar, srv AnalyticsServer) {
	s.RegisterService(&AnalyticsServiceDesc, srv)
}

func getDashboardHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FilterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalyticsServer).GetDashboard(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetDashboard"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AnalyticsServer).GetDashboard(ctx, req.(*FilterRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getFilterOptionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FilterOptionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalyticsServer).GetFilterOptions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetFilterOptions"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AnalyticsServer).GetFilterOptions(ctx, req.(*FilterOptionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getSummaryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FilterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalyticsServer).GetSummary(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetSummary"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AnalyticsServer).GetSummary(ctx, req.(*FilterRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// AnalyticsServiceDesc describes the analytics service. Messages are JSON
// encoded with the codec registered by this package.
var AnalyticsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyticsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetDashboard", Handler: getDashboardHandler},
		{MethodName: "GetFilterOptions", Handler: getFilterOptionsHandler},
		{MethodName: "GetSummary", Handler: getSummaryHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "avalia/v1/analytics",
}

// AnalyticsClient calls the analytics service.
type AnalyticsClient struct {
	cc grpc.ClientConnInterface
}

func NewAnalyticsClient(cc grpc.ClientConnInterface) *AnalyticsClient {
	return &AnalyticsClient{cc: cc}
}

func (c *AnalyticsClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}

func (c *AnalyticsClient) GetDashboard(ctx context.Context, in *FilterRequest, opts ...grpc.CallOption) (*service.DashboardView, error) {
	out := new(service.DashboardView)
	if err := c.invoke(ctx, "GetDashboard", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AnalyticsClient) GetFilterOptions(ctx context.Context, in *FilterOptionsRequest, opts ...grpc.CallOption) (*survey.Options, error) {
	out := new(survey.Options)
	if err := c.invoke(ctx, "GetFilterOptions", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AnalyticsClient) GetSummary(ctx context.Context, in *FilterRequest, opts ...grpc.CallOption) (*service.SummaryView, error) {
	out := new(service.SummaryView)
	if err := c.invoke(ctx, "GetSummary", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
