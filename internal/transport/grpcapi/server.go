package grpcapi

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fitcoach/tokenpricing/internal/coach"
	"github.com/fitcoach/tokenpricing/internal/course"
	"github.com/fitcoach/tokenpricing/internal/exchange"
	"github.com/fitcoach/tokenpricing/internal/quote"
	"github.com/fitcoach/tokenpricing/internal/token"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server adapts the quote service to PricingServer.
type Server struct {
	quotes *quote.Service
}

func NewServer(svc *quote.Service) *Server {
	return &Server{quotes: svc}
}

// NewGRPCServer returns a gRPC server with the pricing and health services
// registered.
func NewGRPCServer(svc *quote.Service, logger log.FieldLogger) (*grpc.Server, *health.Server) {
	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(logUnary(logger)))
	Register(gs, NewServer(svc))

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return gs, hs
}

func logUnary(logger log.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		entry := logger.WithFields(log.Fields{
			"method":   info.FullMethod,
			"code":     status.Code(err).String(),
			"duration": time.Since(start).String(),
		})
		if err != nil {
			entry.WithError(err).Warn("grpc request failed")
		} else {
			entry.Info("grpc request")
		}
		return resp, err
	}
}

func (s *Server) QuoteCourse(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var opts course.GeneratorOptions
	if err := decode(in, &opts); err != nil {
		return nil, err
	}
	q, err := s.quotes.Course(opts)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(q)
}

func (s *Server) QuoteCoach(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req coach.Request
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	q, err := s.quotes.Coach(req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(q)
}

func (s *Server) QuoteTopUp(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	cur, err := parseCurrency(req.Currency)
	if err != nil {
		return nil, toStatus(err)
	}
	q, err := s.quotes.TopUp(req.Amount, cur)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(q)
}

func (s *Server) ListPackages(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		Currency string `json:"currency"`
	}
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	cur, err := parseCurrency(req.Currency)
	if err != nil {
		return nil, toStatus(err)
	}
	pkgs, err := s.quotes.Packages(cur)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(map[string]any{"currency": cur, "packages": pkgs})
}

func parseCurrency(s string) (exchange.Currency, error) {
	if s == "" {
		return exchange.EUR, nil
	}
	return exchange.ParseCurrency(s)
}

func decode(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	b, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, exchange.ErrUnsupportedCurrency),
		errors.Is(err, quote.ErrInvalidDays),
		errors.Is(err, quote.ErrInvalidOptions),
		errors.Is(err, quote.ErrInvalidAmount),
		errors.Is(err, quote.ErrInvalidTokens),
		errors.Is(err, token.ErrAmountTooLarge):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
