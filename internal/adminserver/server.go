// Package adminserver implements the small administrative facade this
// daemon exposes alongside the EventStore wire connection: a gRPC health
// check and a metrics snapshot, both served over Connect/h2c. It mirrors
// internal/server/server.go's shape (a thin handler delegating to a domain
// object, wired under New) without carrying over any BFD-specific RPCs —
// this facade is intentionally small, since the wire protocol itself is
// not exposed over RPC.
package adminserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the gRPC health service name reported for this daemon.
const ServiceName = "esclientd"

// StatsProvider supplies the live transport/connection counters the admin
// facade reports. internal/transport.Connection and internal/esmetrics
// together satisfy the data this needs; the concrete glue lives in
// cmd/esclientd, which is why this is an interface rather than a direct
// dependency on those packages.
type StatsProvider interface {
	// Stats returns a flat snapshot of current counters, suitable for
	// structpb.NewStruct (string keys, float64/bool/string values only).
	Stats() map[string]any
}

// AdminServer backs the administrative Connect procedures.
type AdminServer struct {
	stats  StatsProvider
	logger *slog.Logger
}

// New constructs the health checker and the stats handler, and returns
// both as (path, http.Handler) pairs ready to be mounted on an *http.ServeMux.
// Every call to either procedure is logged and panic-recovered by srv's own
// interceptors (see loggingInterceptor/recoveryInterceptor below); extraOpts
// is for anything else a caller wants layered on top (compression, buf
// validation, etc.) and is applied after the built-in pair.
func New(stats StatsProvider, logger *slog.Logger, extraOpts ...connect.HandlerOption) (healthPath string, healthHandler http.Handler, statsPath string, statsHandler http.Handler) {
	srv := &AdminServer{
		stats:  stats,
		logger: logger.With(slog.String("component", "adminserver")),
	}

	opts := append([]connect.HandlerOption{
		connect.WithInterceptors(srv.recoveryInterceptor(), srv.loggingInterceptor()),
	}, extraOpts...)

	checker := grpchealth.NewStaticChecker(ServiceName)
	healthPath, healthHandler = grpchealth.NewHandler(checker, opts...)

	statsPath, statsHandler = connect.NewUnaryHandler(
		statsProcedure,
		srv.GetStats,
		opts...,
	)

	return healthPath, healthHandler, statsPath, statsHandler
}

// statsProcedure is this facade's one hand-declared RPC path. There is no
// buf-generated service descriptor behind it (no .proto was retrieved for
// an admin schema): connect.NewUnaryHandler only needs a procedure string
// and proto.Message-typed request/response, and structpb.Struct already
// satisfies proto.Message, so it is used directly as the wire type instead
// of inventing a throwaway generated package for a two-RPC facade.
const statsProcedure = "/esclientd.admin.v1.AdminService/GetStats"

// GetStats returns the current transport/connection counters as a
// structpb.Struct.
func (s *AdminServer) GetStats(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	s.logger.DebugContext(ctx, "GetStats called")

	snap, err := structpb.NewStruct(s.stats.Stats())
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(snap), nil
}

// ErrAdminPanic indicates one of this facade's two RPC handlers (health
// check, GetStats) panicked and was recovered.
var ErrAdminPanic = errors.New("admin rpc handler panicked")

// loggingInterceptor logs each of this facade's two procedures with a
// message tailored to what that RPC actually reports, rather than a
// generic "procedure completed" line: GetStats logs how many counters it
// returned, the health check just confirms it was served.
func (s *AdminServer) loggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			duration := time.Since(start)

			if err != nil {
				s.logger.WarnContext(ctx, "admin request failed",
					slog.String("procedure", req.Spec().Procedure),
					slog.Duration("duration", duration),
					slog.String("error", err.Error()))
				return resp, err
			}

			if req.Spec().Procedure == statsProcedure {
				s.logger.InfoContext(ctx, "reported connection stats",
					slog.Int("counters", len(s.stats.Stats())),
					slog.Duration("duration", duration))
			} else {
				s.logger.InfoContext(ctx, "health check served",
					slog.Duration("duration", duration))
			}

			return resp, nil
		}
	}
}

// recoveryInterceptor recovers a panic in either RPC handler, logs it with
// a full stack trace, and turns it into a CodeInternal error instead of
// tearing down the admin HTTP server.
func (s *AdminServer) recoveryInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (resp connect.AnyResponse, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)

					s.logger.ErrorContext(ctx, "admin rpc panicked",
						slog.String("procedure", req.Spec().Procedure),
						slog.Any("panic", r),
						slog.String("stack", string(buf[:n])),
					)

					retErr = connect.NewError(connect.CodeInternal,
						fmt.Errorf("%s: %w", req.Spec().Procedure, ErrAdminPanic))
				}
			}()

			return next(ctx, req)
		}
	}
}
