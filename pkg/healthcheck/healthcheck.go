// Package healthcheck expose le protocole gRPC Health (standard K8s) à côté du serveur HTTP.
package healthcheck

import (
	"log/slog"
	"net"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type Server struct {
	service string
	grpc    *grpc.Server
	health  *health.Server
}

func New(service string) *Server {
	s := &Server{
		service: service,
		grpc:    grpc.NewServer(),
		health:  health.NewServer(),
	}
	grpc_health_v1.RegisterHealthServer(s.grpc, s.health)
	return s
}

// Serve écoute sur addr en tâche de fond et passe le service à SERVING.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.SetServing(true)

	go func() {
		slog.Info("🩺 gRPC health listening", "address", lis.Addr().String())
		if err := s.grpc.Serve(lis); err != nil {
			slog.Error("health server stopped", "error", err)
		}
	}()
	return nil
}

func (s *Server) SetServing(ok bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if ok {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.service, status)
}

func (s *Server) Stop() {
	s.SetServing(false)
	s.grpc.GracefulStop()
}

// HTTPHandler sert /healthz avec le même état que le serveur gRPC.
func (s *Server) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := s.health.Check(r.Context(), &grpc_health_v1.HealthCheckRequest{Service: s.service})
		if err != nil || resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}
