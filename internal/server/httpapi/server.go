// Package httpapi exposes the transfer, zone and user operations over a
// JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/hashzone/internal/logging"
	"github.com/dmitrijs2005/hashzone/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// sessionTokenValidity bounds tokens minted by createSessionToken.
const sessionTokenValidity = 24 * time.Hour

type Server struct {
	address   string
	logger    logging.Logger
	files     *services.FileService
	zones     *services.ZoneService
	users     *services.UserService
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, fs *services.FileService,
	zs *services.ZoneService, us *services.UserService, secretKey string) (*Server, error) {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		files:     fs,
		zones:     zs,
		users:     us,
		jwtSecret: []byte(secretKey),
	}, nil
}

// Handler builds the route table. All operations are POST endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/initiateFileUpload", s.initiateFileUpload)
	mux.HandleFunc("/api/finalizeFileUpload", s.finalizeFileUpload)
	mux.HandleFunc("/api/findFile", s.findFile)

	mux.HandleFunc("/api/addZone", s.addZone)
	mux.HandleFunc("/api/getZone", s.getZone)
	mux.HandleFunc("/api/getZones", s.getZones)
	mux.HandleFunc("/api/setZoneInfo", s.setZoneInfo)
	mux.HandleFunc("/api/deleteZone", s.deleteZone)

	mux.HandleFunc("/api/addUser", s.addUser)
	mux.HandleFunc("/api/resetUserApiKey", s.resetUserAPIKey)
	mux.HandleFunc("/api/setUserInfo", s.setUserInfo)
	mux.HandleFunc("/api/createSessionToken", s.createSessionToken)

	return allowCORS(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
