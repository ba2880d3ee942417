// Package server runs the HTTP listeners and shuts them down together.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/maxviazov/openapi-skeleton/internal/config"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var protocols = map[string]uint16{
	"TLSv1.2": tls.VersionTLS12,
	"TLSv1.3": tls.VersionTLS13,
}

// TLSConfig loads the key pair and pins the minimum protocol. It returns nil
// when TLS is disabled.
func TLSConfig(cfg config.TLSConfig) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	minVersion, ok := protocols[cfg.SecureProtocol]
	if !ok {
		return nil, fmt.Errorf("unsupported secure protocol %q", cfg.SecureProtocol)
	}
	cert, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}
	return &tls.Config{MinVersion: minVersion, Certificates: []tls.Certificate{cert}}, nil
}

// Listener is one named HTTP server.
type Listener struct {
	Name   string
	Server *http.Server
}

// NewListener binds h to port with the configured timeouts.
func NewListener(name string, port int, h http.Handler, cfg config.ServerConfig, tlsCfg *tls.Config) *Listener {
	return &Listener{
		Name: name,
		Server: &http.Server{
			Addr:              net.JoinHostPort("", strconv.Itoa(port)),
			Handler:           h,
			TLSConfig:         tlsCfg,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
	}
}

func (l *Listener) serve(ln net.Listener) error {
	if l.Server.TLSConfig != nil {
		ln = tls.NewListener(ln, l.Server.TLSConfig)
	}
	if err := l.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s listener: %w", l.Name, err)
	}
	return nil
}

// Run serves every listener until ctx is cancelled or one of them fails,
// then shuts all of them down within shutdownTimeout.
func Run(ctx context.Context, logger zerolog.Logger, shutdownTimeout time.Duration, listeners ...*Listener) error {
	bound := make([]net.Listener, 0, len(listeners))
	for _, l := range listeners {
		ln, err := net.Listen("tcp", l.Server.Addr)
		if err != nil {
			for _, b := range bound {
				_ = b.Close()
			}
			return fmt.Errorf("%s listener: %w", l.Name, err)
		}
		bound = append(bound, ln)
	}
	return serveAll(ctx, logger, shutdownTimeout, listeners, bound)
}

func serveAll(ctx context.Context, logger zerolog.Logger, shutdownTimeout time.Duration, listeners []*Listener, bound []net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, l := range listeners {
		l := l
		ln := bound[i]
		g.Go(func() error {
			logger.Info().
				Str("listener", l.Name).
				Str("addr", ln.Addr().String()).
				Bool("tls", l.Server.TLSConfig != nil).
				Msg("listening")
			return l.serve(ln)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, l := range listeners {
			if err := l.Server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("%s shutdown: %w", l.Name, err))
			}
		}
		logger.Info().Msg("listeners stopped")
		return errors.Join(errs...)
	})
	return g.Wait()
}
