package stubserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server is a minimal echo API the checker can probe. Every GET answers
// with a fixed JSON document carrying the request path and the environment
// name, mirroring what the deployed request handler returns.
type Server struct {
	echo        *echo.Echo
	addr        string
	environment string
	message     string
}

type echoResponse struct {
	Message     string `json:"message"`
	Path        string `json:"path"`
	Environment string `json:"environment"`
}

// New creates a stub server listening on addr. The address is validated
// before the server is constructed.
func New(addr, environment, message string) (*Server, error) {
	if err := validateAddr(addr); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:        e,
		addr:        addr,
		environment: environment,
		message:     message,
	}

	e.GET("/health", s.handleHealth)
	e.GET("/*", s.handleEcho)

	return s, nil
}

// Start begins listening for HTTP requests.
// Returns an error unless the server is shut down cleanly.
func (s *Server) Start() error {
	err := s.echo.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown gracefully shuts down the server with a 5-second timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEcho(c echo.Context) error {
	return c.JSON(http.StatusOK, echoResponse{
		Message:     s.message,
		Path:        c.Request().URL.Path,
		Environment: s.environment,
	})
}

func validateAddr(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cant be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}
