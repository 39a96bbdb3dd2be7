// Package httpapi exposes the user collection over HTTP. It is a thin
// transport shell: handlers decode and normalize payloads, hand clean data to
// the coordinator and translate outcomes into exactly two user-visible
// failure payloads. Root-cause detail stays in the logs.
package httpapi

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/goliatone/go-user-store/users"
)

// Failure payloads. One uniform message and status per endpoint, regardless
// of whether the cache or the store caused the failure; callers are not meant
// to distinguish cause from the response.
const (
	msgFetchFailed = "Failed to fetch users"
	msgWriteFailed = "Failed to write users"
)

// Coordinator is the read/write surface the handlers drive. Satisfied by
// *usercache.CachedStore.
type Coordinator interface {
	FetchAll(ctx context.Context) ([]users.User, error)
	UpsertMany(ctx context.Context, batch []users.User) (int, error)
}

// Bootstrapper provisions the storage schema. Satisfied by *store.Users.
type Bootstrapper interface {
	EnsureSchema(ctx context.Context) error
}

type errorResponse struct {
	Error string `json:"error"`
}

type writeResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type bootstrapResponse struct {
	Success bool `json:"success"`
}

// Server wires the handlers into an echo instance.
type Server struct {
	coordinator Coordinator
	bootstrap   Bootstrapper
	log         *zap.Logger
}

// New creates the HTTP surface. A nil logger defaults to a no-op.
func New(coordinator Coordinator, bootstrap Bootstrapper, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{coordinator: coordinator, bootstrap: bootstrap, log: log}
}

// Handler builds the router. Exposed as http.Handler so callers own the
// listener lifecycle.
func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(s.requestID())

	e.GET("/users", s.getUsers)
	e.POST("/users", s.postUsers)
	e.POST("/admin/bootstrap", s.postBootstrap)

	return e
}

// requestID tags every request with a correlation id, echoed back to the
// client and attached to log entries.
func (s *Server) requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.Set("request_id", id)
			return next(c)
		}
	}
}

func (s *Server) requestLogger(c echo.Context) *zap.Logger {
	id, _ := c.Get("request_id").(string)
	return s.log.With(zap.String("request_id", id))
}

func (s *Server) getUsers(c echo.Context) error {
	all, err := s.coordinator.FetchAll(c.Request().Context())
	if err != nil {
		s.requestLogger(c).Error("fetch users failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgFetchFailed})
	}
	return c.JSON(http.StatusOK, all)
}

func (s *Server) postUsers(c echo.Context) error {
	log := s.requestLogger(c)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		log.Error("read request body failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgWriteFailed})
	}

	batch, err := users.DecodeBatch(body)
	if err != nil {
		log.Error("decode users payload failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgWriteFailed})
	}

	count, err := s.coordinator.UpsertMany(c.Request().Context(), batch)
	if err != nil {
		log.Error("write users failed", zap.Error(err), zap.Int("batch_size", len(batch)))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgWriteFailed})
	}

	return c.JSON(http.StatusOK, writeResponse{Success: true, Count: count})
}

func (s *Server) postBootstrap(c echo.Context) error {
	if err := s.bootstrap.EnsureSchema(c.Request().Context()); err != nil {
		s.requestLogger(c).Error("schema bootstrap failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to bootstrap schema"})
	}
	return c.JSON(http.StatusOK, bootstrapResponse{Success: true})
}
