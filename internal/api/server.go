package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"
	"shareit/internal/repository"
	"shareit/internal/worker"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Server — HTTP-поверхность сервиса аренды.
type Server struct {
	cfg      config.Config
	users    UserAPI
	items    ItemAPI
	bookings BookingAPI
	requests RequestAPI
	exports  ExportEnqueuer
	server   *http.Server
	logger   *zerolog.Logger
}

type UserAPI interface {
	CreateUser(ctx context.Context, name, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemAPI interface {
	CreateItem(ctx context.Context, ownerID int64, in models.ItemCreate) (*models.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, upd models.ItemUpdate) (*models.Item, error)
	GetItem(ctx context.Context, callerID, itemID int64) (*models.ItemDetails, error)
	GetAllItems(ctx context.Context, ownerID int64, from, size *int) ([]models.ItemDetails, error)
	SearchItems(ctx context.Context, text string, from, size *int) ([]models.Item, error)
	CreateComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error)
}

type BookingAPI interface {
	CreateBooking(ctx context.Context, userID int64, req models.BookingRequest) (*models.Booking, error)
	ChangeStatus(ctx context.Context, userID, bookingID int64, approved bool) (*models.Booking, error)
	GetBookingByID(ctx context.Context, userID, bookingID int64) (*models.Booking, error)
	GetAllForBooker(ctx context.Context, userID int64, state string, from, size *int) ([]models.Booking, error)
	GetAllForOwner(ctx context.Context, userID int64, state string, from, size *int) ([]models.Booking, error)
}

type RequestAPI interface {
	CreateRequest(ctx context.Context, requestorID int64, description string) (*models.ItemRequest, error)
	GetOwnRequests(ctx context.Context, requestorID int64) ([]models.ItemRequest, error)
	GetOtherRequests(ctx context.Context, requestorID int64, from, size *int) ([]models.ItemRequest, error)
	GetRequestByID(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error)
}

type ExportEnqueuer interface {
	Enqueue(job worker.ExportJob) (string, error)
}

// Deps собирает зависимости HTTP-сервера.
type Deps struct {
	Users       UserAPI
	Items       ItemAPI
	Bookings    BookingAPI
	Requests    RequestAPI
	Exports     ExportEnqueuer
	RateLimiter repository.RateLimiter
}

func NewServer(cfg config.Config, deps Deps, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		users:    deps.Users,
		items:    deps.Items,
		bookings: deps.Bookings,
		requests: deps.Requests,
		exports:  deps.Exports,
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users", s.handleGetAllUsers)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("PATCH /users/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", s.handleDeleteUser)

	mux.HandleFunc("POST /items", s.handleCreateItem)
	mux.HandleFunc("GET /items", s.handleGetAllItems)
	// search раньше {id}, чтобы литеральный сегмент не съедался шаблоном
	mux.HandleFunc("GET /items/search", s.handleSearchItems)
	mux.HandleFunc("GET /items/{id}", s.handleGetItem)
	mux.HandleFunc("PATCH /items/{id}", s.handleUpdateItem)
	mux.HandleFunc("POST /items/{id}/comment", s.handleCreateComment)

	mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	mux.HandleFunc("GET /bookings", s.handleGetBookingsForBooker)
	mux.HandleFunc("GET /bookings/owner", s.handleGetBookingsForOwner)
	mux.HandleFunc("GET /bookings/{id}", s.handleGetBooking)
	mux.HandleFunc("PATCH /bookings/{id}", s.handleChangeBookingStatus)

	mux.HandleFunc("POST /requests", s.handleCreateRequest)
	mux.HandleFunc("GET /requests", s.handleGetOwnRequests)
	mux.HandleFunc("GET /requests/all", s.handleGetOtherRequests)
	mux.HandleFunc("GET /requests/{id}", s.handleGetRequest)

	mux.HandleFunc("POST /admin/exports", s.handleEnqueueExport)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	var globalLimiter *rate.Limiter
	if cfg.RateLimit.RPS > 0 {
		burst := cfg.RateLimit.Burst
		if burst <= 0 {
			burst = 5
		}
		globalLimiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), burst)
	}

	handler := requestIDMiddleware(
		loggingMiddleware(logger,
			rateLimitMiddleware(globalLimiter, deps.RateLimiter, cfg.RateLimit, logger,
				metricsMiddleware(mux))))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler отдает корневой обработчик, удобно в тестах.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
