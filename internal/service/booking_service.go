package service

import (
	"context"
	"time"

	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingStore — хранилище бронирований.
// Одиночные выборки возвращают (nil, nil) при отсутствии записи.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	ListBookings(ctx context.Context, f database.BookingFilter) ([]models.Booking, error)
	NextBookingForItem(ctx context.Context, itemID int64, ref time.Time, status string) (*models.Booking, error)
	LastBookingForItem(ctx context.Context, itemID int64, ref time.Time, status string) (*models.Booking, error)
	FirstBookingForComment(ctx context.Context, bookerID, itemID int64) (*models.Booking, error)
}

// ItemCatalog — выборка вещи для бронирования, (nil, nil) при отсутствии.
type ItemCatalog interface {
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
}

// UserDirectory — выборка пользователя, (nil, nil) при отсутствии.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type BookingService struct {
	store    BookingStore
	items    ItemCatalog
	users    UserDirectory
	eventBus EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(store BookingStore, items ItemCatalog, users UserDirectory, eventBus EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:    store,
		items:    items,
		users:    users,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateBooking регистрирует заявку на бронирование со статусом WAITING.
func (s *BookingService) CreateBooking(ctx context.Context, userID int64, req models.BookingRequest) (*models.Booking, error) {
	if err := s.validateBookingRequest(req); err != nil {
		return nil, err
	}

	item, err := s.items.GetItemByID(ctx, *req.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		s.logger.Info().Int64("item_id", *req.ItemID).Msg("booking rejected: item not found")
		return nil, NotFound("item not found")
	}

	booker, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if booker == nil {
		return nil, NotFound("user not found")
	}

	if !item.Available {
		s.logger.Info().Int64("item_id", item.ID).Msg("booking rejected: item is not available")
		return nil, Invalid("item is not available")
	}
	// Владелец не может забронировать свою вещь; сознательно отвечаем
	// "не найдено", а не "запрещено"
	if userID == item.OwnerID {
		s.logger.Info().Int64("item_id", item.ID).Int64("user_id", userID).Msg("booking rejected: owner cannot book own item")
		return nil, NotFound("owner cannot book own item")
	}

	booking := &models.Booking{
		ItemID:      item.ID,
		ItemName:    item.Name,
		ItemOwnerID: item.OwnerID,
		BookerID:    booker.ID,
		BookerName:  booker.Name,
		Start:       *req.Start,
		End:         *req.End,
		Status:      models.StatusWaiting,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking)
	return booking, nil
}

// ChangeStatus — единственный переход состояния: WAITING → APPROVED/REJECTED,
// выполняется владельцем вещи ровно один раз.
func (s *BookingService) ChangeStatus(ctx context.Context, userID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		s.logger.Info().Int64("booking_id", bookingID).Msg("booking not found")
		return nil, NotFound("booking not found")
	}
	if booking.ItemOwnerID != userID {
		s.logger.Info().Int64("booking_id", bookingID).Int64("user_id", userID).Msg("status change attempted by non-owner")
		return nil, NotFound("only the item owner can approve or reject a booking")
	}
	if booking.Status != models.StatusWaiting {
		return nil, Invalid("booking is not waiting for approval")
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}
	if err := s.store.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	s.publishEvent(eventType, booking)
	return booking, nil
}

// GetBookingByID возвращает бронирование букеру или владельцу вещи.
// Остальным отвечает "не найдено", чтобы не раскрывать существование записи.
func (s *BookingService) GetBookingByID(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, NotFound("booking not found")
	}
	if booking.BookerID != userID && booking.ItemOwnerID != userID {
		return nil, NotFound("booking not found")
	}
	return booking, nil
}

// GetAllForBooker возвращает бронирования пользователя-букера,
// отфильтрованные по state, в порядке убывания даты окончания.
func (s *BookingService) GetAllForBooker(ctx context.Context, userID int64, state string, from, size *int) ([]models.Booking, error) {
	return s.listBookings(ctx, database.BookingFilter{BookerID: userID}, userID, state, from, size)
}

// GetAllForOwner возвращает бронирования вещей владельца.
func (s *BookingService) GetAllForOwner(ctx context.Context, userID int64, state string, from, size *int) ([]models.Booking, error) {
	return s.listBookings(ctx, database.BookingFilter{OwnerID: userID}, userID, state, from, size)
}

func (s *BookingService) listBookings(ctx context.Context, filter database.BookingFilter, userID int64, state string, from, size *int) ([]models.Booking, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("user not found")
	}

	timeFilter, status, err := parseState(state)
	if err != nil {
		return nil, err
	}

	page, err := pageFromParams(from, size)
	if err != nil {
		return nil, err
	}

	// Один снимок часов на весь запрос
	filter.Time = timeFilter
	filter.Status = status
	filter.Now = s.now()
	filter.Page = page
	return s.store.ListBookings(ctx, filter)
}

// GetNextBooking — ближайшее бронирование вещи после ref с данным статусом.
func (s *BookingService) GetNextBooking(ctx context.Context, itemID int64, ref time.Time, status string) (*models.Booking, error) {
	return s.store.NextBookingForItem(ctx, itemID, ref, status)
}

// GetLastBooking — последнее начавшееся до ref бронирование вещи.
func (s *BookingService) GetLastBooking(ctx context.Context, itemID int64, ref time.Time, status string) (*models.Booking, error) {
	return s.store.LastBookingForItem(ctx, itemID, ref, status)
}

// GetBookingForComment — самое раннее по окончанию бронирование вещи
// пользователем; статус не учитывается. Право на комментарий проверяет
// вызывающая сторона по End < now.
func (s *BookingService) GetBookingForComment(ctx context.Context, userID, itemID int64) (*models.Booking, error) {
	return s.store.FirstBookingForComment(ctx, userID, itemID)
}

func (s *BookingService) validateBookingRequest(req models.BookingRequest) error {
	if req.ItemID == nil {
		return Invalid("item id is required")
	}
	if req.Start == nil {
		return Invalid("start date is required")
	}
	if req.End == nil {
		return Invalid("end date is required")
	}

	now := s.now()
	if req.End.Before(*req.Start) ||
		req.Start.Before(now) ||
		req.End.Before(now) ||
		req.Start.Equal(*req.End) {
		s.logger.Info().Time("start", *req.Start).Time("end", *req.End).Msg("booking rejected: invalid dates")
		return Invalid("invalid booking dates")
	}
	return nil
}

func parseState(state string) (database.TimeFilter, string, error) {
	switch state {
	case models.StateAll:
		return database.TimeAny, "", nil
	case models.StateCurrent:
		return database.TimeCurrent, "", nil
	case models.StatePast:
		return database.TimePast, "", nil
	case models.StateFuture:
		return database.TimeFuture, "", nil
	case models.StateWaiting:
		return database.TimeAny, models.StatusWaiting, nil
	case models.StateRejected:
		return database.TimeAny, models.StatusRejected, nil
	default:
		return database.TimeAny, "", Invalid("Unknown state: UNSUPPORTED_STATUS")
	}
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
