package service

import (
	"context"
	"strings"
	"time"

	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// ItemStore — хранилище вещей и комментариев.
type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemsByOwner(ctx context.Context, ownerID int64, page *database.Page) ([]models.Item, error)
	SearchItems(ctx context.Context, text string, page *database.Page) ([]models.Item, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)
}

// BookingQueries — запросы к ядру бронирований, нужные каталогу вещей.
type BookingQueries interface {
	GetNextBooking(ctx context.Context, itemID int64, ref time.Time, status string) (*models.Booking, error)
	GetLastBooking(ctx context.Context, itemID int64, ref time.Time, status string) (*models.Booking, error)
	GetBookingForComment(ctx context.Context, userID, itemID int64) (*models.Booking, error)
}

type ItemService struct {
	store    ItemStore
	users    UserDirectory
	bookings BookingQueries
	eventBus EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewItemService(store ItemStore, users UserDirectory, bookings BookingQueries, eventBus EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		store:    store,
		users:    users,
		bookings: bookings,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateItem добавляет вещь в каталог владельца.
func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, in models.ItemCreate) (*models.Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, Invalid("item name must not be empty")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, Invalid("item description must not be empty")
	}
	if in.Available == nil {
		return nil, Invalid("item availability is required")
	}

	owner, err := s.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, NotFound("user not found")
	}

	item := &models.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   *in.Available,
		OwnerID:     owner.ID,
		RequestID:   in.RequestID,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// UpdateItem применяет частичное обновление; менять вещь может только владелец.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, upd models.ItemUpdate) (*models.Item, error) {
	item, err := s.store.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, NotFound("item not found")
	}
	if item.OwnerID != ownerID {
		s.logger.Info().Int64("item_id", itemID).Int64("user_id", ownerID).Msg("update attempted by non-owner")
		return nil, NotFound("only the owner can update an item")
	}

	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Available != nil {
		item.Available = *upd.Available
	}
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem возвращает вещь с комментариями; владелец дополнительно видит
// последнее и ближайшее подтверждённые бронирования.
func (s *ItemService) GetItem(ctx context.Context, callerID, itemID int64) (*models.ItemDetails, error) {
	item, err := s.store.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, NotFound("item not found")
	}

	details := &models.ItemDetails{Item: *item}
	if item.OwnerID == callerID {
		if err := s.attachBookings(ctx, details, s.now()); err != nil {
			return nil, err
		}
	}
	if details.Comments, err = s.store.GetCommentsByItem(ctx, itemID); err != nil {
		return nil, err
	}
	if details.Comments == nil {
		details.Comments = []models.Comment{}
	}
	return details, nil
}

// GetAllItems возвращает вещи владельца с контекстом бронирований.
func (s *ItemService) GetAllItems(ctx context.Context, ownerID int64, from, size *int) ([]models.ItemDetails, error) {
	page, err := pageFromParams(from, size)
	if err != nil {
		return nil, err
	}

	items, err := s.store.GetItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	// Снимок часов один на всю выборку, чтобы границы
	// last/next не плыли между вещами
	now := s.now()
	details := make([]models.ItemDetails, 0, len(items))
	for _, item := range items {
		d := models.ItemDetails{Item: item}
		if err := s.attachBookings(ctx, &d, now); err != nil {
			return nil, err
		}
		if d.Comments, err = s.store.GetCommentsByItem(ctx, item.ID); err != nil {
			return nil, err
		}
		if d.Comments == nil {
			d.Comments = []models.Comment{}
		}
		details = append(details, d)
	}
	return details, nil
}

// SearchItems ищет доступные вещи по подстроке; пустой запрос дает пустой список.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size *int) ([]models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Item{}, nil
	}

	page, err := pageFromParams(from, size)
	if err != nil {
		return nil, err
	}

	items, err := s.store.SearchItems(ctx, text, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// CreateComment публикует отзыв; право дает завершившаяся аренда вещи.
func (s *ItemService) CreateComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	booking, err := s.bookings.GetBookingForComment(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, NotFound("booking not found")
	}

	now := s.now()
	if !booking.End.Before(now) {
		return nil, Invalid("booking is not finished yet")
	}
	if strings.TrimSpace(text) == "" {
		return nil, Invalid("comment text must not be empty")
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     booking.ItemID,
		AuthorID:   booking.BookerID,
		AuthorName: booking.BookerName,
		Created:    now,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.publishCommentEvent(comment)
	return comment, nil
}

func (s *ItemService) attachBookings(ctx context.Context, d *models.ItemDetails, now time.Time) error {
	last, err := s.bookings.GetLastBooking(ctx, d.ID, now, models.StatusApproved)
	if err != nil {
		return err
	}
	next, err := s.bookings.GetNextBooking(ctx, d.ID, now, models.StatusApproved)
	if err != nil {
		return err
	}
	d.LastBooking = last.Ref()
	d.NextBooking = next.Ref()
	return nil
}

func (s *ItemService) publishCommentEvent(comment *models.Comment) {
	if s.eventBus == nil {
		return
	}

	payload := events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    comment.ItemID,
		AuthorID:  comment.AuthorID,
	}
	if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
		s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
	}
}
