package service

import (
	"context"
	"strings"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// RequestStore — хранилище запросов на вещи.
type RequestStore interface {
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]models.ItemRequest, error)
	GetRequestsByOthers(ctx context.Context, requestorID int64, page *database.Page) ([]models.ItemRequest, error)
	GetItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error)
}

type RequestService struct {
	store  RequestStore
	users  UserDirectory
	logger *zerolog.Logger
}

func NewRequestService(store RequestStore, users UserDirectory, logger *zerolog.Logger) *RequestService {
	return &RequestService{store: store, users: users, logger: logger}
}

// CreateRequest публикует запрос на вещь, которой нет в каталоге.
func (s *RequestService) CreateRequest(ctx context.Context, requestorID int64, description string) (*models.ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, Invalid("request description must not be empty")
	}

	requestor, err := s.users.GetUserByID(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	if requestor == nil {
		return nil, NotFound("user not found")
	}

	request := &models.ItemRequest{Description: description, RequestorID: requestor.ID}
	if err := s.store.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	request.Items = []models.Item{}

	s.logger.Info().Int64("request_id", request.ID).Int64("requestor_id", requestorID).Msg("item request created")
	return request, nil
}

// GetOwnRequests возвращает запросы пользователя с предложенными вещами,
// новые первыми.
func (s *RequestService) GetOwnRequests(ctx context.Context, requestorID int64) ([]models.ItemRequest, error) {
	if err := s.checkUser(ctx, requestorID); err != nil {
		return nil, err
	}

	requests, err := s.store.GetRequestsByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// GetOtherRequests возвращает чужие запросы, новые первыми.
func (s *RequestService) GetOtherRequests(ctx context.Context, requestorID int64, from, size *int) ([]models.ItemRequest, error) {
	if err := s.checkUser(ctx, requestorID); err != nil {
		return nil, err
	}

	page, err := pageFromParams(from, size)
	if err != nil {
		return nil, err
	}

	requests, err := s.store.GetRequestsByOthers(ctx, requestorID, page)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// GetRequestByID возвращает запрос любому существующему пользователю.
func (s *RequestService) GetRequestByID(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.store.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, NotFound("request not found")
	}

	if request.Items, err = s.itemsForRequest(ctx, request.ID); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) checkUser(ctx context.Context, userID int64) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return NotFound("user not found")
	}
	return nil
}

func (s *RequestService) attachItems(ctx context.Context, requests []models.ItemRequest) ([]models.ItemRequest, error) {
	if requests == nil {
		return []models.ItemRequest{}, nil
	}
	for i := range requests {
		items, err := s.itemsForRequest(ctx, requests[i].ID)
		if err != nil {
			return nil, err
		}
		requests[i].Items = items
	}
	return requests, nil
}

func (s *RequestService) itemsForRequest(ctx context.Context, requestID int64) ([]models.Item, error) {
	items, err := s.store.GetItemsByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}
