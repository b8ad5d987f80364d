package service

import (
	"context"
	"testing"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRequestService_CreateRequest(t *testing.T) {
	ctx := context.Background()
	requestor := &models.User{ID: 1, Name: "Иван"}

	t.Run("Success", func(t *testing.T) {
		store := new(mockStore)
		svc := NewRequestService(store, store, testLogger())

		store.On("GetUserByID", ctx, int64(1)).Return(requestor, nil).Once()
		store.On("CreateRequest", ctx, mock.MatchedBy(func(r *models.ItemRequest) bool {
			return r.Description == "нужна дрель" && r.RequestorID == 1
		})).Return(nil).Once()

		request, err := svc.CreateRequest(ctx, 1, "нужна дрель")
		assert.NoError(t, err)
		assert.NotNil(t, request.Items)
		store.AssertExpectations(t)
	})

	t.Run("BlankDescription", func(t *testing.T) {
		svc := NewRequestService(new(mockStore), new(mockStore), testLogger())

		_, err := svc.CreateRequest(ctx, 1, "  ")
		assert.True(t, IsValidation(err))
	})

	t.Run("RequestorNotFound", func(t *testing.T) {
		store := new(mockStore)
		svc := NewRequestService(store, store, testLogger())

		store.On("GetUserByID", ctx, int64(404)).Return(nil, nil).Once()

		_, err := svc.CreateRequest(ctx, 404, "нужна дрель")
		assert.True(t, IsNotFound(err))
	})
}

func TestRequestService_GetOwnRequests(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	svc := NewRequestService(store, store, testLogger())

	store.On("GetUserByID", ctx, int64(1)).Return(&models.User{ID: 1}, nil).Once()
	store.On("GetRequestsByRequestor", ctx, int64(1)).
		Return([]models.ItemRequest{{ID: 3, RequestorID: 1}}, nil).Once()
	store.On("GetItemsByRequest", ctx, int64(3)).
		Return([]models.Item{{ID: 5, RequestID: 3}}, nil).Once()

	requests, err := svc.GetOwnRequests(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, requests, 1)
	assert.Len(t, requests[0].Items, 1)
	store.AssertExpectations(t)
}

func TestRequestService_GetOtherRequests(t *testing.T) {
	ctx := context.Background()

	t.Run("PassesPage", func(t *testing.T) {
		store := new(mockStore)
		svc := NewRequestService(store, store, testLogger())

		store.On("GetUserByID", ctx, int64(1)).Return(&models.User{ID: 1}, nil).Once()
		store.On("GetRequestsByOthers", ctx, int64(1), &database.Page{Number: 0, Size: 10}).
			Return(nil, nil).Once()

		requests, err := svc.GetOtherRequests(ctx, 1, ptrInt(0), ptrInt(10))
		assert.NoError(t, err)
		assert.NotNil(t, requests)
		assert.Empty(t, requests)
		store.AssertExpectations(t)
	})

	t.Run("BadPagination", func(t *testing.T) {
		store := new(mockStore)
		svc := NewRequestService(store, store, testLogger())

		store.On("GetUserByID", ctx, int64(1)).Return(&models.User{ID: 1}, nil).Once()

		_, err := svc.GetOtherRequests(ctx, 1, ptrInt(5), ptrInt(0))
		assert.True(t, IsValidation(err))
	})
}

func TestRequestService_GetRequestByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		store := new(mockStore)
		svc := NewRequestService(store, store, testLogger())

		store.On("GetUserByID", ctx, int64(1)).Return(&models.User{ID: 1}, nil).Once()
		store.On("GetRequestByID", ctx, int64(3)).Return(&models.ItemRequest{ID: 3}, nil).Once()
		store.On("GetItemsByRequest", ctx, int64(3)).Return(nil, nil).Once()

		request, err := svc.GetRequestByID(ctx, 1, 3)
		assert.NoError(t, err)
		assert.NotNil(t, request.Items)
	})

	t.Run("Absent", func(t *testing.T) {
		store := new(mockStore)
		svc := NewRequestService(store, store, testLogger())

		store.On("GetUserByID", ctx, int64(1)).Return(&models.User{ID: 1}, nil).Once()
		store.On("GetRequestByID", ctx, int64(404)).Return(nil, nil).Once()

		_, err := svc.GetRequestByID(ctx, 1, 404)
		assert.True(t, IsNotFound(err))
	})

	t.Run("CallerNotFound", func(t *testing.T) {
		store := new(mockStore)
		svc := NewRequestService(store, store, testLogger())

		store.On("GetUserByID", ctx, int64(404)).Return(nil, nil).Once()

		_, err := svc.GetRequestByID(ctx, 404, 3)
		assert.True(t, IsNotFound(err))
	})
}
