package service

import (
	"context"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockBookingQueries struct {
	mock.Mock
}

func (m *mockBookingQueries) GetNextBooking(ctx context.Context, itemID int64, ref time.Time, status string) (*models.Booking, error) {
	args := m.Called(ctx, itemID, ref, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockBookingQueries) GetLastBooking(ctx context.Context, itemID int64, ref time.Time, status string) (*models.Booking, error) {
	args := m.Called(ctx, itemID, ref, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockBookingQueries) GetBookingForComment(ctx context.Context, userID, itemID int64) (*models.Booking, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func ptrString(v string) *string { return &v }
func ptrBool(v bool) *bool       { return &v }

func TestItemService_CreateItem(t *testing.T) {
	ctx := context.Background()
	owner := &models.User{ID: 2, Name: "Пётр"}

	t.Run("Success", func(t *testing.T) {
		store := new(mockStore)
		svc := NewItemService(store, store, nil, nil, testLogger())

		store.On("GetUserByID", ctx, int64(2)).Return(owner, nil).Once()
		store.On("CreateItem", ctx, mock.MatchedBy(func(i *models.Item) bool {
			return i.Name == "дрель" && i.OwnerID == 2 && i.Available
		})).Return(nil).Once()

		item, err := svc.CreateItem(ctx, 2, models.ItemCreate{
			Name: "дрель", Description: "ударная", Available: ptrBool(true),
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), item.OwnerID)
		store.AssertExpectations(t)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewItemService(new(mockStore), new(mockStore), nil, nil, testLogger())

		_, err := svc.CreateItem(ctx, 2, models.ItemCreate{Description: "x", Available: ptrBool(true)})
		assert.True(t, IsValidation(err))

		_, err = svc.CreateItem(ctx, 2, models.ItemCreate{Name: "x", Available: ptrBool(true)})
		assert.True(t, IsValidation(err))

		_, err = svc.CreateItem(ctx, 2, models.ItemCreate{Name: "x", Description: "y"})
		assert.True(t, IsValidation(err))
	})

	t.Run("OwnerNotFound", func(t *testing.T) {
		store := new(mockStore)
		svc := NewItemService(store, store, nil, nil, testLogger())

		store.On("GetUserByID", ctx, int64(404)).Return(nil, nil).Once()

		_, err := svc.CreateItem(ctx, 404, models.ItemCreate{
			Name: "дрель", Description: "ударная", Available: ptrBool(true),
		})
		assert.True(t, IsNotFound(err))
	})
}

func TestItemService_UpdateItem(t *testing.T) {
	ctx := context.Background()

	existing := func() *models.Item {
		return &models.Item{ID: 5, Name: "дрель", Description: "обычная", Available: true, OwnerID: 2}
	}

	t.Run("PartialUpdate", func(t *testing.T) {
		store := new(mockStore)
		svc := NewItemService(store, store, nil, nil, testLogger())

		store.On("GetItemByID", ctx, int64(5)).Return(existing(), nil).Once()
		store.On("UpdateItem", ctx, mock.MatchedBy(func(i *models.Item) bool {
			// имя заменено, описание осталось
			return i.Name == "перфоратор" && i.Description == "обычная" && !i.Available
		})).Return(nil).Once()

		item, err := svc.UpdateItem(ctx, 2, 5, models.ItemUpdate{
			Name: ptrString("перфоратор"), Available: ptrBool(false),
		})
		assert.NoError(t, err)
		assert.Equal(t, "перфоратор", item.Name)
		store.AssertExpectations(t)
	})

	t.Run("NonOwner", func(t *testing.T) {
		store := new(mockStore)
		svc := NewItemService(store, store, nil, nil, testLogger())

		store.On("GetItemByID", ctx, int64(5)).Return(existing(), nil).Once()

		_, err := svc.UpdateItem(ctx, 1, 5, models.ItemUpdate{Name: ptrString("x")})
		assert.True(t, IsNotFound(err))
	})

	t.Run("Absent", func(t *testing.T) {
		store := new(mockStore)
		svc := NewItemService(store, store, nil, nil, testLogger())

		store.On("GetItemByID", ctx, int64(404)).Return(nil, nil).Once()

		_, err := svc.UpdateItem(ctx, 2, 404, models.ItemUpdate{})
		assert.True(t, IsNotFound(err))
	})
}

func TestItemService_GetItem(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	item := &models.Item{ID: 5, Name: "дрель", OwnerID: 2}

	newService := func(store *mockStore, bookings *mockBookingQueries) *ItemService {
		svc := NewItemService(store, store, bookings, nil, testLogger())
		svc.now = func() time.Time { return now }
		return svc
	}

	t.Run("OwnerSeesBookings", func(t *testing.T) {
		store := new(mockStore)
		bookings := new(mockBookingQueries)
		svc := newService(store, bookings)

		last := &models.Booking{ID: 10, BookerID: 1}
		store.On("GetItemByID", ctx, int64(5)).Return(item, nil).Once()
		bookings.On("GetLastBooking", ctx, int64(5), now, models.StatusApproved).Return(last, nil).Once()
		bookings.On("GetNextBooking", ctx, int64(5), now, models.StatusApproved).Return(nil, nil).Once()
		store.On("GetCommentsByItem", ctx, int64(5)).Return([]models.Comment{{ID: 1, Text: "отлично"}}, nil).Once()

		details, err := svc.GetItem(ctx, 2, 5)
		assert.NoError(t, err)
		assert.NotNil(t, details.LastBooking)
		assert.Equal(t, int64(10), details.LastBooking.ID)
		assert.Nil(t, details.NextBooking)
		assert.Len(t, details.Comments, 1)
		bookings.AssertExpectations(t)
	})

	t.Run("NonOwnerSeesNoBookings", func(t *testing.T) {
		store := new(mockStore)
		bookings := new(mockBookingQueries)
		svc := newService(store, bookings)

		store.On("GetItemByID", ctx, int64(5)).Return(item, nil).Once()
		store.On("GetCommentsByItem", ctx, int64(5)).Return(nil, nil).Once()

		details, err := svc.GetItem(ctx, 1, 5)
		assert.NoError(t, err)
		assert.Nil(t, details.LastBooking)
		assert.Nil(t, details.NextBooking)
		assert.NotNil(t, details.Comments)
		bookings.AssertNotCalled(t, "GetLastBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Absent", func(t *testing.T) {
		store := new(mockStore)
		svc := newService(store, new(mockBookingQueries))

		store.On("GetItemByID", ctx, int64(404)).Return(nil, nil).Once()

		_, err := svc.GetItem(ctx, 1, 404)
		assert.True(t, IsNotFound(err))
	})
}

func TestItemService_SearchItems(t *testing.T) {
	ctx := context.Background()

	t.Run("BlankTextReturnsEmpty", func(t *testing.T) {
		store := new(mockStore)
		svc := NewItemService(store, store, nil, nil, testLogger())

		items, err := svc.SearchItems(ctx, "   ", nil, nil)
		assert.NoError(t, err)
		assert.Empty(t, items)
		store.AssertNotCalled(t, "SearchItems", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PassesPage", func(t *testing.T) {
		store := new(mockStore)
		svc := NewItemService(store, store, nil, nil, testLogger())

		store.On("SearchItems", ctx, "дрель", &database.Page{Number: 1, Size: 2}).
			Return([]models.Item{{ID: 5}}, nil).Once()

		items, err := svc.SearchItems(ctx, "дрель", ptrInt(2), ptrInt(2))
		assert.NoError(t, err)
		assert.Len(t, items, 1)
		store.AssertExpectations(t)
	})
}

func TestItemService_CreateComment(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	newService := func(store *mockStore, bookings *mockBookingQueries, bus *mockEventBus) *ItemService {
		var publisher EventPublisher
		if bus != nil {
			publisher = bus
		}
		svc := NewItemService(store, store, bookings, publisher, testLogger())
		svc.now = func() time.Time { return now }
		return svc
	}

	finished := &models.Booking{
		ID: 10, ItemID: 5, BookerID: 1, BookerName: "Иван",
		End: now.Add(-time.Hour),
	}

	t.Run("Success", func(t *testing.T) {
		store := new(mockStore)
		bookings := new(mockBookingQueries)
		bus := new(mockEventBus)
		svc := newService(store, bookings, bus)

		bookings.On("GetBookingForComment", ctx, int64(1), int64(5)).Return(finished, nil).Once()
		store.On("CreateComment", ctx, mock.MatchedBy(func(c *models.Comment) bool {
			return c.Text == "отличная дрель" && c.AuthorID == 1 && c.AuthorName == "Иван" && c.Created.Equal(now)
		})).Return(nil).Once()
		bus.On("PublishJSON", "comment_added", mock.Anything).Return(nil).Once()

		comment, err := svc.CreateComment(ctx, 1, 5, "отличная дрель")
		assert.NoError(t, err)
		assert.Equal(t, "Иван", comment.AuthorName)
		store.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("NoBooking", func(t *testing.T) {
		bookings := new(mockBookingQueries)
		svc := newService(new(mockStore), bookings, nil)

		bookings.On("GetBookingForComment", ctx, int64(1), int64(5)).Return(nil, nil).Once()

		_, err := svc.CreateComment(ctx, 1, 5, "текст")
		assert.True(t, IsNotFound(err))
	})

	t.Run("BookingNotFinished", func(t *testing.T) {
		bookings := new(mockBookingQueries)
		svc := newService(new(mockStore), bookings, nil)

		ongoing := &models.Booking{ID: 10, ItemID: 5, BookerID: 1, End: now.Add(time.Hour)}
		bookings.On("GetBookingForComment", ctx, int64(1), int64(5)).Return(ongoing, nil).Once()

		_, err := svc.CreateComment(ctx, 1, 5, "текст")
		assert.True(t, IsValidation(err))
	})

	t.Run("BlankText", func(t *testing.T) {
		bookings := new(mockBookingQueries)
		svc := newService(new(mockStore), bookings, nil)

		bookings.On("GetBookingForComment", ctx, int64(1), int64(5)).Return(finished, nil).Once()

		_, err := svc.CreateComment(ctx, 1, 5, "   ")
		assert.True(t, IsValidation(err))
	})
}
