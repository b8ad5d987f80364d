package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *DB, name, email string) *models.User {
	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func seedItem(t *testing.T, db *DB, ownerID int64, name string, available bool) *models.Item {
	item := &models.Item{Name: name, Description: name + " desc", Available: available, OwnerID: ownerID}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func seedBooking(t *testing.T, db *DB, itemID, bookerID int64, start, end time.Time, status string) *models.Booking {
	booking := &models.Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end, Status: status}
	require.NoError(t, db.CreateBooking(context.Background(), booking))
	if status != models.StatusWaiting {
		require.NoError(t, db.UpdateBookingStatus(context.Background(), booking.ID, status))
	}
	return booking
}

func TestNewDB_DirectoryCreation(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "db_test_dir")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "dir", "test.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
}

func TestUsersCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	user := seedUser(t, db, "Иван", "ivan@example.com")
	assert.NotZero(t, user.ID)

	t.Run("GetByID", func(t *testing.T) {
		got, err := db.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Иван", got.Name)
	})

	t.Run("AbsentIsNilNil", func(t *testing.T) {
		got, err := db.GetUserByID(ctx, 9999)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Update", func(t *testing.T) {
		user.Name = "Пётр"
		require.NoError(t, db.UpdateUser(ctx, user))

		got, err := db.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Пётр", got.Name)
	})

	t.Run("GetAll", func(t *testing.T) {
		seedUser(t, db, "Анна", "anna@example.com")
		users, err := db.GetAllUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, db.DeleteUser(ctx, user.ID))
		got, err := db.GetUserByID(ctx, user.ID)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestItemsCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := seedUser(t, db, "Пётр", "petr@example.com")
	drill := seedItem(t, db, owner.ID, "Дрель", true)
	seedItem(t, db, owner.ID, "Отвёртка", true)

	t.Run("GetByID", func(t *testing.T) {
		got, err := db.GetItemByID(ctx, drill.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Дрель", got.Name)
		assert.Zero(t, got.RequestID)
	})

	t.Run("Update", func(t *testing.T) {
		drill.Available = false
		require.NoError(t, db.UpdateItem(ctx, drill))

		got, err := db.GetItemByID(ctx, drill.ID)
		require.NoError(t, err)
		assert.False(t, got.Available)

		drill.Available = true
		require.NoError(t, db.UpdateItem(ctx, drill))
	})

	t.Run("ByOwnerPaged", func(t *testing.T) {
		items, err := db.GetItemsByOwner(ctx, owner.ID, nil)
		require.NoError(t, err)
		assert.Len(t, items, 2)

		page, err := db.GetItemsByOwner(ctx, owner.ID, &Page{Number: 1, Size: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "Отвёртка", page[0].Name)
	})

	t.Run("Search", func(t *testing.T) {
		// регистронезависимый поиск по названию и описанию
		items, err := db.SearchItems(ctx, "ДрЕлЬ", nil)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Дрель", items[0].Name)
	})

	t.Run("SearchSkipsUnavailable", func(t *testing.T) {
		hidden := seedItem(t, db, owner.ID, "Пила", false)
		items, err := db.SearchItems(ctx, "пила", nil)
		require.NoError(t, err)
		assert.Empty(t, items)

		hidden.Available = true
		require.NoError(t, db.UpdateItem(ctx, hidden))
		items, err = db.SearchItems(ctx, "пила", nil)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestItemsByRequest(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	requestor := seedUser(t, db, "Иван", "ivan@example.com")
	owner := seedUser(t, db, "Пётр", "petr@example.com")

	request := &models.ItemRequest{Description: "нужна дрель", RequestorID: requestor.ID}
	require.NoError(t, db.CreateRequest(ctx, request))

	item := &models.Item{
		Name: "Дрель", Description: "ударная", Available: true,
		OwnerID: owner.ID, RequestID: request.ID,
	}
	require.NoError(t, db.CreateItem(ctx, item))

	items, err := db.GetItemsByRequest(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, request.ID, items[0].RequestID)
}

func TestRequests(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	ivan := seedUser(t, db, "Иван", "ivan@example.com")
	petr := seedUser(t, db, "Пётр", "petr@example.com")

	first := &models.ItemRequest{Description: "первый", RequestorID: ivan.ID}
	require.NoError(t, db.CreateRequest(ctx, first))
	second := &models.ItemRequest{Description: "второй", RequestorID: petr.ID}
	require.NoError(t, db.CreateRequest(ctx, second))

	t.Run("GetByID", func(t *testing.T) {
		got, err := db.GetRequestByID(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "первый", got.Description)
	})

	t.Run("AbsentIsNilNil", func(t *testing.T) {
		got, err := db.GetRequestByID(ctx, 9999)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ByRequestor", func(t *testing.T) {
		requests, err := db.GetRequestsByRequestor(ctx, ivan.ID)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, "первый", requests[0].Description)
	})

	t.Run("ByOthers", func(t *testing.T) {
		requests, err := db.GetRequestsByOthers(ctx, ivan.ID, nil)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, "второй", requests[0].Description)
	})
}

func TestComments(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := seedUser(t, db, "Пётр", "petr@example.com")
	author := seedUser(t, db, "Иван", "ivan@example.com")
	item := seedItem(t, db, owner.ID, "Дрель", true)

	comment := &models.Comment{
		Text: "отличная дрель", ItemID: item.ID, AuthorID: author.ID,
		Created: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.CreateComment(ctx, comment))
	assert.NotZero(t, comment.ID)

	comments, err := db.GetCommentsByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	// имя автора подтягивается из users
	assert.Equal(t, "Иван", comments[0].AuthorName)
	assert.True(t, comments[0].Created.Equal(comment.Created))
}
