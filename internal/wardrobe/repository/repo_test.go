package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoutfit/reoutfit-backend/internal/access"
	"github.com/reoutfit/reoutfit-backend/internal/storage/postgres"
	"github.com/reoutfit/reoutfit-backend/internal/wardrobe/domain"
)

const itemID = "3d1f0c9e-5b7a-4e2d-8c61-2a9b7f4e0d11"

var (
	alice = access.Principal{ID: "user-a"}
	now   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func setupMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(postgres.NewScoper(db, time.Second)), mock
}

func expectScoped(mock sqlmock.Sqlmock, userID string) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT set_config('request.jwt.claim.sub', $1, true)")).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "brand", "category", "color", "size",
		"image_url", "product_url", "price", "currency", "note", "created_at", "updated_at",
	})
}

func TestList_Filters(t *testing.T) {
	repo, mock := setupMock(t)

	expectScoped(mock, "user-a")
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM wardrobe_items WHERE user_id = $1 AND lower(category) = lower($2) AND (name ILIKE $3 OR brand ILIKE $3) ORDER BY updated_at DESC`)).
		WithArgs("user-a", "tops", `%50\% linen%`).
		WillReturnRows(itemRows().AddRow(itemID, "user-a", "Shirt", "Arket", "tops", nil, "M", nil, nil, "59.00", "EUR", nil, now, now))
	mock.ExpectCommit()

	items, err := repo.List(context.Background(), alice, domain.Filter{Category: "tops", Query: "50% linen"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Arket", *items[0].Brand)
	assert.Nil(t, items[0].Color)
	assert.InDelta(t, 59.0, *items[0].Price, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_OtherOwnerIsNotFound(t *testing.T) {
	repo, mock := setupMock(t)

	expectScoped(mock, "user-a")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM wardrobe_items WHERE id = $1 AND user_id = $2`)).
		WithArgs(itemID, "user-a").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Get(context.Background(), alice, itemID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	repo, mock := setupMock(t)
	brand := "COS"
	currency := "usd"
	price := 120.0

	expectScoped(mock, "user-a")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO wardrobe_items`)).
		WithArgs(sqlmock.AnyArg(), "user-a", "Wool coat", "COS", nil, nil, nil, nil, nil, 120.0, "USD", nil).
		WillReturnRows(itemRows().AddRow(itemID, "user-a", "Wool coat", "COS", nil, nil, nil, nil, nil, "120.00", "USD", nil, now, now))
	mock.ExpectCommit()

	item, err := repo.Create(context.Background(), alice, domain.CreateInput{
		Name: "  Wool coat ", Brand: &brand, Price: &price, Currency: &currency,
	})
	require.NoError(t, err)
	assert.Equal(t, "user-a", item.UserID)
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_PartialFields(t *testing.T) {
	repo, mock := setupMock(t)
	note := "dry clean only"

	expectScoped(mock, "user-a")
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND user_id = $12`)).
		WithArgs(itemID, nil, nil, nil, nil, nil, nil, nil, nil, nil, "dry clean only", "user-a").
		WillReturnRows(itemRows().AddRow(itemID, "user-a", "Coat", nil, nil, nil, nil, nil, nil, nil, nil, note, now, now.Add(time.Second)))
	mock.ExpectCommit()

	item, err := repo.Update(context.Background(), alice, itemID, domain.UpdateInput{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "dry clean only", *item.Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := setupMock(t)

	expectScoped(mock, "user-a")
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM wardrobe_items WHERE id = $1 AND user_id = $2`)).
		WithArgs(itemID, "user-a").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, repo.Delete(context.Background(), alice, itemID), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), alice, "../etc"), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
