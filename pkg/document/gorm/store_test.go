package gorm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

const (
	puppyUID = "api::puppy.puppy"
	aboutUID = "api::about-page.about-page"
)

var documentColumns = []string{
	"id", "document_id", "collection", "status", "data",
	"created_at", "updated_at", "published_at",
}

func testSchema() document.Schema {
	return document.NewSchema(
		document.ContentType{UID: puppyUID, Kind: document.KindCollection},
		document.ContentType{
			UID:       aboutUID,
			Kind:      document.KindSingle,
			Relations: map[string]string{"featuredPuppies": puppyUID},
		},
	)
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	store := NewStore(gormDB, testSchema())
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	return store, mock
}

func TestFindFirst(t *testing.T) {
	ctx := context.Background()

	t.Run("returns first row", func(t *testing.T) {
		store, mock := newMockStore(t)
		now := time.Now()
		rows := sqlmock.NewRows(documentColumns).
			AddRow(1, "luna", puppyUID, "published", []byte(`{"name":"Luna","price":4500}`), now, now, now)
		mock.ExpectQuery(`SELECT \* FROM "documents" WHERE collection = \$1 ORDER BY id LIMIT 1`).
			WithArgs(puppyUID).
			WillReturnRows(rows)

		doc, err := store.FindFirst(ctx, puppyUID, nil)
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, int64(1), doc.ID)
		assert.Equal(t, "luna", doc.DocumentID)
		assert.Equal(t, document.StatusPublished, doc.Status)
		assert.Equal(t, "Luna", doc.Data["name"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters with jsonb containment", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT \* FROM "documents" WHERE collection = \$1 AND data @> \$2::jsonb`).
			WithArgs(puppyUID, `{"name":"Bruno"}`).
			WillReturnRows(sqlmock.NewRows(documentColumns))

		doc, err := store.FindFirst(ctx, puppyUID, document.Filter{"name": "Bruno"})
		require.NoError(t, err)
		assert.Nil(t, doc)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates query errors", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT \* FROM "documents"`).
			WillReturnError(errors.New("connection reset"))

		_, err := store.FindFirst(ctx, puppyUID, nil)
		assert.ErrorContains(t, err, "connection reset")
	})

	t.Run("unknown collection", func(t *testing.T) {
		store, _ := newMockStore(t)
		_, err := store.FindFirst(ctx, "api::cat.cat", nil)
		assert.ErrorIs(t, err, document.ErrUnknownCollection)
	})
}

func TestFindMany(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	now := time.Now()
	rows := sqlmock.NewRows(documentColumns).
		AddRow(1, "luna", puppyUID, "published", []byte(`{"name":"Luna"}`), now, now, now).
		AddRow(2, "bruno", puppyUID, "draft", []byte(`{"name":"Bruno"}`), now, now, nil)
	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE collection = \$1 ORDER BY id`).
		WithArgs(puppyUID).
		WillReturnRows(rows)

	docs, err := store.FindMany(ctx, puppyUID, nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Bruno", docs[1].Data["name"])
	assert.Equal(t, document.StatusDraft, docs[1].Status)
	assert.Nil(t, docs[1].PublishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "documents"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()

	doc, err := store.Create(ctx, puppyUID, document.CreateParams{
		Data:   document.Fields{"name": "Luna"},
		Status: document.StatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), doc.ID)
	assert.Len(t, doc.DocumentID, 24)
	require.NotNil(t, doc.PublishedAt)
	assert.Equal(t, "Luna", doc.Data["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithMissingRelationTarget(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE collection = \$1 AND id = \$2`).
		WithArgs(puppyUID, int64(9)).
		WillReturnRows(sqlmock.NewRows(documentColumns))
	mock.ExpectRollback()

	_, err := store.Create(ctx, aboutUID, document.CreateParams{
		Data: document.Fields{"featuredPuppies": document.Relation{Set: []document.Ref{{ID: 9}}}},
	})
	assert.ErrorIs(t, err, document.ErrRelationTarget)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("merges fields and resolves relations", func(t *testing.T) {
		store, mock := newMockStore(t)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "documents" WHERE collection = \$1 AND document_id = \$2`).
			WithArgs(aboutUID, "about").
			WillReturnRows(sqlmock.NewRows(documentColumns).
				AddRow(10, "about", aboutUID, "published", []byte(`{"title":"About"}`), now, now, now))
		mock.ExpectQuery(`SELECT \* FROM "documents" WHERE collection = \$1 AND id = \$2`).
			WithArgs(puppyUID, int64(1)).
			WillReturnRows(sqlmock.NewRows(documentColumns).
				AddRow(1, "luna", puppyUID, "published", []byte(`{"name":"Luna"}`), now, now, now))
		mock.ExpectExec(`UPDATE "documents" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		doc, err := store.Update(ctx, aboutUID, document.UpdateParams{
			DocumentID: "about",
			Data:       document.Fields{"featuredPuppies": document.Relation{Set: []document.Ref{{ID: 1}}}},
			Status:     document.StatusPublished,
		})
		require.NoError(t, err)
		assert.Equal(t, "About", doc.Data["title"])
		assert.Equal(t, []document.Ref{{ID: 1, DocumentID: "luna"}}, doc.Refs("featuredPuppies"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing target", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "documents" WHERE collection = \$1 AND document_id = \$2`).
			WithArgs(aboutUID, "nope").
			WillReturnRows(sqlmock.NewRows(documentColumns))
		mock.ExpectRollback()

		_, err := store.Update(ctx, aboutUID, document.UpdateParams{DocumentID: "nope"})
		assert.ErrorIs(t, err, document.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPingError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`SELECT 1`).WillReturnError(errors.New("connection reset"))

	assert.Error(t, store.Ping(context.Background()))
}
