package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

const (
	puppyUID = "api::puppy.puppy"
	aboutUID = "api::about-page.about-page"
)

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

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := New(testSchema())

	luna, err := s.Create(ctx, puppyUID, document.CreateParams{
		Data:   document.Fields{"name": "Luna", "price": 4500},
		Status: document.StatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), luna.ID)
	assert.Len(t, luna.DocumentID, 24)
	assert.Equal(t, document.StatusPublished, luna.Status)
	assert.NotNil(t, luna.PublishedAt)

	bruno, err := s.Create(ctx, puppyUID, document.CreateParams{
		Data: document.Fields{"name": "Bruno", "price": 4800},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), bruno.ID)
	assert.Nil(t, bruno.PublishedAt)

	first, err := s.FindFirst(ctx, puppyUID, nil)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Luna", first.Data["name"])

	found, err := s.FindFirst(ctx, puppyUID, document.Filter{"price": 4800})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, bruno.DocumentID, found.DocumentID)

	all, err := s.FindMany(ctx, puppyUID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(2), all[1].ID)
}

func TestFindOnEmptyCollection(t *testing.T) {
	ctx := context.Background()
	s := New(testSchema())

	doc, err := s.FindFirst(ctx, puppyUID, nil)
	require.NoError(t, err)
	assert.Nil(t, doc)

	docs, err := s.FindMany(ctx, puppyUID, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUnknownCollection(t *testing.T) {
	ctx := context.Background()
	s := New(testSchema())

	_, err := s.FindFirst(ctx, "api::cat.cat", nil)
	assert.ErrorIs(t, err, document.ErrUnknownCollection)

	_, err = s.Create(ctx, "api::cat.cat", document.CreateParams{})
	assert.ErrorIs(t, err, document.ErrUnknownCollection)
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New(testSchema())

	doc, err := s.Create(ctx, puppyUID, document.CreateParams{Data: document.Fields{"name": "Luna"}})
	require.NoError(t, err)
	doc.Data["name"] = "changed"

	again, err := s.FindFirst(ctx, puppyUID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Luna", again.Data["name"])
}

func TestRelations(t *testing.T) {
	ctx := context.Background()
	s := New(testSchema())

	luna, err := s.Create(ctx, puppyUID, document.CreateParams{Data: document.Fields{"name": "Luna"}})
	require.NoError(t, err)
	bruno, err := s.Create(ctx, puppyUID, document.CreateParams{Data: document.Fields{"name": "Bruno"}})
	require.NoError(t, err)

	t.Run("resolves document ids and raw ids", func(t *testing.T) {
		page, err := s.Create(ctx, aboutUID, document.CreateParams{
			Data: document.Fields{
				"title": "About",
				"featuredPuppies": document.Relation{Set: []document.Ref{
					{DocumentID: bruno.DocumentID},
					{ID: luna.ID},
				}},
			},
			Status: document.StatusPublished,
		})
		require.NoError(t, err)

		expected := []document.Ref{
			{ID: bruno.ID, DocumentID: bruno.DocumentID},
			{ID: luna.ID, DocumentID: luna.DocumentID},
		}
		assert.Equal(t, expected, page.Refs("featuredPuppies"))

		stored, err := s.FindFirst(ctx, aboutUID, nil)
		require.NoError(t, err)
		assert.Equal(t, expected, stored.Refs("featuredPuppies"))
	})

	t.Run("rejects unknown targets", func(t *testing.T) {
		_, err := s.Create(ctx, aboutUID, document.CreateParams{
			Data: document.Fields{"featuredPuppies": []document.Ref{{ID: 42}}},
		})
		assert.ErrorIs(t, err, document.ErrRelationTarget)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := New(testSchema())

	luna, err := s.Create(ctx, puppyUID, document.CreateParams{Data: document.Fields{"name": "Luna"}})
	require.NoError(t, err)
	page, err := s.Create(ctx, aboutUID, document.CreateParams{
		Data:   document.Fields{"title": "About"},
		Status: document.StatusPublished,
	})
	require.NoError(t, err)

	updated, err := s.Update(ctx, aboutUID, document.UpdateParams{
		DocumentID: page.DocumentID,
		Data: document.Fields{
			"featuredPuppies": map[string]interface{}{
				"set": []interface{}{map[string]interface{}{"id": luna.ID}},
			},
		},
		Status: document.StatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, page.ID, updated.ID)
	assert.Equal(t, "About", updated.Data["title"])
	assert.Equal(t, []document.Ref{{ID: luna.ID, DocumentID: luna.DocumentID}}, updated.Refs("featuredPuppies"))
	assert.Equal(t, 1, s.Count(aboutUID))

	byID, err := s.Update(ctx, puppyUID, document.UpdateParams{ID: luna.ID, Data: document.Fields{"available": true}})
	require.NoError(t, err)
	assert.Equal(t, true, byID.Data["available"])
	assert.Equal(t, document.StatusDraft, byID.Status)

	_, err = s.Update(ctx, aboutUID, document.UpdateParams{DocumentID: "missing"})
	assert.ErrorIs(t, err, document.ErrNotFound)
}
