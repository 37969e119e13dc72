package users

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const usersNS = "secret-santa.users"

func newMockMongo(t *testing.T) *mtest.T {
	t.Helper()
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestMongoCreate(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewMongoRepository(mt.DB)
		u, err := repo.Create(context.Background(), &models.User{Name: "alice"})
		require.NoError(mt, err)

		assert.Len(mt, u.ID, 24)
		assert.Equal(mt, "alice", u.Name)
		assert.Equal(mt, []string{}, u.Wishlist)
		assert.Nil(mt, u.SecretKeyHash)
	})

	mt.Run("duplicate name", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		repo := NewMongoRepository(mt.DB)
		_, err := repo.Create(context.Background(), &models.User{Name: "alice"})
		assert.ErrorIs(mt, err, common.ErrorAlreadyExists)
	})
}

func TestMongoGetByName(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("found with nested questionnaire", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		target := primitive.NewObjectID()
		hash := "h"
		created := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "alice"},
			{Key: "secretKey", Value: hash},
			{Key: "assignedTo", Value: target},
			{Key: "seenAssignment", Value: true},
			{Key: "wishlist", Value: bson.A{"socks"}},
			{Key: "questionnaire", Value: bson.D{
				{Key: "size", Value: "M"},
				{Key: "likes", Value: bson.A{"tea", bson.D{{Key: "brand", Value: "x"}}}},
			}},
			{Key: "createdAt", Value: created},
		}))

		repo := NewMongoRepository(mt.DB)
		u, err := repo.GetByName(context.Background(), "alice")
		require.NoError(mt, err)

		assert.Equal(mt, oid.Hex(), u.ID)
		require.NotNil(mt, u.SecretKeyHash)
		assert.Equal(mt, hash, *u.SecretKeyHash)
		require.NotNil(mt, u.AssignedTo)
		assert.Equal(mt, target.Hex(), *u.AssignedTo)
		assert.True(mt, u.SeenAssignment)
		assert.Equal(mt, []string{"socks"}, u.Wishlist)
		assert.Equal(mt, "M", u.Questionnaire["size"])
		assert.Equal(mt, []any{"tea", map[string]any{"brand": "x"}}, u.Questionnaire["likes"])
		assert.True(mt, created.Equal(u.CreatedAt))
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		repo := NewMongoRepository(mt.DB)
		_, err := repo.GetByName(context.Background(), "ghost")
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})
}

func TestMongoGetByID_InvalidHex(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("invalid id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		_, err := repo.GetByID(context.Background(), "zzz")
		assert.ErrorIs(mt, err, common.ErrorNotFound)

		_, err = repo.GetByAssignee(context.Background(), "zzz")
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})
}

func TestMongoList(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("two users", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "alice"}, {Key: "assignedTo", Value: nil}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "bob"}},
		))

		repo := NewMongoRepository(mt.DB)
		list, err := repo.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		assert.Equal(mt, "alice", list[0].Name)
		assert.Nil(mt, list[0].AssignedTo)
		assert.Equal(mt, "bob", list[1].Name)
		assert.NotNil(mt, list[1].Questionnaire)
	})
}

func TestMongoUpdates(t *testing.T) {
	mt := newMockMongo(t)
	id := primitive.NewObjectID().Hex()

	mt.Run("matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		repo := NewMongoRepository(mt.DB)
		require.NoError(mt, repo.UpdateWishlist(context.Background(), id, []string{"a"}))
	})

	mt.Run("no match", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		repo := NewMongoRepository(mt.DB)
		err := repo.MarkAssignmentSeen(context.Background(), id)
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("invalid receiver", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		err := repo.SetAssignment(context.Background(), id, "nope")
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad"}))

		repo := NewMongoRepository(mt.DB)
		err := repo.ClearAssignments(context.Background())
		assert.ErrorContains(mt, err, "db error")
	})
}
