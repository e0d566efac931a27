package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"socialimpact/internal/model"
)

func TestAssessmentRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := newAssessmentRepo(mt.Coll)

		err := repo.Create(context.Background(), &model.Assessment{
			ID:        "a1",
			SessionID: "secret-session",
			Score:     6.2,
			Band:      model.BandHealthy,
			Features:  map[string]float64{"Age": 20},
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "insert", started.CommandName)
		assert.NotContains(t, started.Command.String(), "secret-session")
	})

	mt.Run("get by id", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "a1"},
			{Key: "score", Value: 4.5},
			{Key: "band", Value: model.BandAtRisk},
			{Key: "summary", Value: bson.D{{Key: "age", Value: 19}, {Key: "platform", Value: "TikTok"}}},
		}))
		repo := newAssessmentRepo(mt.Coll)

		a, err := repo.GetByID(context.Background(), "a1")
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, 4.5, a.Score)
		assert.Equal(t, model.BandAtRisk, a.Band)
		assert.Equal(t, 19, a.Summary.Age)
		assert.Equal(t, model.PlatformTikTok, a.Summary.Platform)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := newAssessmentRepo(mt.Coll)

		a, err := repo.GetByID(context.Background(), "nope")
		require.NoError(t, err)
		assert.Nil(t, a)
	})

	mt.Run("count by band", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))
		repo := newAssessmentRepo(mt.Coll)

		n, err := repo.CountByBand(context.Background(), model.BandAtRisk)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)
	})
}

func TestNopAssessmentRepo(t *testing.T) {
	repo := NewNopAssessmentRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Assessment{ID: "x"}))
	a, err := repo.GetByID(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, a)
	n, err := repo.CountByBand(ctx, model.BandHealthy)
	require.NoError(t, err)
	assert.Zero(t, n)
}
