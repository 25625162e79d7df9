package repository

import (
	"context"
	"errors"
	"testing"

	"jotter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reloadJot(t *testing.T, id uint) *models.Jot {
	t.Helper()
	var jot models.Jot
	require.NoError(t, testDB.First(&jot, id).Error)
	return &jot
}

func TestJotRepository_Reactions(t *testing.T) {
	repo := NewJotRepository(testDB)
	ctx := context.Background()

	author := newTestUser(t, "author")
	reactor := newTestUser(t, "reactor")
	jot := newTestJot(t, author)

	t.Run("React bumps reactions_count", func(t *testing.T) {
		err := repo.React(ctx, &models.JotReaction{
			JotID: jot.ID, UserID: reactor.ID, Kind: models.ReactionLike,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, reloadJot(t, jot.ID).ReactionsCount)
	})

	t.Run("Duplicate reaction conflicts and keeps the count", func(t *testing.T) {
		err := repo.React(ctx, &models.JotReaction{
			JotID: jot.ID, UserID: reactor.ID, Kind: models.ReactionLove,
		})
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeConflict, appErr.Code)
		assert.Equal(t, 1, reloadJot(t, jot.ID).ReactionsCount)
	})

	t.Run("GetReaction returns the stored kind", func(t *testing.T) {
		reaction, err := repo.GetReaction(ctx, jot.ID, reactor.ID)
		require.NoError(t, err)
		require.NotNil(t, reaction)
		assert.Equal(t, models.ReactionLike, reaction.Kind)

		none, err := repo.GetReaction(ctx, jot.ID, author.ID)
		assert.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("Unreact decrements once and then no-ops", func(t *testing.T) {
		require.NoError(t, repo.Unreact(ctx, jot.ID, reactor.ID))
		assert.Equal(t, 0, reloadJot(t, jot.ID).ReactionsCount)

		require.NoError(t, repo.Unreact(ctx, jot.ID, reactor.ID))
		assert.Equal(t, 0, reloadJot(t, jot.ID).ReactionsCount)
	})
}

func TestJotRepository_Feed(t *testing.T) {
	repo := NewJotRepository(testDB)
	followRepo := NewFollowRepository(testDB)
	ctx := context.Background()

	viewer := newTestUser(t, "viewer")
	followed := newTestUser(t, "followedauthor")
	stranger := newTestUser(t, "stranger")

	require.NoError(t, followRepo.Follow(ctx, viewer.ID, followed.ID))

	own := newTestJot(t, viewer)
	followedJot := newTestJot(t, followed)
	newTestJot(t, stranger)

	jots, total, err := repo.ListFeed(ctx, viewer.ID, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	ids := make(map[uint]bool, len(jots))
	for _, j := range jots {
		ids[j.ID] = true
	}
	assert.True(t, ids[own.ID])
	assert.True(t, ids[followedJot.ID])
}

func TestJotRepository_ReactedWithAnnotation(t *testing.T) {
	repo := NewJotRepository(testDB)
	ctx := context.Background()

	author := newTestUser(t, "annauthor")
	reactor := newTestUser(t, "annreactor")
	jot := newTestJot(t, author)

	require.NoError(t, repo.React(ctx, &models.JotReaction{
		JotID: jot.ID, UserID: reactor.ID, Kind: models.ReactionCelebrate,
	}))

	got, err := repo.GetByID(ctx, jot.ID, reactor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionCelebrate, got.ReactedWith)

	plain, err := repo.GetByID(ctx, jot.ID, author.ID)
	require.NoError(t, err)
	assert.Empty(t, plain.ReactedWith)
}

func TestJotRepository_DeleteRemovesChildren(t *testing.T) {
	repo := NewJotRepository(testDB)
	commentRepo := NewCommentRepository(testDB)
	ctx := context.Background()

	author := newTestUser(t, "delauthor")
	other := newTestUser(t, "delother")
	jot := newTestJot(t, author)

	require.NoError(t, repo.React(ctx, &models.JotReaction{
		JotID: jot.ID, UserID: other.ID, Kind: models.ReactionLike,
	}))
	require.NoError(t, commentRepo.Create(ctx, &models.JotComment{
		Body: "nice", UserID: other.ID, JotID: jot.ID,
	}))

	require.NoError(t, repo.Delete(ctx, jot.ID))

	_, err := repo.GetByID(ctx, jot.ID, 0)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	var reactions int64
	testDB.Model(&models.JotReaction{}).Where("jot_id = ?", jot.ID).Count(&reactions)
	assert.Zero(t, reactions)
}
