package store

import (
	"context"
	"errors"
	"testing"

	"github.com/NivBraz/contentfilter-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXormRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewXormRepository(newTestEngine(t))

	w := &models.RestrictedWord{Word: "kerfuffle"}
	require.NoError(t, repo.Insert(ctx, w))
	assert.NotZero(t, w.ID)

	found, err := repo.FindByWord(ctx, "kerfuffle")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, w.ID, found.ID)

	missing, err := repo.FindByWord(ctx, "KERFUFFLE")
	require.NoError(t, err)
	assert.Nil(t, missing)

	found.Word = "fornax"
	require.NoError(t, repo.Update(ctx, found))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "fornax", all[0].Word)

	require.NoError(t, repo.Delete(ctx, found))
	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestXormRepository_UniqueWord(t *testing.T) {
	ctx := context.Background()
	repo := NewXormRepository(newTestEngine(t))

	require.NoError(t, repo.Insert(ctx, &models.RestrictedWord{Word: "fornax"}))
	assert.Error(t, repo.Insert(ctx, &models.RestrictedWord{Word: "fornax"}))
}

func TestXormRepository_InTxRollback(t *testing.T) {
	ctx := context.Background()
	repo := NewXormRepository(newTestEngine(t))
	boom := errors.New("boom")

	err := repo.InTx(ctx, func(tx Repository) error {
		if err := tx.Insert(ctx, &models.RestrictedWord{Word: "sharbert"}); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return tx.InTx(ctx, func(inner Repository) error {
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestXormRepository_InTxCommit(t *testing.T) {
	ctx := context.Background()
	repo := NewXormRepository(newTestEngine(t))

	err := repo.InTx(ctx, func(tx Repository) error {
		return tx.Insert(ctx, &models.RestrictedWord{Word: "sharbert"})
	})
	require.NoError(t, err)

	found, err := repo.FindByWord(ctx, "sharbert")
	require.NoError(t, err)
	assert.NotNil(t, found)
}
