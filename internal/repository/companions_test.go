package repository

import (
	"context"
	"testing"

	"sentinela-alert/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCompanionsRepo(t *testing.T) (*CompanionsRepository, *EldersRepository) {
	kv := store.NewMemoryKV()
	logger := zap.NewNop()
	return NewCompanionsRepository(kv, logger), NewEldersRepository(kv, logger)
}

func TestGetAllCompanions_SeedsEmptyCollection(t *testing.T) {
	repo, _ := setupCompanionsRepo(t)

	companions, err := repo.GetAllCompanions(context.Background())

	require.NoError(t, err)
	require.Len(t, companions, 2)
	assert.Equal(t, "Carlos Silva", companions[0].Name)
	assert.Equal(t, "Filho", companions[0].Relationship)
}

func TestGetCompanion_NotFound(t *testing.T) {
	repo, _ := setupCompanionsRepo(t)

	companion, err := repo.GetCompanion(context.Background(), "acompanhante-999")

	assert.ErrorIs(t, err, ErrCompanionNotFound)
	assert.Nil(t, companion)
}

func TestFindLinked_SharedPhoneNumbers(t *testing.T) {
	companionsRepo, eldersRepo := setupCompanionsRepo(t)
	ctx := context.Background()

	// Maria Silva lists Carlos Silva's phone among her companion phones.
	elder, err := eldersRepo.GetElder(ctx, "idoso-1")
	require.NoError(t, err)

	linked, err := companionsRepo.FindLinked(ctx, *elder)

	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "acompanhante-1", linked[0].ID)
}

func TestRemoveCompanion(t *testing.T) {
	repo, _ := setupCompanionsRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RemoveCompanion(ctx, "acompanhante-1"))

	companions, err := repo.GetAllCompanions(ctx)
	require.NoError(t, err)
	require.Len(t, companions, 1)
	assert.Equal(t, "acompanhante-2", companions[0].ID)
}
