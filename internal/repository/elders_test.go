package repository

import (
	"context"
	"testing"
	"time"

	"sentinela-alert/internal/models"
	"sentinela-alert/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupEldersRepo(t *testing.T) *EldersRepository {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	kv := store.NewRedisKV(client, zap.NewNop())
	return NewEldersRepository(kv, zap.NewNop())
}

func TestGetAllElders_SeedsEmptyCollection(t *testing.T) {
	repo := setupEldersRepo(t)
	ctx := context.Background()

	elders, err := repo.GetAllElders(ctx)

	require.NoError(t, err)
	require.Len(t, elders, 2)
	assert.Equal(t, "Maria Silva", elders[0].Name)
	assert.Equal(t, "José Santos", elders[1].Name)

	// A second read comes from storage, not from re-seeding.
	again, err := repo.GetAllElders(ctx)
	require.NoError(t, err)
	assert.Equal(t, elders, again)
}

func TestGetElder_NotFound(t *testing.T) {
	repo := setupEldersRepo(t)

	elder, err := repo.GetElder(context.Background(), "idoso-999")

	assert.ErrorIs(t, err, ErrElderNotFound)
	assert.Nil(t, elder)
}

func TestSaveElder_InsertAndUpdate(t *testing.T) {
	repo := setupEldersRepo(t)
	ctx := context.Background()

	elder := models.Elder{
		ID:                "idoso-3",
		Name:              "Antônia Pereira",
		Age:               85,
		MedicationRoutine: false,
		Plan:              models.PlanEssencial,
		RegisteredAt:      time.Now().UTC(),
	}
	require.NoError(t, repo.SaveElder(ctx, elder))

	got, err := repo.GetElder(ctx, "idoso-3")
	require.NoError(t, err)
	assert.Equal(t, "Antônia Pereira", got.Name)

	elder.Name = "Antônia P. Souza"
	require.NoError(t, repo.SaveElder(ctx, elder))

	got, err = repo.GetElder(ctx, "idoso-3")
	require.NoError(t, err)
	assert.Equal(t, "Antônia P. Souza", got.Name)

	elders, err := repo.GetAllElders(ctx)
	require.NoError(t, err)
	assert.Len(t, elders, 3)
}

func TestRemoveElder(t *testing.T) {
	repo := setupEldersRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RemoveElder(ctx, "idoso-1"))

	elders, err := repo.GetAllElders(ctx)
	require.NoError(t, err)
	require.Len(t, elders, 1)
	assert.Equal(t, "idoso-2", elders[0].ID)

	// Unknown id is a no-op.
	require.NoError(t, repo.RemoveElder(ctx, "idoso-999"))
}

func TestGetAllElders_CorruptedCollection(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, mr.Set(store.KeyElders, "not-json"))

	kv := store.NewRedisKV(client, zap.NewNop())
	repo := NewEldersRepository(kv, zap.NewNop())

	_, err := repo.GetAllElders(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "corrupted")
}
