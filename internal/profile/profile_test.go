package profile

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpqls774/libris/internal/entities"
	"github.com/tpqls774/libris/internal/storage"
)

func setupTestProfile(t *testing.T) (*Store, *storage.Store, func()) {
	dbPath := "./test_profile_" + t.Name() + ".db"

	slots, err := storage.Open(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		slots.Close()
		os.Remove(dbPath)
	}

	return NewStore(slots), slots, cleanup
}

func TestGoals_Defaults(t *testing.T) {
	store, _, cleanup := setupTestProfile(t)
	defer cleanup()

	assert.Equal(t, Goals{Monthly: 15, Yearly: 50}, store.Goals())
}

func TestGoals_CorruptSlotFallsBack(t *testing.T) {
	store, slots, cleanup := setupTestProfile(t)
	defer cleanup()

	require.NoError(t, slots.Set(entities.SlotKeyMonthlyGoal, "many"))
	require.NoError(t, slots.Set(entities.SlotKeyYearlyGoal, "-3"))

	assert.Equal(t, Goals{Monthly: 15, Yearly: 50}, store.Goals())
}

func TestSetGoals(t *testing.T) {
	store, _, cleanup := setupTestProfile(t)
	defer cleanup()

	require.NoError(t, store.SetGoals(Goals{Monthly: 4, Yearly: 40}))
	assert.Equal(t, Goals{Monthly: 4, Yearly: 40}, store.Goals())

	assert.Error(t, store.SetGoals(Goals{Monthly: 0, Yearly: 40}))
}

func TestNicknameAndIntro(t *testing.T) {
	store, _, cleanup := setupTestProfile(t)
	defer cleanup()

	assert.Empty(t, store.Nickname())
	assert.Empty(t, store.Intro())

	require.NoError(t, store.SetNickname("reader"))
	require.NoError(t, store.SetIntro("I read a lot."))

	assert.Equal(t, "reader", store.Nickname())
	assert.Equal(t, "I read a lot.", store.Intro())
}

func TestLastBackup(t *testing.T) {
	store, _, cleanup := setupTestProfile(t)
	defer cleanup()

	assert.True(t, store.LastBackup().IsZero())

	at := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	require.NoError(t, store.MarkBackup(at))
	assert.Equal(t, at, store.LastBackup())
}
