package notify

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpqls774/libris/internal/entities"
	"github.com/tpqls774/libris/internal/storage"
)

type fakeAlerter struct {
	alerts []string
}

func (f *fakeAlerter) Alert(title, body string) error {
	f.alerts = append(f.alerts, title)
	return nil
}

func setupTestRecorder(t *testing.T, permission Permission) (*Recorder, *fakeAlerter, func()) {
	dbPath := "./test_notify_" + t.Name() + ".db"

	slots, err := storage.Open(dbPath)
	require.NoError(t, err)

	alerter := &fakeAlerter{}
	recorder := NewRecorder(slots, alerter, permission)
	recorder.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	}

	cleanup := func() {
		slots.Close()
		os.Remove(dbPath)
	}

	return recorder, alerter, cleanup
}

func TestRecord_NewestFirst(t *testing.T) {
	recorder, _, cleanup := setupTestRecorder(t, PermissionDefault)
	defer cleanup()

	_, err := recorder.Record(entities.Notification{Title: "first"})
	require.NoError(t, err)
	_, err = recorder.Record(entities.Notification{Title: "second"})
	require.NoError(t, err)

	list, err := recorder.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, "first", list[1].Title)
	assert.False(t, list[0].Read)
	assert.NotZero(t, list[0].ID)
	assert.NotEqual(t, list[0].ID, list[1].ID)
	assert.Equal(t, "2026-03-14T15:00:00Z", list[0].Timestamp)
}

func TestRecord_CapEvictsOldest(t *testing.T) {
	recorder, _, cleanup := setupTestRecorder(t, PermissionDefault)
	defer cleanup()

	for i := 1; i <= 51; i++ {
		_, err := recorder.Record(entities.Notification{Title: fmt.Sprintf("n%d", i)})
		require.NoError(t, err)
	}

	list, err := recorder.List()
	require.NoError(t, err)
	require.Len(t, list, 50)
	assert.Equal(t, "n51", list[0].Title)
	assert.Equal(t, "n2", list[49].Title)
}

func TestMarkRead(t *testing.T) {
	recorder, _, cleanup := setupTestRecorder(t, PermissionDefault)
	defer cleanup()

	first, err := recorder.Record(entities.Notification{Title: "first"})
	require.NoError(t, err)
	_, err = recorder.Record(entities.Notification{Title: "second"})
	require.NoError(t, err)

	count, err := recorder.UnreadCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, recorder.MarkRead(first.ID))

	count, err = recorder.UnreadCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Unknown ids are ignored.
	require.NoError(t, recorder.MarkRead(999))

	require.NoError(t, recorder.MarkAllRead())
	count, err = recorder.UnreadCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAlerter_OnlyWhenGranted(t *testing.T) {
	granted, alerter, cleanup := setupTestRecorder(t, PermissionGranted)
	defer cleanup()

	_, err := granted.Record(entities.Notification{Title: "ping"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ping"}, alerter.alerts)
}

func TestAlerter_SkippedWhenDenied(t *testing.T) {
	denied, alerter, cleanup := setupTestRecorder(t, PermissionDenied)
	defer cleanup()

	_, err := denied.Record(entities.Notification{Title: "ping"})
	require.NoError(t, err)
	assert.Empty(t, alerter.alerts)

	// The notification still lands in-app.
	list, err := denied.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSettings_Defaults(t *testing.T) {
	recorder, _, cleanup := setupTestRecorder(t, PermissionDefault)
	defer cleanup()

	s := recorder.Settings()
	assert.True(t, s.BookAdded)
	assert.True(t, s.GoalAchieved)
	assert.True(t, s.MonthlyReport)
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	recorder, _, cleanup := setupTestRecorder(t, PermissionDefault)
	defer cleanup()

	s := entities.DefaultNotificationSettings()
	s.BookAdded = false
	require.NoError(t, recorder.SaveSettings(s))

	assert.False(t, recorder.Settings().BookAdded)
}

func TestEvents_GatedBySettings(t *testing.T) {
	recorder, _, cleanup := setupTestRecorder(t, PermissionDefault)
	defer cleanup()

	s := entities.DefaultNotificationSettings()
	s.BookAdded = false
	require.NoError(t, recorder.SaveSettings(s))

	require.NoError(t, recorder.BookAdded("Dune"))

	list, err := recorder.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, recorder.GoalAchieved("monthly", 2, 2))

	list, err = recorder.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entities.NotificationGoalAchieved, list[0].Type)
	assert.Equal(t, 2, list[0].CurrentValue)
}

func TestEvents_Fields(t *testing.T) {
	recorder, _, cleanup := setupTestRecorder(t, PermissionDefault)
	defer cleanup()

	require.NoError(t, recorder.BookAdded("Dune"))
	require.NoError(t, recorder.ReadingStreak(7))
	require.NoError(t, recorder.MonthlyReport(2, 4))

	list, err := recorder.List()
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, entities.NotificationMonthlyReport, list[0].Type)
	assert.Equal(t, 4, list[0].BooksRead)
	assert.Equal(t, entities.NotificationReadingStreak, list[1].Type)
	assert.Equal(t, 7, list[1].StreakDays)
	assert.Equal(t, entities.NotificationBookAdded, list[2].Type)
	assert.Equal(t, "Dune", list[2].BookTitle)
}

func TestSubscribe_BroadcastOnMutation(t *testing.T) {
	recorder, _, cleanup := setupTestRecorder(t, PermissionDefault)
	defer cleanup()

	calls := 0
	recorder.Subscribe(func() { calls++ })

	_, err := recorder.Record(entities.Notification{Title: "ping"})
	require.NoError(t, err)
	require.NoError(t, recorder.MarkAllRead())

	assert.Equal(t, 2, calls)
}
