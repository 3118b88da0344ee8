package reminder

import (
	"context"
	"testing"
	"time"

	"mycorner-service/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSettings implements SettingsSource over a fixed slice.
type mockSettings struct {
	rows []models.UserSettings
	err  error
}

func (m *mockSettings) ListSettings(ctx context.Context) ([]models.UserSettings, error) {
	return m.rows, m.err
}

// mockSignIns implements SignInSource over a fixed map.
type mockSignIns struct {
	lastSignIn map[string]time.Time
	err        error
}

func (m *mockSignIns) LastSignIn(ctx context.Context, userID string) (*time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	if t, ok := m.lastSignIn[userID]; ok {
		return &t, nil
	}
	return nil, nil
}

func newYorkScheduler(t *testing.T, settings SettingsSource, signIns SignInSource) *Scheduler {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return NewScheduler(settings, signIns, loc)
}

// January 15 keeps America/New_York on standard time (UTC-5), so a 03:00
// local reminder lands on 08:00 UTC.
var winterMorning = time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC)

func TestDueRemindersDailyMatch(t *testing.T) {
	settings := &mockSettings{rows: []models.UserSettings{
		{UserID: "user_1", ReminderTime: "03:00"},
	}}
	s := newYorkScheduler(t, settings, &mockSignIns{})

	tasks, err := s.DueReminders(context.Background(), winterMorning)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, Task{UserID: "user_1", Kind: KindDaily}, tasks[0])
}

func TestDueRemindersDailyNoToleranceWindow(t *testing.T) {
	settings := &mockSettings{rows: []models.UserSettings{
		{UserID: "user_1", ReminderTime: "03:00"},
	}}
	s := newYorkScheduler(t, settings, &mockSignIns{})

	tasks, err := s.DueReminders(context.Background(), winterMorning.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDueRemindersDailyMatchIsDeterministic(t *testing.T) {
	settings := &mockSettings{rows: []models.UserSettings{
		{UserID: "user_1", ReminderTime: "22:07"},
	}}
	s := newYorkScheduler(t, settings, &mockSignIns{})

	// 22:07 EST == 03:07 UTC the next day.
	now := time.Date(2025, time.January, 16, 3, 7, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		tasks, err := s.DueReminders(context.Background(), now)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, KindDaily, tasks[0].Kind)
	}
}

func TestDueRemindersWeeklyInactivity(t *testing.T) {
	cases := []struct {
		name        string
		sinceSignIn time.Duration
		want        int
	}{
		{"eight days inactive", 8 * 24 * time.Hour, 1},
		{"exactly seven days", 7 * 24 * time.Hour, 1},
		{"six days inactive", 6 * 24 * time.Hour, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := &mockSettings{rows: []models.UserSettings{
				{UserID: "user_1", ReminderTime: "12:00", EnableWeeklyReminder: true},
			}}
			signIns := &mockSignIns{lastSignIn: map[string]time.Time{
				"user_1": winterMorning.Add(-tc.sinceSignIn),
			}}
			s := newYorkScheduler(t, settings, signIns)

			tasks, err := s.DueReminders(context.Background(), winterMorning)
			require.NoError(t, err)
			assert.Len(t, tasks, tc.want)
			if tc.want == 1 {
				assert.Equal(t, KindWeekly, tasks[0].Kind)
			}
		})
	}
}

func TestDueRemindersWeeklyDisabled(t *testing.T) {
	settings := &mockSettings{rows: []models.UserSettings{
		{UserID: "user_1", ReminderTime: "12:00", EnableWeeklyReminder: false},
	}}
	signIns := &mockSignIns{lastSignIn: map[string]time.Time{
		"user_1": winterMorning.Add(-30 * 24 * time.Hour),
	}}
	s := newYorkScheduler(t, settings, signIns)

	tasks, err := s.DueReminders(context.Background(), winterMorning)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDueRemindersWeeklySkipsUnknownSignIn(t *testing.T) {
	settings := &mockSettings{rows: []models.UserSettings{
		{UserID: "user_1", ReminderTime: "12:00", EnableWeeklyReminder: true},
	}}
	s := newYorkScheduler(t, settings, &mockSignIns{})

	tasks, err := s.DueReminders(context.Background(), winterMorning)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDueRemindersMalformedTimeSkipsDailyOnly(t *testing.T) {
	settings := &mockSettings{rows: []models.UserSettings{
		{UserID: "user_1", ReminderTime: "abc", EnableWeeklyReminder: true},
		{UserID: "user_2", ReminderTime: "03:00"},
	}}
	signIns := &mockSignIns{lastSignIn: map[string]time.Time{
		"user_1": winterMorning.Add(-10 * 24 * time.Hour),
	}}
	s := newYorkScheduler(t, settings, signIns)

	tasks, err := s.DueReminders(context.Background(), winterMorning)
	require.NoError(t, err)
	// user_1's weekly check still ran, and user_2's daily check was unaffected.
	require.Len(t, tasks, 2)
	assert.Equal(t, Task{UserID: "user_1", Kind: KindWeekly}, tasks[0])
	assert.Equal(t, Task{UserID: "user_2", Kind: KindDaily}, tasks[1])
}

func TestDueRemindersRejectsOutOfRangeTimes(t *testing.T) {
	settings := &mockSettings{rows: []models.UserSettings{
		{UserID: "user_1", ReminderTime: "25:00"},
		{UserID: "user_2", ReminderTime: "12:75"},
		{UserID: "user_3", ReminderTime: "03:00:00"},
	}}
	s := newYorkScheduler(t, settings, &mockSignIns{})

	tasks, err := s.DueReminders(context.Background(), winterMorning)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDueRemindersUserCanEmitBothKinds(t *testing.T) {
	settings := &mockSettings{rows: []models.UserSettings{
		{UserID: "user_1", ReminderTime: "03:00", EnableWeeklyReminder: true},
	}}
	signIns := &mockSignIns{lastSignIn: map[string]time.Time{
		"user_1": winterMorning.Add(-9 * 24 * time.Hour),
	}}
	s := newYorkScheduler(t, settings, signIns)

	tasks, err := s.DueReminders(context.Background(), winterMorning)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, KindDaily, tasks[0].Kind)
	assert.Equal(t, KindWeekly, tasks[1].Kind)
}

func TestDueRemindersEmissionFollowsIterationOrder(t *testing.T) {
	settings := &mockSettings{rows: []models.UserSettings{
		{UserID: "user_b", ReminderTime: "03:00"},
		{UserID: "user_a", ReminderTime: "03:00"},
		{UserID: "user_c", ReminderTime: "03:00"},
	}}
	s := newYorkScheduler(t, settings, &mockSignIns{})

	tasks, err := s.DueReminders(context.Background(), winterMorning)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "user_b", tasks[0].UserID)
	assert.Equal(t, "user_a", tasks[1].UserID)
	assert.Equal(t, "user_c", tasks[2].UserID)
}

func TestDueRemindersListFailureAbortsBatch(t *testing.T) {
	settings := &mockSettings{err: assert.AnError}
	s := newYorkScheduler(t, settings, &mockSignIns{})

	_, err := s.DueReminders(context.Background(), winterMorning)
	assert.Error(t, err)
}

func TestDueRemindersSignInFailureSkipsWeeklyOnly(t *testing.T) {
	settings := &mockSettings{rows: []models.UserSettings{
		{UserID: "user_1", ReminderTime: "03:00", EnableWeeklyReminder: true},
	}}
	signIns := &mockSignIns{err: assert.AnError}
	s := newYorkScheduler(t, settings, signIns)

	tasks, err := s.DueReminders(context.Background(), winterMorning)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, KindDaily, tasks[0].Kind)
}
