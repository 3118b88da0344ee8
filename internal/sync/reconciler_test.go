package sync

import (
	"context"
	"sync"
	"testing"

	"mycorner-service/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockMirror implements MirrorStore over an in-memory id set.
type mockMirror struct {
	mu        sync.Mutex
	ids       []string
	listErr   error
	deleteErr map[string]error
	deleted   []string
}

func (m *mockMirror) ListUserIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]string(nil), m.ids...), nil
}

func (m *mockMirror) DeleteUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErr[userID]; err != nil {
		return err
	}
	m.deleted = append(m.deleted, userID)
	for i, id := range m.ids {
		if id == userID {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	return nil
}

// mockChecker maps user ids to fixed outcomes; unmapped ids exist.
type mockChecker struct {
	mu       sync.Mutex
	outcomes map[string]identity.Outcome
	checked  []string
}

func (m *mockChecker) CheckUser(ctx context.Context, userID string) identity.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checked = append(m.checked, userID)
	if o, ok := m.outcomes[userID]; ok {
		return o
	}
	return identity.OutcomeExists
}

func TestReconcileDeletesOnlyNotFoundUsers(t *testing.T) {
	mirror := &mockMirror{ids: []string{"keep_1", "gone_1", "flaky_1", "gone_2"}}
	checker := &mockChecker{outcomes: map[string]identity.Outcome{
		"gone_1":  identity.OutcomeNotFound,
		"gone_2":  identity.OutcomeNotFound,
		"flaky_1": identity.OutcomeIndeterminate,
	}}
	r := NewReconciler(mirror, checker)

	res, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Checked)
	assert.Equal(t, 2, res.Deleted)
	assert.ElementsMatch(t, []string{"gone_1", "gone_2"}, mirror.deleted)
	assert.ElementsMatch(t, []string{"keep_1", "flaky_1"}, mirror.ids)
}

func TestReconcileIndeterminateNeverDeletes(t *testing.T) {
	mirror := &mockMirror{ids: []string{"u1", "u2"}}
	checker := &mockChecker{outcomes: map[string]identity.Outcome{
		"u1": identity.OutcomeIndeterminate,
		"u2": identity.OutcomeIndeterminate,
	}}
	r := NewReconciler(mirror, checker)

	res, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Checked)
	assert.Zero(t, res.Deleted)
	assert.Empty(t, mirror.deleted)
}

func TestReconcileEmptyMirrorIsNoOp(t *testing.T) {
	mirror := &mockMirror{}
	checker := &mockChecker{}
	r := NewReconciler(mirror, checker)

	res, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Checked)
	assert.Zero(t, res.Deleted)
	assert.Empty(t, checker.checked)
}

func TestReconcileListFailureAbortsRun(t *testing.T) {
	mirror := &mockMirror{listErr: assert.AnError}
	r := NewReconciler(mirror, &mockChecker{})

	_, err := r.Reconcile(context.Background())
	assert.Error(t, err)
}

func TestReconcileDeleteFailureSkipsRow(t *testing.T) {
	mirror := &mockMirror{
		ids:       []string{"gone_1", "gone_2"},
		deleteErr: map[string]error{"gone_1": assert.AnError},
	}
	checker := &mockChecker{outcomes: map[string]identity.Outcome{
		"gone_1": identity.OutcomeNotFound,
		"gone_2": identity.OutcomeNotFound,
	}}
	r := NewReconciler(mirror, checker)

	res, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Checked)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, []string{"gone_2"}, mirror.deleted)
}

func TestReconcileSecondRunIsNoOp(t *testing.T) {
	mirror := &mockMirror{ids: []string{"keep_1", "gone_1"}}
	checker := &mockChecker{outcomes: map[string]identity.Outcome{
		"gone_1": identity.OutcomeNotFound,
	}}
	r := NewReconciler(mirror, checker)

	first, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Deleted)

	second, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Checked)
	assert.Zero(t, second.Deleted)
}

func TestReconcileUser(t *testing.T) {
	mirror := &mockMirror{ids: []string{"keep_1", "gone_1"}}
	checker := &mockChecker{outcomes: map[string]identity.Outcome{
		"gone_1": identity.OutcomeNotFound,
	}}
	r := NewReconciler(mirror, checker)

	deleted, err := r.ReconcileUser(context.Background(), "keep_1")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = r.ReconcileUser(context.Background(), "gone_1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"gone_1"}, mirror.deleted)
}
