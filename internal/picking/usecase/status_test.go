package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

const shop = "acme.myshopify.com"

// memMetafields stands in for the platform metafield store.
type memMetafields struct {
	mu       sync.Mutex
	values   map[string]model.PickingStatus
	writes   []model.PickingStatus
	readErr  error
	writeErr error
}

func newMemMetafields() *memMetafields {
	return &memMetafields{values: make(map[string]model.PickingStatus)}
}

func (m *memMetafields) GetPickingStatus(_ context.Context, _, orderID string) (model.PickingStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return model.PickingUnset, m.readErr
	}
	return m.values[orderID], nil
}

func (m *memMetafields) SetPickingStatus(_ context.Context, _, orderID string, st model.PickingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.values[orderID] = st
	m.writes = append(m.writes, st)
	return nil
}

func TestIntake(t *testing.T) {
	ctx := context.Background()
	mf := newMemMetafields()
	uc := NewStatusUseCase(mf, logger.NewNop())

	applied, err := uc.Intake(ctx, shop, "o1")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, model.PickingPending, mf.values["o1"])

	applied, err = uc.Intake(ctx, shop, "o1")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Len(t, mf.writes, 1)
}

func TestIntake_NeverDowngrades(t *testing.T) {
	for _, st := range []model.PickingStatus{model.PickingInProgress, model.PickingDone, "archived"} {
		mf := newMemMetafields()
		mf.values["o1"] = st
		uc := NewStatusUseCase(mf, logger.NewNop())

		applied, err := uc.Intake(context.Background(), shop, "o1")
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, st, mf.values["o1"])
		assert.Empty(t, mf.writes)
	}
}

func TestIntake_ReadFailureSkipsWrite(t *testing.T) {
	mf := newMemMetafields()
	mf.readErr = apperror.External("order", assert.AnError)
	uc := NewStatusUseCase(mf, logger.NewNop())

	_, err := uc.Intake(context.Background(), shop, "o1")
	assert.True(t, apperror.IsExternal(err))
	assert.Empty(t, mf.writes)
}

func TestTransitionsAreUnconditional(t *testing.T) {
	ctx := context.Background()
	mf := newMemMetafields()
	mf.values["o1"] = model.PickingDone
	uc := NewStatusUseCase(mf, logger.NewNop())

	require.NoError(t, uc.MarkInProgress(ctx, shop, "o1"))
	assert.Equal(t, model.PickingInProgress, mf.values["o1"])

	require.NoError(t, uc.MarkInProgress(ctx, shop, "o1"))
	require.NoError(t, uc.ResetToPending(ctx, shop, "o1"))
	assert.Equal(t, model.PickingPending, mf.values["o1"])
	assert.Len(t, mf.writes, 3)
}

func TestTransitions_RequireOrderID(t *testing.T) {
	ctx := context.Background()
	mf := newMemMetafields()
	uc := NewStatusUseCase(mf, logger.NewNop())

	for name, call := range map[string]func() error{
		"mark in progress": func() error { return uc.MarkInProgress(ctx, shop, "  ") },
		"reset to pending": func() error { return uc.ResetToPending(ctx, shop, "") },
		"intake": func() error {
			_, err := uc.Intake(ctx, shop, "\n")
			return err
		},
	} {
		t.Run(name, func(t *testing.T) {
			var verr *apperror.ValidationError
			require.ErrorAs(t, call(), &verr)
			assert.Equal(t, apperror.ReasonMissingOrder, verr.Reason)
		})
	}
	assert.Empty(t, mf.writes)
}

func TestTransitions_TrimOrderID(t *testing.T) {
	mf := newMemMetafields()
	uc := NewStatusUseCase(mf, logger.NewNop())

	require.NoError(t, uc.MarkInProgress(context.Background(), shop, " o1 "))
	assert.Equal(t, model.PickingInProgress, mf.values["o1"])
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		orderID string
		status  string
		want    model.PickingStatus
		reason  string
	}{
		{"pending", "o1", "pending", model.PickingPending, ""},
		{"in progress trimmed", "o1", " in_progress ", model.PickingInProgress, ""},
		{"done is writable", "o1", "done", model.PickingDone, ""},
		{"missing order", "  ", "pending", model.PickingUnset, apperror.ReasonMissingOrder},
		{"invalid status", "o1", "shipped", model.PickingUnset, apperror.ReasonInvalidStatus},
		{"empty status", "o1", "", model.PickingUnset, apperror.ReasonInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mf := newMemMetafields()
			uc := NewStatusUseCase(mf, logger.NewNop())

			got, err := uc.SetStatus(ctx, shop, tt.orderID, tt.status)
			if tt.reason != "" {
				var verr *apperror.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.reason, verr.Reason)
				assert.Empty(t, mf.writes)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, mf.values[tt.orderID])
		})
	}
}

func TestSetStatus_UserErrorSurfaces(t *testing.T) {
	mf := newMemMetafields()
	mf.writeErr = apperror.Validation(apperror.ReasonUserError, "Owner does not exist")
	uc := NewStatusUseCase(mf, logger.NewNop())

	_, err := uc.SetStatus(context.Background(), shop, "o1", "pending")
	require.Error(t, err)
	assert.Equal(t, "Owner does not exist", err.Error())
}
