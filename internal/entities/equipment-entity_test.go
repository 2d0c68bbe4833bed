package entities

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"

	apperrors "inventory-system/pkg/errors"
)

func TestEquipmentStatus_Transition(t *testing.T) {
	cases := []struct {
		name    string
		from    EquipmentStatus
		to      EquipmentStatus
		wantErr error
	}{
		{"assign available", StatusAvailable, StatusAssigned, nil},
		{"return assigned", StatusAssigned, StatusAvailable, nil},
		{"maintain available", StatusAvailable, StatusMaintenance, nil},
		{"finish maintenance", StatusMaintenance, StatusAvailable, nil},
		{"retire available", StatusAvailable, StatusRetired, nil},
		{"retire under maintenance", StatusMaintenance, StatusRetired, nil},
		{"assign assigned", StatusAssigned, StatusAssigned, apperrors.ErrIllegalTransition},
		{"maintain assigned", StatusAssigned, StatusMaintenance, apperrors.ErrIllegalTransition},
		{"retire assigned", StatusAssigned, StatusRetired, apperrors.ErrIllegalTransition},
		{"assign retired", StatusRetired, StatusAssigned, apperrors.ErrEquipmentRetired},
		{"maintain retired", StatusRetired, StatusMaintenance, apperrors.ErrEquipmentRetired},
		{"un-retire", StatusRetired, StatusAvailable, apperrors.ErrEquipmentRetired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.from.Transition(tc.to)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, tc.from, got, "status must not move on a failed guard")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.to, got)
			}
		})
	}
}

func TestParseEquipmentStatus(t *testing.T) {
	s, ok := ParseEquipmentStatus("ASSIGNED")
	assert.True(t, ok)
	assert.Equal(t, StatusAssigned, s)

	_, ok = ParseEquipmentStatus("BROKEN")
	assert.False(t, ok)
}

func TestEquipment_CurrentValue(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	e := Equipment{
		PurchasePrice:    1000,
		DepreciationRate: 20,
		PurchaseDate:     null.TimeFrom(now.AddDate(-2, 0, 0)),
	}
	// Two years at 20%/year leaves roughly 60%.
	assert.InDelta(t, 600, e.CurrentValue(now), 5)

	// Fully depreciated equipment bottoms out at zero.
	e.PurchaseDate = null.TimeFrom(now.AddDate(-10, 0, 0))
	assert.Equal(t, 0.0, e.CurrentValue(now))

	// No purchase date: price passes through.
	e.PurchaseDate = null.Time{}
	assert.Equal(t, 1000.0, e.CurrentValue(now))
}
