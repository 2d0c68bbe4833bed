package entities

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

func TestAssignment_DaysHeld(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	open := Assignment{AssignedDate: now.AddDate(0, 0, -10)}
	assert.Equal(t, 10, open.DaysHeld(now))

	closed := Assignment{
		AssignedDate: now.AddDate(0, 0, -10),
		ReturnDate:   null.TimeFrom(now.AddDate(0, 0, -3)),
	}
	assert.Equal(t, 7, closed.DaysHeld(now))
}

func TestAssignment_IsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	a := Assignment{
		AssignedDate:       now.AddDate(0, 0, -30),
		ExpectedReturnDate: null.TimeFrom(now.AddDate(0, 0, -1)),
	}
	assert.True(t, a.IsOverdue(now))

	// Returning clears the overdue state even past the expected date.
	a.ReturnDate = null.TimeFrom(now)
	assert.False(t, a.IsOverdue(now))

	// No expected date means never overdue.
	b := Assignment{AssignedDate: now.AddDate(0, 0, -300)}
	assert.False(t, b.IsOverdue(now))
}
