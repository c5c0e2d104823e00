package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func TestManualClock_FiresOnlyWhenDue(t *testing.T) {
	c := NewManualClock(epoch)
	fired := 0
	c.AfterFunc(3*time.Second, func() { fired++ })

	c.Advance(2 * time.Second)
	assert.Equal(t, 0, fired)
	assert.Equal(t, 1, c.Pending())

	c.Advance(time.Second)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, c.Pending())

	c.Advance(time.Hour)
	assert.Equal(t, 1, fired)
	assert.Equal(t, epoch.Add(time.Hour+3*time.Second), c.Now())
}

func TestManualClock_StopPreventsFire(t *testing.T) {
	c := NewManualClock(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(time.Minute)
	assert.False(t, fired)
}

func TestManualClock_DeadlineOrder(t *testing.T) {
	c := NewManualClock(epoch)
	var order []string
	c.AfterFunc(2*time.Second, func() { order = append(order, "late") })
	c.AfterFunc(time.Second, func() { order = append(order, "early") })

	c.Advance(5 * time.Second)
	assert.Equal(t, []string{"early", "late"}, order)
}

func TestManualClock_CallbackMaySchedule(t *testing.T) {
	c := NewManualClock(epoch)
	fired := 0
	c.AfterFunc(time.Second, func() {
		fired++
		c.AfterFunc(time.Second, func() { fired++ })
	})

	c.Advance(time.Second)
	assert.Equal(t, 1, fired)
	c.Advance(time.Second)
	assert.Equal(t, 2, fired)
}
