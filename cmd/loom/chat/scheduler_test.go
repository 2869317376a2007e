package chat

import (
	"testing"
	"time"

	"storyloom/internal/reveal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickScheduler_FireAndStop(t *testing.T) {
	s := NewTickScheduler()
	var ran []int

	t1 := s.Schedule(time.Millisecond, func() { ran = append(ran, 1) })
	t2 := s.Schedule(time.Millisecond, func() { ran = append(ran, 2) })
	assert.Equal(t, 2, s.Pending())
	assert.Equal(t, []uint64{1, 2}, s.PendingIDs())

	assert.True(t, t2.Stop())
	assert.False(t, t2.Stop(), "second stop reports nothing to stop")

	assert.True(t, s.Fire(1))
	assert.False(t, s.Fire(1), "a step runs at most once")
	assert.False(t, s.Fire(2), "stopped step never runs")
	assert.False(t, t1.Stop(), "stop after firing is too late")

	assert.Equal(t, []int{1}, ran)
	assert.Zero(t, s.Pending())
}

func TestTickScheduler_Drain(t *testing.T) {
	s := NewTickScheduler()
	assert.Nil(t, s.Drain())

	s.Schedule(0, func() {})
	cmd := s.Drain()
	require.NotNil(t, cmd)
	assert.Equal(t, revealTickMsg{id: 1}, cmd())
	assert.Nil(t, s.Drain(), "queue is emptied by Drain")
}

func TestTickScheduler_DelayedTick(t *testing.T) {
	s := NewTickScheduler()
	s.Schedule(5*time.Millisecond, func() {})

	start := time.Now()
	msg := s.Drain()()
	assert.Equal(t, revealTickMsg{id: 1}, msg)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestTickScheduler_DrivesRevealer(t *testing.T) {
	s := NewTickScheduler()
	var got []string
	completed := 0

	task, err := reveal.New(s).Start("abc", 10*time.Millisecond,
		func(p string) { got = append(got, p) },
		func() { completed++ },
	)
	require.NoError(t, err)
	assert.Empty(t, got, "nothing runs before the first tick")

	for s.Pending() > 0 {
		s.Fire(s.PendingIDs()[0])
	}

	assert.Equal(t, []string{"a", "ab", "abc"}, got)
	assert.Equal(t, 1, completed)
	assert.Equal(t, reveal.StatusCompleted, task.Status())
}
