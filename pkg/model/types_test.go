package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"battnotify/pkg/model"
)

func TestClamped_Thresholds(t *testing.T) {
	s := model.Settings{LowThreshold: 0, HighThreshold: 150, PollSeconds: 60}
	c := s.Clamped()
	assert.Equal(t, 1, c.LowThreshold)
	assert.Equal(t, 100, c.HighThreshold)
	assert.Equal(t, 60, c.PollSeconds)
}

func TestClamped_PollSeconds(t *testing.T) {
	s := model.Settings{LowThreshold: 20, HighThreshold: 80, PollSeconds: 2}
	assert.Equal(t, 5, s.Clamped().PollSeconds)

	s.PollSeconds = 10000
	assert.Equal(t, 600, s.Clamped().PollSeconds)
}

func TestClamped_InRangeUntouched(t *testing.T) {
	s := model.Settings{LowThreshold: 20, HighThreshold: 80, PollSeconds: 60, StartWithLogin: true}
	assert.Equal(t, s, s.Clamped())
}

func TestPollInterval_Floor(t *testing.T) {
	s := model.Settings{PollSeconds: 2}
	assert.Equal(t, 5*time.Second, s.PollInterval())

	s.PollSeconds = 90
	assert.Equal(t, 90*time.Second, s.PollInterval())
}
