package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miaopass-future/robotframework/pkg/model"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want model.Level
	}{
		{"TRACE", model.LevelTrace},
		{"debug", model.LevelDebug},
		{"Info", model.LevelInfo},
		{" WARN ", model.LevelWarn},
		{"ERROR", model.LevelError},
		{"FAIL", model.LevelFail},
		{"SKIP", model.LevelSkip},
		{"NONE", model.LevelNone},
	}
	for _, tt := range tests {
		level, err := model.ParseLevel(tt.name)
		require.NoError(t, err, "ParseLevel(%q)", tt.name)
		assert.Equal(t, tt.want, level)
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	_, err := model.ParseLevel("LOUD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOUD")
}

func TestLevel_Ordering(t *testing.T) {
	assert.Less(t, model.LevelTrace, model.LevelDebug)
	assert.Less(t, model.LevelDebug, model.LevelInfo)
	assert.Less(t, model.LevelInfo, model.LevelWarn)
	assert.Less(t, model.LevelWarn, model.LevelError)
	assert.Less(t, model.LevelError, model.LevelFail)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "WARN", model.LevelWarn.String())
	assert.Equal(t, "UNKNOWN", model.Level(42).String())
}

func TestNewMessage(t *testing.T) {
	msg := model.NewMessage("hello", model.LevelInfo)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, model.LevelInfo, msg.Level)
	assert.False(t, msg.Timestamp.IsZero())
	assert.NotZero(t, msg.ID)
}
