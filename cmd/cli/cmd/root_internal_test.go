package cmd

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDurationSetting(t *testing.T) {
	const key = "test.duration"
	t.Cleanup(func() { viper.Set(key, nil) })

	cases := []struct {
		value interface{}
		want  time.Duration
	}{
		{nil, 7 * time.Second},
		{2 * time.Minute, 2 * time.Minute},
		{10, 10 * time.Second},
		{1.5, 1500 * time.Millisecond},
		{"45", 45 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"soon", 7 * time.Second},
		{-3, 7 * time.Second},
	}
	for _, tc := range cases {
		viper.Set(key, tc.value)
		assert.Equal(t, tc.want, durationSetting(key, 7*time.Second), "%v", tc.value)
	}
}

func TestShowIDArgs(t *testing.T) {
	t.Cleanup(func() { isAsset = false })

	isAsset = false
	assert.NoError(t, showIDArgs(RootCmd, []string{"8613"}))
	assert.Error(t, showIDArgs(RootCmd, []string{"steel-buddies"}))
	assert.Error(t, showIDArgs(RootCmd, []string{"1", "2"}))

	isAsset = true
	assert.NoError(t, showIDArgs(RootCmd, []string{"steel-buddies"}))
}
