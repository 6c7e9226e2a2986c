package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateDescription(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "hello", TruncateDescription("hello", 10))
	})

	t.Run("long text truncated with ellipsis", func(t *testing.T) {
		result := TruncateDescription("hello world", 8)
		assert.Equal(t, "hello...", result)
	})

	t.Run("zero limit disables truncation", func(t *testing.T) {
		assert.Equal(t, "hello world", TruncateDescription("hello world", 0))
	})
}

func TestSanitizeDescription(t *testing.T) {
	t.Run("symbols stripped", func(t *testing.T) {
		assert.Equal(t, "order 42", SanitizeDescription("order #42!", 100))
	})

	t.Run("chinese characters kept", func(t *testing.T) {
		assert.Equal(t, "测试订单", SanitizeDescription("测试订单", 100))
	})
}

func TestFormatExpireTime(t *testing.T) {
	t.Run("renders future time", func(t *testing.T) {
		text := FormatExpireTime(15*time.Minute, "20060102150405")
		parsed, err := time.ParseInLocation("20060102150405", text, time.Local)
		assert.NoError(t, err)
		assert.True(t, parsed.After(time.Now()))
	})

	t.Run("zero validity falls back", func(t *testing.T) {
		text := FormatExpireTime(0, "20060102150405")
		parsed, err := time.ParseInLocation("20060102150405", text, time.Local)
		assert.NoError(t, err)
		assert.True(t, parsed.After(time.Now().Add(25*time.Minute)))
	})
}

func TestIsSandboxEndpoint(t *testing.T) {
	assert.True(t, IsSandboxEndpoint("https://openapi.alipaydev.com/gateway.do", "alipaydev"))
	assert.False(t, IsSandboxEndpoint("https://openapi.alipay.com/gateway.do", "alipaydev"))
	assert.False(t, IsSandboxEndpoint("https://openapi.alipay.com/gateway.do", ""))
}
