package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		assert.Equal(t, "Ada Park", truncate("Ada Park", 24))
		assert.Equal(t, "", truncate("", 4))
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		// "Søren Kierkegård" is 16 runes but 18 bytes; a byte cut
		// would split ø or å mid-sequence.
		assert.Equal(t, "Søren Kierkegård", truncate("Søren Kierkegård", 16))
		assert.Equal(t, "Søren Kie…", truncate("Søren Kierkegård", 10))
		assert.Equal(t, "量子計算と暗号…", truncate("量子計算と暗号理論", 8))
	})

	t.Run("tiny widths", func(t *testing.T) {
		assert.Equal(t, "ab…", truncate("abcdef", 3))
		assert.Equal(t, "ø", truncate("øre", 1))
		assert.Equal(t, "", truncate("abc", 0))
	})
}
