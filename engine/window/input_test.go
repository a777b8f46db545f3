package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyStateTracksHeldKeys(t *testing.T) {
	keys := newKeyState()

	assert.False(t, keys.down(KeyW))

	keys.set(KeyW, true)
	keys.set(KeySpace, true)
	assert.True(t, keys.down(KeyW))
	assert.True(t, keys.down(KeySpace))

	keys.set(KeyW, false)
	assert.False(t, keys.down(KeyW))
	assert.True(t, keys.down(KeySpace))

	// Releasing a key that was never pressed is a no-op.
	keys.set(KeyA, false)
	assert.False(t, keys.down(KeyA))
}
