package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32(nil)))

	data := []float32{1, 2, 3}
	b := SliceToBytes(data)
	assert.Len(t, b, 12)
	// 1.0f little-endian
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, b[:4])
}

func TestStructToBytes(t *testing.T) {
	type vec struct {
		X, Y, Z float32
	}
	v := vec{X: 1}
	b := StructToBytes(&v)
	assert.Len(t, b, 12)
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, b[:4])
}

func TestPadToAlignment(t *testing.T) {
	assert.Len(t, PadToAlignment(make([]byte, 16), 16), 16)
	assert.Len(t, PadToAlignment(make([]byte, 12), 16), 16)
	assert.Len(t, PadToAlignment(make([]byte, 17), 16), 32)
	assert.Empty(t, PadToAlignment(nil, 16))

	padded := PadToAlignment([]byte{1, 2, 3}, 4)
	assert.Equal(t, []byte{1, 2, 3, 0}, padded)
}
