package hashing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeccakTagHasher_Deterministic(t *testing.T) {
	hasher := NewKeccakTagHasher()
	issuedAt := time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)

	tag1 := hasher.Tag("0xstudent", 42, issuedAt)
	tag2 := hasher.Tag("0xstudent", 42, issuedAt)

	assert.Len(t, tag1, 32)
	assert.Equal(t, tag1, tag2)
}

func TestKeccakTagHasher_InputSensitive(t *testing.T) {
	hasher := NewKeccakTagHasher()
	issuedAt := time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)

	base := hasher.Tag("0xstudent", 42, issuedAt)

	assert.NotEqual(t, base, hasher.Tag("0xother", 42, issuedAt))
	assert.NotEqual(t, base, hasher.Tag("0xstudent", 43, issuedAt))
	assert.NotEqual(t, base, hasher.Tag("0xstudent", 42, issuedAt.Add(time.Second)))
}

func TestKeccakTagHasher_SecondResolution(t *testing.T) {
	hasher := NewKeccakTagHasher()
	issuedAt := time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)

	// Sub-second precision does not enter the tag.
	withNanos := issuedAt.Add(500 * time.Millisecond)
	assert.Equal(t, hasher.Tag("0xstudent", 42, issuedAt), hasher.Tag("0xstudent", 42, withNanos))
}
