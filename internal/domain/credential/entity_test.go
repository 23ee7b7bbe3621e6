package credential

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewCredentialParams {
	return NewCredentialParams{
		ID:              1,
		Owner:           "0xstudent",
		CourseID:        42,
		SkillLevel:      4,
		Type:            TypeCertificate,
		VerificationTag: []byte{0xde, 0xad, 0xbe, 0xef},
		IssuedAt:        time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewCredential_Valid(t *testing.T) {
	params := validParams()

	c, err := NewCredential(params)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), c.ID)
	assert.Equal(t, params.Owner, c.Owner)
	assert.Equal(t, uint64(42), c.CourseID)
	assert.Equal(t, SkillLevel(4), c.SkillLevel)
	assert.Equal(t, IssuingAuthority, c.IssuingAuthority)
	assert.Equal(t, params.IssuedAt, c.CompletionDate)
	assert.True(t, c.IsVerifiable())
}

func TestNewCredential_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NewCredentialParams)
		wantErr error
	}{
		{
			name:    "empty owner",
			mutate:  func(p *NewCredentialParams) { p.Owner = "" },
			wantErr: ErrInvalidOwner,
		},
		{
			name:    "skill level zero",
			mutate:  func(p *NewCredentialParams) { p.SkillLevel = 0 },
			wantErr: ErrInvalidSkillLevel,
		},
		{
			name:    "skill level above max",
			mutate:  func(p *NewCredentialParams) { p.SkillLevel = 6 },
			wantErr: ErrInvalidSkillLevel,
		},
		{
			name:    "unknown type",
			mutate:  func(p *NewCredentialParams) { p.Type = "diploma" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "empty verification tag",
			mutate:  func(p *NewCredentialParams) { p.VerificationTag = nil },
			wantErr: ErrEmptyVerificationTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			c, err := NewCredential(params)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestType_IsValid(t *testing.T) {
	assert.True(t, TypeCertificate.IsValid())
	assert.True(t, TypeAchievement.IsValid())
	assert.True(t, TypeQuest.IsValid())
	assert.False(t, Type("badge").IsValid())
}
