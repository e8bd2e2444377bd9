package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSONUsesCamelCaseAndHidesSecrets(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	challenge := NewOtpChallenge("123456", now, 10*time.Minute)
	u := User{
		ID:             uuid.MustParse("0b7f2c3e-9a41-4d5e-8f60-2a1b3c4d5e6f"),
		Email:          "a@b.com",
		PasswordHash:   "secret-hash",
		ResetChallenge: &challenge,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "createdAt")
	assert.Contains(t, fields, "updatedAt")
	assert.NotContains(t, fields, "created_at")
	assert.NotContains(t, fields, "updated_at")
	assert.NotContains(t, string(raw), "secret-hash")
	assert.NotContains(t, string(raw), "123456")
}
