package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)
	id := uuid.New()

	access, err := m.GenerateAccessToken(id, "Bia", "bia@primake.com", enum.RoleGerente)
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken(id)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, enum.RoleGerente, claims.Role)

	got, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)

	other := NewJWTManager("other", time.Hour, time.Hour)
	_, err = other.ValidateAccessToken(access)
	assert.Error(t, err)

	expired := NewJWTManager("secret", -time.Minute, time.Hour)
	old, err := expired.GenerateAccessToken(id, "Bia", "bia@primake.com", enum.RoleGerente)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(old)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	require.NoError(t, err)
	assert.NotEqual(t, "s3nha-forte", hash)
	assert.True(t, CheckPasswordHash("s3nha-forte", hash))
	assert.False(t, CheckPasswordHash("errada", hash))
}

func TestIdentifiers(t *testing.T) {
	now := time.UnixMilli(1_700_000_482_913)
	assert.Equal(t, "TRX-482913", NewSaleID(now))
	assert.Equal(t, "DEL-482913", NewDeliveryID(now))
	assert.Equal(t, "TRX-000007", NewSaleID(time.UnixMilli(2_000_007)))

	assert.Equal(t, "11987654321", DigitsOnly("(11) 98765-4321"))
	assert.Regexp(t, `^PRD-[0-9A-F]{8}$`, GenerateSKU())

	id, err := ParseOptionalUUID("  ")
	require.NoError(t, err)
	assert.Nil(t, id)
	_, err = ParseOptionalUUID("nope")
	assert.Error(t, err)
}
