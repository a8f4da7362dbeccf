package kernel_test

import (
	"testing"

	"parcelflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("generates_valid_uuid", func(t *testing.T) {
		// When
		id := kernel.NewUUID()

		// Then
		require.NoError(t, id.Validate())
		assert.NotEqual(t, uuid.Nil, id.Bytes())
	})

	t.Run("generates_unique_uuids", func(t *testing.T) {
		// When
		first := kernel.NewUUID()
		second := kernel.NewUUID()

		// Then
		assert.False(t, first.IsEqual(second))
	})
}

func TestUUIDFromString(t *testing.T) {
	t.Run("parses_valid_uuid_string", func(t *testing.T) {
		// Given
		raw := "550e8400-e29b-41d4-a716-446655440000"

		// When
		id, err := kernel.UUIDFromString(raw)

		// Then
		require.NoError(t, err)
		assert.Equal(t, raw, id.String())
	})

	t.Run("rejects_invalid_uuid_string", func(t *testing.T) {
		// When
		_, err := kernel.UUIDFromString("not-a-uuid")

		// Then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})

	t.Run("rejects_empty_string", func(t *testing.T) {
		_, err := kernel.UUIDFromString("")
		require.Error(t, err)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("creates_uuid_from_valid_bytes", func(t *testing.T) {
		// Given
		source := kernel.NewUUID()
		raw := source.Bytes()

		// When
		restored, err := kernel.UUIDFromBytes(raw[:])

		// Then
		require.NoError(t, err)
		assert.True(t, source.IsEqual(restored))
	})

	t.Run("rejects_wrong_length", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{1, 2, 3})
		require.Error(t, err)
	})

	t.Run("rejects_nil_uuid_bytes", func(t *testing.T) {
		// Given
		raw := uuid.Nil

		// When
		_, err := kernel.UUIDFromBytes(raw[:])

		// Then
		require.Error(t, err)
	})
}

func TestUUID_Validate(t *testing.T) {
	t.Run("zero_value_fails_validation", func(t *testing.T) {
		// Given
		var id kernel.UUID

		// When
		err := id.Validate()

		// Then
		require.Error(t, err)
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})

	t.Run("constructed_uuid_passes_validation", func(t *testing.T) {
		require.NoError(t, kernel.NewUUID().Validate())
	})
}

func TestUUID_IsEqual(t *testing.T) {
	t.Run("same_uuid_is_equal", func(t *testing.T) {
		id := kernel.NewUUID()
		copied := id
		assert.True(t, id.IsEqual(copied))
	})

	t.Run("different_uuids_are_not_equal", func(t *testing.T) {
		assert.False(t, kernel.NewUUID().IsEqual(kernel.NewUUID()))
	})
}
