package voucher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByCodeQuery(t *testing.T) {
	t.Run("code compared case-insensitively", func(t *testing.T) {
		query, args, err := getByCodeQuery(3, "  summer10 ", false).ToSql()
		require.NoError(t, err)

		assert.Contains(t, query, "guide_id = $1")
		assert.Contains(t, query, "UPPER(code) = $2")
		assert.NotContains(t, query, "FOR UPDATE")
		assert.Equal(t, []interface{}{int64(3), "SUMMER10"}, args)
	})

	t.Run("row locked inside transaction", func(t *testing.T) {
		query, _, err := getByCodeQuery(3, "Summer10", true).ToSql()
		require.NoError(t, err)

		assert.Contains(t, query, "FOR UPDATE")
	})
}
