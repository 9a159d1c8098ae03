package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestDialect_Placeholders(t *testing.T) {
	assert.Equal(t, "$1", Dialect.Placeholder(1))
	assert.Equal(t, "$12", Dialect.Placeholder(12))
	assert.Equal(t, "FOR UPDATE", Dialect.LockClause)
}
