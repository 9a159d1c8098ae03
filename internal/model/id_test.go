package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Variants(t *testing.T) {
	p := PendingID(3)
	seq, ok := p.Seq()
	require.True(t, ok)
	assert.Equal(t, 3, seq)
	_, ok = p.Remote()
	assert.False(t, ok)
	assert.Equal(t, "pending-3", p.String())

	c := ConfirmedID("01J9ZQ")
	remote, ok := c.Remote()
	require.True(t, ok)
	assert.Equal(t, "01J9ZQ", remote)
	_, ok = c.Seq()
	assert.False(t, ok)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("pending-12")
	require.NoError(t, err)
	assert.Equal(t, PendingID(12), id)

	id, err = ParseID("abc")
	require.NoError(t, err)
	assert.Equal(t, ConfirmedID("abc"), id)

	_, err = ParseID("pending-x")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseID("")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestID_JSON(t *testing.T) {
	a := Appointment{Key: 1, ID: ConfirmedID("r1"), Title: "Gym"}
	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"id":"r1"`)

	var back Appointment
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, a.ID, back.ID)
}
