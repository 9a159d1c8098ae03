package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies an appointment either by its local provisional sequence
// number (before the remote store has assigned a key) or by the key the
// remote store returned on create. The zero value is Pending(0).
type ID struct {
	confirmed bool
	seq       int
	remote    string
}

// PendingID returns an identifier for a record not yet acknowledged by the store.
func PendingID(seq int) ID { return ID{seq: seq} }

// ConfirmedID returns an identifier carrying the store's key.
func ConfirmedID(remote string) ID { return ID{confirmed: true, remote: remote} }

func (id ID) IsPending() bool { return !id.confirmed }

func (id ID) IsConfirmed() bool { return id.confirmed }

// Seq returns the provisional sequence number; ok is false once confirmed.
func (id ID) Seq() (seq int, ok bool) {
	if id.confirmed {
		return 0, false
	}
	return id.seq, true
}

// Remote returns the store key; ok is false while pending.
func (id ID) Remote() (remote string, ok bool) {
	if !id.confirmed {
		return "", false
	}
	return id.remote, true
}

// String renders pending ids as "pending-<seq>" and confirmed ids verbatim.
func (id ID) String() string {
	if id.confirmed {
		return id.remote
	}
	return "pending-" + strconv.Itoa(id.seq)
}

// ParseID is the inverse of String.
func ParseID(s string) (ID, error) {
	if rest, ok := strings.CutPrefix(s, "pending-"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			return ID{}, fmt.Errorf("%w: bad pending id %q", ErrValidation, s)
		}
		return PendingID(n), nil
	}
	if s == "" {
		return ID{}, fmt.Errorf("%w: empty id", ErrValidation)
	}
	return ConfirmedID(s), nil
}

func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
