package entity

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Minter produces identifiers for new entities.
// Implementations must never return the same id twice.
type Minter interface {
	Next(k Kind) ID
}

// MinterFunc adapts a function to the Minter interface.
type MinterFunc func(k Kind) ID

// Next implements Minter.
func (f MinterFunc) Next(k Kind) ID { return f(k) }

// SequenceMinter yields n-1, n-2, ... for points, w-1, ... for lines and
// r-1, ... for relations. It is safe for concurrent use.
type SequenceMinter struct {
	mu   sync.Mutex
	next map[Kind]int
}

// NewSequenceMinter returns a minter starting at -1 for every kind.
func NewSequenceMinter() *SequenceMinter {
	return &SequenceMinter{next: make(map[Kind]int)}
}

// Next implements Minter.
func (m *SequenceMinter) Next(k Kind) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next == nil {
		m.next = make(map[Kind]int)
	}
	m.next[k]--
	return ID(k.Prefix() + strconv.Itoa(m.next[k]))
}

// UUIDMinter yields the kind prefix followed by a random UUID.
type UUIDMinter struct{}

// Next implements Minter.
func (UUIDMinter) Next(k Kind) ID {
	return ID(k.Prefix() + uuid.NewString())
}

// Avoiding wraps m so that ids for which any taken predicate reports true
// are skipped. Typical predicates are graph HasEntity methods.
func Avoiding(m Minter, taken ...func(ID) bool) Minter {
	return MinterFunc(func(k Kind) ID {
		for {
			id := m.Next(k)
			if !isTaken(id, taken) {
				return id
			}
		}
	})
}

func isTaken(id ID, taken []func(ID) bool) bool {
	for _, t := range taken {
		if t(id) {
			return true
		}
	}
	return false
}

var (
	_ Minter = (*SequenceMinter)(nil)
	_ Minter = UUIDMinter{}
)
