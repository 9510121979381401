// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for the FaultKind taxonomy.

package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaultKindStringIsNonEmptyForEveryKnownKind(t *testing.T) {
	kinds := []FaultKind{
		Success, IncorrectLevel, RamReadError,
		PdeNotPresent, PteNotPresent, PdeSupervisor, PteSupervisor,
		PdpteNotPresent, PdpteReserved, PdeReserved, PteReserved,
		Pml4eNotPresent, Pml4eSupervisor, Pml4eMbz,
		PtePaePat, PdePsePat,
	}
	seen := make(map[string]bool)
	for _, k := range kinds {
		s := k.String()
		assert.NotEmpty(t, s)
		assert.False(t, seen[s], "duplicate String() for distinct FaultKind: %s", s)
		seen[s] = true
	}
}

func TestFaultKindStringUnknown(t *testing.T) {
	assert.Equal(t, "unknown fault kind", FaultKind(999).String())
}

func TestAsFaultKindOnNilAndForeignErrors(t *testing.T) {
	kind, ok := AsFaultKind(nil)
	assert.False(t, ok)
	assert.Equal(t, Success, kind)

	kind, ok = AsFaultKind(assertionError{})
	assert.False(t, ok)
	assert.Equal(t, Success, kind)
}

type assertionError struct{}

func (assertionError) Error() string { return "not a fault" }

func TestFaultErrorMessage(t *testing.T) {
	err := fault(PdeReserved)
	assert.Equal(t, "PDE reserved bits set", err.Error())
}
