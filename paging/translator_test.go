// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// Unit tests for the public Translate/TranslateLong entry points.

package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncorrectLevelNeverTouchesReader(t *testing.T) {
	cr := &countingReader{}

	_, err := Translate(0, 4, Root32(0), cr)
	kind, ok := AsFaultKind(err)
	require.True(t, ok)
	assert.Equal(t, IncorrectLevel, kind)
	assert.Equal(t, 0, cr.calls, "IncorrectLevel must short-circuit before any reader call")

	_, err = Translate(0, 1, Root32(0), cr)
	kind, ok = AsFaultKind(err)
	require.True(t, ok)
	assert.Equal(t, IncorrectLevel, kind)
	assert.Equal(t, 0, cr.calls)
}

func TestTranslateIsPure(t *testing.T) {
	mem := newMemFake32()
	mem.set(0x1000, 0x0000_2007)
	mem.set(0x2000, 0x0000_3007)

	p1, err1 := Translate(0x0000_0ABC, 2, Root32(0x0000_1000), mem)
	p2, err2 := Translate(0x0000_0ABC, 2, Root32(0x0000_1000), mem)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, p1, p2)
}

func TestRamReadErrorSurfacesDistinctly(t *testing.T) {
	_, err := Translate(0, 2, Root32(0), shortReader{})
	kind, ok := AsFaultKind(err)
	require.True(t, ok)
	assert.Equal(t, RamReadError, kind)

	_, err = TranslateLong(0, Root64(0), shortReader{})
	kind, ok = AsFaultKind(err)
	require.True(t, ok)
	assert.Equal(t, RamReadError, kind)
}

// TestLargePagePATBitIsNeverAFault documents the chosen polarity for the
// open question in spec.md §9 point 1: the source faulted when a
// large-page PDE's PAT bit was unset, which is backwards (PAT is an
// optional cache-attribute selector). This model never faults PdePsePat;
// both polarities of the bit succeed identically otherwise.
func TestLargePagePATBitIsNeverAFault(t *testing.T) {
	patClear := newMemFake32()
	patClear.set(0x1000, 0x0040_0087) // PAT bit (12) clear

	patSet := newMemFake32()
	patSet.set(0x1000, 0x0040_1087) // PAT bit (12) set

	p1, err1 := Translate(0x0012_3456, 2, Root32(0x0000_1000), patClear)
	p2, err2 := Translate(0x0012_3456, 2, Root32(0x0000_1000), patSet)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, p1, p2)
}
