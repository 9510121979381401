// Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.

package paging

// walkLegacy32 performs the two-level Legacy (non-PAE) 32-bit page walk,
// with an early PDE-level termination when PSE (4 MiB pages) is active.
//
// Virtual address slicing: PDE index = va[31:22], PTE index = va[21:12],
// page offset = va[11:0].
func walkLegacy32(va uint32, root Root32, r Reader32) (PhysicalAddress, error) {
	pdeIndex := va >> 22
	pdeAddr := (uint32(root) & 0xFFFF_F000) + pdeIndex*4

	pde, err := read32(r, pdeAddr)
	if err != nil {
		return 0, err
	}

	if err := checkPresent(uint64(pde), PdeNotPresent); err != nil {
		return 0, err
	}
	if err := checkSupervisor(uint64(pde), PdeSupervisor); err != nil {
		return 0, err
	}

	if bitSet(uint64(pde), bitPS) {
		// 4 MiB large page: bits 13..21 (legacyPDELarge.reservedMask,
		// 0x3FE000) must be zero.
		if err := checkReserved(uint64(pde), legacyPDELarge.reservedMask, PdeReserved); err != nil {
			return 0, err
		}
		if err := checkLargePagePat(uint64(pde)); err != nil {
			return 0, err
		}
		phys := (pde & 0xFFC0_0000) | (va & 0x003F_FFFF)
		return PhysicalAddress(phys), nil
	}

	// legacyPDESmall carries no reserved-bits mask of its own (its
	// reservedMask is zero), so this check can never fault; it is still
	// issued so the small-page PDE shape is named at its call site.
	if err := checkReserved(uint64(pde), legacyPDESmall.reservedMask, PdeReserved); err != nil {
		return 0, err
	}

	pteIndex := (va >> 12) & 0x3FF
	pteAddr := (pde & 0xFFFF_F000) + pteIndex*4

	pte, err := read32(r, pteAddr)
	if err != nil {
		return 0, err
	}

	if err := checkPresent(uint64(pte), PteNotPresent); err != nil {
		return 0, err
	}
	if err := checkSupervisor(uint64(pte), PteSupervisor); err != nil {
		return 0, err
	}
	// legacyPTE likewise has no reserved mask in this model.
	if err := checkReserved(uint64(pte), legacyPTE.reservedMask, PteReserved); err != nil {
		return 0, err
	}

	phys := (pte & 0xFFFF_F000) | (va & 0xFFF)
	return PhysicalAddress(phys), nil
}
