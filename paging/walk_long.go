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

// walkLong performs the four-level Long Mode page walk, with early
// termination at the PDPTE (1 GiB) or PDE (2 MiB) level when a large page
// is mapped.
//
// Virtual address slicing: PML4E index = va[47:39], PDPTE index = va[38:30],
// PDE index = va[29:21], PTE index = va[20:12], page offset = va[11:0].
func walkLong(va uint64, root Root64, r Reader64) (PhysicalAddress, error) {
	pml4Base := uint64(root) & longPML4E.addrMask()
	pml4Index := (va >> 39) & 0x1FF
	pml4Addr := pml4Base + pml4Index*8

	pml4e, err := read64(r, pml4Addr)
	if err != nil {
		return 0, err
	}

	if err := checkPresent(pml4e, Pml4eNotPresent); err != nil {
		return 0, err
	}
	if err := checkSupervisor(pml4e, Pml4eSupervisor); err != nil {
		return 0, err
	}
	if err := checkPml4eMbz(pml4e); err != nil {
		return 0, err
	}

	pdpteBase := pml4e & longPML4E.addrMask()
	pdpteIndex := (va >> 30) & 0x1FF
	pdpteAddr := pdpteBase + pdpteIndex*8

	pdpte, err := read64(r, pdpteAddr)
	if err != nil {
		return 0, err
	}

	if err := checkPresent(pdpte, PdpteNotPresent); err != nil {
		return 0, err
	}

	if bitSet(pdpte, bitPS) {
		if err := checkReserved(pdpte, longPDPTELarge.reservedMask, PdpteReserved); err != nil {
			return 0, err
		}
		phys := (pdpte & 0x000F_FFFF_C000_0000) | (va & 0x3FFF_FFFF)
		return PhysicalAddress(phys), nil
	}
	if err := checkReserved(pdpte, longPDPTE.reservedMask, PdpteReserved); err != nil {
		return 0, err
	}

	pdeBase := pdpte & longPDPTE.addrMask()
	pdeIndex := (va >> 21) & 0x1FF
	pdeAddr := pdeBase + pdeIndex*8

	pde, err := read64(r, pdeAddr)
	if err != nil {
		return 0, err
	}

	if err := checkPresent(pde, PdeNotPresent); err != nil {
		return 0, err
	}
	if err := checkSupervisor(pde, PdeSupervisor); err != nil {
		return 0, err
	}

	if bitSet(pde, bitPS) {
		if err := checkReserved(pde, longPDELarge.reservedMask, PdeReserved); err != nil {
			return 0, err
		}
		if err := checkLargePagePat(pde); err != nil {
			return 0, err
		}
		phys := (pde & 0x000F_FFFF_FFE0_0000) | (va & 0x001F_FFFF)
		return PhysicalAddress(phys), nil
	}
	if err := checkReserved(pde, longPDESmall.reservedMask, PdeReserved); err != nil {
		return 0, err
	}

	pteBase := pde & longPDESmall.addrMask()
	pteIndex := (va >> 12) & 0x1FF
	pteAddr := pteBase + pteIndex*8

	pte, err := read64(r, pteAddr)
	if err != nil {
		return 0, err
	}

	if err := checkPresent(pte, PteNotPresent); err != nil {
		return 0, err
	}
	if err := checkSupervisor(pte, PteSupervisor); err != nil {
		return 0, err
	}
	if err := checkReserved(pte, longPTE.reservedMask, PteReserved); err != nil {
		return 0, err
	}
	if err := checkSmallPagePat(pte); err != nil {
		return 0, err
	}

	phys := (pte & 0x000F_FFFF_FFFF_F000) | (va & 0xFFF)
	return PhysicalAddress(phys), nil
}
