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

// walkPAE performs the three-level PAE 32-bit page walk, with an early
// PDE-level termination when a 2 MiB large page is mapped.
//
// Virtual address slicing: PDPTE index = va[31:30], PDE index = va[29:21],
// PTE index = va[20:12], page offset = va[11:0].
//
// The PAE PDPTE has no U/S bit (the error taxonomy has no PdpteSupervisor
// kind) and no PS branch in strict PAE: it always describes a PDE table.
// Bit 7 lies inside the PDPTE reserved mask, so a PDPTE with its PS bit set
// faults with PdpteReserved.
func walkPAE(va uint32, root Root32, r Reader32) (PhysicalAddress, error) {
	pdpteBase := uint32(root) & 0xFFFF_FFE0
	pdpteIndex := va >> 30
	pdpteAddr := pdpteBase + pdpteIndex*8

	pdpte, err := read64From32(r, pdpteAddr)
	if err != nil {
		return 0, err
	}

	if err := checkPresent(pdpte, PdpteNotPresent); err != nil {
		return 0, err
	}
	if err := checkReserved(pdpte, paePDPTE.reservedMask, PdpteReserved); err != nil {
		return 0, err
	}

	pdeBase := pdpte & paePDPTE.addrMask()
	pdeIndex := uint64((va >> 21) & 0x1FF)
	pdeAddr := uint32(pdeBase + pdeIndex*8)

	pde, err := read64From32(r, pdeAddr)
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
		if err := checkReserved(pde, paePDELarge.reservedMask, PdeReserved); err != nil {
			return 0, err
		}
		if err := checkLargePagePat(pde); err != nil {
			return 0, err
		}
		phys := (pde & 0x000F_FFFF_FFE0_0000) | uint64(va&0x001F_FFFF)
		return PhysicalAddress(phys), nil
	}

	if err := checkReserved(pde, paePDESmall.reservedMask, PdeReserved); err != nil {
		return 0, err
	}

	pteBase := pde & paePDESmall.addrMask()
	pteIndex := uint64((va >> 12) & 0x1FF)
	pteAddr := uint32(pteBase + pteIndex*8)

	pte, err := read64From32(r, pteAddr)
	if err != nil {
		return 0, err
	}

	if err := checkPresent(pte, PteNotPresent); err != nil {
		return 0, err
	}
	if err := checkSupervisor(pte, PteSupervisor); err != nil {
		return 0, err
	}
	if err := checkReserved(pte, paePTE.reservedMask, PteReserved); err != nil {
		return 0, err
	}
	if err := checkSmallPagePat(pte); err != nil {
		return 0, err
	}

	phys := (pte & 0x000F_FFFF_FFFF_F000) | uint64(va&0xFFF)
	return PhysicalAddress(phys), nil
}

// read64From32 reads an 8-byte entry from a 32-bit physical address via the
// 32-bit-addressed reader (PAE table bases are always < 2^32 in this model:
// PAE is a 32-bit-rooted mode even though its entries and final physical
// addresses are wider).
func read64From32(r Reader32, physAddr32 uint32) (uint64, error) {
	var scratch [8]byte
	n, err := r.ReadPhys32(scratch[:], 8, physAddr32)
	if err != nil || n < 8 {
		return 0, fault(RamReadError)
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(scratch[i]) << (8 * i)
	}
	return v, nil
}
