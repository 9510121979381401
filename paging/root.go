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

// PagingMode names the three paging modes. The public API does not take
// it: Translate picks Legacy32 or PAE from its level discriminator (2 or
// 3), and TranslateLong always walks Long Mode.
type PagingMode int

const (
	Legacy32 PagingMode = iota
	PAE
	Long4Level
)

func (m PagingMode) String() string {
	switch m {
	case Legacy32:
		return "legacy32"
	case PAE:
		return "pae"
	case Long4Level:
		return "long4level"
	default:
		return "unknown"
	}
}

// Root32 is the architectural CR3-equivalent for Legacy32 and PAE: a
// 32-bit register value naming the base of the top-level table plus
// PWT/PCD cache hints that this model does not validate (§9, point 5 —
// they are architectural hints, not faultable bits).
type Root32 uint32

// Root64 is the CR3-equivalent for Long Mode.
type Root64 uint64

// PhysicalAddress is the result of a successful walk: a 32-bit (Legacy) or
// 52-bit (PAE/Long) absolute byte address.
type PhysicalAddress uint64
