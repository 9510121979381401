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

package main

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gmofishsauce/va2pa/paging"
)

// Scenario describes a simulated physical memory image and a batch of
// translations to run against it: a config file format for the demo CLI,
// not part of the paging package itself (the engine never parses config).
type Scenario struct {
	Mode    string            `yaml:"mode"`
	Root    string            `yaml:"root"`
	Memory  map[string]string `yaml:"memory"`
	Faults  []string          `yaml:"faults"`
	Queries []string          `yaml:"queries"`
}

// LoadScenario parses a YAML scenario file.
func LoadScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if s.Mode == "" {
		return nil, fmt.Errorf("scenario: \"mode\" is required (legacy32, pae, or long4level)")
	}
	return &s, nil
}

func parseHexU64(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	return strconv.ParseUint(s, 16, 64)
}

// scenarioMemory is the concrete physical-memory backing store the demo
// CLI hands to the engine. It is exactly the kind of collaborator spec.md
// §1 excludes from the core: a flat map plus a set of addresses that
// simulate I/O failure, used only here at the boundary.
type scenarioMemory struct {
	words  map[uint64]uint64
	faults map[uint64]bool
}

func newScenarioMemory(s *Scenario) (*scenarioMemory, error) {
	m := &scenarioMemory{
		words:  make(map[uint64]uint64),
		faults: make(map[uint64]bool),
	}
	for addrStr, valStr := range s.Memory {
		addr, err := parseHexU64(addrStr)
		if err != nil {
			return nil, fmt.Errorf("scenario memory key %q: %w", addrStr, err)
		}
		val, err := parseHexU64(valStr)
		if err != nil {
			return nil, fmt.Errorf("scenario memory value %q: %w", valStr, err)
		}
		m.words[addr] = val
	}
	for _, addrStr := range s.Faults {
		addr, err := parseHexU64(addrStr)
		if err != nil {
			return nil, fmt.Errorf("scenario fault address %q: %w", addrStr, err)
		}
		m.faults[addr] = true
	}
	return m, nil
}

func (m *scenarioMemory) ReadPhys32(buf []byte, n int, physAddr uint32) (int, error) {
	return m.read(buf, n, uint64(physAddr))
}

func (m *scenarioMemory) ReadPhys64(buf []byte, n int, physAddr uint64) (int, error) {
	return m.read(buf, n, physAddr)
}

func (m *scenarioMemory) read(buf []byte, n int, physAddr uint64) (int, error) {
	if m.faults[physAddr] {
		return n - 1, nil
	}
	v := m.words[physAddr]
	for i := 0; i < n; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	return n, nil
}

var _ paging.Reader32 = (*scenarioMemory)(nil)
var _ paging.Reader64 = (*scenarioMemory)(nil)
