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

// Command va2pa runs a batch of virtual-address translations described by
// a YAML scenario file against the paging package and reports the result
// of each one.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/gmofishsauce/va2pa/paging"
)

var (
	traceFile = flag.String("trace", "", "Write the translation trace to file (default: stderr)")
	noColor   = flag.Bool("no-color", false, "Disable ANSI highlighting of fault lines")
)

const version = "1.0.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading scenario file: %v\n", err)
		os.Exit(1)
	}

	scenario, err := LoadScenario(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing scenario: %v\n", err)
		os.Exit(1)
	}

	out := os.Stderr
	useColor := !*noColor && term.IsTerminal(int(out.Fd()))

	if *traceFile != "" {
		f, err := os.Create(*traceFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
		useColor = false
	}

	tracer := NewTracer(out, useColor)

	if err := run(scenario, tracer); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(s *Scenario, tracer *Tracer) error {
	mem, err := newScenarioMemory(s)
	if err != nil {
		return err
	}

	root, err := parseHexU64(s.Root)
	if err != nil {
		return fmt.Errorf("scenario root %q: %w", s.Root, err)
	}

	mode, err := parseMode(s.Mode)
	if err != nil {
		return err
	}

	tracer.TraceScenarioHeader(mode, root, len(s.Queries))

	for _, qStr := range s.Queries {
		va, err := parseHexU64(qStr)
		if err != nil {
			return fmt.Errorf("scenario query %q: %w", qStr, err)
		}

		phys, err := translate(mode, va, root, mem)
		tracer.TraceQuery(mode, va, phys, err)
	}

	return nil
}

func translate(mode paging.PagingMode, va, root uint64, mem *scenarioMemory) (paging.PhysicalAddress, error) {
	switch mode {
	case paging.Legacy32:
		return paging.Translate(uint32(va), 2, paging.Root32(root), mem)
	case paging.PAE:
		return paging.Translate(uint32(va), 3, paging.Root32(root), mem)
	case paging.Long4Level:
		return paging.TranslateLong(va, paging.Root64(root), mem)
	default:
		return 0, fmt.Errorf("unreachable paging mode %v", mode)
	}
}

func parseMode(s string) (paging.PagingMode, error) {
	switch s {
	case "legacy32":
		return paging.Legacy32, nil
	case "pae":
		return paging.PAE, nil
	case "long4level":
		return paging.Long4Level, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want legacy32, pae, or long4level)", s)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "va2pa v%s - translate virtual addresses through a scenario's paging structures\n\n", version)
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <scenario.yaml>\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nA scenario file describes a paging mode, a CR3-equivalent root, a flat\n")
	fmt.Fprintf(os.Stderr, "physical memory image, optionally a set of addresses where reads fail,\n")
	fmt.Fprintf(os.Stderr, "and a list of virtual addresses to translate.\n")
}
