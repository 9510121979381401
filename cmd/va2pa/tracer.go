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
	"io"

	"github.com/gmofishsauce/va2pa/paging"
)

// Tracer prints a scenario header and one line per query with its result
// or fault. It does not print the individual entries a walk read.
type Tracer struct {
	out   io.Writer
	color bool
}

// NewTracer creates a tracer writing to the given output. color enables
// ANSI highlighting of fault lines; callers typically gate this on
// golang.org/x/term.IsTerminal against the destination's file descriptor.
func NewTracer(out io.Writer, color bool) *Tracer {
	return &Tracer{out: out, color: color}
}

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// TraceQuery reports the outcome of a single translation.
func (t *Tracer) TraceQuery(mode paging.PagingMode, va uint64, phys paging.PhysicalAddress, err error) {
	if err == nil {
		t.printf(ansiGreen, "VA 0x%016X [%s] -> PA 0x%016X\n", va, mode, uint64(phys))
		return
	}

	kind, _ := paging.AsFaultKind(err)
	t.printf(ansiRed, "VA 0x%016X [%s] -> FAULT %s\n", va, mode, kind)
}

// TraceScenarioHeader announces the scenario being run, in the spirit of
// the startup banner the teacher's emulator prints to its trace file.
func (t *Tracer) TraceScenarioHeader(mode paging.PagingMode, root uint64, queryCount int) {
	fmt.Fprintf(t.out, "========================================\n")
	fmt.Fprintf(t.out, "MODE: %s\n", mode)
	fmt.Fprintf(t.out, "ROOT: 0x%016X\n", root)
	fmt.Fprintf(t.out, "QUERIES: %d\n", queryCount)
	fmt.Fprintf(t.out, "========================================\n\n")
}

func (t *Tracer) printf(color, format string, args ...any) {
	if !t.color {
		fmt.Fprintf(t.out, format, args...)
		return
	}
	fmt.Fprint(t.out, color)
	fmt.Fprintf(t.out, format, args...)
	fmt.Fprint(t.out, ansiReset)
}
