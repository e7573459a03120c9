// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2026 The Tau OS Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package policy

// Action is a syscall-filter decision: Allow lets the syscall proceed,
// Kill terminates the process (§4.4.3).
type Action int

const (
	Kill Action = iota
	Allow
)

// unconditionallyAllowed is always Allow regardless of policy (§4.4.3
// rule 1): a process needs at minimum these to start up and exit.
var unconditionallyAllowed = []string{
	"read", "write", "exit", "exit_group", "brk", "mmap", "munmap", "sigreturn",
}

// networkGated is Allow iff Policy.Network, else Kill (rule 2).
var networkGated = []string{"socket", "connect", "bind"}

// filesystemGated is Allow iff Policy.Filesystem, else Kill (rule 3).
var filesystemGated = []string{"open", "openat"}

// deviceGated is Allow iff Policy.Devices, else Kill (rule 4).
var deviceGated = []string{"ioctl"}

// FilterTable is the fully resolved syscall -> Action decision table
// for one compiled Policy (§4.4.3, §9's "tagged-variant program"
// described in implementation-neutral terms). It is the pure,
// kernel-independent half of syscall filter compilation; sandbox's
// seccomp.go turns this table into an installed kernel filter.
type FilterTable map[string]Action

// BuildFilterTable resolves the decision table in §4.4.3 for p. Any
// syscall not present in the returned table must be treated by the
// caller as Kill (rule 5, the default); the table only lists syscalls
// with an explicit decision, same as the BPF program only needs
// explicit jump targets for the syscalls it distinguishes.
func BuildFilterTable(p *Policy) FilterTable {
	t := make(FilterTable, len(unconditionallyAllowed)+len(networkGated)+len(filesystemGated)+len(deviceGated))

	for _, nr := range unconditionallyAllowed {
		t[nr] = Allow
	}
	for _, nr := range networkGated {
		t[nr] = gate(p.Network)
	}
	for _, nr := range filesystemGated {
		t[nr] = gate(p.Filesystem)
	}
	for _, nr := range deviceGated {
		t[nr] = gate(p.Devices)
	}

	return t
}

func gate(allowed bool) Action {
	if allowed {
		return Allow
	}
	return Kill
}

// Decision returns the table's decision for syscall nr, defaulting to
// Kill when nr has no explicit entry (§4.4.3 rule 5).
func (t FilterTable) Decision(nr string) Action {
	if a, ok := t[nr]; ok {
		return a
	}
	return Kill
}
