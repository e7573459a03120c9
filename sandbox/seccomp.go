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

package sandbox

import (
	"sort"

	seccomp "github.com/seccomp/libseccomp-golang"
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"

	"github.com/tauos/sandbox-launcher/policy"
)

// BuildSeccompFilter turns a resolved FilterTable into a libseccomp
// filter object with a default-kill base action (§4.4.3 rule 5) and an
// explicit ActAllow rule for every syscall the table resolves to
// Allow. It does not load the filter into the kernel; that is
// InstallSeccompFilter's job, so tests can inspect rule counts without
// ever touching the running process's own syscall filter.
func BuildSeccompFilter(table policy.FilterTable) (*seccomp.ScmpFilter, error) {
	filter, err := seccomp.NewFilter(seccomp.ActKillProcess)
	if err != nil {
		return nil, xerrors.Errorf("%w: create filter: %v", ErrFilterFailed, err)
	}

	names := make([]string, 0, len(table))
	for nr := range table {
		names = append(names, nr)
	}
	sort.Strings(names)

	for _, nr := range names {
		if table.Decision(nr) != policy.Allow {
			continue
		}
		sc, err := seccomp.GetSyscallFromName(nr)
		if err != nil {
			// Not every syscall name is defined on every
			// architecture (e.g. "open" on some arm64 builds);
			// skip rather than fail the whole filter.
			continue
		}
		if err := filter.AddRule(sc, seccomp.ActAllow); err != nil {
			filter.Release()
			return nil, xerrors.Errorf("%w: add rule for %s: %v", ErrFilterFailed, nr, err)
		}
	}

	return filter, nil
}

// SetNoNewPrivs sets PR_SET_NO_NEW_PRIVS, step 1 of §4.4.4: the kernel
// refuses to install an unprivileged syscall filter without this bit
// set, and it must be set before the namespace unshares that follow it
// in the constructor sequence.
func SetNoNewPrivs() error {
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return xerrors.Errorf("%w: no_new_privs: %v", ErrFilterFailed, err)
	}
	return nil
}

// InstallSeccompFilter loads the filter built from p's compiled policy
// into the calling thread, the last construction step before the
// final exec (§4.4.4). The caller must have already called
// SetNoNewPrivs; the kernel otherwise refuses to load an unprivileged
// filter.
func InstallSeccompFilter(p *policy.Policy) error {
	table := policy.BuildFilterTable(p)
	filter, err := BuildSeccompFilter(table)
	if err != nil {
		return err
	}
	defer filter.Release()

	if err := filter.Load(); err != nil {
		return xerrors.Errorf("%w: load: %v", ErrFilterFailed, err)
	}
	return nil
}
