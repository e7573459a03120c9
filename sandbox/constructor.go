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
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/tauos/sandbox-launcher/logger"
	"github.com/tauos/sandbox-launcher/policy"
)

// ChildSpec carries everything the re-exec'd child needs to complete
// construction and exec the target application, serialized across the
// parent/child boundary by launch.go.
type ChildSpec struct {
	Policy      *policy.Policy
	BinaryPath  string
	Argv        []string
	Env         []string
	ScratchDir  string
	AppDataDir  string
}

// ChildMain runs the ordered construction sequence of §4.4.4 in the
// freshly re-exec'd child process: no-new-privileges, then
// namespaces, then mandatory access control, then the syscall filter,
// and only then the exec of the target binary. It never returns on
// success — the process image is replaced by BinaryPath. On failure
// it exits the process directly
// with the distinct code for the step that failed, exactly as §4.4.4
// requires, so this function's return is only reached if os.Exit
// itself is unreachable (which cannot happen outside of tests calling
// the unexported steps directly).
func ChildMain(spec *ChildSpec) {
	if err := SetNoNewPrivs(); err != nil {
		logger.Noticef("sandbox construction failed for %s: %v", spec.Policy.AppID, err)
		os.Exit(ExitFilterFailed)
	}

	if err := ApplyNamespaces(spec.Policy, nil); err != nil {
		logger.Noticef("sandbox construction failed for %s: %v", spec.Policy.AppID, err)
		os.Exit(ExitNamespaceFailed)
	}

	if err := EnsureAndLoadMACProfile(spec.Policy, spec.BinaryPath, spec.ScratchDir, spec.AppDataDir, nil); err != nil {
		logger.Noticef("sandbox construction failed for %s: %v", spec.Policy.AppID, err)
		os.Exit(ExitMACFailed)
	}

	if err := InstallSeccompFilter(spec.Policy); err != nil {
		logger.Noticef("sandbox construction failed for %s: %v", spec.Policy.AppID, err)
		os.Exit(ExitFilterFailed)
	}

	argv := append([]string{spec.BinaryPath}, spec.Argv...)
	err := unix.Exec(spec.BinaryPath, argv, spec.Env)
	// unix.Exec only returns on failure; a successful exec replaces
	// this process image and control never reaches here.
	logger.Noticef("exec of %s failed: %v", spec.BinaryPath, err)
	os.Exit(ExitExecFailed)
}

// ExitCodeForError maps one of the sentinel construction errors to its
// §4.4.4 exit code, for callers (such as tests) that need the mapping
// without going through a real os.Exit. Any other error maps to
// ExitExecFailed.
func ExitCodeForError(err error) int {
	switch {
	case errors.Is(err, ErrNamespaceFailed):
		return ExitNamespaceFailed
	case errors.Is(err, ErrMACFailed):
		return ExitMACFailed
	case errors.Is(err, ErrFilterFailed):
		return ExitFilterFailed
	case errors.Is(err, ErrExecFailed):
		return ExitExecFailed
	default:
		return ExitExecFailed
	}
}
