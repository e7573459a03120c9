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

// Package release probes which mandatory-access-control userspace, if
// any, is available on the running host. The probe result is memoized
// for the process lifetime; the sandbox package's MAC step reads the
// memoized result rather than re-probing.
package release

import (
	"os"
	"os/exec"
)

// MAC identifies which mandatory-access-control system, if any, is
// usable on this host.
type MAC int

const (
	// NoMAC means neither AppArmor nor SELinux userspace tooling is
	// present; the MAC sandbox step is skipped with a warning.
	NoMAC MAC = iota
	AppArmor
	SELinux
)

// Info describes the probed host capabilities.
type Info struct {
	MAC MAC
}

var current = probe()

// MockReleaseInfo overrides the probed Info for the duration of a
// test, returning a function that restores the original value.
func MockReleaseInfo(i *Info) (restore func()) {
	old := current
	current = *i
	return func() { current = old }
}

// MockMAC is a narrower convenience over MockReleaseInfo for the
// common case of only needing to fake the MAC system.
func MockMAC(m MAC) (restore func()) {
	return MockReleaseInfo(&Info{MAC: m})
}

// Current returns the probed (or mocked) host release info.
func Current() Info {
	return current
}

func probe() Info {
	if pathExists("/sys/kernel/security/apparmor") && binaryExists("apparmor_parser") {
		return Info{MAC: AppArmor}
	}
	if pathExists("/sys/fs/selinux") && binaryExists("semanage") {
		return Info{MAC: SELinux}
	}
	return Info{MAC: NoMAC}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func binaryExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
