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

package main

import (
	"os/exec"

	"github.com/tauos/sandbox-launcher/sandbox"
	"github.com/tauos/sandbox-launcher/supervisor"
)

var Run = run

func MockSandboxLaunch(f func(*sandbox.ChildSpec) (*exec.Cmd, error)) (restore func()) {
	old := sandboxLaunch
	sandboxLaunch = f
	return func() { sandboxLaunch = old }
}

func MockNewSupervisor(f func(*exec.Cmd) *supervisor.Supervisor) (restore func()) {
	old := newSupervisor
	newSupervisor = f
	return func() { newSupervisor = old }
}

func MockSharedPrompterAsk(f func(appID, cap string) bool) (restore func()) {
	oldAsk := promptAsk
	promptAsk = f
	return func() { promptAsk = oldAsk }
}
