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

// Package supervisor waits on the single sandbox child a launch
// started, forwards the two signals a foreground CLI session cares
// about to it, and turns its exit into the launcher's own exit code
// (§4.5, §6.1). A tomb.Tomb is overkill for tracking exactly one
// goroutine, but it is how this codebase always tracks "a goroutine
// I need to stop and collect the error from", so the supervisor keeps
// that idiom rather than inventing a bespoke one for just this case.
package supervisor

import (
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"gopkg.in/tomb.v2"

	"github.com/tauos/sandbox-launcher/logger"
	"github.com/tauos/sandbox-launcher/sandbox"
)

// exitSandboxConstructionFailed is the launcher's own exit code for
// "sandbox construction failed" (§6.1). sandbox.ChildMain's own
// distinct per-step codes (§4.4.4) only need to be distinguishable
// from one another inside the child process itself; once the parent
// observes one of them it collapses all of them to this single code.
const exitSandboxConstructionFailed = 3

// sandboxConstructionExitCodes are the codes sandbox.ChildMain exits
// with when any construction step fails before the target is exec'd.
var sandboxConstructionExitCodes = map[int]bool{
	sandbox.ExitNamespaceFailed: true,
	sandbox.ExitMACFailed:       true,
	sandbox.ExitFilterFailed:    true,
	sandbox.ExitExecFailed:      true,
}

// Supervisor waits on one running sandbox child.
type Supervisor struct {
	tomb tomb.Tomb
	cmd  *exec.Cmd
}

// New starts supervising cmd, which must already have been Start()ed
// (by sandbox.Launch).
func New(cmd *exec.Cmd) *Supervisor {
	s := &Supervisor{cmd: cmd}
	s.tomb.Go(s.run)
	return s
}

func (s *Supervisor) run() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	waitCh := make(chan error, 1)
	go func() { waitCh <- s.cmd.Wait() }()

	for {
		select {
		case sig := <-sigCh:
			if err := s.cmd.Process.Signal(sig); err != nil {
				logger.Noticef("cannot forward signal to sandboxed process: %v", err)
			}
		case err := <-waitCh:
			return err
		case <-s.tomb.Dying():
			return tomb.ErrDying
		}
	}
}

// Wait blocks until the sandbox child exits and returns the exit code
// the launcher itself should exit with: 3 if the child never reached
// exec because a construction step failed, the target application's
// own exit code on a normal exit, 128+signal number if the child died
// from an unhandled signal (§4.5), or 1 if the child could not be
// waited on at all.
func (s *Supervisor) Wait() int {
	err := s.tomb.Wait()
	return ExitCodeFor(err)
}

// ExitCodeFor translates a cmd.Wait() error into the launcher's own
// exit code, per §4.5/§6.1, collapsing any of sandbox.ChildMain's
// per-step construction-failure codes to exitSandboxConstructionFailed
// so the launcher never leaks the internal 90-93 range to its own
// caller.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return 1
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok {
		return 1
	}
	if status.Signaled() {
		return 128 + int(status.Signal())
	}
	code := status.ExitStatus()
	if sandboxConstructionExitCodes[code] {
		return exitSandboxConstructionFailed
	}
	return code
}
