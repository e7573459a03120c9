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
	"os"
	"os/exec"
	"time"

	"golang.org/x/xerrors"
	"gopkg.in/retry.v1"

	"github.com/tauos/sandbox-launcher/dirs"
	"github.com/tauos/sandbox-launcher/logger"
	"github.com/tauos/sandbox-launcher/policy"
	"github.com/tauos/sandbox-launcher/release"
)

// parserRetryStrategy tolerates the external profile-loader binary
// losing a race against another concurrent launch taking the kernel
// lock AppArmor serializes profile loads behind.
var parserRetryStrategy = retry.LimitCount(3, retry.LimitTime(2*time.Second,
	retry.Exponential{
		Initial: 50 * time.Millisecond,
		Factor:  2,
	},
))

// runner is the narrow slice of exec.Command this package depends on,
// so tests can fake "the external profile parser failed" without
// actually invoking one.
type runner func(name string, arg ...string) error

func realRunner(name string, arg ...string) error {
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// execAttrPath is the generic Linux LSM hook both AppArmor and
// SELinux expose for "label the next exec(2) transitions this process
// into": writing to it is what apparmor_parser's own callers and
// libselinux's setexeccon do under the hood. Overridden in tests.
var execAttrPath = "/proc/self/attr/exec"

// execLabelWriter is the narrow write this package needs from the
// kernel's exec-label interface, so tests can fake a missing label
// without a real AppArmor/SELinux-enabled kernel.
type execLabelWriter func(value string) error

var writeExecLabel execLabelWriter = func(value string) error {
	return os.WriteFile(execAttrPath, []byte(value), 0)
}

// MockExecLabelWriter overrides the exec-label write for the duration
// of a test, returning a function that restores the real one.
func MockExecLabelWriter(f func(value string) error) (restore func()) {
	old := writeExecLabel
	writeExecLabel = f
	return func() { writeExecLabel = old }
}

// setExecContext attempts the "set the exec context label" half of
// §4.4.2/§4.4.4 step 3: AppArmor transitions into the loaded profile
// by name, SELinux transitions into a per-application context,
// falling back to the generic "unconfined" label when the specific
// one does not exist. Neither system is required to be configured, so
// failure here is logged, never fatal to the launch (matching
// original_source/sandboxd/sandboxd.c's apply_apparmor_profile and
// apply_selinux_context, neither of which aborts the launch either).
func setExecContext(info release.Info, p *policy.Policy) {
	switch info.MAC {
	case release.AppArmor:
		if err := writeExecLabel("exec " + p.MACProfileName); err != nil {
			logger.Noticef("cannot set apparmor exec context for %s: %v", p.AppID, err)
		}
	case release.SELinux:
		label := "tau_" + p.AppID + "_exec_t"
		if err := writeExecLabel(label); err != nil {
			if err := writeExecLabel("unconfined_t"); err != nil {
				logger.Noticef("cannot set selinux exec context for %s: %v", p.AppID, err)
			}
		}
	}
}

// EnsureAndLoadMACProfile guarantees a profile exists for p.AppID
// (rendering the default one if absent, never regenerating one that
// is already on disk, per the open question resolved in DESIGN.md),
// asks the host's MAC userspace to (re)load it, and sets the exec
// context label the process transitions into at the final exec. When
// no MAC system is usable, the step is skipped with a warning unless
// dirs.MACRequired demands it be a hard failure (§4.4.2, §6.5).
func EnsureAndLoadMACProfile(p *policy.Policy, binaryPath, scratchDir, appDataDir string, run runner) error {
	if run == nil {
		run = realRunner
	}

	info := release.Current()
	if info.MAC == release.NoMAC {
		if dirs.MACRequired {
			return xerrors.Errorf("%w: no mandatory access control system available", ErrMACFailed)
		}
		logger.Noticef("no mandatory access control system available, launching %s without one", p.AppID)
		return nil
	}

	profilePath := dirs.MACProfilePath(p.AppID)
	if _, err := os.Stat(profilePath); os.IsNotExist(err) {
		text, err := policy.RenderDefaultProfile(policy.ProfileParams{
			ProfileName: p.MACProfileName,
			BinaryPath:  binaryPath,
			ScratchDir:  scratchDir,
			AppDataDir:  appDataDir,
		})
		if err != nil {
			return xerrors.Errorf("%w: render profile: %v", ErrMACFailed, err)
		}
		if err := os.WriteFile(profilePath, []byte(text), 0644); err != nil {
			return xerrors.Errorf("%w: write profile: %v", ErrMACFailed, err)
		}
	} else if err != nil {
		return xerrors.Errorf("%w: stat profile: %v", ErrMACFailed, err)
	}

	parser, args := parserCommand(info, profilePath)
	var lastErr error
	for a := retry.Start(parserRetryStrategy, nil); a.Next(); {
		lastErr = run(parser, args...)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return xerrors.Errorf("%w: load profile via %s: %v", ErrMACFailed, parser, lastErr)
	}

	setExecContext(info, p)
	return nil
}

func parserCommand(info release.Info, profilePath string) (string, []string) {
	switch info.MAC {
	case release.AppArmor:
		return "apparmor_parser", []string{"-r", profilePath}
	case release.SELinux:
		return "semodule", []string{"-i", profilePath}
	default:
		return "true", nil
	}
}
