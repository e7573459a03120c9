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

package sandbox_test

import (
	"errors"
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"

	"github.com/tauos/sandbox-launcher/dirs"
	"github.com/tauos/sandbox-launcher/policy"
	"github.com/tauos/sandbox-launcher/release"
	"github.com/tauos/sandbox-launcher/sandbox"
)

type MACTestSuite struct{}

var _ = Suite(&MACTestSuite{})

func (s *MACTestSuite) SetUpTest(c *C) {
	dirs.SetRootDir(c.MkDir())
	c.Assert(os.MkdirAll(dirs.MACProfileDir, 0755), IsNil)
}

func (s *MACTestSuite) TestSkipsWithWarningWhenNoMAC(c *C) {
	restore := release.MockMAC(release.NoMAC)
	defer restore()

	p := policy.Compile("notes", nil)
	err := sandbox.EnsureAndLoadMACProfile(p, "/usr/bin/notes", "/tmp", "/home/a/.tau/apps/notes", nil)
	c.Assert(err, IsNil)
}

func (s *MACTestSuite) TestFailsHardWhenNoMACButRequired(c *C) {
	restore := release.MockMAC(release.NoMAC)
	defer restore()
	dirs.MACRequired = true

	p := policy.Compile("notes", nil)
	err := sandbox.EnsureAndLoadMACProfile(p, "/usr/bin/notes", "/tmp", "/home/a/.tau/apps/notes", nil)
	c.Assert(err, ErrorMatches, ".*mandatory access control setup failed.*")
}

func (s *MACTestSuite) TestRendersProfileWhenAbsentAndInvokesParser(c *C) {
	restore := release.MockMAC(release.AppArmor)
	defer restore()

	var invoked []string
	run := func(name string, arg ...string) error {
		invoked = append(invoked, name)
		return nil
	}

	p := policy.Compile("notes", nil)
	err := sandbox.EnsureAndLoadMACProfile(p, "/usr/bin/notes", "/tmp", "/home/a/.tau/apps/notes", run)
	c.Assert(err, IsNil)
	c.Check(invoked, DeepEquals, []string{"apparmor_parser"})

	_, err = os.Stat(dirs.MACProfilePath("notes"))
	c.Assert(err, IsNil)
}

func (s *MACTestSuite) TestDoesNotRegenerateExistingProfile(c *C) {
	restore := release.MockMAC(release.AppArmor)
	defer restore()

	existing := "# hand-edited profile\n"
	c.Assert(os.WriteFile(dirs.MACProfilePath("notes"), []byte(existing), 0644), IsNil)

	run := func(name string, arg ...string) error { return nil }

	p := policy.Compile("notes", nil)
	err := sandbox.EnsureAndLoadMACProfile(p, "/usr/bin/notes", "/tmp", "/home/a/.tau/apps/notes", run)
	c.Assert(err, IsNil)

	text, err := os.ReadFile(dirs.MACProfilePath("notes"))
	c.Assert(err, IsNil)
	c.Check(string(text), Equals, existing)
}

func (s *MACTestSuite) TestParserFailureIsFatalAfterRetries(c *C) {
	restore := release.MockMAC(release.AppArmor)
	defer restore()

	calls := 0
	run := func(name string, arg ...string) error {
		calls++
		return errors.New("parser rejected profile")
	}

	p := policy.Compile("notes", nil)
	err := sandbox.EnsureAndLoadMACProfile(p, "/usr/bin/notes", "/tmp", "/home/a/.tau/apps/notes", run)
	c.Assert(err, ErrorMatches, ".*mandatory access control setup failed.*")
	c.Check(calls > 1, Equals, true)
}

func (s *MACTestSuite) TestSetsAppArmorExecContextOnSuccessfulLoad(c *C) {
	restore := release.MockMAC(release.AppArmor)
	defer restore()

	var labeled string
	restoreWriter := sandbox.MockExecLabelWriter(func(value string) error {
		labeled = value
		return nil
	})
	defer restoreWriter()

	run := func(name string, arg ...string) error { return nil }

	p := policy.Compile("notes", nil)
	err := sandbox.EnsureAndLoadMACProfile(p, "/usr/bin/notes", "/tmp", "/home/a/.tau/apps/notes", run)
	c.Assert(err, IsNil)
	c.Check(labeled, Equals, "exec tau.notes")
}

func (s *MACTestSuite) TestSELinuxExecContextFallsBackToUnconfined(c *C) {
	restore := release.MockMAC(release.SELinux)
	defer restore()

	var attempts []string
	restoreWriter := sandbox.MockExecLabelWriter(func(value string) error {
		attempts = append(attempts, value)
		if value == "unconfined_t" {
			return nil
		}
		return errors.New("no such security context")
	})
	defer restoreWriter()

	run := func(name string, arg ...string) error { return nil }

	p := policy.Compile("notes", nil)
	err := sandbox.EnsureAndLoadMACProfile(p, "/usr/bin/notes", "/tmp", "/home/a/.tau/apps/notes", run)
	c.Assert(err, IsNil)
	c.Check(attempts, DeepEquals, []string{"tau_notes_exec_t", "unconfined_t"})
}

func (s *MACTestSuite) TestExecContextFailureIsNotFatal(c *C) {
	restore := release.MockMAC(release.AppArmor)
	defer restore()

	restoreWriter := sandbox.MockExecLabelWriter(func(value string) error {
		return errors.New("no such file or directory")
	})
	defer restoreWriter()

	run := func(name string, arg ...string) error { return nil }

	p := policy.Compile("notes", nil)
	err := sandbox.EnsureAndLoadMACProfile(p, "/usr/bin/notes", "/tmp", "/home/a/.tau/apps/notes", run)
	c.Assert(err, IsNil)
}

func (s *MACTestSuite) TestSensitiveAppDataDirRefused(c *C) {
	restore := release.MockMAC(release.AppArmor)
	defer restore()

	run := func(name string, arg ...string) error { return nil }

	p := policy.Compile("evil", nil)
	err := sandbox.EnsureAndLoadMACProfile(p, "/usr/bin/evil", "/tmp", "/etc/secret", run)
	c.Assert(err, ErrorMatches, ".*sensitive path.*")

	_, statErr := os.Stat(filepath.Join(dirs.MACProfileDir, "tau.evil"))
	c.Check(os.IsNotExist(statErr), Equals, true)
}
