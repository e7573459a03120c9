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

package policy_test

import (
	. "gopkg.in/check.v1"

	"github.com/tauos/sandbox-launcher/manifest"
	"github.com/tauos/sandbox-launcher/policy"
)

type FilterTestSuite struct{}

var _ = Suite(&FilterTestSuite{})

func (s *FilterTestSuite) TestUnconditionalAllowsAlwaysAllowed(c *C) {
	p := policy.Compile("a", nil)
	t := policy.BuildFilterTable(p)
	for _, nr := range []string{"read", "write", "exit", "exit_group", "brk", "mmap", "munmap", "sigreturn"} {
		c.Check(t.Decision(nr), Equals, policy.Allow, Commentf("syscall %s", nr))
	}
}

func (s *FilterTestSuite) TestDefaultIsKill(c *C) {
	p := policy.Compile("a", nil)
	t := policy.BuildFilterTable(p)
	c.Check(t.Decision("ptrace"), Equals, policy.Kill)
	c.Check(t.Decision("mount"), Equals, policy.Kill)
}

func (s *FilterTestSuite) TestNetworkGateFollowsPolicy(c *C) {
	deny := policy.BuildFilterTable(policy.Compile("a", nil))
	for _, nr := range []string{"socket", "connect", "bind"} {
		c.Check(deny.Decision(nr), Equals, policy.Kill)
	}

	allow := policy.BuildFilterTable(policy.Compile("a", []manifest.Capability{manifest.CapNetClient}))
	for _, nr := range []string{"socket", "connect", "bind"} {
		c.Check(allow.Decision(nr), Equals, policy.Allow)
	}
}

func (s *FilterTestSuite) TestFilesystemGateFollowsPolicy(c *C) {
	deny := policy.BuildFilterTable(policy.Compile("a", nil))
	c.Check(deny.Decision("open"), Equals, policy.Kill)
	c.Check(deny.Decision("openat"), Equals, policy.Kill)

	allow := policy.BuildFilterTable(policy.Compile("a", []manifest.Capability{manifest.CapFSReadDocs}))
	c.Check(allow.Decision("open"), Equals, policy.Allow)
	c.Check(allow.Decision("openat"), Equals, policy.Allow)
}

func (s *FilterTestSuite) TestDeviceGateFollowsPolicy(c *C) {
	deny := policy.BuildFilterTable(policy.Compile("a", nil))
	c.Check(deny.Decision("ioctl"), Equals, policy.Kill)

	allow := policy.BuildFilterTable(policy.Compile("a", []manifest.Capability{manifest.CapDevCamera}))
	c.Check(allow.Decision("ioctl"), Equals, policy.Allow)
}
