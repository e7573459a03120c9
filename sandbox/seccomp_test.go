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
	. "gopkg.in/check.v1"

	"github.com/tauos/sandbox-launcher/policy"
	"github.com/tauos/sandbox-launcher/sandbox"
)

type SeccompTestSuite struct{}

var _ = Suite(&SeccompTestSuite{})

func (s *SeccompTestSuite) TestBuildFilterFromEmptyPolicyStillHasUnconditionalAllows(c *C) {
	p := policy.Compile("a", nil)
	table := policy.BuildFilterTable(p)

	filter, err := sandbox.BuildSeccompFilter(table)
	c.Assert(err, IsNil)
	defer filter.Release()

	c.Check(table.Decision("read"), Equals, policy.Allow)
	c.Check(table.Decision("socket"), Equals, policy.Kill)
}

func (s *SeccompTestSuite) TestBuildFilterAllowsGatedSyscallsWhenGranted(c *C) {
	p := policy.Compile("a", nil)
	p.Network = true
	p.Filesystem = true
	p.Devices = true
	table := policy.BuildFilterTable(p)

	filter, err := sandbox.BuildSeccompFilter(table)
	c.Assert(err, IsNil)
	defer filter.Release()

	c.Check(table.Decision("socket"), Equals, policy.Allow)
	c.Check(table.Decision("open"), Equals, policy.Allow)
	c.Check(table.Decision("ioctl"), Equals, policy.Allow)
}
