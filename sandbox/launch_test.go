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

type LaunchTestSuite struct{}

var _ = Suite(&LaunchTestSuite{})

func (s *LaunchTestSuite) TestEncodeDecodeChildSpecRoundTrips(c *C) {
	p := policy.Compile("notes", nil)
	p.Network = true

	spec := &sandbox.ChildSpec{
		Policy:     p,
		BinaryPath: "/usr/bin/notes",
		Argv:       []string{"--foo"},
		Env:        []string{"HOME=/home/alice"},
		ScratchDir: "/tmp",
		AppDataDir: "/home/alice/.tau/apps/notes",
	}

	encoded, err := sandbox.EncodeChildSpec(spec)
	c.Assert(err, IsNil)

	decoded, err := sandbox.DecodeChildSpec(encoded)
	c.Assert(err, IsNil)
	c.Check(decoded.Policy.AppID, Equals, "notes")
	c.Check(decoded.Policy.Network, Equals, true)
	c.Check(decoded.BinaryPath, Equals, "/usr/bin/notes")
	c.Check(decoded.Argv, DeepEquals, []string{"--foo"})
	c.Check(decoded.Env, DeepEquals, []string{"HOME=/home/alice"})
}

func (s *LaunchTestSuite) TestDecodeRejectsGarbage(c *C) {
	_, err := sandbox.DecodeChildSpec("not-base64!!!")
	c.Assert(err, NotNil)
}
