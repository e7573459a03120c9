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

	"github.com/tauos/sandbox-launcher/policy"
)

type MACProfileTestSuite struct{}

var _ = Suite(&MACProfileTestSuite{})

func (s *MACProfileTestSuite) TestRenderDefaultProfileIncludesAllSections(c *C) {
	text, err := policy.RenderDefaultProfile(policy.ProfileParams{
		ProfileName: "tau.notes",
		BinaryPath:  "/usr/bin/notes",
		ScratchDir:  "/tmp",
		AppDataDir:  "/home/alice/.tau/apps/notes",
	})
	c.Assert(err, IsNil)
	c.Check(text, Matches, "(?s).*#include <tunables/global>.*")
	c.Check(text, Matches, "(?s).*profile tau.notes \\{.*")
	c.Check(text, Matches, "(?s).*#include <abstractions/base>.*")
	c.Check(text, Matches, "(?s).*/usr/bin/notes mr,.*")
	c.Check(text, Matches, "(?s).*/tmp/\\*\\* rw,.*")
	c.Check(text, Matches, "(?s).*/home/alice/.tau/apps/notes/\\*\\* rw,.*")
}

func (s *MACProfileTestSuite) TestRenderDefaultProfileRefusesSensitivePath(c *C) {
	_, err := policy.RenderDefaultProfile(policy.ProfileParams{
		ProfileName: "tau.evil",
		BinaryPath:  "/usr/bin/evil",
		ScratchDir:  "/tmp",
		AppDataDir:  "/etc/secret",
	})
	c.Assert(err, ErrorMatches, ".*sensitive path.*")
}
