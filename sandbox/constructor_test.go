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

	. "gopkg.in/check.v1"

	"github.com/tauos/sandbox-launcher/sandbox"
)

type ConstructorTestSuite struct{}

var _ = Suite(&ConstructorTestSuite{})

func (s *ConstructorTestSuite) TestExitCodeForErrorMapsEachSentinel(c *C) {
	c.Check(sandbox.ExitCodeForError(sandbox.ErrNamespaceFailed), Equals, sandbox.ExitNamespaceFailed)
	c.Check(sandbox.ExitCodeForError(sandbox.ErrMACFailed), Equals, sandbox.ExitMACFailed)
	c.Check(sandbox.ExitCodeForError(sandbox.ErrFilterFailed), Equals, sandbox.ExitFilterFailed)
	c.Check(sandbox.ExitCodeForError(sandbox.ErrExecFailed), Equals, sandbox.ExitExecFailed)
}

func (s *ConstructorTestSuite) TestExitCodeForErrorUnknownErrorDefaultsToExecFailed(c *C) {
	other := errors.New("boom")
	c.Check(sandbox.ExitCodeForError(other), Equals, sandbox.ExitExecFailed)
}
