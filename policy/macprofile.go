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

package policy

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"
)

// sensitiveGlobs is a denylist of path patterns a generated profile
// must never grant read-write access to, checked with doublestar
// (the same glob engine the teacher distribution uses for path
// matching) before a default profile is ever written to disk.
var sensitiveGlobs = []string{
	"/etc/**",
	"/usr/**",
	"/boot/**",
	"/root/**",
	"/proc/**",
	"/sys/**",
}

var profileTemplate = template.Must(template.New("mac-profile").Parse(
	`#include <tunables/global>

profile {{.ProfileName}} {
  #include <abstractions/base>

  {{.BinaryPath}} mr,
  {{.ScratchDir}}/** rw,
  {{.AppDataDir}}/** rw,
}
`))

// ProfileParams are the values substituted into the default profile
// template for one application.
type ProfileParams struct {
	ProfileName string
	BinaryPath  string
	ScratchDir  string
	AppDataDir  string
}

// RenderDefaultProfile renders the default MAC profile text for an
// application: global tunables and the base abstraction, map-and-read
// on the application binary, and read-write on the scratch directory
// and the application's private data directory (§4.4.2). It is a pure
// function; writing the result to disk (only if no profile already
// exists, per the open question in §9) is the sandbox package's job,
// since that check must happen from inside the forked child.
func RenderDefaultProfile(p ProfileParams) (string, error) {
	for _, root := range []string{p.ScratchDir, p.AppDataDir} {
		ok, err := matchesAny(sensitiveGlobs, root)
		if err != nil {
			return "", err
		}
		if ok {
			return "", fmt.Errorf("policy: refusing to grant read-write on sensitive path %q", root)
		}
	}

	var buf bytes.Buffer
	if err := profileTemplate.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func matchesAny(globs []string, path string) (bool, error) {
	for _, g := range globs {
		ok, err := doublestar.Match(g, path)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
