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

// Package policy compiles an approved capability set into the derived,
// ephemeral Sandbox Policy described in §3: the namespace set to
// create, the syscall-filter decision table, and the mandatory-access-
// control label name. It does not itself touch the kernel — that is
// the sandbox package's job, in the forked child.
package policy

import (
	"errors"

	"github.com/tauos/sandbox-launcher/dirs"
	"github.com/tauos/sandbox-launcher/manifest"
)

// ErrConsentDenied is returned by ResolveConsent when the user denies
// (or has previously denied) any requested capability.
var ErrConsentDenied = errors.New("policy: consent denied")

// Policy is the compiled combination of namespaces, MAC label, and
// syscall-filter decisions applied to one launch.
type Policy struct {
	AppID          string
	Capabilities   []manifest.Capability
	Network        bool
	Filesystem     bool
	Devices        bool
	MACProfileName string
}

// Compile derives a Policy from appID and the set of capabilities that
// consent.go's ResolveConsent has already established are all
// Grant-decided. The derived booleans are recomputed from granted,
// not from the original manifest, so that a policy never reflects
// more than the consent store actually grants (§3 invariant 2).
func Compile(appID string, granted []manifest.Capability) *Policy {
	p := &Policy{
		AppID:          appID,
		Capabilities:   append([]manifest.Capability(nil), granted...),
		MACProfileName: dirs.MACProfileName(appID),
	}
	for _, cap := range granted {
		switch manifest.GroupOf(cap) {
		case manifest.GroupNetwork:
			p.Network = true
		case manifest.GroupFilesystem:
			p.Filesystem = true
		case manifest.GroupDevices:
			p.Devices = true
		}
	}
	return p
}
