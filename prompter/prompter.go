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

// Package prompter implements the modal consent dialog: a blocking,
// synchronous Ask(app, capability) call that, under the hood, talks to
// a session D-Bus consent agent so that the graphical toolkit itself
// lives in a separate, already-running process rather than being
// linked into this CLI.
package prompter

import (
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/tauos/sandbox-launcher/i18n"
	"github.com/tauos/sandbox-launcher/logger"
	"github.com/tauos/sandbox-launcher/manifest"
)

const (
	busName    = "org.tauos.ConsentAgent"
	objectPath = "/org/tauos/ConsentAgent"
	ifaceName  = "org.tauos.ConsentAgent"
)

// caller abstracts the one D-Bus method call the prompter needs, so
// tests can substitute a fake agent without a running session bus.
type caller interface {
	Ask(appID, capability, label string) (bool, error)
}

// Prompter shows one modal "Allow/Deny" dialog at a time via the
// session consent agent. The zero value is ready to use: the D-Bus
// connection is established lazily, on the first call to Ask, so a
// manifest with no missing capabilities never touches the bus at all.
type Prompter struct {
	mu     sync.Mutex
	dial   func() (caller, error)
	active caller
}

// New returns a Prompter that connects to the real session consent
// agent over D-Bus on first use.
func New() *Prompter {
	return &Prompter{dial: dialSessionBus}
}

// Ask blocks until the user responds to the "Allow"/"Deny" dialog for
// cap, or until the transport itself fails. Any outcome other than an
// explicit Allow — a Deny click, window close, cancel, or a transport
// error — is treated as Deny, per §4.3's fail-closed-on-uncertainty
// rule. There is no timeout: the user's decision is authoritative.
func (p *Prompter) Ask(appID string, cap manifest.Capability) consentResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active == nil {
		dial := p.dial
		if dial == nil {
			dial = dialSessionBus
		}
		c, err := dial()
		if err != nil {
			logger.Noticef("prompter: cannot reach consent agent (%v); denying %s for %s", err, cap, appID)
			return consentResult{granted: false}
		}
		p.active = c
	}

	label := i18n.G(manifest.HumanLabel(cap))
	granted, err := p.active.Ask(appID, string(cap), label)
	if err != nil {
		logger.Noticef("prompter: consent agent call failed (%v); denying %s for %s", err, cap, appID)
		return consentResult{granted: false}
	}
	return consentResult{granted: granted}
}

// consentResult wraps the boolean answer so call sites read
// result.Granted() rather than a bare, easy-to-invert bool.
type consentResult struct {
	granted bool
}

// Granted reports whether the user clicked Allow.
func (r consentResult) Granted() bool {
	return r.granted
}

// dbusCaller is the real, session-bus-backed implementation of caller.
type dbusCaller struct {
	obj dbus.BusObject
}

func (d dbusCaller) Ask(appID, capability, label string) (bool, error) {
	call := d.obj.Call(ifaceName+".Ask", 0, appID, capability, label)
	if call.Err != nil {
		return false, call.Err
	}
	var granted bool
	if err := call.Store(&granted); err != nil {
		return false, err
	}
	return granted, nil
}

func dialSessionBus() (caller, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	obj := conn.Object(busName, dbus.ObjectPath(objectPath))
	return dbusCaller{obj: obj}, nil
}

// MockCaller installs a fake consent agent for the duration of a test
// and returns a function that restores the real, lazy-dialing one.
func MockCaller(p *Prompter, c caller) (restore func()) {
	p.mu.Lock()
	old := p.active
	p.active = c
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		p.active = old
		p.mu.Unlock()
	}
}
