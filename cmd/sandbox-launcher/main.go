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

// Command sandbox-launcher loads an application's manifest, resolves
// user consent for every capability it requests, compiles a sandbox
// policy, and launches the application under that policy (§2).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/tauos/sandbox-launcher/consent"
	"github.com/tauos/sandbox-launcher/dirs"
	"github.com/tauos/sandbox-launcher/logger"
	"github.com/tauos/sandbox-launcher/manifest"
	"github.com/tauos/sandbox-launcher/policy"
	"github.com/tauos/sandbox-launcher/prompter"
	"github.com/tauos/sandbox-launcher/sandbox"
	"github.com/tauos/sandbox-launcher/supervisor"
)

// Exit codes, per §6.1.
const (
	exitOK             = 0
	exitUsageOrInvalid = 1
	exitConsentDenied  = 2
	exitSandboxFailed  = 3
)

type options struct {
	AppsDir       string `long:"apps-dir" description:"override the system applications directory"`
	ConsentDB     string `long:"consent-db" description:"override the consent store path"`
	MACProfileDir string `long:"mac-profile-dir" description:"override the MAC profile directory"`

	Positional struct {
		AppID string   `positional-arg-name:"application-id" required:"yes"`
		Args  []string `positional-arg-name:"arg"`
	} `positional-args:"yes"`
}

func main() {
	// A re-exec'd sandbox child never reaches flag parsing: its very
	// first act is to decode its spec and hand off to the kernel-facing
	// constructor, which execs the target binary and never returns on
	// success (see sandbox/errors.go's package doc for why a re-exec is
	// used here instead of a raw fork).
	if encoded, ok := os.LookupEnv(sandbox.SentinelEnv); ok {
		spec, err := sandbox.DecodeChildSpec(encoded)
		if err != nil {
			fmt.Fprintln(os.Stderr, "sandbox-launcher: cannot decode sandbox child spec:", err)
			os.Exit(sandbox.ExitNamespaceFailed)
		}
		sandbox.ChildMain(spec)
		return
	}

	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	dirs.LoadDistroDefaults(logger.Noticef)

	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(argv); err != nil {
		if flags.WroteHelp(err) {
			return exitOK
		}
		return exitUsageOrInvalid
	}

	if opts.AppsDir != "" {
		dirs.SystemAppsDir = opts.AppsDir
	}
	if opts.ConsentDB != "" {
		dirs.ConsentDBPath = opts.ConsentDB
	}
	if opts.MACProfileDir != "" {
		dirs.MACProfileDir = opts.MACProfileDir
	}

	appID := opts.Positional.AppID

	m, err := manifest.Load(appID)
	if err != nil {
		logger.Noticef("%v", err)
		return exitUsageOrInvalid
	}

	store, err := consent.Open(dirs.ConsentDBPath)
	if err != nil {
		logger.Noticef("%v", err)
		return exitUsageOrInvalid
	}
	defer store.Close()

	ask := policy.AskFunc(func(appID string, cap manifest.Capability) bool {
		return promptAsk(appID, string(cap))
	})

	granted, err := policy.ResolveConsent(appID, m, store, ask)
	if err != nil {
		if errors.Is(err, policy.ErrConsentDenied) {
			return exitConsentDenied
		}
		logger.Noticef("%v", err)
		return exitUsageOrInvalid
	}

	p := policy.Compile(appID, granted)

	appDataDir := dirs.AppDataDir(dirs.CurrentUserHome(), appID)
	if err := os.MkdirAll(appDataDir, 0700); err != nil {
		logger.Noticef("cannot create application data directory: %v", err)
		return exitSandboxFailed
	}

	spec := &sandbox.ChildSpec{
		Policy:     p,
		BinaryPath: dirs.AppBinaryPath(appID),
		Argv:       opts.Positional.Args,
		Env:        os.Environ(),
		ScratchDir: dirs.ScratchDir,
		AppDataDir: appDataDir,
	}

	cmd, err := sandboxLaunch(spec)
	if err != nil {
		logger.Noticef("%v", err)
		return exitSandboxFailed
	}

	return newSupervisor(cmd).Wait()
}

var sharedPrompter = prompter.New()

// promptAsk adapts prompter.Prompter's richer consentResult return to
// the plain-bool policy.Asker signature (see the doc comment on
// policy.Asker). It is a package variable, like sandboxLaunch and
// newSupervisor below, so tests can exercise run() end-to-end without
// a running session bus or a real re-exec'd child process.
var promptAsk = func(appID string, cap string) bool {
	return sharedPrompter.Ask(appID, manifest.Capability(cap)).Granted()
}

var (
	sandboxLaunch = sandbox.Launch
	newSupervisor = supervisor.New
)
