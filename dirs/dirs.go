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

// Package dirs centralizes every well-known filesystem path the
// launcher touches, so that tests can redirect the whole launcher
// under a temporary root with a single call.
package dirs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvo5/goconfigparser"
)

var (
	rootDir string

	// SystemAppsDir holds manifest.tau files, one per application:
	// <SystemAppsDir>/<app-id>/manifest.tau
	SystemAppsDir string

	// MACProfileDir holds the per-application AppArmor-style profiles,
	// named tau.<app-id>.
	MACProfileDir string

	// ConsentDBPath is the bbolt-backed consent store file.
	ConsentDBPath string

	// ScratchDir is the shared scratch temporary directory granted
	// read-write to every sandboxed application.
	ScratchDir string

	// UserDataDir is the template for a per-application private data
	// directory under the invoking user's home; the first %s is the user
	// name, the second the app id.
	UserDataDir string

	// DistroConfigPath is the optional INI-style override file for
	// the defaults above.
	DistroConfigPath string

	// MACRequired, when true, makes a missing AppArmor/SELinux
	// userspace a hard failure instead of a warning-and-skip.
	MACRequired bool

	userHome string
)

func init() {
	SetRootDir("")
}

// SetRootDir re-derives every path in this package under root, or
// under "/" when root is empty. Intended for tests.
func SetRootDir(root string) {
	if root == "" {
		root = "/"
	}
	rootDir = filepath.Clean(root)

	SystemAppsDir = filepath.Join(rootDir, "usr/share/tau/apps")
	MACProfileDir = filepath.Join(rootDir, "etc/apparmor.d")
	ScratchDir = filepath.Join(rootDir, "tmp")
	UserDataDir = filepath.Join(rootDir, "home/%s/.tau/apps/%s")
	DistroConfigPath = filepath.Join(rootDir, "etc/tau/launcher.conf")

	home, err := os.UserHomeDir()
	if err != nil || rootDir != "/" {
		home = filepath.Join(rootDir, "home", "user")
	}
	userHome = home
	ConsentDBPath = filepath.Join(home, ".config", "tau", "consent.db")

	MACRequired = false
}

// RootDir returns the current global root directory.
func RootDir() string {
	return rootDir
}

// CurrentUserHome returns the invoking user's home directory, rooted
// under the current global root the same way ConsentDBPath is, so
// callers never need their own os.UserHomeDir fallback logic.
func CurrentUserHome() string {
	return userHome
}

// StripRootDir removes the global root directory prefix from an
// absolute path, panicking if path is not absolute or is not rooted
// under the current global root.
func StripRootDir(path string) string {
	if !filepath.IsAbs(path) {
		panic(fmt.Sprintf("supplied path is not absolute %q", path))
	}
	if rootDir == "/" {
		return path
	}
	if path != rootDir && (len(path) <= len(rootDir) || path[:len(rootDir)+1] != rootDir+"/") {
		panic(fmt.Sprintf("supplied path is not related to global root %q", path))
	}
	stripped := path[len(rootDir):]
	if stripped == "" {
		return "/"
	}
	return stripped
}

// ManifestPath returns the path of the manifest.tau file for appID.
func ManifestPath(appID string) string {
	return filepath.Join(SystemAppsDir, appID, "manifest.tau")
}

// AppBinaryPath returns the path of the executable for appID, laid out
// alongside its manifest under SystemAppsDir.
func AppBinaryPath(appID string) string {
	return filepath.Join(SystemAppsDir, appID, "bin", appID)
}

// MACProfilePath returns the path of the MAC profile file for appID.
func MACProfilePath(appID string) string {
	return filepath.Join(MACProfileDir, MACProfileName(appID))
}

// MACProfileName returns the profile name derived from appID, as used
// both for the on-disk file and for the loaded profile name.
func MACProfileName(appID string) string {
	return "tau." + appID
}

// AppDataDir returns the per-application private data directory for
// appID, rooted under the given user's home directory.
func AppDataDir(userHome, appID string) string {
	return filepath.Join(userHome, ".tau", "apps", appID)
}

// LoadDistroDefaults applies operator overrides from DistroConfigPath,
// if present. A missing file is not an error. A malformed file is
// logged as a warning and the compiled-in defaults are kept: this file
// is an operator convenience, not part of the per-application
// contract, so unlike the manifest loader it never fails closed.
func LoadDistroDefaults(warn func(format string, args ...interface{})) {
	cfg := goconfigparser.New()
	if err := cfg.ParseFile(DistroConfigPath); err != nil {
		if !os.IsNotExist(err) {
			warn("cannot parse distro launcher config %s: %v", DistroConfigPath, err)
		}
		return
	}

	if v, err := cfg.Get("launcher", "apps-dir"); err == nil && v != "" {
		SystemAppsDir = v
	}
	if v, err := cfg.Get("launcher", "mac-required"); err == nil {
		MACRequired = v == "true" || v == "1" || v == "yes"
	}
}
