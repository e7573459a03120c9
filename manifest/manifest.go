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

// Package manifest loads and validates an application's manifest.tau
// file into an immutable, typed capability request.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/xerrors"

	"github.com/tauos/sandbox-launcher/dirs"
	"github.com/tauos/sandbox-launcher/logger"
)

// Sentinel errors identifying the kind of load failure, per §4.1.
var (
	ErrNotFound          = errors.New("manifest: not found")
	ErrMalformed         = errors.New("manifest: malformed")
	ErrUnknownCapability = errors.New("manifest: unknown capability")
)

var appIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidAppID reports whether id is a well-formed application
// identifier.
func ValidAppID(id string) bool {
	return id != "" && appIDPattern.MatchString(id)
}

// Manifest is the immutable, typed result of loading a manifest.tau
// file. The derived booleans are computed once at load time.
type Manifest struct {
	Name         string
	Version      string
	Description  string
	Capabilities []Capability

	Network    bool
	Filesystem bool
	Devices    bool
	System     bool
}

// HasCapability reports whether m requests cap.
func (m *Manifest) HasCapability(cap Capability) bool {
	for _, c := range m.Capabilities {
		if c == cap {
			return true
		}
	}
	return false
}

// Load reads and validates the manifest for appID from
// dirs.ManifestPath(appID).
func Load(appID string) (*Manifest, error) {
	if !ValidAppID(appID) {
		return nil, xerrors.Errorf("%w: invalid application id %q", ErrMalformed, appID)
	}

	path := dirs.ManifestPath(appID)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, xerrors.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, xerrors.Errorf("%w: cannot open %s: %v", ErrMalformed, path, err)
	}
	defer f.Close()

	fields, err := parseFields(f)
	if err != nil {
		return nil, xerrors.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	name, ok := fields["name"]
	if !ok || len(name) != 1 || name[0] == "" {
		return nil, xerrors.Errorf("%w: %s: missing name", ErrMalformed, path)
	}
	if name[0] != appID {
		return nil, xerrors.Errorf("%w: %s: name %q does not match application id %q", ErrMalformed, path, name[0], appID)
	}

	m := &Manifest{Name: name[0]}
	if v, ok := fields["version"]; ok && len(v) == 1 {
		m.Version = v[0]
	}
	if v, ok := fields["description"]; ok && len(v) == 1 {
		m.Description = v[0]
	}

	seen := make(map[Capability]bool)
	for _, raw := range fields["capabilities"] {
		cap := Capability(raw)
		if !IsKnown(cap) {
			return nil, xerrors.Errorf("%w: %s: %s", ErrUnknownCapability, path, raw)
		}
		if seen[cap] {
			continue
		}
		seen[cap] = true
		m.Capabilities = append(m.Capabilities, cap)
	}
	// Capabilities are kept in manifest declaration order (first
	// occurrence wins the position); §4.3 prompts in this same order.

	for cap := range seen {
		switch GroupOf(cap) {
		case GroupNetwork:
			m.Network = true
		case GroupFilesystem:
			m.Filesystem = true
		case GroupDevices:
			m.Devices = true
		case GroupSystem:
			m.System = true
		}
	}

	return m, nil
}

var recognizedKeys = map[string]bool{
	"name":         true,
	"version":      true,
	"description":  true,
	"capabilities": true,
}

// parseFields tokenizes the manifest.tau line grammar of §4.1: blank
// lines and "#" comments are ignored; every other line is either
// `key = "value"` or `key = [ "v1", "v2" ]`. Unknown keys are warned
// about and ignored; they never cause a load failure.
func parseFields(r *os.File) (map[string][]string, error) {
	fields := make(map[string][]string)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		eq := strings.Index(line, "=")
		if eq < 0 {
			return nil, fmt.Errorf("line %d: expected 'key = value'", lineNo)
		}
		key := strings.TrimSpace(line[:eq])
		rawValue := strings.TrimSpace(line[eq+1:])

		if !recognizedKeys[key] {
			logger.Noticef("manifest: ignoring unrecognized key %q at line %d", key, lineNo)
			continue
		}

		values, err := parseValue(rawValue)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNo, err)
		}
		fields[key] = append(fields[key], values...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

// parseValue parses either a single quoted string or a bracketed,
// comma-separated list of quoted strings.
func parseValue(raw string) ([]string, error) {
	if strings.HasPrefix(raw, "[") {
		if !strings.HasSuffix(raw, "]") {
			return nil, fmt.Errorf("unterminated list value %q", raw)
		}
		inner := strings.TrimSpace(raw[1 : len(raw)-1])
		if inner == "" {
			return nil, nil
		}
		var out []string
		for _, item := range strings.Split(inner, ",") {
			v, err := unquote(strings.TrimSpace(item))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	v, err := unquote(raw)
	if err != nil {
		return nil, err
	}
	return []string{v}, nil
}

func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("expected a double-quoted string, got %q", s)
	}
	return s[1 : len(s)-1], nil
}
