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

package sandbox

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"os/exec"

	"golang.org/x/xerrors"
)

// SentinelEnv is set in the re-exec'd child's environment to carry the
// serialized ChildSpec. Its mere presence is how main() distinguishes
// "I am the sandbox child-init" from a normal invocation, since Go
// cannot fork(2) safely past the runtime's first thread spawn and must
// instead re-exec itself into this hidden entry point (see the package
// doc comment).
const SentinelEnv = "TAU_SANDBOX_CHILD_SPEC"

// EncodeChildSpec serializes spec for transport through SentinelEnv.
func EncodeChildSpec(spec *ChildSpec) (string, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeChildSpec reverses EncodeChildSpec.
func DecodeChildSpec(encoded string) (*ChildSpec, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	var spec ChildSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Launch starts the sandbox child: the launcher binary re-exec'd with
// SentinelEnv set, so that the child's very first act in main() is to
// decode spec and hand off to ChildMain rather than running the normal
// CLI. The returned *exec.Cmd has already been Start()ed; the caller
// (the supervisor) owns Wait()ing on it.
func Launch(spec *ChildSpec) (*exec.Cmd, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, xerrors.Errorf("sandbox: cannot resolve launcher binary path: %w", err)
	}

	encoded, err := EncodeChildSpec(spec)
	if err != nil {
		return nil, xerrors.Errorf("sandbox: cannot encode child spec: %w", err)
	}

	cmd := exec.Command(self)
	cmd.Env = append(os.Environ(), SentinelEnv+"="+encoded)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, xerrors.Errorf("sandbox: cannot start sandbox child: %w", err)
	}
	return cmd, nil
}
