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
	"github.com/tauos/sandbox-launcher/consent"
	"github.com/tauos/sandbox-launcher/manifest"
)

// Asker is the minimal interface ResolveConsent needs from the consent
// prompter: ask once, synchronously, and report whether the user
// allowed the capability. prompter.Prompter satisfies this via a thin
// adapter in cmd/sandbox-launcher, since its Ask returns a richer
// result type the prompter package also uses internally.
type Asker interface {
	Ask(appID string, cap manifest.Capability) bool
}

// AskFunc adapts a plain function to Asker, for callers (and tests)
// that don't need the full prompter.Prompter machinery.
type AskFunc func(appID string, cap manifest.Capability) bool

func (f AskFunc) Ask(appID string, cap manifest.Capability) bool {
	return f(appID, cap)
}

// ResolveConsent walks m's capabilities in manifest declaration order
// (§4.3, §5 "Ordering"). For each capability already decided in store,
// the stored decision is used without prompting. For each undecided
// capability, ask is invoked and the decision is durably recorded
// before ResolveConsent continues. The first Deny — whether it comes
// from the store or from a fresh prompt — aborts immediately and no
// further prompts are shown, returning ErrConsentDenied.
func ResolveConsent(appID string, m *manifest.Manifest, store *consent.Store, ask Asker) ([]manifest.Capability, error) {
	granted := make([]manifest.Capability, 0, len(m.Capabilities))

	for _, cap := range m.Capabilities {
		decision, err := store.Lookup(appID, cap)
		if err != nil {
			return nil, err
		}

		switch decision {
		case consent.Grant:
			granted = append(granted, cap)
			continue
		case consent.Deny:
			return nil, ErrConsentDenied
		}

		allowed := ask.Ask(appID, cap)
		recorded := consent.Deny
		if allowed {
			recorded = consent.Grant
		}
		if err := store.Record(appID, cap, recorded); err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrConsentDenied
		}
		granted = append(granted, cap)
	}

	return granted, nil
}
