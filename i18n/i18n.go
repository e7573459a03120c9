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

// Package i18n wraps gettext-style translation for every user-facing
// string the launcher prints or shows in a consent dialog.
package i18n

import (
	"os"

	"github.com/snapcore/go-gettext"
)

// TEXTDOMAIN is the gettext domain consent-dialog and CLI strings are
// looked up under. Tests override it to point at a throwaway domain.
var TEXTDOMAIN = "sandbox-launcher"

// localeDir is the root gettext searches for compiled translations in.
var localeDir = "/usr/share/locale"

var locales = gettext.NewLocale(localeDir, "")

func init() {
	setLocale(os.Getenv("LANG"))
}

// bindTextDomain sets localeDir to dir and registers domain's catalog
// under it.
func bindTextDomain(domain, dir string) {
	localeDir = dir
	locales = gettext.NewLocale(localeDir, currentLang)
	locales.AddDomain(domain)
}

var currentLang string

// setLocale re-derives the active locale from a LANG-style string,
// such as "en_DK.UTF-8" or "" (meaning: use the environment).
func setLocale(lang string) {
	if lang == "" {
		lang = os.Getenv("LANG")
	}
	currentLang = lang
	locales = gettext.NewLocale(localeDir, lang)
	locales.AddDomain(TEXTDOMAIN)
}

// G translates msgid into the active locale, falling back to msgid
// itself when no translation is available.
func G(msgid string) string {
	return locales.GetD(TEXTDOMAIN, msgid)
}

// NG translates a plural form, choosing between msgid (singular) and
// msgidPlural based on n, falling back to the untranslated English
// forms when no translation is available.
func NG(msgid, msgidPlural string, n uint64) string {
	return locales.GetPluralD(TEXTDOMAIN, msgid, msgidPlural, int(n))
}
