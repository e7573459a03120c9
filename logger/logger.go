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

// Package logger implements the launcher's leveled logging. It writes
// to stderr by default and, when the systemd journal is reachable,
// additionally emits to the journal with structured fields.
package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/coreos/go-systemd/journal"
)

// Logger is the logging interface the rest of the launcher depends on.
type Logger interface {
	Noticef(format string, v ...interface{})
	Debugf(format string, v ...interface{})
}

var (
	mu  sync.Mutex
	log Logger = defaultLogger{}
)

// SetLogger replaces the active logger. Tests use this to install
// NullLogger or a capturing logger.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func active() Logger {
	mu.Lock()
	defer mu.Unlock()
	return log
}

// Noticef logs an always-on, user-relevant message.
func Noticef(format string, v ...interface{}) {
	active().Noticef(format, v...)
}

// Debugf logs a developer-oriented message; only surfaced when debug
// output is enabled (TAU_DEBUG=1 in the environment).
func Debugf(format string, v ...interface{}) {
	active().Debugf(format, v...)
}

// nullLogger discards everything; useful for tests that don't care
// about log output and don't want it polluting test logs.
type nullLogger struct{}

func (nullLogger) Noticef(format string, v ...interface{}) {}
func (nullLogger) Debugf(format string, v ...interface{})  {}

// NullLogger discards all log output.
var NullLogger Logger = nullLogger{}

// defaultLogger writes to stderr, and to the systemd journal when
// journal.Enabled reports that the journal socket can be reached.
type defaultLogger struct{}

func (defaultLogger) Noticef(format string, v ...interface{}) {
	writeLine("NOTICE", format, v...)
}

func (defaultLogger) Debugf(format string, v ...interface{}) {
	if os.Getenv("TAU_DEBUG") == "" {
		return
	}
	writeLine("DEBUG", format, v...)
}

func writeLine(level, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	fmt.Fprintf(os.Stderr, "sandbox-launcher: %s: %s\n", level, msg)
	if journal.Enabled() {
		prio := journal.PriInfo
		if level == "DEBUG" {
			prio = journal.PriDebug
		}
		// Best effort: a journal send failure must never interrupt the
		// launch pipeline, so the error is intentionally discarded.
		_ = journal.Send(msg, prio, map[string]string{"SYSLOG_IDENTIFIER": "sandbox-launcher"})
	}
}

// MockLogger installs a logger that records every message into an
// in-memory buffer and returns it together with a restore function.
func MockLogger() (buf *Buffer, restore func()) {
	old := active()
	b := &Buffer{}
	SetLogger(b)
	return b, func() { SetLogger(old) }
}

// Buffer is a Logger that records formatted messages for inspection
// in tests.
type Buffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *Buffer) Noticef(format string, v ...interface{}) {
	b.append("NOTICE: " + fmt.Sprintf(format, v...))
}

func (b *Buffer) Debugf(format string, v ...interface{}) {
	b.append("DEBUG: " + fmt.Sprintf(format, v...))
}

func (b *Buffer) append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
}

// String returns every recorded line, newline-joined.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := ""
	for _, l := range b.lines {
		out += l + "\n"
	}
	return out
}
