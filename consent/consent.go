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

// Package consent implements the persistent (application_id,
// capability) -> decision mapping consulted before every prompt.
package consent

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/xerrors"

	"github.com/tauos/sandbox-launcher/logger"
	"github.com/tauos/sandbox-launcher/manifest"
)

// Decision is a user's persisted choice for one (app, capability)
// pair.
type Decision int

const (
	// Unknown means no decision has been recorded yet.
	Unknown Decision = iota
	Grant
	Deny
)

var bucketName = []byte("consent")

// Store is the durable (app_id, capability) -> Decision mapping.
// A zero Store is not usable; construct one with Open.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the consent store at path. If the
// store on disk is corrupted — any record's checksum fails to verify,
// or the file cannot be read as a valid bbolt database — Open degrades
// to an empty, writable store rather than failing the launch: the
// prior grants are lost but isolation is never weakened (§4.2, §7).
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, xerrors.Errorf("consent: cannot create store directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		logger.Noticef("consent: store at %s is unreadable (%v); starting from an empty store", path, err)
		return openFresh(path)
	}

	s := &Store{db: db}
	if err := s.verifyAll(); err != nil {
		logger.Noticef("consent: store at %s failed integrity verification (%v); starting from an empty store", path, err)
		db.Close()
		os.Remove(path)
		return openFresh(path)
	}
	return s, nil
}

func openFresh(path string) (*Store, error) {
	os.Remove(path)
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, xerrors.Errorf("consent: cannot create fresh store: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, xerrors.Errorf("consent: cannot initialize store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

func key(appID string, cap manifest.Capability) []byte {
	return []byte(appID + "\x00" + string(cap))
}

// record is the on-disk encoding of one consent decision: 1 byte
// decision, 8 bytes unix timestamp, 32 bytes blake2b-256 checksum over
// (key || decision || timestamp).
func encodeRecord(k []byte, decision Decision, ts time.Time) []byte {
	buf := make([]byte, 1+8+32)
	buf[0] = byte(decision)
	binary.BigEndian.PutUint64(buf[1:9], uint64(ts.Unix()))
	sum := blake2b.Sum256(append(append([]byte{}, k...), buf[:9]...))
	copy(buf[9:], sum[:])
	return buf
}

func decodeRecord(k, v []byte) (Decision, time.Time, bool) {
	if len(v) != 1+8+32 {
		return Unknown, time.Time{}, false
	}
	decision := Decision(v[0])
	ts := time.Unix(int64(binary.BigEndian.Uint64(v[1:9])), 0)
	want := blake2b.Sum256(append(append([]byte{}, k...), v[:9]...))
	if string(want[:]) != string(v[9:]) {
		return Unknown, time.Time{}, false
	}
	return decision, ts, true
}

// Lookup returns the recorded decision for (appID, cap), or Unknown if
// no decision has been recorded.
func (s *Store) Lookup(appID string, cap manifest.Capability) (Decision, error) {
	k := key(appID, cap)
	var decision Decision
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		v := b.Get(k)
		if v == nil {
			return nil
		}
		d, _, ok := decodeRecord(k, v)
		if !ok {
			return xerrors.New("corrupt record")
		}
		decision = d
		return nil
	})
	if err != nil {
		return Unknown, err
	}
	return decision, nil
}

// Record durably persists decision for (appID, cap). record's write
// to disk is fsynced (bbolt's default commit behavior) before this
// call returns, so any subsequent Lookup in any process observes it.
// Per §3 invariant 3, a previously recorded decision for the same key
// is overwritten in place, never deleted.
func (s *Store) Record(appID string, cap manifest.Capability, decision Decision) error {
	k := key(appID, cap)
	v := encodeRecord(k, decision, time.Now())
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put(k, v)
	})
}

// verifyAll checksums every record currently in the store; a single
// failure is reported so that Open can degrade the whole store to
// empty, per §4.2's corruption-handling contract.
func (s *Store) verifyAll() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if _, _, ok := decodeRecord(k, v); !ok {
				return xerrors.Errorf("checksum mismatch for key %q", k)
			}
			return nil
		})
	})
}
