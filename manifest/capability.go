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

package manifest

// Capability is one permission from the closed vocabulary a manifest
// may request.
type Capability string

// Group identifies which of the four aggregate booleans a capability
// belongs to.
type Group int

const (
	GroupNetwork Group = iota
	GroupFilesystem
	GroupDevices
	GroupSystem
)

const (
	CapNetClient Capability = "net.client"
	CapNetServer Capability = "net.server"

	CapFSReadHome   Capability = "fs.read.home"
	CapFSReadDocs   Capability = "fs.read.docs"
	CapFSWriteDocs  Capability = "fs.write.docs"
	CapFSReadMedia  Capability = "fs.read.media"
	CapFSWriteMedia Capability = "fs.write.media"

	CapDevCamera     Capability = "dev.camera"
	CapDevMicrophone Capability = "dev.microphone"
	CapDevLocation   Capability = "dev.location"
	CapDevBluetooth  Capability = "dev.bluetooth"

	CapSystemNotifications Capability = "system.notifications"
	CapSystemClipboard     Capability = "system.clipboard"
)

// groupOf is the closed vocabulary of §6.2: every recognized
// capability maps to exactly one group.
var groupOf = map[Capability]Group{
	CapNetClient: GroupNetwork,
	CapNetServer: GroupNetwork,

	CapFSReadHome:   GroupFilesystem,
	CapFSReadDocs:   GroupFilesystem,
	CapFSWriteDocs:  GroupFilesystem,
	CapFSReadMedia:  GroupFilesystem,
	CapFSWriteMedia: GroupFilesystem,

	CapDevCamera:     GroupDevices,
	CapDevMicrophone: GroupDevices,
	CapDevLocation:   GroupDevices,
	CapDevBluetooth:  GroupDevices,

	CapSystemNotifications: GroupSystem,
	CapSystemClipboard:     GroupSystem,
}

// IsKnown reports whether cap is part of the closed capability
// vocabulary.
func IsKnown(cap Capability) bool {
	_, ok := groupOf[cap]
	return ok
}

// GroupOf returns the group a known capability belongs to. Callers
// must check IsKnown first; GroupOf panics on an unknown capability.
func GroupOf(cap Capability) Group {
	g, ok := groupOf[cap]
	if !ok {
		panic("manifest: GroupOf called with unknown capability " + string(cap))
	}
	return g
}

// HumanLabel returns the human-readable resource label shown to the
// user in a consent prompt for cap. The label is returned untranslated;
// the prompter passes it through i18n.G before showing it.
func HumanLabel(cap Capability) string {
	if l, ok := humanLabels[cap]; ok {
		return l
	}
	return string(cap)
}

var humanLabels = map[Capability]string{
	CapNetClient: "Connect to the internet",
	CapNetServer: "Accept incoming network connections",

	CapFSReadHome:   "Read files in your home folder",
	CapFSReadDocs:   "Read your documents",
	CapFSWriteDocs:  "Save files to your documents",
	CapFSReadMedia:  "Read your photos and media",
	CapFSWriteMedia: "Save photos and media",

	CapDevCamera:     "Use the camera",
	CapDevMicrophone: "Use the microphone",
	CapDevLocation:   "Access your location",
	CapDevBluetooth:  "Use Bluetooth devices",

	CapSystemNotifications: "Show notifications",
	CapSystemClipboard:     "Read and write the clipboard",
}
