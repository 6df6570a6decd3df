package render

import (
	"fmt"
	"time"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
	Commit  string
}

const bannerText = `Trane - An automated practice system for learning complex skills

Copyright (C) 2022 - %d The Trane Project

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as
published by the Free Software Foundation, either version 3 of the
License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

Trane is named after John Coltrane and dedicated to his memory. The
liner notes for "A Love Supreme" are reproduced below. May this project
be too such an offering.

> This album is a humble offering to Him. An attempt to say "THANK
> YOU GOD" through our work, even as we do in our hearts and with our
> tongues. May He help and strengthen all men in every good endeavor.

CLI Version: %s
Commit Hash: %s

`

// Banner returns the startup message.
func Banner(info BuildInfo, now time.Time) string {
	version, commit := info.Version, info.Commit
	if version == "" {
		version = "UNKNOWN"
	}
	if commit == "" {
		commit = "UNKNOWN"
	}
	return fmt.Sprintf(bannerText, now.Year(), version, commit)
}
