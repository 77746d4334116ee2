// This file is part of panog2.
//
// panog2 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// panog2 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with panog2.  If not, see <https://www.gnu.org/licenses/>.

package trace

import (
	"crypto/sha1"
	"fmt"
)

// Digest is a chained fingerprint of a capture. The capture is divided into
// frames and the digest of each frame includes the digest of the previous
// frame. Two captures have the same digest only if every sample of every
// signal is the same.
//
// Digests are a compact way of checking that changes to the model have not
// altered the timing of the clock tree.
type Digest struct {
	digest [sha1.Size]byte

	// frame buffer. the first sha1.Size bytes hold the digest of the
	// previous frame
	frame []byte
	pos   int
}

// FrameSteps is the number of steps in a frame. One period of the system
// clock.
const FrameSteps = 160

// NewDigest is the preferred method of initialisation for the Digest type.
func NewDigest() *Digest {
	return &Digest{}
}

// Hash returns the digest as a string.
func (dig *Digest) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest zeroes the digest.
func (dig *Digest) ResetDigest() {
	for i := range dig.digest {
		dig.digest[i] = 0
	}
	dig.frame = nil
	dig.pos = 0
}

// Add the capture to the digest. A partial frame at the end of the capture
// is included.
func (dig *Digest) Add(c *Capture) {
	n := len(c.Names)

	for i, s := range c.Samples {
		if dig.frame == nil {
			dig.frame = make([]byte, len(dig.digest)+FrameSteps*n)
			dig.pos = copy(dig.frame, dig.digest[:])
		}

		for _, l := range s {
			if l {
				dig.frame[dig.pos] = 1
			}
			dig.pos++
		}

		if (i+1)%FrameSteps == 0 || i == len(c.Samples)-1 {
			dig.digest = sha1.Sum(dig.frame[:dig.pos])
			dig.frame = nil
		}
	}
}
