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
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/clocks"
)

// TimeScale is the factor by which time is slowed in a WAV file.
const TimeScale = 1000

// SampleRate of the WAV file. One sample is one step of the timebase.
const SampleRate = int(clocks.VCO * 1e6 * clocks.StepsPerVCO / TimeScale)

// Sample values of the low and high levels.
const (
	levelLow  = -16384
	levelHigh = 16384
)

const bitDepth = 16

// pcm is the WAVE format code for uncompressed integer samples.
const pcm = 1

// WriteWAV writes the capture as a 16 bit WAV file with one channel per
// signal.
func WriteWAV(w io.WriteSeeker, c *Capture) error {
	n := len(c.Names)
	if n == 0 {
		return curated.Errorf(WAVError, "no signals in capture")
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: n,
			SampleRate:  SampleRate,
		},
		SourceBitDepth: bitDepth,
		Data:           make([]int, 0, n*len(c.Samples)),
	}

	for _, s := range c.Samples {
		for _, l := range s {
			if l {
				buf.Data = append(buf.Data, levelHigh)
			} else {
				buf.Data = append(buf.Data, levelLow)
			}
		}
	}

	enc := wav.NewEncoder(w, SampleRate, bitDepth, n, pcm)
	if err := enc.Write(buf); err != nil {
		return curated.Errorf(WAVError, err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf(WAVError, err)
	}

	return nil
}

// ReadWAV reads a capture written by WriteWAV(). The names of the signals are
// not stored in the file and the channels are named ch0, ch1, etc. A sample
// is a high level if it is positive.
func ReadWAV(r io.ReadSeeker) (*Capture, error) {
	dec := wav.NewDecoder(r)
	if dec == nil || !dec.IsValidFile() {
		return nil, curated.Errorf(WAVError, "not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, curated.Errorf(WAVError, err)
	}

	n := int(dec.NumChans)
	if n == 0 {
		return nil, curated.Errorf(WAVError, "no channels")
	}

	c := &Capture{}
	for i := 0; i < n; i++ {
		c.Names = append(c.Names, fmt.Sprintf("ch%d", i))
	}

	for i := 0; i+n <= len(buf.Data); i += n {
		s := make([]bool, n)
		for j := range s {
			s[j] = buf.Data[i+j] > 0
		}
		c.Samples = append(c.Samples, s)
	}

	return c, nil
}
