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

package hardware

import (
	"github.com/zeroclient/panog2/hardware/memory/channel"
)

// Addresses of the control and status registers, relative to the origin of
// the csr region.
const (
	// writing a one to bit zero requests a system reset
	CSRCtrlReset = 0x0000

	// read/write register with no effect on the SoC
	CSRCtrlScratch = 0x0004

	// number of bus errors since the system reset was last released
	CSRCtrlBusErrors = 0x0008

	// status word of the CRG. see crg.Status.Word()
	CSRCRGStatus = 0x0010

	// number of times the system reset has been asserted
	CSRCRGResets = 0x0014
)

// Each memory channel has a bank of counters starting at CSRChannelBase. The
// banks are CSRChannelStride apart and are in the order the channels appear
// in the configuration.
const (
	CSRChannelBase   = 0x0100
	CSRChannelStride = 0x0040
)

// Offsets of the counters in a channel's bank.
const (
	CSRChannelReads        = 0x00
	CSRChannelWrites       = 0x04
	CSRChannelBytesRead    = 0x08
	CSRChannelBytesWritten = 0x0c
	CSRChannelRefreshes    = 0x10
	CSRChannelCacheHits    = 0x14
	CSRChannelCacheMisses  = 0x18
	CSRChannelWritebacks   = 0x1c
)

// ScratchReset is the value of the scratch register after a system reset.
const ScratchReset = 0x12345678

type csr struct {
	scratch   uint32
	busErrors uint32
}

func (c *csr) reset() {
	c.scratch = ScratchReset
	c.busErrors = 0
}

func channelCounter(ch *channel.Channel, reg uint32) (uint32, bool) {
	bw := ch.Binding.Controller.Bandwidth()
	st := ch.Binding.Cache.Stats()

	switch reg {
	case CSRChannelReads:
		return uint32(bw.Reads), true
	case CSRChannelWrites:
		return uint32(bw.Writes), true
	case CSRChannelBytesRead:
		return uint32(bw.BytesRead), true
	case CSRChannelBytesWritten:
		return uint32(bw.BytesWritten), true
	case CSRChannelRefreshes:
		return uint32(ch.Binding.Controller.Refreshes()), true
	case CSRChannelCacheHits:
		return uint32(st.Hits), true
	case CSRChannelCacheMisses:
		return uint32(st.Misses), true
	case CSRChannelWritebacks:
		return uint32(st.Writebacks), true
	}

	return 0, false
}

// readCSR returns the value of the register at the csr relative address. The
// second return value is false if there is no register at the address.
func (soc *SoC) readCSR(offset uint32) (uint32, bool) {
	switch offset {
	case CSRCtrlReset:
		return 0, true
	case CSRCtrlScratch:
		return soc.csr.scratch, true
	case CSRCtrlBusErrors:
		return soc.csr.busErrors, true
	case CSRCRGStatus:
		return soc.CRG.Status().Word(), true
	case CSRCRGResets:
		return uint32(soc.CRG.Status().Resets), true
	}

	if offset >= CSRChannelBase {
		i := int((offset - CSRChannelBase) / CSRChannelStride)
		if i < len(soc.Channels) {
			return channelCounter(soc.Channels[i], (offset-CSRChannelBase)%CSRChannelStride)
		}
	}

	return 0, false
}

// writeCSR writes the register at the csr relative address. Writes to read
// only registers are ignored. The return value is false if there is no
// register at the address.
func (soc *SoC) writeCSR(offset uint32, v uint32) bool {
	switch offset {
	case CSRCtrlReset:
		if v&0x01 == 0x01 {
			soc.CRG.RequestReset()
		}
		return true
	case CSRCtrlScratch:
		soc.csr.scratch = v
		return true
	}

	_, ok := soc.readCSR(offset)
	return ok
}
