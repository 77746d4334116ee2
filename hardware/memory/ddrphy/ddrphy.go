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

// Package ddrphy models the Spartan-6 half rate DDR PHY. The PHY runs its
// DFI interface in the system clock domain at half the memory clock rate
// (two DFI phases per system cycle) and uses SERDES primitives clocked by the
// full rate I/O clock of its channel.
//
// The SERDES primitives need to know which I/O clock cycle starts a new
// system cycle. This is the job of the quarter rate write and read strobes,
// which must be wired to the strobes of the channel's BUFPLL with
// WireStrobes() before the PHY is used.
package ddrphy

import (
	"fmt"

	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/clocks"
	"github.com/zeroclient/panog2/hardware/memory/sdram"
	"github.com/zeroclient/panog2/hardware/netlist"
	"github.com/zeroclient/panog2/hardware/platform"
)

// Sentinal error patterns.
const (
	InvalidPHY    = "ddrphy: %s: %s: %v"
	NotWired      = "ddrphy: %s: %s strobe is not connected"
	NotSupported  = "ddrphy: %s: memory type %s is not supported"
	AlreadyWired  = "ddrphy: %s: strobes already connected"
	PadsTooNarrow = "ddrphy: %s: pads too narrow for %d address bits"
)

// DQS alignment values.
const (
	AlignC0   = "C0"
	AlignC1   = "C1"
	AlignNone = "NONE"
)

// MaxBitslip is the largest bitslip value supported by the SERDES.
const MaxBitslip = 7

// Settings describe the PHY to the controller.
type Settings struct {
	Memtype      sdram.Memtype
	DataBits     int
	DFIDataBits  int
	NPhases      int
	NRanks       int
	RdPhase      int
	WrPhase      int
	RdCmdPhase   int
	WrCmdPhase   int
	CL           int
	ReadLatency  int
	WriteLatency int
}

// PortDataWidth is the width of a native controller port in bits.
func (s Settings) PortDataWidth() int {
	return s.DFIDataBits * s.NPhases
}

// PHY is an instance of the half rate PHY.
type PHY struct {
	Name         string
	Pads         platform.DDRPads
	RdBitslip    int
	WrBitslip    int
	DQSAlignment string
	ClkSuffix    string

	settings Settings

	wrStrobe clocks.Line
	rdStrobe clocks.Line

	// beats seen by the SERDES
	wrBeats int
	rdBeats int
}

// NewS6HalfRate is the preferred method of initialisation for the PHY type.
func NewS6HalfRate(pads platform.DDRPads, memtype sdram.Memtype, rdBitslip int, wrBitslip int, dqsAlignment string, clkSuffix string) (*PHY, error) {
	name := fmt.Sprintf("ddrphy_%s", clkSuffix)

	switch memtype {
	case sdram.DDR, sdram.LPDDR, sdram.DDR2:
	default:
		return nil, curated.Errorf(NotSupported, name, memtype)
	}

	if rdBitslip < 0 || rdBitslip > MaxBitslip {
		return nil, curated.Errorf(InvalidPHY, name, "rd_bitslip", fmt.Sprintf("%d not in range 0 to %d", rdBitslip, MaxBitslip))
	}
	if wrBitslip < 0 || wrBitslip > MaxBitslip {
		return nil, curated.Errorf(InvalidPHY, name, "wr_bitslip", fmt.Sprintf("%d not in range 0 to %d", wrBitslip, MaxBitslip))
	}

	switch dqsAlignment {
	case AlignC0, AlignC1, AlignNone:
	default:
		return nil, curated.Errorf(InvalidPHY, name, "dqs_ddr_alignment", fmt.Sprintf("unknown alignment (%s)", dqsAlignment))
	}

	if pads.DataBits == 0 || pads.DataBits%8 != 0 {
		return nil, curated.Errorf(InvalidPHY, name, "pads", fmt.Sprintf("data width (%d) is not a whole number of bytes", pads.DataBits))
	}

	return &PHY{
		Name:         name,
		Pads:         pads,
		RdBitslip:    rdBitslip,
		WrBitslip:    wrBitslip,
		DQSAlignment: dqsAlignment,
		ClkSuffix:    clkSuffix,
		settings: Settings{
			Memtype:      memtype,
			DataBits:     pads.DataBits,
			DFIDataBits:  2 * pads.DataBits,
			NPhases:      2,
			NRanks:       1,
			RdPhase:      0,
			WrPhase:      1,
			RdCmdPhase:   1,
			WrCmdPhase:   0,
			CL:           3,
			ReadLatency:  5,
			WriteLatency: 0,
		},
	}, nil
}

func (phy *PHY) String() string {
	return fmt.Sprintf("%s (%s, rd_bitslip=%d, wr_bitslip=%d, dqs=%s)",
		phy.Name, phy.settings.Memtype, phy.RdBitslip, phy.WrBitslip, phy.DQSAlignment)
}

// Settings returns the PHY settings.
func (phy *PHY) Settings() Settings {
	return phy.settings
}

// CheckGeometry makes sure the pads can carry the module's addresses.
func (phy *PHY) CheckGeometry(g sdram.Geometry) error {
	if phy.Pads.AddressBits < g.AddressBits || phy.Pads.BankBits < g.BankBits {
		return curated.Errorf(PadsTooNarrow, phy.Name, g.AddressBits)
	}
	return nil
}

// WireStrobes connects the quarter rate strobes. Strobes can only be wired
// once.
func (phy *PHY) WireStrobes(wr clocks.Line, rd clocks.Line) error {
	if phy.wrStrobe != nil || phy.rdStrobe != nil {
		return curated.Errorf(AlreadyWired, phy.Name)
	}
	phy.wrStrobe = wr
	phy.rdStrobe = rd
	return nil
}

// Validate checks that the PHY is ready to be used.
func (phy *PHY) Validate() error {
	if phy.wrStrobe == nil {
		return curated.Errorf(NotWired, phy.Name, "write")
	}
	if phy.rdStrobe == nil {
		return curated.Errorf(NotWired, phy.Name, "read")
	}
	return nil
}

// SerdesWrite is the process of the write SERDES. It should be added to the
// full rate write clock domain of the channel.
func (phy *PHY) SerdesWrite(t clocks.Step, _ bool) {
	if phy.wrStrobe != nil && phy.wrStrobe.Level(t) {
		phy.wrBeats++
	}
}

// SerdesRead is the process of the read SERDES. It should be added to the
// full rate read clock domain of the channel.
func (phy *PHY) SerdesRead(t clocks.Step, _ bool) {
	if phy.rdStrobe != nil && phy.rdStrobe.Level(t) {
		phy.rdBeats++
	}
}

// Beats returns the number of strobed beats seen by the write and read
// SERDES.
func (phy *PHY) Beats() (int, int) {
	return phy.wrBeats, phy.rdBeats
}

// Elaborate records the PHY in the netlist. The strobe nets are those of
// the channel's BUFPLL.
func (phy *PHY) Elaborate(nl *netlist.Netlist, wrStrobeNet string, rdStrobeNet string) {
	s := phy.ClkSuffix
	nl.Instantiate("S6HalfRateDDRPHY", phy.Name).
		P("memtype", string(phy.settings.Memtype)).
		P("rd_bitslip", phy.RdBitslip).
		P("wr_bitslip", phy.WrBitslip).
		P("dqs_ddr_alignment", phy.DQSAlignment).
		P("clk_suffix", s).
		I("sys_clk", "sys_clk").
		I("sdram_half_clk", fmt.Sprintf("sdram_half_%s_clk", s)).
		I("sdram_full_wr_clk", fmt.Sprintf("sdram_full_wr_%s_clk", s)).
		I("sdram_full_rd_clk", fmt.Sprintf("sdram_full_wr_%s_clk", s)).
		I("clk4x_wr_strb", wrStrobeNet).
		I("clk4x_rd_strb", rdStrobeNet).
		I("dfi", fmt.Sprintf("%s_dfi", phy.Name)).
		O("a", fmt.Sprintf("%s_a", phy.Pads.Name)).
		O("ba", fmt.Sprintf("%s_ba", phy.Pads.Name)).
		O("dm", fmt.Sprintf("%s_dm", phy.Pads.Name)).
		O("dq", fmt.Sprintf("%s_dq", phy.Pads.Name)).
		O("dqs", fmt.Sprintf("%s_dqs", phy.Pads.Name))
}
