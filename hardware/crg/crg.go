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

package crg

import (
	"fmt"
	"math"

	"github.com/zeroclient/panog2/config"
	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/clockdomain"
	"github.com/zeroclient/panog2/hardware/clocks"
	"github.com/zeroclient/panog2/hardware/netlist"
	"github.com/zeroclient/panog2/hardware/platform"
	"github.com/zeroclient/panog2/hardware/pll"
	"github.com/zeroclient/panog2/logger"
)

// Sentinal error patterns.
const (
	InvalidClocking = "crg: %s: %v"
	UnknownDomain   = "crg: no clock domain named %s"
	UnknownChannel  = "crg: no clocks for channel %s"
)

// Names of the PLL outputs used by the CRG.
const (
	OutputFull        = "sdram_full"
	OutputHalf        = "sdram_half"
	OutputHalfShifted = "sdram_half_shifted"
	OutputSys         = "sys"
)

// DivideBufPLL is the DIVIDE parameter of the BUFPLL instances.
const DivideBufPLL = 4

// ChannelClocks are the clocks and strobes of one memory channel.
type ChannelClocks struct {
	Name string

	// the read domain has the same clock as the write domain
	FullWr *clockdomain.Domain
	FullRd *clockdomain.Domain

	// half rate domain at 270 degrees
	Half *clockdomain.Domain

	// half rate clock at 250 degrees. clocks the ODDR2
	HalfShifted clocks.Line

	BufPLL *BufPLL

	// SERDES strobes. the read strobe is the write strobe
	WrStrobe clocks.Line
	RdStrobe clocks.Line

	ODDR2    ODDR2
	MemClock DiffClock

	pin *platform.Signal
}

// Pin returns the platform signal driven by the memory clock.
func (ch *ChannelClocks) Pin() *platform.Signal {
	return ch.pin
}

func (ch *ChannelClocks) String() string {
	return fmt.Sprintf("channel %s", ch.Name)
}

// CRG is the clock and reset generator.
type CRG struct {
	cfg *config.Config
	pll *pll.PLL

	Sys *clockdomain.Domain
	POR *clockdomain.Domain

	Channels []*ChannelClocks

	// every domain in the order they are ticked
	domains []*clockdomain.Domain

	seq sequencer

	// state of the cpu_reset pin. the pin is active low on the board
	pin         *platform.Signal
	pinAsserted bool

	// software reset request. belongs to the system domain
	softReq bool

	// PLL lock synchronised into the system domain
	lockSync *clockdomain.Synchronizer

	resets int
	now    clocks.Step
}

// sysReset is the reset line of the system domain.
type sysReset struct {
	crg *CRG
}

func (r sysReset) Asserted() bool {
	return r.crg.seq.state != Deasserted
}

// NewCRG is the preferred method of initialisation for the CRG type. The
// instances that make up the CRG are recorded in the netlist.
func NewCRG(cfg *config.Config, plt *platform.Platform, nl *netlist.Netlist) (*CRG, error) {
	clk, err := plt.Request(platform.DefaultClkName)
	if err != nil {
		return nil, err
	}
	if clk.Period != cfg.RefPeriod {
		return nil, curated.Errorf(InvalidClocking, clk.Name,
			fmt.Sprintf("board clock period (%vns) does not match configured period (%vns)", clk.Period, cfg.RefPeriod))
	}

	pin, err := plt.Request("cpu_reset")
	if err != nil {
		return nil, err
	}

	pcfg := pll.Config{
		RefPeriod:  clk.Period,
		DivClk:     cfg.PLLDivClk,
		Mult:       cfg.PLLMult,
		LockCycles: cfg.LockCycles,
	}
	for i, o := range cfg.PLLOutputs {
		pcfg.Outputs[i] = pll.Output{
			Name:   o.Name,
			Divide: o.Divide,
			Phase:  o.Phase,
			Duty:   0.5,
		}
	}

	p, err := pll.NewPLL(pcfg)
	if err != nil {
		return nil, err
	}

	full, _, err := p.Named(OutputFull)
	if err != nil {
		return nil, err
	}
	half, _, err := p.Named(OutputHalf)
	if err != nil {
		return nil, err
	}
	shifted, _, err := p.Named(OutputHalfShifted)
	if err != nil {
		return nil, err
	}
	sys, sysIdx, err := p.Named(OutputSys)
	if err != nil {
		return nil, err
	}

	if f := p.Frequency(sysIdx); math.Abs(f-cfg.SysFreq) > 1e-6 {
		return nil, curated.Errorf(InvalidClocking, OutputSys,
			fmt.Sprintf("PLL output is %.3fMHz but the system clock must be %.3fMHz", f, cfg.SysFreq))
	}

	crg := &CRG{
		cfg:      cfg,
		pll:      p,
		pin:      pin,
		seq:      newSequencer(cfg.PORSeed, cfg.ResetSyncStages),
		lockSync: clockdomain.NewSynchronizer(cfg.SyncStages),
	}

	// the por domain is clocked by the system clock and is reset by the reset
	// synchronizer. it is ticked before the system domain so that the system
	// reset is released on the same edge that the counter reaches zero
	crg.POR = clockdomain.NewDomain("por", sys, crg.seq.sync)
	crg.POR.Add(crg.porProcess)

	crg.Sys = clockdomain.NewDomain("sys", sys, sysReset{crg: crg})
	crg.Sys.Add(crg.sysProcess)

	crg.domains = []*clockdomain.Domain{crg.POR, crg.Sys}

	for _, c := range cfg.Channels {
		ch, err := crg.newChannel(c, plt, full, half, shifted, sys)
		if err != nil {
			return nil, err
		}
		crg.Channels = append(crg.Channels, ch)
		crg.domains = append(crg.domains, ch.FullWr, ch.FullRd, ch.Half)
	}

	crg.elaborate(nl, clk)
	if err := nl.Err(); err != nil {
		return nil, err
	}

	return crg, nil
}

func (crg *CRG) newChannel(c config.Channel, plt *platform.Platform, full, half, shifted, sys clocks.Periodic) (*ChannelClocks, error) {
	pin, err := plt.Request(c.ClockPads)
	if err != nil {
		return nil, curated.Errorf(InvalidClocking, fmt.Sprintf("channel %s", c.Name), err)
	}

	bp, err := NewBufPLL(fmt.Sprintf("sdram_full_bufpll_%s", c.Name), DivideBufPLL, full, sys, crg.pll)
	if err != nil {
		return nil, err
	}

	ch := &ChannelClocks{
		Name:        c.Name,
		BufPLL:      bp,
		HalfShifted: shifted,
		WrStrobe:    bp.Strobe(),
		pin:         pin,
	}
	ch.RdStrobe = ch.WrStrobe

	ch.FullWr = clockdomain.NewDomain(fmt.Sprintf("sdram_full_wr_%s", c.Name), bp.IOClock(), clockdomain.NoReset)
	ch.FullRd = clockdomain.NewDomain(fmt.Sprintf("sdram_full_rd_%s", c.Name), ch.FullWr.Clk, clockdomain.NoReset)
	ch.Half = clockdomain.NewDomain(fmt.Sprintf("sdram_half_%s", c.Name), half, clockdomain.NoReset)

	ch.ODDR2 = ODDR2{D0: true, D1: false, C0: ch.HalfShifted}
	ch.MemClock = DiffClock{I: ch.ODDR2}

	return ch, nil
}

func (crg *CRG) elaborate(nl *netlist.Netlist, clk *platform.Signal) {
	nl.Instantiate("IBUFG", "clk125_ibufg").
		I("I", clk.Name).
		O("O", "clk125a")

	nl.Instantiate("BUFIO2", "clk125_bufio2").
		P("DIVIDE", 1).
		P("DIVIDE_BYPASS", "TRUE").
		P("I_INVERT", "FALSE").
		I("I", "clk125a").
		O("DIVCLK", "clk125b")

	pcfg := crg.pll.Config()
	b := nl.Instantiate("PLL_ADV", "crg_pll_adv").
		P("SIM_DEVICE", "SPARTAN6").
		P("BANDWIDTH", "OPTIMIZED").
		P("COMPENSATION", "INTERNAL").
		P("DIVCLK_DIVIDE", pcfg.DivClk).
		P("CLKIN1_PERIOD", pcfg.RefPeriod).
		P("CLKFBOUT_MULT", pcfg.Mult).
		P("CLK_FEEDBACK", "CLKFBOUT")
	for i, o := range pcfg.Outputs {
		b.P(fmt.Sprintf("CLKOUT%d_DIVIDE", i), o.Divide).
			P(fmt.Sprintf("CLKOUT%d_PHASE", i), o.Phase).
			P(fmt.Sprintf("CLKOUT%d_DUTY_CYCLE", i), o.Duty)
	}
	b.I("CLKIN1", "clk125b").
		I("CLKFBIN", "pll_fb").
		O("CLKFBOUT", "pll_fb").
		O("LOCKED", "pll_lckd")
	for i, o := range pcfg.Outputs {
		b.O(fmt.Sprintf("CLKOUT%d", i), fmt.Sprintf("unbuf_%s", o.Name))
	}

	nl.Instantiate("BUFG", "sys_bufg").
		I("I", "unbuf_sys").
		O("O", "sys_clk")

	nl.Instantiate("AsyncResetSynchronizer", "por_rst_sync").
		P("STAGES", crg.seq.sync.Stages()).
		I("CLK", "sys_clk").
		I("ASYNC_RESET", "reset_cause").
		O("RST", "por_rst")

	nl.Instantiate("PORCounter", "por").
		P("WIDTH", crg.cfg.PORBits).
		P("SEED", crg.cfg.PORSeed).
		I("CLK", "sys_clk").
		I("RST", "por_rst").
		O("RST_OUT", "sys_rst")

	for _, ch := range crg.Channels {
		n := ch.Name

		nl.Instantiate("BUFPLL", ch.BufPLL.Name).
			P("DIVIDE", ch.BufPLL.Divide).
			I("PLLIN", "unbuf_sdram_full").
			I("GCLK", "sys_clk").
			I("LOCKED", "pll_lckd").
			O("IOCLK", fmt.Sprintf("sdram_full_wr_%s_clk", n)).
			O("SERDESSTROBE", fmt.Sprintf("clk4x_wr_strb_%s", n))

		nl.Instantiate("BUFG", fmt.Sprintf("sdram_half_bufg_%s", n)).
			I("I", "unbuf_sdram_half").
			O("O", fmt.Sprintf("sdram_half_%s_clk", n))

		nl.Instantiate("BUFG", fmt.Sprintf("sdram_half_shifted_bufg_%s", n)).
			I("I", "unbuf_sdram_half_shifted").
			O("O", fmt.Sprintf("clk_sdram_half_shifted_%s", n))

		nl.Instantiate("ODDR2", fmt.Sprintf("ddram_clock_oddr2_%s", n)).
			P("DDR_ALIGNMENT", "NONE").
			P("INIT", 0).
			P("SRTYPE", "SYNC").
			I("D0", "1'b1").
			I("D1", "1'b0").
			I("C0", fmt.Sprintf("clk_sdram_half_shifted_%s", n)).
			I("C1", fmt.Sprintf("~clk_sdram_half_shifted_%s", n)).
			O("Q", fmt.Sprintf("output_clk_%s", n))

		nl.Instantiate("OBUFDS", fmt.Sprintf("ddram_clock_obufds_%s", n)).
			I("I", fmt.Sprintf("output_clk_%s", n)).
			O("O", fmt.Sprintf("%s_p", ch.pin.Name)).
			O("OB", fmt.Sprintf("%s_n", ch.pin.Name))
	}
}

// porProcess runs on every edge of the por domain.
func (crg *CRG) porProcess(t clocks.Step, _ bool) {
	prev := crg.seq.state
	crg.seq.clock(crg.causes(t) != 0)
	if prev != Deasserted && crg.seq.state == Deasserted {
		logger.Logf(logger.Allow, "crg", "system reset released at %s", crg.pll.Timebase().Format(t))
	}
}

// sysProcess runs on every edge of the system domain.
func (crg *CRG) sysProcess(t clocks.Step, reset bool) {
	crg.lockSync.Clock(crg.pll.Locked(t))
	if reset {
		crg.softReq = false
	}
}

// causes returns the reset causes present at step t.
func (crg *CRG) causes(t clocks.Step) Cause {
	var c Cause
	if crg.pinAsserted {
		c |= CausePin
	}
	if crg.softReq {
		c |= CauseSoftware
	}
	if !crg.pll.Locked(t) {
		c |= CauseLockLoss
	}
	return c
}

// assert the system reset for the causes. happens independently of any clock.
func (crg *CRG) assert(c Cause) {
	if crg.seq.state != Asserted {
		crg.resets++
		logger.Logf(logger.Allow, "crg", "system reset asserted (%s)", c)
	}
	crg.seq.assert()
}

// Step advances the CRG to step t. Asynchronous reset causes are applied
// first and then every clock domain with a rising edge at t is ticked.
// Steps must be supplied in increasing order.
func (crg *CRG) Step(t clocks.Step) {
	crg.now = t

	if c := crg.causes(t); c != 0 {
		crg.assert(c)
	}

	for _, d := range crg.domains {
		d.Tick(t)
	}

	for _, ch := range crg.Channels {
		ch.pin.Drive(ch.MemClock.Level(t))
	}
}

// Now returns the most recent step given to Step().
func (crg *CRG) Now() clocks.Step {
	return crg.now
}

// PressReset asserts the reset pin. The pin remains asserted until
// ReleaseReset() is called.
func (crg *CRG) PressReset() {
	crg.pinAsserted = true
	crg.assert(CausePin)
}

// ReleaseReset deasserts the reset pin.
func (crg *CRG) ReleaseReset() {
	crg.pinAsserted = false
}

// ResetPin returns the level of the cpu_reset pin.
func (crg *CRG) ResetPin() bool {
	// active low
	return !crg.pinAsserted
}

// RequestReset is the software reset request. The request is cleared once
// the system domain is in reset.
func (crg *CRG) RequestReset() {
	crg.softReq = true
	crg.assert(CauseSoftware)
}

// LoseLock forces the PLL out of lock. Lock is not regained until Relock()
// is called.
func (crg *CRG) LoseLock() {
	crg.pll.Unlock()
	crg.assert(CauseLockLoss)
}

// Relock releases the PLL at step t.
func (crg *CRG) Relock(t clocks.Step) {
	crg.pll.Relock(t)
}

// PLL returns the PLL instance.
func (crg *CRG) PLL() *pll.PLL {
	return crg.pll
}

// Timebase returns the timebase of the CRG.
func (crg *CRG) Timebase() clocks.Timebase {
	return crg.pll.Timebase()
}

// SysReset returns true if the system reset is asserted.
func (crg *CRG) SysReset() bool {
	return crg.Sys.InReset()
}

// State returns the current state of the reset sequencer.
func (crg *CRG) State() State {
	return crg.seq.state
}

// PORCount returns the current value of the power-on reset counter.
func (crg *CRG) PORCount() int {
	return crg.seq.por
}

// Status returns the status of the CRG.
func (crg *CRG) Status() Status {
	return Status{
		Locked: crg.lockSync.Out(),
		State:  crg.seq.state,
		POR:    crg.seq.por,
		Resets: crg.resets,
	}
}

// Domains returns every clock domain produced by the CRG.
func (crg *CRG) Domains() []*clockdomain.Domain {
	return crg.domains
}

// Domain returns the named clock domain.
func (crg *CRG) Domain(name string) (*clockdomain.Domain, error) {
	for _, d := range crg.domains {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, curated.Errorf(UnknownDomain, name)
}

// Channel returns the clocks of the named channel.
func (crg *CRG) Channel(name string) (*ChannelClocks, error) {
	for _, ch := range crg.Channels {
		if ch.Name == name {
			return ch, nil
		}
	}
	return nil, curated.Errorf(UnknownChannel, name)
}
