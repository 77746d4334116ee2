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

// Package preferences holds the user preferences of the simulation. Unlike
// the config package, which describes the board, these values only affect
// how the simulation is run and are saved between sessions.
package preferences

import (
	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/paths"
	"github.com/zeroclient/panog2/prefs"
)

// Default values.
const (
	DefaultRunCycles  = 10000
	DefaultTraceSteps = 8000
	DefaultEcho       = false
)

// Preferences defines and collates all the preference values used by the
// simulation.
type Preferences struct {
	dsk *prefs.Disk

	// number of system clock cycles in a RUN
	RunCycles prefs.Int

	// number of timebase steps recorded by TRACE
	TraceSteps prefs.Int

	// echo log entries to the terminal as they are logged
	Echo prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Preferences are stored in the application's resource
// directory.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesFromFile(pth)
}

// NewPreferencesFromFile is the same as NewPreferences() but with the
// preferences stored in the named file.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	p.RunCycles.SetRange(1, 1<<30)
	p.TraceSteps.SetRange(1, 1<<24)

	var err error

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("sim.runcycles", &p.RunCycles)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("sim.tracesteps", &p.TraceSteps)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("sim.echo", &p.Echo)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Load(true)
	if err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	_ = p.RunCycles.Set(DefaultRunCycles)
	_ = p.TraceSteps.Set(DefaultTraceSteps)
	_ = p.Echo.Set(DefaultEcho)
}

// Reset all preferences to the default values.
func (p *Preferences) Reset() error {
	p.SetDefaults()
	return nil
}

// Load current preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
