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

// Package netlist records the FPGA primitives instantiated while the board is
// elaborated. Each instance has a kind (eg. PLL_ADV, BUFPLL), a unique name,
// an ordered list of parameters and an ordered list of port connections.
//
// The netlist is not used to drive the simulation. It is a record of what was
// built, suitable for checking (see Validate()) and for printing.
package netlist

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/zeroclient/panog2/curated"
)

// Sentinal error patterns.
const (
	DuplicateInstance = "netlist: duplicate instance (%s)"
	MultipleDrivers   = "netlist: net %s: driven by %s and %s"
	UnknownInstance   = "netlist: no instance named %s"
)

// Direction of a port.
type Direction int

// List of valid Direction values.
const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// Param is a single named parameter of an instance.
type Param struct {
	Name  string
	Value interface{}
}

func (p Param) String() string {
	switch v := p.Value.(type) {
	case string:
		return fmt.Sprintf("%s=%q", p.Name, v)
	case float64:
		return fmt.Sprintf("%s=%g", p.Name, v)
	}
	return fmt.Sprintf("%s=%v", p.Name, p.Value)
}

// Port connects a pin of an instance to a net.
type Port struct {
	Name string
	Dir  Direction
	Net  string
}

// Instance of a primitive.
type Instance struct {
	Kind   string
	Name   string
	Params []Param
	Ports  []Port
}

// Param returns the value of the named parameter.
func (inst *Instance) Param(name string) (interface{}, bool) {
	for _, p := range inst.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Net returns the net connected to the named port.
func (inst *Instance) Net(port string) (string, bool) {
	for _, p := range inst.Ports {
		if p.Name == port {
			return p.Net, true
		}
	}
	return "", false
}

func (inst *Instance) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s %s", inst.Kind, inst.Name))
	if len(inst.Params) > 0 {
		p := make([]string, len(inst.Params))
		for i := range inst.Params {
			p[i] = inst.Params[i].String()
		}
		s.WriteString(fmt.Sprintf(" #(%s)", strings.Join(p, ", ")))
	}
	return s.String()
}

// Builder is used to construct an instance with a fluent style.
type Builder struct {
	inst *Instance
}

// P adds a parameter to the instance.
func (b Builder) P(name string, value interface{}) Builder {
	b.inst.Params = append(b.inst.Params, Param{Name: name, Value: value})
	return b
}

// I connects an input port of the instance.
func (b Builder) I(name string, net string) Builder {
	b.inst.Ports = append(b.inst.Ports, Port{Name: name, Dir: In, Net: net})
	return b
}

// O connects an output port of the instance.
func (b Builder) O(name string, net string) Builder {
	b.inst.Ports = append(b.inst.Ports, Port{Name: name, Dir: Out, Net: net})
	return b
}

// Instance returns the instance being built.
func (b Builder) Instance() *Instance {
	return b.inst
}

// Netlist is the collection of instances.
type Netlist struct {
	instances []*Instance
	names     map[string]*Instance

	// first error encountered by Instantiate()
	err error
}

// NewNetlist is the preferred method of initialisation for the Netlist type.
func NewNetlist() *Netlist {
	return &Netlist{
		names: make(map[string]*Instance),
	}
}

// Add a new instance of a primitive. The instance is filled in with the
// returned Builder. An error is returned if the name is already in use.
func (nl *Netlist) Add(kind string, name string) (Builder, error) {
	if _, ok := nl.names[name]; ok {
		return Builder{}, curated.Errorf(DuplicateInstance, name)
	}
	inst := &Instance{Kind: kind, Name: name}
	nl.instances = append(nl.instances, inst)
	nl.names[name] = inst
	return Builder{inst: inst}, nil
}

// Instantiate is the same as Add() except that the error is deferred. If the
// name is already in use the returned Builder fills in an instance that is
// not part of the netlist. The first error can be retrieved with Err().
func (nl *Netlist) Instantiate(kind string, name string) Builder {
	b, err := nl.Add(kind, name)
	if err != nil {
		if nl.err == nil {
			nl.err = err
		}
		return Builder{inst: &Instance{Kind: kind, Name: name}}
	}
	return b
}

// Err returns the first error encountered by Instantiate().
func (nl *Netlist) Err() error {
	return nl.err
}

// Len returns the number of instances in the netlist.
func (nl *Netlist) Len() int {
	return len(nl.instances)
}

// Instances returns the instances in the order they were added.
func (nl *Netlist) Instances() []*Instance {
	return nl.instances
}

// Lookup returns the named instance.
func (nl *Netlist) Lookup(name string) (*Instance, error) {
	if inst, ok := nl.names[name]; ok {
		return inst, nil
	}
	return nil, curated.Errorf(UnknownInstance, name)
}

// Kind returns all instances of a primitive kind.
func (nl *Netlist) Kind(kind string) []*Instance {
	var k []*Instance
	for _, inst := range nl.instances {
		if inst.Kind == kind {
			k = append(k, inst)
		}
	}
	return k
}

// Driver returns the instance driving the net. The second return value is
// false if nothing inside the netlist drives the net, which is normal for
// nets that come from a pad.
func (nl *Netlist) Driver(net string) (*Instance, bool) {
	for _, inst := range nl.instances {
		for _, p := range inst.Ports {
			if p.Dir == Out && p.Net == net {
				return inst, true
			}
		}
	}
	return nil, false
}

// Loads returns the names of the instances with an input connected to the
// net.
func (nl *Netlist) Loads(net string) []string {
	var l []string
	for _, inst := range nl.instances {
		for _, p := range inst.Ports {
			if p.Dir == In && p.Net == net {
				l = append(l, inst.Name)
				break
			}
		}
	}
	return l
}

// Validate checks that no net has more than one driver.
func (nl *Netlist) Validate() error {
	drivers := make(map[string]string)
	for _, inst := range nl.instances {
		for _, p := range inst.Ports {
			if p.Dir != Out || p.Net == "" {
				continue
			}
			if d, ok := drivers[p.Net]; ok {
				return curated.Errorf(MultipleDrivers, p.Net, d, inst.Name)
			}
			drivers[p.Net] = inst.Name
		}
	}
	return nil
}

// Nets returns the sorted list of every net named in the netlist.
func (nl *Netlist) Nets() []string {
	m := make(map[string]bool)
	for _, inst := range nl.instances {
		for _, p := range inst.Ports {
			if p.Net != "" {
				m[p.Net] = true
			}
		}
	}
	n := make([]string, 0, len(m))
	for k := range m {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

// Write the netlist in a readable form.
func (nl *Netlist) Write(output io.Writer) {
	for _, inst := range nl.instances {
		io.WriteString(output, inst.String())
		io.WriteString(output, "\n")
		for _, p := range inst.Ports {
			io.WriteString(output, fmt.Sprintf("    .%-14s %-3s %s\n", p.Name, p.Dir, p.Net))
		}
	}
}
