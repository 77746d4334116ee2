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

// Package l2cache is the direct mapped, write-back L2 cache that sits in
// front of a memory controller.
//
// A cache line is as wide as the larger of the controller port and the
// minimum data width. When Reverse is set, the order of the 32 bit words in
// a line is reversed on the way to and from the controller. From the bus the
// reversal is invisible, but the position of each word in the controller's
// memory depends on it.
//
// A cache with a size of zero passes every access straight to the
// controller.
package l2cache

import (
	"fmt"

	"github.com/zeroclient/panog2/curated"
)

// Sentinal error patterns.
const (
	InvalidCache = "l2cache: %v"
	Misaligned   = "l2cache: misaligned address %#08x"
)

// Backend is the memory behind the cache.
type Backend interface {
	ReadWords(address uint32, words []uint32) error
	WriteWords(address uint32, words []uint32) error
}

type line struct {
	valid bool
	dirty bool
	tag   uint32
	data  []uint32
}

// Stats of the cache.
type Stats struct {
	Hits       int
	Misses     int
	Writebacks int
}

func (s Stats) String() string {
	return fmt.Sprintf("hits=%d misses=%d writebacks=%d", s.Hits, s.Misses, s.Writebacks)
}

// Cache is an instance of the L2 cache.
type Cache struct {
	size      int
	lineBytes uint32
	reverse   bool
	backend   Backend

	lines []line

	// scratch line used to transfer data to and from the backend
	xfer []uint32

	stats Stats
}

// NewCache is the preferred method of initialisation for the Cache type. The
// size is in bytes and the widths are in bits.
func NewCache(size int, minDataWidth int, portDataWidth int, reverse bool, backend Backend) (*Cache, error) {
	width := portDataWidth
	if minDataWidth > width {
		width = minDataWidth
	}
	if width < 32 || width&(width-1) != 0 {
		return nil, curated.Errorf(InvalidCache, fmt.Sprintf("line width (%d bits) is not a power of two of at least 32", width))
	}

	c := &Cache{
		size:      size,
		lineBytes: uint32(width / 8),
		reverse:   reverse,
		backend:   backend,
	}

	if size == 0 {
		return c, nil
	}

	if size&(size-1) != 0 {
		return nil, curated.Errorf(InvalidCache, fmt.Sprintf("size (%d) is not a power of two", size))
	}
	if uint32(size) < c.lineBytes {
		return nil, curated.Errorf(InvalidCache, fmt.Sprintf("size (%d) is smaller than a line (%d bytes)", size, c.lineBytes))
	}

	words := int(c.lineBytes / 4)
	c.lines = make([]line, uint32(size)/c.lineBytes)
	for i := range c.lines {
		c.lines[i].data = make([]uint32, words)
	}
	c.xfer = make([]uint32, words)

	return c, nil
}

func (c *Cache) String() string {
	if c.size == 0 {
		return "no cache"
	}
	return fmt.Sprintf("%d bytes, %d lines of %d bytes, reverse=%v", c.size, len(c.lines), c.lineBytes, c.reverse)
}

// LineBytes returns the size of a cache line in bytes.
func (c *Cache) LineBytes() uint32 {
	return c.lineBytes
}

// Stats returns the cache statistics.
func (c *Cache) Stats() Stats {
	return c.stats
}

func (c *Cache) index(address uint32) (*line, uint32, int) {
	lineAddr := address / c.lineBytes
	l := &c.lines[lineAddr%uint32(len(c.lines))]
	tag := lineAddr / uint32(len(c.lines))
	word := int(address%c.lineBytes) / 4
	return l, tag, word
}

func (c *Cache) lineAddress(tag uint32, idx int) uint32 {
	return (tag*uint32(len(c.lines)) + uint32(idx)) * c.lineBytes
}

// toBackend copies a cache line to the transfer buffer, applying the word
// reversal.
func (c *Cache) toBackend(l *line) {
	n := len(l.data)
	for i := range l.data {
		if c.reverse {
			c.xfer[n-1-i] = l.data[i]
		} else {
			c.xfer[i] = l.data[i]
		}
	}
}

func (c *Cache) fromBackend(l *line) {
	n := len(l.data)
	for i := range l.data {
		if c.reverse {
			l.data[i] = c.xfer[n-1-i]
		} else {
			l.data[i] = c.xfer[i]
		}
	}
}

func (c *Cache) writeback(l *line, idx int) error {
	if !l.valid || !l.dirty {
		return nil
	}
	c.toBackend(l)
	if err := c.backend.WriteWords(c.lineAddress(l.tag, idx), c.xfer); err != nil {
		return err
	}
	l.dirty = false
	c.stats.Writebacks++
	return nil
}

// fetch makes sure the line for the address is in the cache.
func (c *Cache) fetch(address uint32) (*line, int, error) {
	l, tag, word := c.index(address)

	if l.valid && l.tag == tag {
		c.stats.Hits++
		return l, word, nil
	}

	c.stats.Misses++

	idx := int((address / c.lineBytes) % uint32(len(c.lines)))
	if err := c.writeback(l, idx); err != nil {
		return nil, 0, err
	}

	base := address - address%c.lineBytes
	if err := c.backend.ReadWords(base, c.xfer); err != nil {
		return nil, 0, err
	}
	c.fromBackend(l)
	l.valid = true
	l.dirty = false
	l.tag = tag

	return l, word, nil
}

// Read32 reads the 32 bit word at address.
func (c *Cache) Read32(address uint32) (uint32, error) {
	if address%4 != 0 {
		return 0, curated.Errorf(Misaligned, address)
	}

	if c.size == 0 {
		w := []uint32{0}
		err := c.backend.ReadWords(address, w)
		return w[0], err
	}

	l, word, err := c.fetch(address)
	if err != nil {
		return 0, err
	}
	return l.data[word], nil
}

// Write32 writes the 32 bit word at address.
func (c *Cache) Write32(address uint32, v uint32) error {
	if address%4 != 0 {
		return curated.Errorf(Misaligned, address)
	}

	if c.size == 0 {
		return c.backend.WriteWords(address, []uint32{v})
	}

	l, word, err := c.fetch(address)
	if err != nil {
		return err
	}
	l.data[word] = v
	l.dirty = true
	return nil
}

// Flush writes every dirty line to the backend.
func (c *Cache) Flush() error {
	for i := range c.lines {
		if err := c.writeback(&c.lines[i], i); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate discards the contents of the cache without writing dirty lines
// to the backend.
func (c *Cache) Invalidate() {
	for i := range c.lines {
		c.lines[i].valid = false
		c.lines[i].dirty = false
	}
}
