package memewall

import (
	"fmt"
	"math/rand/v2"
)

// ImagePool tracks which of a fixed, generated set of filenames is on screen.
// A filename can be reserved by at most one element at a time.
type ImagePool struct {
	names    []string
	index    map[string]int
	reserved map[string]bool
}

// NewImagePool generates count filenames of the form prefix00001ext,
// prefix00002ext, and so on.
func NewImagePool(prefix, ext string, count int) *ImagePool {
	if count < 0 {
		count = 0
	}
	p := &ImagePool{
		names:    make([]string, count),
		index:    make(map[string]int, count),
		reserved: make(map[string]bool),
	}
	for i := range count {
		name := fmt.Sprintf("%s%05d%s", prefix, i+1, ext)
		p.names[i] = name
		p.index[name] = i
	}
	return p
}

// Names returns every filename in the pool. The returned slice MUST NOT be mutated.
func (p *ImagePool) Names() []string {
	return p.names
}

// Size returns the number of filenames in the pool.
func (p *ImagePool) Size() int {
	return len(p.names)
}

// Available returns the filenames not currently reserved, in pool order.
func (p *ImagePool) Available() []string {
	out := make([]string, 0, len(p.names)-len(p.reserved))
	for _, name := range p.names {
		if !p.reserved[name] {
			out = append(out, name)
		}
	}
	return out
}

// Pick returns a random available filename, or "" when every filename is
// reserved.
func (p *ImagePool) Pick(rng *rand.Rand) string {
	avail := p.Available()
	if len(avail) == 0 {
		return ""
	}
	return avail[rng.IntN(len(avail))]
}

// Reserve marks name as displayed. It returns false when name is not part
// of the pool or is already reserved.
func (p *ImagePool) Reserve(name string) bool {
	if _, ok := p.index[name]; !ok || p.reserved[name] {
		return false
	}
	p.reserved[name] = true
	return true
}

// Release makes name available again. Releasing an unreserved name is a no-op.
func (p *ImagePool) Release(name string) {
	delete(p.reserved, name)
}

// IsReserved reports whether name is currently displayed.
func (p *ImagePool) IsReserved(name string) bool {
	return p.reserved[name]
}

// Reserved returns the number of filenames currently displayed.
func (p *ImagePool) Reserved() int {
	return len(p.reserved)
}

// Reset releases every reservation.
func (p *ImagePool) Reset() {
	clear(p.reserved)
}
