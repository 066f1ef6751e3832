// Package sfx plays the link button click.
package sfx

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	clickFreq  = 880.0
	clickLen   = 60 * time.Millisecond
)

// blip is a sine tone with an exponential decay envelope.
type blip struct {
	freq  float64
	rate  beep.SampleRate
	total int
	pos   int
}

func newBlip(freq float64, d time.Duration, rate beep.SampleRate) *blip {
	return &blip{freq: freq, rate: rate, total: rate.N(d)}
}

func (b *blip) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if b.pos >= b.total {
			return i, i > 0
		}
		t := float64(b.pos) / float64(b.rate)
		env := math.Exp(-6 * float64(b.pos) / float64(b.total))
		v := math.Sin(2*math.Pi*b.freq*t) * env
		samples[i][0] = v
		samples[i][1] = v
		b.pos++
	}
	return len(samples), true
}

func (b *blip) Err() error { return nil }

// Player plays short synthesized effects on the default audio device.
type Player struct {
	volume float64
}

// New opens the speaker. volume is in halvings: 0 is full, -1 half.
func New(volume float64) (*Player, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &Player{volume: volume}, nil
}

// Click plays the button click without blocking.
func (p *Player) Click() {
	speaker.Play(p.click())
}

func (p *Player) click() beep.Streamer {
	return &effects.Volume{
		Streamer: newBlip(clickFreq, clickLen, sampleRate),
		Base:     2,
		Volume:   p.volume,
	}
}

// Close releases the audio device.
func (p *Player) Close() {
	speaker.Clear()
	speaker.Close()
}
