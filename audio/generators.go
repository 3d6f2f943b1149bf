package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// tone is a sine wave of a fixed length.
type tone struct {
	freq     float64
	phase    float64
	length   int
	position int
	rate     beep.SampleRate
}

func newTone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, length: rate.N(d), rate: rate}
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}
		v := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }

// fade shapes a streamer with a linear attack and release so notes don't
// click when they start and stop.
type fade struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newFade(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &fade{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(d),
	}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if f.position < f.attack {
			vol = float64(f.position) / float64(f.attack)
		}
		if left := f.total - f.position; left < f.release {
			vol = max(0, float64(left)/float64(f.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// withVolume scales s linearly. Zero or less is silence.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

const (
	noteAttack  = 5 * time.Millisecond
	noteRelease = 60 * time.Millisecond
)

func note(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return newFade(newTone(freq, d, rate), d, noteAttack, noteRelease, rate)
}

// lineClearSound is a short rising two note chirp.
func lineClearSound(rate beep.SampleRate) beep.Streamer {
	return withVolume(beep.Seq(
		note(659.25, 80*time.Millisecond, rate),  // E5
		note(987.77, 120*time.Millisecond, rate), // B5
	), lineClearVolume)
}

// multiplierUpSound is an arpeggio, one octave higher at the end.
func multiplierUpSound(rate beep.SampleRate) beep.Streamer {
	return withVolume(beep.Seq(
		note(523.25, 60*time.Millisecond, rate),  // C5
		note(659.25, 60*time.Millisecond, rate),  // E5
		note(783.99, 60*time.Millisecond, rate),  // G5
		note(1046.5, 140*time.Millisecond, rate), // C6
	), multiplierUpVolume)
}
