package sensor

import (
	"errors"
	"time"
)

// HumiditySample is one scripted DHT result.
type HumiditySample struct {
	Humidity float64
	TempC    float64
	Err      error
}

// FakeHumidity is a test double that returns scripted humidity samples.
// Each call to Read consumes the next sample; the last one repeats.
type FakeHumidity struct {
	Samples []HumiditySample
	Calls   int
	index   int
}

// NewFakeHumidity creates a FakeHumidity with the given samples.
func NewFakeHumidity(samples ...HumiditySample) *FakeHumidity {
	return &FakeHumidity{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeHumidity) Read() (float64, float64, error) {
	f.Calls++
	if len(f.Samples) == 0 {
		return 0, 0, errors.New("no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	if s.Err != nil {
		return 0, 0, s.Err
	}
	return s.Humidity, s.TempC, nil
}

// FakeSource is a test double for a w1_slave file.
// Each call to ReadRaw consumes the next content; the last one repeats.
type FakeSource struct {
	Contents []string
	ReadErr  error
	Calls    int
	index    int
}

// NewFakeSource creates a FakeSource with the given file contents.
func NewFakeSource(contents ...string) *FakeSource {
	return &FakeSource{Contents: contents}
}

// ReadRaw returns the next scripted content.
func (f *FakeSource) ReadRaw() ([]byte, error) {
	f.Calls++
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	if len(f.Contents) == 0 {
		return nil, errors.New("no contents configured")
	}
	c := f.Contents[f.index]
	if f.index < len(f.Contents)-1 {
		f.index++
	}
	return []byte(c), nil
}

// NewTestProbe returns a Probe over src whose retry waits are recorded in
// slept instead of blocking. Its clock only moves when it waits, so reads
// take no time.
func NewTestProbe(src Source, slept *[]time.Duration) *Probe {
	p := NewProbe(src)
	var clock time.Time
	p.now = func() time.Time { return clock }
	p.sleep = func(d time.Duration) {
		clock = clock.Add(d)
		if slept != nil {
			*slept = append(*slept, d)
		}
	}
	return p
}
