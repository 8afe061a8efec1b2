package hardware

import "sync"

type debounced struct {
	in      DigitalInput
	samples int

	lock      sync.Mutex
	primed    bool
	stable    bool
	candidate bool
	count     int
}

// Debounce wraps in so that its reported level only changes after samples
// identical consecutive reads. The first read is taken as is. Read errors are
// returned untouched and do not advance the count.
func Debounce(in DigitalInput, samples int) DigitalInput {
	if samples <= 1 {
		return in
	}
	return &debounced{in: in, samples: samples}
}

func (d *debounced) Read() (bool, error) {
	v, err := d.in.Read()
	if err != nil {
		return false, err
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	if !d.primed {
		d.primed = true
		d.stable = v
		return v, nil
	}

	if v == d.stable {
		d.count = 0
		return d.stable, nil
	}

	if d.count == 0 || v != d.candidate {
		d.candidate = v
		d.count = 1
	} else {
		d.count++
	}

	if d.count >= d.samples {
		d.stable = v
		d.count = 0
	}
	return d.stable, nil
}
