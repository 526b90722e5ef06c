package renderer

import (
	"bytes"
	"sort"
	"sync"
)

// bandResult is the encoded output of one finished band
type bandResult struct {
	StartRow int
	Data     []byte
}

// bandCollector gathers band results from concurrent workers. Results arrive
// in completion order and are put back in row order by Assemble.
type bandCollector struct {
	mu      sync.Mutex
	results []bandResult
}

func newBandCollector(capacity int) *bandCollector {
	return &bandCollector{results: make([]bandResult, 0, capacity)}
}

// Add records a finished band
func (c *bandCollector) Add(startRow int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, bandResult{StartRow: startRow, Data: data})
}

// Assemble concatenates every band's output sorted by start row
func (c *bandCollector) Assemble() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	sort.Slice(c.results, func(i, j int) bool {
		return c.results[i].StartRow < c.results[j].StartRow
	})

	size := 0
	for _, r := range c.results {
		size += len(r.Data)
	}

	var buf bytes.Buffer
	buf.Grow(size)
	for _, r := range c.results {
		buf.Write(r.Data)
	}
	return buf.Bytes()
}

// renderBands runs render once per band, each on its own goroutine, and
// returns the outputs joined top to bottom. A panic in any worker is fatal.
func renderBands(bands []Band, render func(Band) []byte) []byte {
	collector := newBandCollector(len(bands))

	var wg sync.WaitGroup
	for _, band := range bands {
		wg.Add(1)
		go func(band Band) {
			defer wg.Done()
			collector.Add(band.StartRow, render(band))
		}(band)
	}
	wg.Wait()

	return collector.Assemble()
}
