package renderer

// Band is a contiguous run of image rows rendered by a single worker
type Band struct {
	Index    int // Position of the band from the top of the image
	StartRow int // First row, inclusive
	EndRow   int // Last row, exclusive
}

// Rows returns the number of rows in the band
func (b Band) Rows() int {
	return b.EndRow - b.StartRow
}

// PartitionRows splits [0, height) into at most workers contiguous bands of
// near-equal size. Bands never overlap, never leave a gap and are never empty;
// the first height%workers bands carry one extra row.
func PartitionRows(height, workers int) []Band {
	if height <= 0 {
		return nil
	}
	workers = max(1, min(workers, height))

	base := height / workers
	extra := height % workers

	bands := make([]Band, 0, workers)
	start := 0
	for i := 0; i < workers; i++ {
		rows := base
		if i < extra {
			rows++
		}
		bands = append(bands, Band{Index: i, StartRow: start, EndRow: start + rows})
		start += rows
	}

	return bands
}
