package connpool

// Capacity returns the total size of the pool's buffer in bytes.
func (p *Pool) Capacity() int {
	return len(p.mem)
}

// InUse returns the number of bytes held by front and end blocks, including
// alignment padding and space leaked by relocating reallocations.
func (p *Pool) InUse() int {
	return p.pos + (len(p.mem) - p.end)
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
// Returns 0.0 if the pool has no capacity.
func (p *Pool) Utilization() float64 {
	capacity := p.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(p.InUse()) / float64(capacity)
}

// Backing reports which mechanism owns the pool's buffer.
func (p *Pool) Backing() Backing {
	return p.backing
}

// Metrics returns a snapshot of pool statistics.
func (p *Pool) Metrics() PoolMetrics {
	return PoolMetrics{
		Capacity:    p.Capacity(),
		Front:       p.pos,
		Back:        len(p.mem) - p.end,
		Free:        p.end - p.pos,
		Backing:     p.backing,
		Utilization: p.Utilization(),
	}
}

// PoolMetrics contains statistical information about a pool.
type PoolMetrics struct {
	Capacity    int     // Total capacity in bytes
	Front       int     // Bytes taken from the front
	Back        int     // Bytes taken from the end
	Free        int     // Bytes between the cursors
	Backing     Backing // Heap or mapped
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}
