package vis

import (
	"sync/atomic"
	"time"
)

// Limits caps per-frame snapshot contents so a hostile or runaway game
// state cannot grow render-side allocations without bound.
type Limits struct {
	MaxEntities    int // rendered entity cap per frame
	MaxCallouts    int // floating-number events per frame
	ContourSamples int // amoeba path sample count
}

// DefaultLimits provides production-safe defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxEntities:    200,
		MaxCallouts:    64,
		ContourSamples: 96,
	}
}

// EntitySnapshot is an immutable copy of one visual entity for
// rendering. Value types only.
type EntitySnapshot struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Icon        string  `json:"icon"`
	X           float64 `json:"x"` // relative to blob center
	Y           float64 `json:"y"`
	Count       int     `json:"count"`
	TotalEffect float64 `json:"totalEffect"`
	Tier        string  `json:"tier"`
	Color       string  `json:"color"`
}

// FrameSnapshot is a complete immutable frame for the render layer.
// Slices are pre-allocated and capped; the pool reuses them across
// frames.
type FrameSnapshot struct {
	Sequence   uint64    `json:"sequence"`
	Timestamp  time.Time `json:"timestamp"`
	TickNumber uint64    `json:"tickNumber"`

	Entities []EntitySnapshot      `json:"entities"`
	Callouts []FloatingNumberEvent `json:"callouts"`
	Contour  []Vec2                `json:"contour"`

	FillColor   string `json:"fillColor"`
	StrokeColor string `json:"strokeColor"`

	BreathingPhase  float64 `json:"breathingPhase"`
	ClickBoost      float64 `json:"clickBoost"`
	ClickHeat       float64 `json:"clickHeat"`
	Pressure        float64 `json:"pressure"`
	RipplePhase     float64 `json:"ripplePhase"`
	RippleIntensity float64 `json:"rippleIntensity"`

	ClicksPerMinute float64 `json:"clicksPerMinute"`
	TotalOutput     float64 `json:"totalOutput"`
	EntityCount     int     `json:"entityCount"`
}

// SnapshotPool triple-buffers frames for lock-free producer/consumer
// separation: the tick loop writes, the render layer reads, neither
// blocks the other.
type SnapshotPool struct {
	snapshots [3]FrameSnapshot
	limits    Limits
	writeIdx  uint32 // atomic, producer index
	readIdx   uint32 // atomic, consumer index
	sequence  uint64 // atomic, monotonic sequence
}

// NewSnapshotPool creates a pool with pre-allocated slices.
func NewSnapshotPool(limits Limits) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}
	for i := 0; i < 3; i++ {
		pool.snapshots[i] = FrameSnapshot{
			Entities: make([]EntitySnapshot, 0, limits.MaxEntities),
			Callouts: make([]FloatingNumberEvent, 0, limits.MaxCallouts),
			Contour:  make([]Vec2, 0, limits.ContourSamples+1),
		}
	}
	return pool
}

// AcquireWrite returns the next write slot with reset slices but
// preserved capacity. Producer (tick loop) only.
func (p *SnapshotPool) AcquireWrite() *FrameSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Entities = snap.Entities[:0]
	snap.Callouts = snap.Callouts[:0]
	snap.Contour = snap.Contour[:0]

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite marks the write complete and advances the read pointer.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest complete snapshot. Consumer only.
func (p *SnapshotPool) AcquireRead() *FrameSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// GetLimits returns the pool's resource limits.
func (p *SnapshotPool) GetLimits() Limits {
	return p.limits
}
