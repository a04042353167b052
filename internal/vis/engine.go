package vis

import (
	"log"
	"math/rand"
	"sync"
	"time"
)

// EngineConfig configures a visual-feedback engine instance.
// Zero-valued fields fall back to production defaults, so tests can
// set only what they care about.
type EngineConfig struct {
	TickRate     int // ticks (frames) per second
	CanvasWidth  int
	CanvasHeight int
	BlobDiameter float64

	Motion       MotionConfig
	Contribution ContributionConfig
	Blob         BlobConfig
	Amoeba       AmoebaOptions
	Limits       Limits

	Seed  int64 // deterministic RNG seed; 0 means time-based
	Clock Clock // nil means wall clock
}

// Engine is the visual-feedback engine: it owns the generator entities,
// the blob animation state, and the per-frame tick loop, and publishes
// immutable frame snapshots for the render layer.
//
// Concurrency model: all mutation happens under mu from the tick loop
// and the click/update entry points; readers use the lock-free snapshot
// pool. Within one tick the order is fixed: motion update, emission
// check, timestamp commit, blob tick, contour, snapshot publish.
type Engine struct {
	mu sync.RWMutex

	cfg    EngineConfig
	center Vec2

	// External game state, pushed in read-only via SetGenerators
	records      map[string]GeneratorRecord
	catalog      map[string]string
	currentLevel string
	totalOutput  float64

	entities []GeneratorVisualEntity

	motion  *MotionSimulator
	emitter *FloatingNumberEmitter
	blob    *BlobAnimationStateMachine

	tickRate  int
	running   bool
	ticker    *time.Ticker
	stopChan  chan struct{}
	tickCount int64
	startTime time.Time

	// Deterministic RNG for reproducible trajectories
	rng     *rand.Rand
	rngSeed int64
	clock   Clock

	snapshotPool *SnapshotPool
	eventLog     *EventLog

	// Callbacks
	onTick    func(time.Duration)
	OnCallout func(FloatingNumberEvent)
}

// NewEngine creates an engine with defaults filled in for zero-valued
// config fields.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30
	}
	if cfg.CanvasWidth <= 0 {
		cfg.CanvasWidth = 1280
	}
	if cfg.CanvasHeight <= 0 {
		cfg.CanvasHeight = 720
	}
	if cfg.BlobDiameter <= 0 {
		cfg.BlobDiameter = 280
	}
	if cfg.Motion == (MotionConfig{}) {
		cfg.Motion = DefaultMotionConfig()
	}
	if cfg.Contribution.Colors[0] == "" {
		cfg.Contribution = DefaultContributionConfig()
	}
	if cfg.Blob.BaseColor == "" {
		cfg.Blob = DefaultBlobConfig()
	}
	if cfg.Limits == (Limits{}) {
		cfg.Limits = DefaultLimits()
	}
	if cfg.Amoeba == (AmoebaOptions{}) {
		cfg.Amoeba = DefaultAmoebaOptions()
		cfg.Amoeba.Samples = cfg.Limits.ContourSamples
		cfg.Amoeba.BreathingAmplitude = cfg.Blob.BreathingAmplitude
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	clock := cfg.Clock

	e := &Engine{
		cfg:          cfg,
		center:       Vec2{X: float64(cfg.CanvasWidth) / 2, Y: float64(cfg.CanvasHeight) / 2},
		records:      make(map[string]GeneratorRecord),
		catalog:      make(map[string]string),
		tickRate:     cfg.TickRate,
		stopChan:     make(chan struct{}),
		rng:          rng,
		rngSeed:      seed,
		clock:        clock,
		startTime:    clock.Now(),
		motion:       NewMotionSimulator(cfg.Motion, rng),
		emitter:      NewFloatingNumberEmitter(cfg.Contribution),
		blob:         NewBlobStateMachine(cfg.Blob, rng, clock),
		snapshotPool: NewSnapshotPool(cfg.Limits),
		eventLog:     NewEventLog(),
	}

	// Publish an initial empty frame so readers never see a nil state.
	e.mu.Lock()
	e.produceSnapshot(nil, GenerateAmoebaPath(cfg.BlobDiameter, e.blob.State(), cfg.Amoeba))
	e.mu.Unlock()

	return e
}

// Start begins the frame loop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.Tick()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("🫧 Visual engine started at %d TPS", e.tickRate)
}

// Stop stops the frame loop. Unflushed ripple/boost values are lost,
// which is acceptable: they are cosmetic and regenerate on resume.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Visual engine stopped")
}

// Tick advances one frame. Exported so a host render loop (or a test)
// can drive frames directly instead of using the internal ticker.
func (e *Engine) Tick() {
	started := time.Now()

	e.mu.Lock()

	e.tickCount++
	deltaTime := 1.0 / float64(e.tickRate)
	now := e.clock.Now()
	elapsed := now.Sub(e.startTime).Seconds()

	e.eventLog.EmitSimple(EventTypeTick, uint64(e.tickCount), "",
		TickPayload{
			RNGSeed:     e.rngSeed,
			EntityCount: len(e.entities),
			DeltaTimeNs: int64(deltaTime * 1e9),
		})

	// Advance RNG seed deterministically for replay
	e.rngSeed = e.rng.Int63()
	e.rng.Seed(e.rngSeed)

	// Fixed per-frame ordering: motion before emission check, emission
	// check before timestamp commit. Reordering these double-emits or
	// misses emissions.
	e.entities = AdvanceAll(e.entities, elapsed, deltaTime)

	events := e.emitter.Check(e.entities, e.center, e.totalOutput, now)
	if len(events) > 0 {
		for _, ent := range e.entities {
			if emissionDue(ent, now) {
				e.eventLog.EmitSimple(EventTypeCallout, uint64(e.tickCount), ent.ID,
					CalloutPayload{EntityID: ent.ID, Value: ent.TotalEffect})
			}
		}
	}
	e.entities = e.emitter.Commit(e.entities, now)

	e.blob.Tick(deltaTime)

	contour := GenerateAmoebaPath(e.cfg.BlobDiameter, e.blob.State(), e.cfg.Amoeba)

	e.produceSnapshot(events, contour)

	onTick := e.onTick
	onCallout := e.OnCallout
	e.mu.Unlock()

	if onCallout != nil {
		for _, ev := range events {
			go onCallout(ev)
		}
	}
	if onTick != nil {
		onTick(time.Since(started))
	}
}

// SetGenerators replaces the external game state driving the
// visualization: generator records, the display-name catalog, the
// player's current level and the aggregate output rate. Triggers a
// regroup and respawn; entities whose identity survives keep their
// position, velocity, wave profile and emission timestamp so a level-up
// does not visually teleport everything.
func (e *Engine) SetGenerators(records map[string]GeneratorRecord, catalog map[string]string, currentLevel string, totalOutput float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.records = make(map[string]GeneratorRecord, len(records))
	for id, rec := range records {
		e.records[id] = rec
	}
	e.catalog = make(map[string]string, len(catalog))
	for id, name := range catalog {
		e.catalog[id] = name
	}
	e.currentLevel = currentLevel
	e.totalOutput = totalOutput

	previous := make(map[string]GeneratorVisualEntity, len(e.entities))
	for _, ent := range e.entities {
		previous[ent.ID] = ent
	}

	now := e.clock.Now()
	grouping := GroupGenerators(e.records, currentLevel)
	individual := e.motion.SpawnIndividual(grouping.Current, e.catalog, e.cfg.BlobDiameter, now)
	stacked := e.motion.SpawnStacked(grouping.StackOrder, grouping.Stacks, e.catalog, e.cfg.BlobDiameter, now)

	entities := make([]GeneratorVisualEntity, 0, len(individual)+len(stacked))
	for _, ent := range append(individual, stacked...) {
		if prev, ok := previous[ent.ID]; ok && prev.Kind == ent.Kind {
			ent.Position = prev.Position
			ent.Velocity = prev.Velocity
			ent.Wave = prev.Wave
			ent.LastEmission = prev.LastEmission
		}
		entities = append(entities, ent)
	}
	e.entities = entities

	e.eventLog.EmitSimple(EventTypeRegroup, uint64(e.tickCount), "",
		RegroupPayload{
			CurrentLevel: currentLevel,
			Individual:   len(individual),
			Stacked:      len(stacked),
		})
}

// ClickDown injects a press at the given screen coordinates.
func (e *Engine) ClickDown(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.blob.ClickDown(x, y)
	st := e.blob.State()
	e.eventLog.EmitSimple(EventTypeClickDown, uint64(e.tickCount), "",
		ClickPayload{X: x, Y: y, ClickHeat: st.ClickHeat})
}

// ClickUp releases the press.
func (e *Engine) ClickUp() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.blob.ClickUp()
	e.eventLog.EmitSimple(EventTypeClickUp, uint64(e.tickCount), "", nil)
}

// GetSnapshot returns the latest immutable frame snapshot for lock-free
// render access. This is the preferred read path.
func (e *Engine) GetSnapshot() *FrameSnapshot {
	return e.snapshotPool.AcquireRead()
}

// produceSnapshot fills the next write slot. Caller holds mu.
func (e *Engine) produceSnapshot(events []FloatingNumberEvent, contour []Vec2) {
	limits := e.snapshotPool.GetLimits()
	snap := e.snapshotPool.AcquireWrite()

	snap.TickNumber = uint64(e.tickCount)

	for _, ent := range e.entities {
		if len(snap.Entities) >= limits.MaxEntities {
			break
		}
		tier := e.cfg.Contribution.Classify(ent.TotalEffect, e.totalOutput)
		snap.Entities = append(snap.Entities, EntitySnapshot{
			ID:          ent.ID,
			Kind:        ent.Kind.String(),
			Icon:        ent.Icon,
			X:           ent.Position.X,
			Y:           ent.Position.Y,
			Count:       ent.Count,
			TotalEffect: ent.TotalEffect,
			Tier:        tier.String(),
			Color:       e.cfg.Contribution.Color(tier),
		})
	}

	for _, ev := range events {
		if len(snap.Callouts) >= limits.MaxCallouts {
			break
		}
		snap.Callouts = append(snap.Callouts, ev)
	}

	snap.Contour = append(snap.Contour, contour...)

	st := e.blob.State()
	snap.FillColor = e.blob.FillColor()
	snap.StrokeColor = e.blob.StrokeColor()
	snap.BreathingPhase = st.BreathingPhase
	snap.ClickBoost = st.ClickBoost
	snap.ClickHeat = st.ClickHeat
	snap.Pressure = st.Pressure
	snap.RipplePhase = st.RipplePhase
	snap.RippleIntensity = st.RippleIntensity
	snap.ClicksPerMinute = e.blob.ClicksPerMinute()
	snap.TotalOutput = e.totalOutput
	snap.EntityCount = len(e.entities)

	e.snapshotPool.PublishWrite()
}

// Entities returns a copy of the current visual entities. Intended for
// tests and diagnostics; the render path uses GetSnapshot.
func (e *Engine) Entities() []GeneratorVisualEntity {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]GeneratorVisualEntity(nil), e.entities...)
}

// EntityCount returns the current simulation entity count. Unlike the
// snapshot's count, this reflects a regroup before the next tick
// publishes a frame.
func (e *Engine) EntityCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entities)
}

// Stats returns aggregate engine statistics for the API layer.
func (e *Engine) Stats() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return map[string]interface{}{
		"tickCount":       e.tickCount,
		"tickRate":        e.tickRate,
		"entityCount":     len(e.entities),
		"totalOutput":     e.totalOutput,
		"currentLevel":    e.currentLevel,
		"clicksPerMinute": e.blob.ClicksPerMinute(),
		"eventLog":        e.eventLog.GetStats(),
	}
}

// SetTickCallback registers a hook invoked with each tick's duration
// (used to feed metrics).
func (e *Engine) SetTickCallback(fn func(time.Duration)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = fn
}

// StartEventLog initializes the event logging system
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog gracefully stops the event logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns event log statistics for monitoring
func (e *Engine) GetEventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}

// GetLimits returns the current resource limits
func (e *Engine) GetLimits() Limits {
	return e.cfg.Limits
}
