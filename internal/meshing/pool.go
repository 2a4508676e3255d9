package meshing

import (
	"context"
	"fmt"
	"log"
	"sync"

	"voxelmesh/internal/profiling"
	"voxelmesh/internal/world"
)

// GenerateFunc produces the chunk to mesh: freshly generated data, or a snapshot of an
// existing chunk for a reload. The chunk is owned by the worker until it is published.
// ctx is cancelled when the worker closes.
type GenerateFunc func(ctx context.Context) (*world.Chunk, error)

// Completed is the outcome of one task. Err is set when generation or meshing failed,
// in which case Chunk and Mesh may be nil.
type Completed struct {
	Position world.Position
	Chunk    *world.Chunk
	Mesh     *Mesh
	Err      error
	Cached   bool // mesh reused from the cache
}

// WorkerOptions configures a GenerationWorker.
type WorkerOptions struct {
	MaxConcurrent int        // tasks running at once; values < 1 mean 1
	Logger        *log.Logger // defaults to log.Default()
	Cache         *MeshCache  // optional
}

type generationTask struct {
	pos      world.Position
	generate GenerateFunc
}

// GenerationWorker runs chunk generation and meshing off the caller's goroutine.
// A single loop goroutine starts queued tasks, at most MaxConcurrent at a time, and
// results are collected with TryDequeueCompleted. Completions are unordered.
type GenerationWorker struct {
	maxConcurrent int
	logger        *log.Logger
	cache         *MeshCache

	ctx    context.Context
	cancel context.CancelFunc
	wake   chan struct{}

	mu        sync.Mutex
	tasks     []generationTask
	completed []Completed
	inFlight  int
	closed    bool

	loopDone  sync.WaitGroup
	running   sync.WaitGroup
	closeOnce sync.Once
}

// NewGenerationWorker starts a worker.
func NewGenerationWorker(opts WorkerOptions) *GenerationWorker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &GenerationWorker{
		maxConcurrent: max(opts.MaxConcurrent, 1),
		logger:        opts.Logger,
		cache:         opts.Cache,
		ctx:           ctx,
		cancel:        cancel,
		wake:          make(chan struct{}, 1),
	}
	if w.logger == nil {
		w.logger = log.Default()
	}
	w.loopDone.Add(1)
	go w.loop()
	return w
}

// Enqueue schedules generate for the chunk at pos.
func (w *GenerationWorker) Enqueue(pos world.Position, generate GenerateFunc) error {
	if generate == nil {
		return ErrNilGenerate
	}
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrDisposed
	}
	w.tasks = append(w.tasks, generationTask{pos: pos, generate: generate})
	w.mu.Unlock()
	w.signal()
	return nil
}

// TryDequeueCompleted pops one finished result without blocking.
func (w *GenerationWorker) TryDequeueCompleted() (Completed, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.completed) == 0 {
		return Completed{}, false
	}
	c := w.completed[0]
	w.completed[0] = Completed{}
	w.completed = w.completed[1:]
	return c, true
}

// Pending is the number of queued tasks not yet started.
func (w *GenerationWorker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.tasks)
}

// InFlight is the number of tasks currently running.
func (w *GenerationWorker) InFlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// CompletedLen is the number of results waiting to be dequeued.
func (w *GenerationWorker) CompletedLen() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.completed)
}

// Idle reports whether nothing is queued or running.
func (w *GenerationWorker) Idle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.tasks) == 0 && w.inFlight == 0
}

// Close stops the worker. Running tasks finish and their results stay dequeueable;
// queued tasks that never started are dropped. Close is idempotent.
func (w *GenerationWorker) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		dropped := len(w.tasks)
		w.tasks = nil
		w.mu.Unlock()

		w.cancel()
		w.signal()
		w.loopDone.Wait()
		w.running.Wait()
		if dropped > 0 {
			w.logger.Printf("generation worker closed, dropped %d queued tasks", dropped)
		}
	})
	return nil
}

func (w *GenerationWorker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *GenerationWorker) loop() {
	defer w.loopDone.Done()
	for {
		w.startReady()
		select {
		case <-w.ctx.Done():
			return
		case <-w.wake:
		}
	}
}

// startReady launches queued tasks until the concurrency limit is reached.
func (w *GenerationWorker) startReady() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for !w.closed && len(w.tasks) > 0 && w.inFlight < w.maxConcurrent {
		t := w.tasks[0]
		w.tasks[0] = generationTask{}
		w.tasks = w.tasks[1:]
		w.inFlight++
		w.running.Add(1)
		go w.run(t)
	}
}

func (w *GenerationWorker) run(t generationTask) {
	defer w.running.Done()
	result := w.process(t)
	if result.Err != nil {
		w.logger.Printf("chunk %s: %v", t.pos, result.Err)
	}

	w.mu.Lock()
	w.completed = append(w.completed, result)
	w.inFlight--
	w.mu.Unlock()
	w.signal()
}

func (w *GenerationWorker) process(t generationTask) (result Completed) {
	defer profiling.Track("meshing.GenerationTask")()
	result.Position = t.pos
	defer func() {
		if r := recover(); r != nil {
			result = Completed{Position: t.pos, Err: fmt.Errorf("generate chunk %s: panic: %v", t.pos, r)}
		}
	}()

	chunk, err := t.generate(w.ctx)
	if err != nil {
		result.Err = fmt.Errorf("generate chunk %s: %w", t.pos, err)
		return result
	}
	if chunk == nil {
		result.Err = fmt.Errorf("generate chunk %s: %w", t.pos, ErrNilChunk)
		return result
	}
	result.Chunk = chunk

	if m, ok := w.cache.Get(chunk); ok {
		result.Mesh, result.Cached = m, true
		return result
	}
	m, err := Optimize(chunk)
	if err != nil {
		result.Err = err
		return result
	}
	w.cache.Put(chunk, m)
	result.Mesh = m
	return result
}
