package quiz

import (
	"sync"
	"time"

	"github.com/klexam/portal/internal/bank"
)

// State of one quiz attempt.
type State int

const (
	NotStarted State = iota
	InProgress
	Completed
	Reviewing
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	case Reviewing:
		return "reviewing"
	}
	return "unknown"
}

// SecondsPerQuestion sizes the display countdown budget. The budget is not an
// enforced deadline: the engine never auto-submits when it runs out.
const SecondsPerQuestion = 90

// Engine drives a single attempt: current position, the tentative (uncommitted)
// selection for the displayed question, the committed answer map, and the
// elapsed-seconds tick. The tick goroutine is acquired on Start and released on
// every exit path (Finish, Close, either order), so a torn-down engine can never
// keep counting.
//
// All methods are safe for the single-session call pattern the portal uses; the
// mutex only exists because the ticker fires on its own goroutine.
type Engine struct {
	mu        sync.Mutex
	state     State
	questions []bank.Question
	fileName  string
	idx       int
	tentative string
	answers   AnswerMap
	started   bool // first selection seen; UI affordance only, never affects scoring
	elapsed   int
	startedAt time.Time
	result    *Result

	tick     time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures an Engine.
type Option func(*Engine)

// WithTickInterval overrides the 1s elapsed tick. Tests use a short interval;
// production code should leave the default alone.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tick = d
		}
	}
}

// NewEngine builds an attempt over an assembled question set. The set is
// snapshotted; later mutation of the caller's slice does not reach the engine.
func NewEngine(questions []bank.Question, fileName string, opts ...Option) *Engine {
	qs := make([]bank.Question, len(questions))
	copy(qs, questions)
	e := &Engine{
		state:     NotStarted,
		questions: qs,
		fileName:  fileName,
		answers:   AnswerMap{},
		tick:      time.Second,
		stop:      make(chan struct{}),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Start moves NotStarted -> InProgress and acquires the elapsed ticker.
// Calling it twice is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != NotStarted {
		return
	}
	e.state = InProgress
	e.startedAt = time.Now()
	go e.run()
}

func (e *Engine) run() {
	t := time.NewTicker(e.tick)
	defer t.Stop()
	for {
		select {
		case <-e.stop:
			return
		case <-t.C:
			e.mu.Lock()
			if e.state == InProgress {
				e.elapsed++
			}
			e.mu.Unlock()
		}
	}
}

func (e *Engine) releaseTimer() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// SelectAnswer records the tentative selection for the current question. It is
// not committed to the answer map until the next navigation or finish. Only
// valid while InProgress; afterwards it has no effect.
func (e *Engine) SelectAnswer(letter string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != InProgress {
		return
	}
	e.started = true
	e.tentative = letter
}

// commitLocked folds the tentative selection into the answer map. An empty
// tentative commits nothing: a made selection cannot be un-made by navigating.
func (e *Engine) commitLocked() {
	if e.tentative != "" {
		e.answers[e.idx] = e.tentative
	}
}

func (e *Engine) loadLocked() {
	e.tentative = e.answers[e.idx]
}

// GoTo commits the current selection, then jumps to index and restores any
// previously committed answer there as the new tentative selection. Arbitrary
// jumps are allowed; out-of-range indices are clamped rather than corrupting
// position, and re-jumping to the same index is idempotent.
func (e *Engine) GoTo(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != InProgress || len(e.questions) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(e.questions)-1 {
		index = len(e.questions) - 1
	}
	e.commitLocked()
	e.idx = index
	e.loadLocked()
}

// Next commits and advances. At the last index it finishes the attempt instead.
func (e *Engine) Next() {
	e.mu.Lock()
	if e.state != InProgress {
		e.mu.Unlock()
		return
	}
	if e.idx >= len(e.questions)-1 {
		e.finishLocked()
		e.mu.Unlock()
		return
	}
	e.commitLocked()
	e.idx++
	e.loadLocked()
	e.mu.Unlock()
}

// Previous commits and steps back; guarded no-op at index 0.
func (e *Engine) Previous() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != InProgress || e.idx == 0 {
		return
	}
	e.commitLocked()
	e.idx--
	e.loadLocked()
}

// Finish commits the current selection, stops the clock, and builds the scored
// result. The transition is one-way: every later mutation is a no-op and the
// already-built result is returned on repeat calls.
func (e *Engine) Finish() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.finishLocked()
	return *e.result
}

func (e *Engine) finishLocked() {
	if e.result != nil {
		return
	}
	e.commitLocked()
	e.state = Completed
	e.releaseTimer()
	r := BuildResult(e.questions, e.answers, e.elapsed, e.fileName, e.startedAt)
	e.result = &r
}

// Review moves a completed attempt into the read-only reviewing state.
func (e *Engine) Review() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Completed {
		e.state = Reviewing
	}
}

// Close releases the ticker unconditionally. Safe on every path: after Finish,
// on early teardown mid-attempt, and on repeat calls. An engine closed before
// finishing produces no result and accepts no further mutation.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseTimer()
	if e.state == InProgress {
		e.state = Completed
	}
}

// Accessors. Each takes the lock because the ticker runs concurrently.

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) FileName() string { return e.fileName }

func (e *Engine) TotalQuestions() int { return len(e.questions) }

func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.idx
}

func (e *Engine) Tentative() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tentative
}

// Started reports whether any selection has been made yet. Display affordance
// only; it never feeds into scoring.
func (e *Engine) Started() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

// CurrentQuestion returns the displayed question, ok=false on an empty set.
func (e *Engine) CurrentQuestion() (bank.Question, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.questions) == 0 {
		return bank.Question{}, false
	}
	return e.questions[e.idx], true
}

// Questions returns an owned copy of the set.
func (e *Engine) Questions() []bank.Question {
	qs := make([]bank.Question, len(e.questions))
	copy(qs, e.questions)
	return qs
}

// Answers returns an owned copy of the committed answer map.
func (e *Engine) Answers() AnswerMap {
	e.mu.Lock()
	defer e.mu.Unlock()
	am := make(AnswerMap, len(e.answers))
	for k, v := range e.answers {
		am[k] = v
	}
	return am
}

// AttemptedCount counts committed answers plus the current tentative selection
// when the displayed question has not been committed yet.
func (e *Engine) AttemptedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.answers)
	if e.tentative != "" {
		if _, ok := e.answers[e.idx]; !ok {
			n++
		}
	}
	return n
}

// FirstUnanswered returns the lowest index carrying neither a committed answer
// nor the live tentative selection, or -1 when everything is attempted.
func (e *Engine) FirstUnanswered() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.questions {
		if _, ok := e.answers[i]; ok {
			continue
		}
		if i == e.idx && e.tentative != "" {
			continue
		}
		return i
	}
	return -1
}

// ElapsedSeconds is driven by the background tick while InProgress; it freezes
// on Completed and never resumes.
func (e *Engine) ElapsedSeconds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsed
}

// RemainingSeconds is the display countdown against the totalQuestions*90s
// budget, floored at zero. Informational only; exhaustion does not submit.
func (e *Engine) RemainingSeconds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	rem := len(e.questions)*SecondsPerQuestion - e.elapsed
	if rem < 0 {
		rem = 0
	}
	return rem
}

// Result returns the finalized record once Finish has run.
func (e *Engine) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}
