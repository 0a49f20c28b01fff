package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/imamik/modsetup/internal/actions"
	"github.com/imamik/modsetup/internal/config"
)

// ErrRestartRequested is returned by Run when the tool must be relaunched
// with elevation. The relaunched instance starts again at step 0.
var ErrRestartRequested = errors.New("restart with elevated privileges requested")

// ActionRunner executes a single action.
type ActionRunner interface {
	Run(ctx context.Context, a config.Action) actions.Result
}

// Transition types.
const (
	transitionAdvance = "advance"
	transitionJump    = "jump"
	transitionSkip    = "skip"
)

// workMsg is sent by background workers to the loop goroutine.
type workMsg struct {
	tick     bool
	result   actions.Result
	duration time.Duration
}

// Engine runs a setup sequence. All state is owned by the goroutine
// executing Run; other goroutines talk to it through Send and
// RequestElevateAndRestart.
type Engine struct {
	seq    *Sequencer
	runner ActionRunner

	baseDir          string
	settleDelay      time.Duration
	policy           config.FaultPolicy
	observer         Observer
	log              logr.Logger
	runID            string
	beforeTransition Hook
	onComplete       Hook
	enableMetrics    bool

	intents chan Intent
	work    chan workMsg
	restart chan struct{}
	started atomic.Bool

	// loop state
	queue []config.Action
	pos   int
	busy  bool
	text  string

	mu        sync.Mutex
	version   uint64
	snapshot  Snapshot
	listeners []func(Snapshot)
}

// New creates an engine positioned at the first step.
func New(steps []config.Step, runner ActionRunner, opts ...Option) (*Engine, error) {
	seq, err := NewSequencer(steps)
	if err != nil {
		return nil, err
	}
	if runner == nil {
		return nil, fmt.Errorf("action runner is required")
	}

	e := &Engine{
		seq:         seq,
		runner:      runner,
		settleDelay: time.Second,
		policy:      config.FaultContinue,
		log:         logr.Discard(),
		intents:     make(chan Intent, 16),
		work:        make(chan workMsg, 1),
		restart:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runID == "" {
		e.runID = uuid.NewString()
	}
	if e.observer == nil {
		e.observer = NewLogObserver(e.log)
	}

	e.text = e.resolveText()
	e.snapshot = e.buildSnapshot()
	return e, nil
}

// RunID returns the id attached to every event of this run.
func (e *Engine) RunID() string {
	return e.runID
}

// Send queues an intent. Intents that arrive while an action list runs, or
// that the current step does not accept, are ignored.
func (e *Engine) Send(i Intent) {
	select {
	case e.intents <- i:
	default:
		e.log.V(1).Info("intent dropped, queue full", "intent", i.String())
	}
}

// RequestElevateAndRestart stops the engine; Run returns
// ErrRestartRequested.
func (e *Engine) RequestElevateAndRestart() {
	select {
	case e.restart <- struct{}{}:
	default:
	}
}

// OnUpdate registers a listener for snapshots. Listeners run on the engine
// goroutine and must not block.
func (e *Engine) OnUpdate(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Snapshot returns the latest published state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Run processes intents until the sequence completes, the context ends or a
// restart is requested. It returns nil on completion.
func (e *Engine) Run(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return errors.New("engine is already running")
	}

	e.rendered()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.restart:
			return e.restartRequested("restart requested by host")
		case in := <-e.intents:
			e.handleIntent(ctx, in)
		case msg := <-e.work:
			if err := e.handleWork(ctx, msg); err != nil {
				return err
			}
		}

		if e.seq.Completed() {
			e.finish(ctx)
			return nil
		}
	}
}

func (e *Engine) handleIntent(ctx context.Context, in Intent) {
	step, err := e.seq.Current()
	if err != nil {
		return
	}
	if e.busy || !controlsFor(step.IsBranch, step.Skippable, false).Enabled(in) {
		e.log.V(1).Info("intent ignored", "intent", in.String(), "step", e.seq.Index(), "busy", e.busy)
		return
	}

	switch in {
	case IntentConfirm:
		e.startList(ctx, step.ActionsFor(false, false))
	case IntentChooseYes:
		e.startList(ctx, step.ActionsFor(true, true))
	case IntentChooseNo:
		e.startList(ctx, step.ActionsFor(true, false))
	case IntentSkip:
		e.transition(ctx, transitionSkip, func() {
			e.seq.Skip()
		})
	}
}

func (e *Engine) startList(ctx context.Context, list []config.Action) {
	e.queue = list
	e.pos = 0
	e.busy = true
	e.publish()
	e.scheduleTick(ctx)
}

// scheduleTick waits for the settling delay and then asks the loop to run
// the next action or finish the list.
func (e *Engine) scheduleTick(ctx context.Context) {
	go func() {
		if e.settleDelay > 0 {
			timer := time.NewTimer(e.settleDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		select {
		case e.work <- workMsg{tick: true}:
		case <-ctx.Done():
		}
	}()
}

func (e *Engine) handleWork(ctx context.Context, msg workMsg) error {
	if msg.tick {
		e.nextAction(ctx)
		return nil
	}
	return e.actionFinished(ctx, msg)
}

func (e *Engine) nextAction(ctx context.Context) {
	if e.pos >= len(e.queue) {
		e.endList()
		e.transition(ctx, transitionAdvance, func() {
			e.seq.Advance()
		})
		return
	}

	a := e.queue[e.pos]
	switch {
	case a.Kind == config.KindJumpToStep:
		target := a.TargetIndex()
		if target < 0 {
			e.emit(Event{
				Type:    EventActionSkipped,
				Action:  a.Kind.String(),
				Message: fmt.Sprintf("negative stepIndex %d, jumping to step 0", target),
			})
			target = 0
		}
		e.endList()
		e.transition(ctx, transitionJump, func() {
			e.seq.Jump(target)
		})

	case !a.Kind.Known():
		e.emit(Event{
			Type:    EventActionSkipped,
			Action:  a.Kind.String(),
			Message: "no handler for action kind, skipped",
		})
		if e.enableMetrics {
			recordActionMetric(a.Kind.String(), "skipped", 0)
		}
		e.pos++
		e.scheduleTick(ctx)

	default:
		e.emit(Event{
			Type:    EventActionStarted,
			Action:  a.Kind.String(),
			Message: "action started",
			Fields: map[string]string{
				"position": fmt.Sprintf("%d/%d", e.pos+1, len(e.queue)),
			},
		})
		e.publish()
		go func() {
			start := time.Now()
			res := e.runner.Run(ctx, a)
			msg := workMsg{result: res, duration: time.Since(start)}
			select {
			case e.work <- msg:
			case <-ctx.Done():
			}
		}()
	}
}

func (e *Engine) actionFinished(ctx context.Context, msg workMsg) error {
	res := msg.result
	kind := res.Kind.String()

	if e.enableMetrics {
		for _, entry := range res.Entries {
			recordEntryMetric(kind, string(entry.Status), entry.Attempts)
		}
	}
	for _, entry := range res.GaveUp() {
		e.emit(Event{
			Type:    EventEntryGaveUp,
			Action:  kind,
			Path:    entry.Path,
			Message: fmt.Sprintf("gave up after %d attempts", entry.Attempts),
			Err:     entry.Err,
			Fields:  map[string]string{"attempts": strconv.Itoa(entry.Attempts)},
		})
	}

	result := "success"
	switch {
	case res.Skipped:
		result = "skipped"
		e.emit(Event{Type: EventActionSkipped, Action: kind, Message: "no handler for action kind, skipped"})
	case res.Err != nil:
		result = "fault"
		e.emit(Event{
			Type:    EventActionFailed,
			Action:  kind,
			Message: "action failed",
			Err:     res.Err,
			Fields:  map[string]string{"policy": string(e.policy)},
		})
	default:
		fields := map[string]string{"duration": msg.duration.Round(time.Millisecond).String()}
		if res.ExitCode >= 0 {
			fields["exitCode"] = strconv.Itoa(res.ExitCode)
		}
		e.emit(Event{Type: EventActionCompleted, Action: kind, Message: "action completed", Fields: fields})
	}
	if e.enableMetrics {
		recordActionMetric(kind, result, msg.duration.Seconds())
	}

	if res.Restart {
		return e.restartRequested("process is not elevated")
	}

	if res.Err != nil && e.policy == config.FaultHalt {
		e.endList()
		e.publish()
		return nil
	}

	e.pos++
	e.scheduleTick(ctx)
	return nil
}

func (e *Engine) endList() {
	e.queue = nil
	e.pos = 0
	e.busy = false
}

// transition runs the before-transition hook, moves the sequencer and
// renders the new step.
func (e *Engine) transition(ctx context.Context, kind string, move func()) {
	e.runHook(ctx, "beforeTransition", e.beforeTransition)

	from := e.seq.Index()
	move()
	if e.enableMetrics {
		recordTransitionMetric(kind)
	}

	to := strconv.Itoa(e.seq.Index())
	if e.seq.Completed() {
		to = "completed"
	}
	e.emit(Event{
		Type:    EventStepTransition,
		Step:    from,
		Message: kind,
		Fields:  map[string]string{"from": strconv.Itoa(from), "to": to},
	})

	if !e.seq.Completed() {
		e.text = e.resolveText()
		e.rendered()
	}
}

func (e *Engine) finish(ctx context.Context) {
	e.emit(Event{Type: EventSetupCompleted, Message: "setup completed"})
	e.runHook(ctx, "onComplete", e.onComplete)
	e.publish()
}

func (e *Engine) restartRequested(reason string) error {
	e.emit(Event{Type: EventRestartRequested, Message: reason})
	return ErrRestartRequested
}

func (e *Engine) runHook(ctx context.Context, name string, h Hook) {
	if h == nil {
		return
	}
	if err := h(ctx); err != nil {
		e.emit(Event{Type: EventHookFailed, Message: name + " hook failed", Err: err})
	}
}

func (e *Engine) resolveText() string {
	step, err := e.seq.Current()
	if err != nil {
		return ""
	}
	text, err := ResolveContent(step, e.baseDir)
	if err != nil {
		var readErr *ResourceReadError
		path := ""
		if errors.As(err, &readErr) {
			path = readErr.Path
		}
		e.emit(Event{Type: EventContentUnreadable, Path: path, Message: "step content unreadable", Err: err})
	}
	return text
}

func (e *Engine) rendered() {
	e.emit(Event{Type: EventStepRendered, Message: "step rendered"})
	e.publish()
}

func (e *Engine) emit(event Event) {
	event.RunID = e.runID
	if event.Type != EventStepTransition {
		event.Step = e.seq.Index()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	e.observer.Event(event)
}

func (e *Engine) buildSnapshot() Snapshot {
	s := Snapshot{
		RunID:     e.runID,
		Index:     e.seq.Index(),
		Total:     e.seq.Len(),
		Completed: e.seq.Completed(),
		Busy:      e.busy,
		Text:      e.text,
	}

	step, err := e.seq.Current()
	if err != nil {
		return s
	}
	s.Image = step.Image
	s.Controls = controlsFor(step.IsBranch, step.Skippable, e.busy)
	if e.busy {
		s.ActionCount = len(e.queue)
		s.ActionIndex = e.pos
		if e.pos < len(e.queue) {
			s.Action = e.queue[e.pos].Kind.String()
		}
	}
	return s
}

func (e *Engine) publish() {
	e.mu.Lock()
	e.version++
	e.snapshot = e.buildSnapshot()
	e.snapshot.Version = e.version
	snap := e.snapshot
	listeners := append([]func(Snapshot){}, e.listeners...)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
