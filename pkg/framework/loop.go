package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultTimeStep is the simulated time (seconds) of one iteration.
const DefaultTimeStep = 0.0001

// Loop runs controllers once per simulated tick.
// Controllers run in priority order, and within a priority level in the
// order they were added, so every run of the same setup is identical.
type Loop struct {
	// TimeStep is the simulated time one iteration advances.
	TimeStep float64
	// MaxTicks bounds Run, 0 means unbounded.
	MaxTicks uint64
	// Interval paces iterations in wall-clock time, 0 runs them back to back.
	Interval time.Duration

	controllers [PriorityLevels]controllerList

	runners []Runnable

	messages messageList
	lock     sync.Mutex
	tick     uint64
	stopped  bool
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopCtl struct {
	*Loop
}

type loopIteration struct {
	loopCtl
	ctx           context.Context
	tick          uint64
	priorityLevel int
	messages      messageList
}

type messageList struct {
	head *messageItem
	tail *messageItem
}

type messageItem struct {
	msg  Message
	next *messageItem
}

func (l *messageList) append(item *messageItem) {
	if l.head == nil {
		l.head = item
	} else {
		l.tail.next = item
	}
	l.tail = item
}

func (l *messageList) splice(src *messageList) {
	l.head, l.tail, src.head = src.head, src.tail, nil
}

func (l *messageList) concat(lst *messageList) {
	if l.head == nil {
		l.head = lst.head
	} else {
		l.tail.next = lst.head
	}
	if lst.head != nil {
		l.tail = lst.tail
	}
}

type controllerList struct {
	preHooks    []Controller
	controllers []Controller
	postHooks   []Controller
	lock        sync.Mutex
}

var (
	loopCtxKey = &Loop{}
)

// LoopCtlFrom gets LoopCtl from context.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey).(LoopControl)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{TimeStep: DefaultTimeStep}
}

// WithTimeStep sets TimeStep.
func (l *Loop) WithTimeStep(dt float64) *Loop {
	l.TimeStep = dt
	return l
}

// WithMaxTicks sets MaxTicks.
func (l *Loop) WithMaxTicks(n uint64) *Loop {
	l.MaxTicks = n
	return l
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	lst := &l.controllers[priorityLevel]
	lst.controllers = append(lst.controllers, ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Ticks returns the number of iterations completed.
func (l *Loop) Ticks() uint64 {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.tick
}

// Run implements Runnable. It starts the registered Runnables and iterates
// until Stop is called, the context is done or MaxTicks iterations have
// completed in total, in which case ErrBudgetExhausted is returned.
func (l *Loop) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	runner := NewRunnerWith(context.WithValue(runCtx, loopCtxKey, &loopCtl{l}))
	runner.Go(l.runners...)
	defer func() {
		cancel()
		if err := runner.Wait(); err != nil {
			glog.Errorf("runner error: %v", err)
		}
	}()

	if l.MaxTicks == 0 {
		return l.iterate(ctx, 0)
	}
	done := l.Ticks()
	if done >= l.MaxTicks {
		return ErrBudgetExhausted
	}
	if err := l.iterate(ctx, l.MaxTicks-done); err != nil {
		return err
	}
	if !l.isStopped() && l.Ticks() >= l.MaxTicks {
		return ErrBudgetExhausted
	}
	return nil
}

// RunFor runs up to n more iterations without starting Runnables.
// It returns early when Stop is called or the context is done.
func (l *Loop) RunFor(ctx context.Context, n uint64) error {
	if n == 0 {
		return nil
	}
	return l.iterate(ctx, n)
}

// PreRunAt implements LoopCtl.
func (l *Loop) PreRunAt(priorityLevel int, hooks ...Controller) {
	lst := &l.controllers[priorityLevel]
	lst.lock.Lock()
	lst.preHooks = append(lst.preHooks, hooks...)
	lst.lock.Unlock()
}

// PostRunAt implements LoopCtl.
func (l *Loop) PostRunAt(priorityLevel int, hooks ...Controller) {
	lst := &l.controllers[priorityLevel]
	lst.lock.Lock()
	lst.postHooks = append(lst.postHooks, hooks...)
	lst.lock.Unlock()
}

// PostMessage implements LoopCtl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.messages.append(&messageItem{msg: msg})
	l.lock.Unlock()
}

// Stop implements LoopCtl.
func (l *Loop) Stop() {
	l.lock.Lock()
	l.stopped = true
	l.lock.Unlock()
}

func (l *Loop) isStopped() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.stopped
}

// iterate runs up to n iterations, n == 0 means no limit.
func (l *Loop) iterate(ctx context.Context, n uint64) error {
	l.lock.Lock()
	l.stopped = false
	l.lock.Unlock()

	var pace <-chan time.Time
	if l.Interval > 0 {
		ticker := time.NewTicker(l.Interval)
		defer ticker.Stop()
		pace = ticker.C
	}
	for i := uint64(0); n == 0 || i < n; i++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		l.runIteration(ctx)
		if l.isStopped() {
			return nil
		}
	}
	return nil
}

func (l *Loop) runIteration(ctx context.Context) {
	iter := &loopIteration{loopCtl: loopCtl{l}}
	l.lock.Lock()
	iter.tick = l.tick
	iter.messages.splice(&l.messages)
	l.lock.Unlock()
	iter.ctx = context.WithValue(ctx, loopCtxKey, iter)
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		l.controllers[i].run(iter)
	}
	l.lock.Lock()
	l.tick++
	// messages added but not taken in this iteration are carried over.
	iter.messages.concat(&l.messages)
	l.messages = iter.messages
	l.lock.Unlock()
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Tick() uint64 {
	return t.tick
}

func (t *loopIteration) Time() float64 {
	return float64(t.tick) * t.Loop.TimeStep
}

func (t *loopIteration) TimeStep() float64 {
	return t.Loop.TimeStep
}

func (t *loopIteration) PriorityLevel() int {
	return t.priorityLevel
}

func (t *loopIteration) Messages() MessageStore {
	return t
}

func (t *loopIteration) PostRun(hooks ...Controller) {
	t.PostRunAt(t.priorityLevel, hooks...)
}

// MessageStore implementations

type messageContext struct {
	iter  *loopIteration
	item  *messageItem
	taken bool
	stop  bool
}

func (c *messageContext) CurrentMessage() Message     { return c.item.msg }
func (c *messageContext) MessageTaken()               { c.taken = true }
func (c *messageContext) StopProcessing()             { c.stop = true }
func (c *messageContext) AddMessages(msgs ...Message) { c.iter.AddMessages(msgs...) }

func (t *loopIteration) ProcessMessages(proc MessageProcessor) {
	var msgs, remains messageList
	msgs.splice(&t.messages)
	for msgs.head != nil {
		mctx := &messageContext{iter: t, item: msgs.head}
		msgs.head = msgs.head.next
		mctx.item.next = nil
		proc.ProcessMessage(mctx)
		if !mctx.taken {
			remains.append(mctx.item)
		}
		if mctx.stop {
			remains.concat(&msgs)
			break
		}
	}
	remains.concat(&t.messages)
	t.messages = remains
}

func (t *loopIteration) AddMessages(msgs ...Message) {
	for _, msg := range msgs {
		t.messages.append(&messageItem{msg: msg})
	}
}

func (c *controllerList) run(iter *loopIteration) {
	c.lock.Lock()
	ctls := c.preHooks
	c.preHooks = nil
	c.lock.Unlock()
	runControllers(iter, ctls)
	runControllers(iter, c.controllers)
	c.lock.Lock()
	ctls, c.postHooks = c.postHooks, nil
	c.lock.Unlock()
	runControllers(iter, ctls)
}

func runControllers(iter *loopIteration, ctls []Controller) {
	for _, ctl := range ctls {
		if err := ctl.Control(iter); err != nil {
			glog.Errorf("tick %d: controller error: %v", iter.tick, err)
		}
	}
}
