package gamacros

import (
	"container/heap"
	"time"
)

// ArrowDir is one of the four cardinal directions an Arrows stick mode can
// quantize to.
type ArrowDir int

const (
	ArrowUp ArrowDir = iota
	ArrowDown
	ArrowLeft
	ArrowRight
)

// repeatKindTag discriminates the three families of repeat task.
type repeatKindTag int

const (
	repeatKindArrow repeatKindTag = iota
	repeatKindVolume
	repeatKindBrightness
)

// RepeatKind identifies which stick condition a repeat task is driven by.
type RepeatKind struct {
	Tag      repeatKindTag
	Dir      ArrowDir          // meaningful when Tag == repeatKindArrow
	Axis     StickAxisSelector // meaningful when Tag != repeatKindArrow
	Positive bool              // meaningful when Tag != repeatKindArrow
}

// ArrowKind builds a RepeatKind for an Arrows-mode direction.
func ArrowKind(dir ArrowDir) RepeatKind { return RepeatKind{Tag: repeatKindArrow, Dir: dir} }

// VolumeKind builds a RepeatKind for a Volume-mode task.
func VolumeKind(axis StickAxisSelector, positive bool) RepeatKind {
	return RepeatKind{Tag: repeatKindVolume, Axis: axis, Positive: positive}
}

// BrightnessKind builds a RepeatKind for a Brightness-mode task.
func BrightnessKind(axis StickAxisSelector, positive bool) RepeatKind {
	return RepeatKind{Tag: repeatKindBrightness, Axis: axis, Positive: positive}
}

// RepeatTaskID is the slot key: one live task per (controller, side, kind).
type RepeatTaskID struct {
	Controller ControllerID
	Side       Side
	Kind       RepeatKind
}

// RepeatRegistration describes the desired state of a repeat task. Calling
// Register repeatedly with identical parameters on a continuously active
// task is idempotent and never emits more than the first activation tap.
type RepeatRegistration struct {
	ID             RepeatTaskID
	Key            KeyCombo
	InitialDelayMs uint32
	IntervalMs     uint32
	FireOnActivate bool
	Generation     uint64
}

type repeatSlot struct {
	key            RepeatTaskID
	keyCombo       KeyCombo
	initialDelayMs uint32
	intervalMs     uint32
	fireOnActivate bool
	lastFire       time.Time
	delayDone      bool
	generationSeen uint64
	seq            uint64
}

type scheduleEntry struct {
	due time.Time
	id  RepeatTaskID
	seq uint64
}

// entryHeap is a min-heap of scheduleEntry ordered by due time. Ties between
// equal due times are broken arbitrarily.
type entryHeap []scheduleEntry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].due.Before(h[j].due) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(scheduleEntry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// RepeatScheduler is the per-(controller, side, kind) slot table and
// due-time min-heap behind stick key repeats. It is not safe for
// concurrent use; the core is single-threaded by contract.
type RepeatScheduler struct {
	slots   map[RepeatTaskID]*repeatSlot
	heap    entryHeap
	nextSeq uint64
}

// NewRepeatScheduler returns an empty scheduler.
func NewRepeatScheduler() *RepeatScheduler {
	return &RepeatScheduler{
		slots:   make(map[RepeatTaskID]*repeatSlot),
		nextSeq: 1, // seq 0 is reserved
	}
}

func (s *RepeatScheduler) allocSeq() uint64 {
	seq := s.nextSeq
	s.nextSeq++
	if s.nextSeq == 0 {
		s.nextSeq = 1 // wrap-around skips zero
	}
	return seq
}

func (s *RepeatScheduler) push(id RepeatTaskID, due time.Time, seq uint64) {
	heap.Push(&s.heap, scheduleEntry{due: due, id: id, seq: seq})
}

// pendingDelayMs computes the due offset for a slot given its current
// delayDone state: initialDelayMs until the first fire, intervalMs
// afterwards.
func pendingDelayMs(slot *repeatSlot) uint32 {
	if !slot.delayDone {
		return slot.initialDelayMs
	}
	return slot.intervalMs
}

// Register creates or refreshes the slot for reg.ID. It returns an
// Action=KeyTap for a brand new, fire-on-activate task, and nil in every
// other case (including a refresh of an already-active task, so that a
// continuously held stick never emits more than one immediate tap).
func (s *RepeatScheduler) Register(reg RepeatRegistration, now time.Time) Action {
	slot, exists := s.slots[reg.ID]
	if !exists {
		seq := s.allocSeq()
		slot = &repeatSlot{
			key:            reg.ID,
			keyCombo:       reg.Key,
			initialDelayMs: reg.InitialDelayMs,
			intervalMs:     reg.IntervalMs,
			fireOnActivate: reg.FireOnActivate,
			lastFire:       now,
			delayDone:      reg.InitialDelayMs == 0,
			generationSeen: reg.Generation,
			seq:            seq,
		}
		s.slots[reg.ID] = slot

		if ms := pendingDelayMs(slot); ms > 0 {
			s.push(reg.ID, now.Add(time.Duration(ms)*time.Millisecond), seq)
		}

		if reg.FireOnActivate {
			return ActionKeyTap{Combo: reg.Key}
		}
		return nil
	}

	changed := !slot.keyCombo.Equal(reg.Key) ||
		slot.intervalMs != reg.IntervalMs ||
		slot.initialDelayMs != reg.InitialDelayMs ||
		slot.fireOnActivate != reg.FireOnActivate

	slot.keyCombo = reg.Key
	slot.intervalMs = reg.IntervalMs
	slot.initialDelayMs = reg.InitialDelayMs
	slot.fireOnActivate = reg.FireOnActivate
	slot.generationSeen = reg.Generation

	if changed {
		slot.seq = s.allocSeq()
		if ms := pendingDelayMs(slot); ms > 0 {
			s.push(reg.ID, now.Add(time.Duration(ms)*time.Millisecond), slot.seq)
		}
	}

	return nil
}

// staleTop reports whether the heap's current top entry no longer matches a
// live slot's seq (or the slot is gone).
func (s *RepeatScheduler) staleTop() bool {
	if len(s.heap) == 0 {
		return false
	}
	top := s.heap[0]
	slot, ok := s.slots[top.id]
	return !ok || slot.seq != top.seq
}

// NextDue peeks the heap after lazily discarding stale entries, returning
// the due time of the first live entry.
func (s *RepeatScheduler) NextDue() (time.Time, bool) {
	for s.staleTop() {
		heap.Pop(&s.heap)
	}
	if len(s.heap) == 0 {
		return time.Time{}, false
	}
	return s.heap[0].due, true
}

// ProcessDue drains every non-stale entry due at or before now, emitting a
// KeyTap per task and rescheduling it interval_ms later.
func (s *RepeatScheduler) ProcessDue(now time.Time, sink Sink) {
	for {
		for s.staleTop() {
			heap.Pop(&s.heap)
		}
		if len(s.heap) == 0 {
			return
		}
		top := s.heap[0]
		if top.due.After(now) {
			return
		}
		heap.Pop(&s.heap)

		slot, ok := s.slots[top.id]
		if !ok || slot.seq != top.seq {
			continue
		}

		sink.Emit(ActionKeyTap{Combo: slot.keyCombo})
		slot.lastFire = now
		slot.delayDone = true
		if slot.intervalMs > 0 {
			s.push(top.id, now.Add(time.Duration(slot.intervalMs)*time.Millisecond), slot.seq)
		}
	}
}

// CleanupInactive drops every slot whose generationSeen does not match
// currentGeneration. Stale heap entries referencing it are discarded lazily
// by NextDue/ProcessDue.
func (s *RepeatScheduler) CleanupInactive(currentGeneration uint64) {
	for id, slot := range s.slots {
		if slot.generationSeen != currentGeneration {
			delete(s.slots, id)
		}
	}
}

// ReleaseAllFor drops every slot belonging to controller id.
func (s *RepeatScheduler) ReleaseAllFor(id ControllerID) {
	for key, slot := range s.slots {
		if slot.key.Controller == id {
			delete(s.slots, key)
		}
	}
}

// ReleaseAllArrows drops every Arrows-kind slot, across all controllers and
// sides. Called on active-application change.
func (s *RepeatScheduler) ReleaseAllArrows() {
	for key, slot := range s.slots {
		if slot.key.Kind.Tag == repeatKindArrow {
			delete(s.slots, key)
		}
	}
}

// HasActive reports whether any repeat task is currently tracked.
func (s *RepeatScheduler) HasActive() bool {
	return len(s.slots) > 0
}
