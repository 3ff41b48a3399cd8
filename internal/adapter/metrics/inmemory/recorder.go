package inmemory

import "sync"

type Snapshot struct {
	TurnTotal    uint64            `json:"turn_total"`
	TurnRejected uint64            `json:"turn_rejected"`
	TurnFailure  uint64            `json:"turn_failure"`
	ByOutcome    map[string]uint64 `json:"by_outcome"`
}

type Recorder struct {
	mu        sync.Mutex
	turns     uint64
	rejected  uint64
	failure   uint64
	byOutcome map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byOutcome: map[string]uint64{},
	}
}

func (r *Recorder) RecordTurn(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns++
	r.byOutcome[outcome]++
}

func (r *Recorder) RecordRejected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		TurnTotal:    r.turns,
		TurnRejected: r.rejected,
		TurnFailure:  r.failure,
		ByOutcome:    make(map[string]uint64, len(r.byOutcome)),
	}
	for k, v := range r.byOutcome {
		out.ByOutcome[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
