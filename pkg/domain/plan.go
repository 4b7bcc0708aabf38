package domain

// ExecutionPlan assigns nodes to the two execution phases. Phase 1
// nodes run in parallel with no upstream context. Phase 2 nodes also
// run in parallel among themselves, but only after every phase 1 node
// reached a terminal status, and each receives the successful phase 1
// outputs as context. The field names are part of the persisted wire
// shape and must not change: a plan written before the approval pause
// is read back by Resume.
type ExecutionPlan struct {
	ParallelPhase1   []string `json:"parallel_phase_1"`
	SequentialPhase2 []string `json:"sequential_phase_2"`
	Summary          string   `json:"summary,omitempty"`
}

// DefaultPlan is the hard-coded fallback used whenever planning output
// cannot be parsed. Planning is advisory: the engine must always hold a
// valid, executable plan.
func DefaultPlan() ExecutionPlan {
	return ExecutionPlan{
		ParallelPhase1:   []string{StrategistNodeID, AuditorNodeID},
		SequentialPhase2: []string{VideoDirectorNodeID, DesignArchitectNodeID},
	}
}

// Valid reports whether the plan carries both phase assignments.
func (p ExecutionPlan) Valid() bool {
	return len(p.ParallelPhase1) > 0 && len(p.SequentialPhase2) > 0
}

// NodeIDs returns every node referenced by the plan, phase 1 first.
func (p ExecutionPlan) NodeIDs() []string {
	ids := make([]string, 0, len(p.ParallelPhase1)+len(p.SequentialPhase2))
	ids = append(ids, p.ParallelPhase1...)
	ids = append(ids, p.SequentialPhase2...)
	return ids
}
