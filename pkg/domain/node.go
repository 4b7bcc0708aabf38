package domain

// Node designations. The orchestrator reports its own coarse progress
// under SN-00; the four work nodes cover strategy, research, video and
// design generation.
const (
	OrchestratorNodeID    = "SN-00"
	StrategistNodeID      = "SP-01"
	AuditorNodeID         = "RA-01"
	VideoDirectorNodeID   = "CC-06"
	DesignArchitectNodeID = "DA-03"
)

// WorkNodeIDs lists the executable nodes in registry order. SN-00 is
// excluded: it never executes work, it only carries session progress.
func WorkNodeIDs() []string {
	return []string{StrategistNodeID, AuditorNodeID, VideoDirectorNodeID, DesignArchitectNodeID}
}

// SystemSource is the log source used for writes that belong to the
// session rather than to a specific node.
const SystemSource = "SYSTEM"
