package model

// GraphCounts are live node/edge totals from the store.
type GraphCounts struct {
	Nodes int64 `json:"nodes"`
	Edges int64 `json:"edges"`
}

// BootstrapTarget is the goal the orchestrator works toward.
type BootstrapTarget struct {
	MinNodes int `json:"min_nodes"`
	MinEdges int `json:"min_edges"`
	MaxCalls int `json:"max_calls"`
}

// BootstrapProgress mirrors the bootstrap_progress singleton record.
type BootstrapProgress struct {
	Status     string `json:"status"`
	InProgress bool   `json:"in_progress"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// BootstrapMarker mirrors the bootstrapped completion marker. Status embeds
// the final counts, e.g. "ready_34_27" or "partial_5_12_9".
type BootstrapMarker struct {
	Done      bool   `json:"done"`
	Status    string `json:"status,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// BootstrapStatus is the status document exposed to callers.
type BootstrapStatus struct {
	Ready        bool              `json:"ready"`
	Counts       GraphCounts       `json:"counts"`
	Target       BootstrapTarget   `json:"target"`
	Progress     BootstrapProgress `json:"progress"`
	Bootstrapped BootstrapMarker   `json:"bootstrapped"`
}
