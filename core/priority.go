package core

// Priority is the dispatch priority assigned to an incident. Values are
// ordered most severe first: P1 (immediate life threat) through P5
// (administrative / information only).
type Priority string

const (
	// PriorityP1 indicates an immediate life threat.
	PriorityP1 Priority = "P1"
	// PriorityP2 indicates a serious but stable situation.
	PriorityP2 Priority = "P2"
	// PriorityP3 indicates a non-life-threatening situation.
	PriorityP3 Priority = "P3"
	// PriorityP4 indicates a scheduled response is acceptable.
	PriorityP4 Priority = "P4"
	// PriorityP5 indicates information only, no response required.
	PriorityP5 Priority = "P5"
)

// Priorities returns all allowed priority values, most severe first.
func Priorities() []Priority {
	return []Priority{PriorityP1, PriorityP2, PriorityP3, PriorityP4, PriorityP5}
}

// Valid reports whether p is one of the fixed allowed priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4, PriorityP5:
		return true
	default:
		return false
	}
}

// Rank returns the severity rank of p, 1 being the most severe. Invalid
// priorities rank below every valid one.
func (p Priority) Rank() int {
	for i, v := range Priorities() {
		if p == v {
			return i + 1
		}
	}
	return len(Priorities()) + 1
}

// MoreSevereThan reports whether p is strictly more severe than other.
func (p Priority) MoreSevereThan(other Priority) bool { return p.Rank() < other.Rank() }

// Channel identifies the intake channel of a report.
type Channel string

const (
	// ChannelWeb is the web intake form.
	ChannelWeb Channel = "web"
	// ChannelWhatsAppSim is the simulated messaging intake.
	ChannelWhatsAppSim Channel = "whatsapp_sim"
)

// Role identifies the role of the person submitting a report.
type Role string

const (
	// RoleDispatcher is a professional dispatcher.
	RoleDispatcher Role = "dispatcher"
	// RoleCommander is an incident commander.
	RoleCommander Role = "commander"
	// RolePublic is a member of the public.
	RolePublic Role = "public"
)
