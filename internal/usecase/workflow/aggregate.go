package workflow

import (
	"sort"

	"github.com/iacforge/orchestrator/internal/entity"
)

// Known validation agents and their display labels. Reports from agent ids
// outside this set are still shown, with a generic label.
var agentLabels = map[string]string{
	"validator":      "Syntax Validator",
	"security":       "Security Agent",
	"cost_optimizer": "Cost Optimizer",
}

// knownAgentOrder fixes the display order for the known set.
var knownAgentOrder = []string{"validator", "security", "cost_optimizer"}

const unknownAgentLabel = "Validation Agent"

// Summarize reduces a per-agent report map into the aggregated view.
// overall_valid is the conjunction over all reports; an absent agent id is
// not a failure. IsValid and Score stay separate signals per agent.
func Summarize(summary map[string]entity.ValidationReport) *entity.ValidationOverview {
	overview := &entity.ValidationOverview{
		OverallValid: true,
		Agents:       make([]entity.AgentReportView, 0, len(summary)),
	}

	appendAgent := func(id string) {
		report, ok := summary[id]
		if !ok {
			return
		}
		label, known := agentLabels[id]
		if !known {
			label = unknownAgentLabel
		}
		overview.Agents = append(overview.Agents, entity.AgentReportView{
			AgentID:     id,
			Label:       label,
			Known:       known,
			IsValid:     report.IsValid,
			Score:       report.Score,
			IssuesCount: report.IssuesCount,
		})
		if !report.IsValid {
			overview.OverallValid = false
		}
	}

	for _, id := range knownAgentOrder {
		appendAgent(id)
	}

	var unknown []string
	for id := range summary {
		if _, known := agentLabels[id]; !known {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		appendAgent(id)
	}

	return overview
}
