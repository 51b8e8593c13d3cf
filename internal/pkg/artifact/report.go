package artifact

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iacforge/orchestrator/internal/entity"
)

// BuildReportText renders a generation run as plain text for the formatter,
// one section per concern: query, variables, per-agent validation, code.
func BuildReportText(run *entity.PipelineRun, overview *entity.ValidationOverview) (string, error) {
	if run.Result == nil {
		return "", entity.ErrNoResult
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Query: %s\n\n", run.Query)

	if run.Requirements != nil && run.Requirements.ResourceType != "" {
		fmt.Fprintf(&b, "Resource type: %s\n\n", run.Requirements.ResourceType)
	}

	if len(run.Variables) > 0 {
		b.WriteString("Variables:\n")
		for _, name := range sortedKeys(run.Variables) {
			fmt.Fprintf(&b, "  %s = %s\n", name, run.Variables[name])
		}
		b.WriteString("\n")
	}

	verdict := "FAILED"
	if overview.OverallValid {
		verdict = "PASSED"
	}
	fmt.Fprintf(&b, "Validation: %s\n", verdict)
	for _, agent := range overview.Agents {
		status := "invalid"
		if agent.IsValid {
			status = "valid"
		}
		fmt.Fprintf(&b, "  %s: %s, score %.2f, %d issue(s)\n",
			agent.Label, status, agent.Score, agent.IssuesCount)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Generated code:\n\n%s\n", run.Result.TerraformCode)

	return b.String(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
