package workflow

import "github.com/iacforge/orchestrator/internal/entity"

// Edit is an explicit user edit of one variable.
type Edit struct {
	Name  string
	Value string
}

// Reconcile merges extracted and user-edited variable values into one
// authoritative set. With no current set it seeds from the requirements'
// user-provided values, keeping values for names outside the required and
// optional lists. An edit always wins, whether or not the name was extracted.
// The input maps are never mutated.
func Reconcile(req *entity.Requirements, current map[string]string, edit *Edit) map[string]string {
	merged := make(map[string]string)

	if current == nil {
		if req != nil {
			for name, value := range req.UserProvidedValues {
				merged[name] = value
			}
		}
	} else {
		for name, value := range current {
			merged[name] = value
		}
	}

	if edit != nil {
		merged[edit.Name] = edit.Value
	}

	return merged
}

// RequiresInput reports whether the pipeline must stop for user input.
// Evaluated once per requirement set, not re-evaluated as variables are
// filled in.
func RequiresInput(req *entity.Requirements) bool {
	return req != nil && len(req.RequiredVariables) > 0
}
