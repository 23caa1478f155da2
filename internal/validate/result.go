package validate

// Violation is one structured validation failure with a stable code and
// the path of the offending field.
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Result aggregates the violations from one validator pass.
type Result struct {
	Passed bool        `json:"passed"`
	Errors []Violation `json:"errors,omitempty"`
}

// resultFrom folds a violation list into a Result.
func resultFrom(violations []Violation) Result {
	return Result{
		Passed: len(violations) == 0,
		Errors: violations,
	}
}
