package calculator

// EvaluateRequest is the JSON body for POST /api/calculators/{category}/{slug}.
type EvaluateRequest struct {
	Inputs map[string]string `json:"inputs"`
}

// EvaluateResponse is the JSON response for a successful evaluation.
type EvaluateResponse struct {
	Calculator  string     `json:"calculator"`
	Outputs     []Output   `json:"outputs"`
	StepColumns []string   `json:"step_columns,omitempty"`
	Steps       [][]string `json:"steps,omitempty"`
}

// BatchItem is one evaluation inside a batch.
type BatchItem struct {
	Calculator string            `json:"calculator"` // "category/slug"
	Inputs     map[string]string `json:"inputs"`
}

// BatchRequest is the JSON body for POST /api/calculators/batch.
type BatchRequest struct {
	Items []BatchItem `json:"items"`
}

// BatchResult records one executed item. Error is set instead of Outputs when
// the inputs were rejected.
type BatchResult struct {
	Calculator string   `json:"calculator"`
	Outputs    []Output `json:"outputs,omitempty"`
	Error      string   `json:"error,omitempty"`
	Code       string   `json:"code,omitempty"`
}

// BatchResponse is the JSON response for POST /api/calculators/batch.
type BatchResponse struct {
	Results []BatchResult `json:"results"`
	Failed  int           `json:"failed"`
}

// CatalogEntry describes one calculator in GET /api/calculators.
type CatalogEntry struct {
	Category string  `json:"category"`
	Slug     string  `json:"slug"`
	Fields   []Field `json:"fields"`
}
