package classifier

import "time"

// Category is one entry of a classification: a class label and its score.
type Category struct {
	Label string  `json:"label"`
	Value float32 `json:"value"`
}

// Timing reports how long each stage of the engine took.
type Timing struct {
	DSP            time.Duration `json:"dsp"`
	Classification time.Duration `json:"classification"`
	Anomaly        time.Duration `json:"anomaly"`
}

// Result is what an engine produces for one signal. Classification is kept in
// the model's training-time class order, not sorted by score.
type Result struct {
	Classification []Category `json:"classification"`
	AnomalyScore   float32    `json:"anomaly,omitempty"`
	Timing         Timing     `json:"timing"`
}

// NewResult pairs values with labels by position.
func NewResult(labels []string, values []float32) *Result {
	r := &Result{Classification: make([]Category, len(values))}
	for i, v := range values {
		r.Classification[i] = Category{Label: Label(labels, i), Value: v}
	}
	return r
}

// Top returns the highest scoring category. ok is false for an empty result.
func (r *Result) Top() (c Category, ok bool) {
	if r == nil || len(r.Classification) == 0 {
		return Category{}, false
	}
	values := make([]float32, len(r.Classification))
	for i, cat := range r.Classification {
		values[i] = cat.Value
	}
	idx, _ := ArgMax(values)
	return r.Classification[idx], true
}
