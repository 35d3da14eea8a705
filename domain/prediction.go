package domain

type Label string

const (
	WillChurn Label = "will_churn"
	WillStay  Label = "will_stay"
)

// Prediction holds the probability of the positive (churn) class.
type Prediction struct {
	Label        Label
	Probability  float64
	ModelVersion string
}

// Confidence is what users see: the churn probability for WillChurn,
// the probability of staying otherwise.
func (p Prediction) Confidence() float64 {
	if p.Label == WillStay {
		return 1 - p.Probability
	}
	return p.Probability
}

// FeatureVector is the model input, columns in the model's declared order.
type FeatureVector struct {
	Columns []string
	Values  []float64
}

func (v FeatureVector) Get(column string) (float64, bool) {
	for i, c := range v.Columns {
		if c == column {
			return v.Values[i], true
		}
	}
	return 0, false
}

func (v FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.Columns))
	for i, c := range v.Columns {
		out[c] = v.Values[i]
	}
	return out
}
