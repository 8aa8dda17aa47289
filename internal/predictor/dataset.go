package predictor

// Lookback is the fixed trailing-window length used as model input.
const Lookback = 60

// MinRows is the minimum processed-series length for a prediction;
// shorter series are an expected skip, not an error.
const MinRows = 100

// MinMaxScaler rescales a single series to [0, 1]. Statistics are fit
// per series; tickers with very different absolute price ranges must
// not share a scale.
type MinMaxScaler struct {
	Min float64
	Max float64
}

// FitScaler computes min/max over the given values.
func FitScaler(values []float64) *MinMaxScaler {
	s := &MinMaxScaler{}
	if len(values) == 0 {
		return s
	}
	s.Min, s.Max = values[0], values[0]
	for _, v := range values[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}

// Transform maps a value into scaled space. A zero-span series maps
// to 0.
func (s *MinMaxScaler) Transform(v float64) float64 {
	span := s.Max - s.Min
	if span == 0 {
		return 0
	}
	return (v - s.Min) / span
}

// Inverse maps a scaled value back to original units.
func (s *MinMaxScaler) Inverse(v float64) float64 {
	return v*(s.Max-s.Min) + s.Min
}

// TransformAll scales a whole series.
func (s *MinMaxScaler) TransformAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.Transform(v)
	}
	return out
}

// BuildWindows constructs supervised examples from a scaled series:
// input = scaled[i : i+lookback], target = scaled[i+lookback], for i in
// [0, len-lookback-1). A series of length L yields max(0, L-lookback-1)
// examples.
func BuildWindows(scaled []float64, lookback int) (inputs [][]float64, targets []float64) {
	n := len(scaled) - lookback - 1
	if n <= 0 {
		return nil, nil
	}
	inputs = make([][]float64, n)
	targets = make([]float64, n)
	for i := 0; i < n; i++ {
		inputs[i] = scaled[i : i+lookback]
		targets[i] = scaled[i+lookback]
	}
	return inputs, targets
}
