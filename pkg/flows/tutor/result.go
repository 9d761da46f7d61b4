package tutor

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/seedworks/arbor/pkg/domain"
)

// Result is the typed view of a finished tutor invocation. Callers use it
// instead of poking at raw state keys.
type Result struct {
	Question    string   `mapstructure:"question"`
	UserAnswer  string   `mapstructure:"userAnswer"`
	Correct     bool     `mapstructure:"isCorrect"`
	Reason      string   `mapstructure:"briefReason"`
	Attempts    int      `mapstructure:"attempts"`
	HintHistory []string `mapstructure:"hintHistory"`
	Explanation string   `mapstructure:"finalExplanation"`
	Praise      string   `mapstructure:"praise"`
	Err         string   `mapstructure:"error"`
}

// Hint returns the most recent hint, or empty when none was issued.
func (r *Result) Hint() string {
	if len(r.HintHistory) == 0 {
		return ""
	}
	return r.HintHistory[len(r.HintHistory)-1]
}

// Done reports whether the session for this question is over: either the
// answer was correct or the explanation was shown.
func (r *Result) Done() bool {
	return r.Correct || r.Explanation != ""
}

// DecodeResult maps the final state onto a Result. Weak typing absorbs
// the float64 numbers and []any slices a JSON round trip produces.
func DecodeResult(s *domain.State) (*Result, error) {
	var result Result
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &result,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("building result decoder: %w", err)
	}
	if err := decoder.Decode(s.Values); err != nil {
		return nil, fmt.Errorf("decoding tutor result: %w", err)
	}
	return &result, nil
}
