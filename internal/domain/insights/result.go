package insights

import "github.com/claimflow/claimflow/internal/platform/ai"

// Result is the envelope every generator returns. Data is never nil: on
// failure it holds the kind's fallback payload and the failure fields carry
// the classification. Callers branch on Failed, never on payload text.
type Result[T any] struct {
	Data           *T             `json:"data"`
	Failed         bool           `json:"failed"`
	FailureKind    ai.FailureKind `json:"failureKind,omitempty"`
	FailureMessage string         `json:"failureMessage,omitempty"`
}

func success[T any](data *T) Result[T] {
	return Result[T]{Data: data}
}

func failure[T any](fallback *T, err error) Result[T] {
	return Result[T]{
		Data:           fallback,
		Failed:         true,
		FailureKind:    ai.KindOf(err),
		FailureMessage: err.Error(),
	}
}
