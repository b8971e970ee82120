package data

import "fmt"

type (
	Result struct {
		Kind  ResultKind
		Value int
	}

	ResultKind uint8
)

const (
	Present ResultKind = iota + 1
	Missing
)

var (
	resultKindStr = []string{"present", "missing"}
)

func (k ResultKind) String() string {
	if k < Present || k > Missing {
		return "unknown"
	}

	return resultKindStr[k-1]
}

func (r Result) Found() bool { return r.Kind == Present }

func (r Result) String() string {
	switch r.Kind {
	case Missing:
		return fmt.Sprintf("(%s)", r.Kind)
	case Present:
		return fmt.Sprintf("(%s, %d)", r.Kind, r.Value)
	default:
		return ""
	}
}
