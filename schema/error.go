package schema

import "fmt"

// Stage kinds.
const (
	KindProcessor  = "processor"
	KindSegmentor  = "segmentor"
	KindTranslator = "translator"
	KindFilter     = "filter"
)

// Error reports a schema that cannot be turned into a pipeline. Nothing is
// installed when it is returned.
type Error struct {
	Schema string
	// Stage is the offending stage name, if any.
	Stage string
	// Kind is the stage kind or the schema section at fault.
	Kind   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := "schema"
	if e.Schema != "" {
		msg += " " + e.Schema
	}
	if e.Stage != "" {
		msg += fmt.Sprintf(": %s %q", e.Kind, e.Stage)
	} else if e.Kind != "" {
		msg += ": " + e.Kind
	}
	return msg + ": " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}
