package api

import "encoding/json"

// Outcome is the terminal result of a resource lookup. Lookups are
// read-only, so Changed is always false.
type Outcome struct {
	Changed bool
	Failed  bool
	Msg     string
	Data    any
}

func Success(data any) Outcome {
	return Outcome{Data: data}
}

func Failure(msg string) Outcome {
	return Outcome{Failed: true, Msg: msg}
}

type successView struct {
	Changed bool `json:"changed" yaml:"changed"`
	Data    any  `json:"data" yaml:"data"`
}

type failureView struct {
	Changed bool   `json:"changed" yaml:"changed"`
	Failed  bool   `json:"failed" yaml:"failed"`
	Msg     string `json:"msg" yaml:"msg"`
}

// view keeps data on every success, even a null payload, and leaves it
// out of failures.
func (o Outcome) view() any {
	if o.Failed {
		return failureView{Changed: o.Changed, Failed: true, Msg: o.Msg}
	}
	return successView{Changed: o.Changed, Data: o.Data}
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.view())
}

func (o Outcome) MarshalYAML() (any, error) {
	return o.view(), nil
}
