package remote

import "github.com/mitchellh/mapstructure"

// Outcome statuses
const (
	StatusFinished = "finished"
	StatusError    = "error"
)

// Outcome is the raw result of a Call, as produced by every Executor
type Outcome struct {
	Status    string      `mapstructure:"status"`
	Key       string      `mapstructure:"key"`
	Result    interface{} `mapstructure:"result"`
	Error     string      `mapstructure:"error"`
	Dummy     bool        `mapstructure:"dummy"`     // the result stayed resident under Key
	DataFrame bool        `mapstructure:"dataframe"` // the resident result is a dataframe
	cause     error       // original error of an in-process executor
}

// Failed returns true iff this Outcome reports an error
func (o Outcome) Failed() bool {
	return o.Status == StatusError
}

// ToMap produces the wire representation of this Outcome
func (o Outcome) ToMap() map[string]interface{} {
	res := map[string]interface{}{
		"status": o.Status,
		"key":    o.Key,
	}
	if o.Failed() {
		res["error"] = o.Error
		return res
	}
	if o.Dummy {
		res["dummy"] = true
		res["dataframe"] = o.DataFrame
		return res
	}
	res["result"] = o.Result
	return res
}

// OutcomeFromMap decodes the wire representation of an Outcome
func OutcomeFromMap(m map[string]interface{}) (Outcome, error) {
	var o Outcome
	if err := mapstructure.Decode(m, &o); err != nil {
		return Outcome{}, err
	}
	return o, nil
}
