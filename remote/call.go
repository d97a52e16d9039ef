// Package remote ships calls to executors which keep large values resident and
// return routing keys in their place. Outcomes are reinterpreted into Local values
// or remote handles which can be chained without moving data.
package remote

// Kwargs are keyword arguments. Passed among the positional arguments of
// NewCall, they are lifted into Call.Kwargs.
type Kwargs map[string]interface{}

// Call is one method invocation against the value stored under Key
type Call struct {
	Key    string                 `mapstructure:"key"`
	Method string                 `mapstructure:"method"`
	Args   []interface{}          `mapstructure:"args"`
	Kwargs map[string]interface{} `mapstructure:"kwargs"`
}

// NewCall builds a Call, lifting any Kwargs out of args
func NewCall(key string, method string, args ...interface{}) Call {
	c := Call{Key: key, Method: method, Args: make([]interface{}, 0, len(args))}
	for _, a := range args {
		kw, ok := a.(Kwargs)
		if !ok {
			c.Args = append(c.Args, a)
			continue
		}
		if c.Kwargs == nil {
			c.Kwargs = make(map[string]interface{}, len(kw))
		}
		for k, v := range kw {
			c.Kwargs[k] = v
		}
	}
	return c
}
