// Package meta implements copy-on-write metadata attached to a DataFrame
package meta

import (
	"strings"

	"github.com/go-sif/optimus"
)

const actionsKey = "transformations.actions"

// Meta is a nested key-value annotation. Values of type Meta are never modified
// after construction; every setter returns a new Meta.
type Meta map[string]interface{}

// ActionRecord records one applied operation
type ActionRecord struct {
	Action  optimus.Action         `mapstructure:"action" json:"action"`
	Columns []string               `mapstructure:"columns" json:"columns"`
	Params  map[string]interface{} `mapstructure:"params" json:"params,omitempty"`
}

// New creates an empty Meta
func New() Meta {
	return Meta{}
}

// Set returns a copy of m in which key holds value. Dotted keys address nested maps,
// which are created as necessary.
func Set(m Meta, key string, value interface{}) Meta {
	res := clone(m)
	path := strings.Split(key, ".")
	cur := res
	for _, p := range path[:len(path)-1] {
		next, ok := asMeta(cur[p])
		if !ok {
			next = Meta{}
		} else {
			next = clone(next)
		}
		cur[p] = next
		cur = next
	}
	cur[path[len(path)-1]] = value
	return res
}

// Merge returns a copy of m with every key of dict set. Nested maps of dict are merged
// into the maps already held by m rather than replacing them.
func Merge(m Meta, dict map[string]interface{}) Meta {
	res := m
	for k, v := range dict {
		if nested, ok := asMeta(v); ok {
			existing, _ := Get(res, k)
			prev, _ := asMeta(existing)
			res = Set(res, k, Merge(clone(prev), nested))
			continue
		}
		res = Set(res, k, v)
	}
	if res == nil {
		return Meta{}
	}
	return res
}

// Get returns the value held at key, with dotted keys addressing nested maps
func Get(m Meta, key string) (interface{}, bool) {
	path := strings.Split(key, ".")
	cur := m
	for _, p := range path[:len(path)-1] {
		next, ok := asMeta(cur[p])
		if !ok {
			return nil, false
		}
		cur = next
	}
	v, ok := cur[path[len(path)-1]]
	return v, ok
}

// AppendAction returns a copy of m with one more Action Record
func AppendAction(m Meta, action optimus.Action, columns []string, params map[string]interface{}) Meta {
	prev := Actions(m)
	records := make([]ActionRecord, len(prev), len(prev)+1)
	copy(records, prev)
	cols := make([]string, len(columns))
	copy(cols, columns)
	records = append(records, ActionRecord{Action: action, Columns: cols, Params: params})
	return Set(m, actionsKey, records)
}

// Actions returns the Action Records of m, oldest first
func Actions(m Meta) []ActionRecord {
	v, ok := Get(m, actionsKey)
	if !ok {
		return nil
	}
	records, _ := v.([]ActionRecord)
	return records
}

// ToMap produces a plain nested map, suitable for serialization
func ToMap(m Meta) map[string]interface{} {
	res := make(map[string]interface{}, len(m))
	for k, v := range m {
		switch typed := v.(type) {
		case Meta:
			res[k] = ToMap(typed)
		case map[string]interface{}:
			res[k] = ToMap(typed)
		case []ActionRecord:
			list := make([]interface{}, len(typed))
			for i, r := range typed {
				list[i] = map[string]interface{}{"action": string(r.Action), "columns": r.Columns, "params": r.Params}
			}
			res[k] = list
		default:
			res[k] = v
		}
	}
	return res
}

// asMeta accepts both Meta and the plain maps produced by decoders
func asMeta(v interface{}) (Meta, bool) {
	switch typed := v.(type) {
	case Meta:
		return typed, true
	case map[string]interface{}:
		return Meta(typed), true
	}
	return nil, false
}

func clone(m Meta) Meta {
	res := make(Meta, len(m)+1)
	for k, v := range m {
		res[k] = v
	}
	return res
}
