package util

import (
	"fmt"

	"github.com/go-sif/optimus"
)

// SafeValueFunc wraps a ValueFunc such that panics are recovered and nice error messages are constructed
func SafeValueFunc(fn optimus.ValueFunc) optimus.ValueFunc {
	return func(v interface{}) (res interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Map Panic: %w\nValue: %v\n%s", anErr, v, GetTrace())
				} else {
					err = fmt.Errorf("Map Panic: %v\nValue: %v\n%s", r, v, GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Map Error: %w\nValue: %v", err, v)
			}
		}()
		res, err = fn(v)
		return
	}
}

// SafeCall runs fn such that panics are recovered into errors
func SafeCall(name string, fn func() (interface{}, error)) (res interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			if anErr, ok := r.(error); ok {
				err = fmt.Errorf("%s Panic: %w\n%s", name, anErr, GetTrace())
			} else {
				err = fmt.Errorf("%s Panic: %v\n%s", name, r, GetTrace())
			}
		}
	}()
	return fn()
}
