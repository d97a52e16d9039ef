package util

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
)

// CreateAsyncErrorChannel produces a channel for errors, with room for one error per sender
func CreateAsyncErrorChannel(senders int) chan error {
	return make(chan error, senders)
}

// WaitAndFetchError waits for every goroutine in wg, then returns the first error any of them sent
func WaitAndFetchError(wg *sync.WaitGroup, errors chan error) error {
	wg.Wait()
	close(errors)
	for err := range errors {
		if err != nil {
			return err
		}
	}
	return nil
}

// GetTrace produces the string representation of a stack trace
func GetTrace() string {
	var name, file string
	var line int
	var pc [16]uintptr
	var res strings.Builder
	n := runtime.Callers(3, pc[:])
	for _, pc := range pc[:n] {
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		file, line = fn.FileLine(pc)
		name = fn.Name()
		if !strings.HasPrefix(name, "runtime.") {
			fmt.Fprintf(&res, "%s\n\t%s:%d\n", name, file, line)
		}
	}
	return res.String()
}
