// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lincheck checks recorded concurrent histories for
// linearizability against a sequential model.
//
// Histories are recorded with a logical clock: every operation takes one
// tick on invocation and one on response, so two operations are ordered in
// real time exactly when one's response tick precedes the other's
// invocation tick. The checker runs the Wing and Gong search with
// memoization on (linearized set, model state), which keeps histories of a
// few dozen operations tractable.
package lincheck

import (
	"fmt"

	"code.hybscloud.com/atomix"
	"github.com/sugawarayuuta/sonnet"
)

// MaxOperations bounds the length of a checkable history.
const MaxOperations = 64

// Input is the invocation of one operation.
type Input struct {
	Op   string `json:"op"`
	Args []int  `json:"args,omitempty"`
}

// Output is the response of one operation.
type Output struct {
	Value int  `json:"value"`
	Ok    bool `json:"ok"`
}

// Operation is one completed call in a concurrent history.
type Operation struct {
	Client int    `json:"client"`
	Call   uint64 `json:"call"`
	Return uint64 `json:"return"`
	Input  Input  `json:"input"`
	Output Output `json:"output"`
}

// History is a set of completed operations.
type History []Operation

// JSON renders the history for test logs.
func (h History) JSON() string {
	b, err := sonnet.Marshal(h)
	if err != nil {
		return fmt.Sprintf("<history: %v>", err)
	}
	return string(b)
}

// Recorder collects a history from concurrently running clients.
// Each client must only record from one goroutine.
type Recorder struct {
	clock   atomix.Uint64
	clients []History
}

// NewRecorder creates a recorder for the given number of clients.
func NewRecorder(clients int) *Recorder {
	return &Recorder{clients: make([]History, clients)}
}

// Record runs fn as an operation of client and records its interval.
func (r *Recorder) Record(client int, in Input, fn func() Output) {
	call := r.clock.AddAcqRel(1)
	out := fn()
	ret := r.clock.AddAcqRel(1)
	r.clients[client] = append(r.clients[client], Operation{
		Client: client,
		Call:   call,
		Return: ret,
		Input:  in,
		Output: out,
	})
}

// History returns all recorded operations.
// Call only after every client goroutine has finished.
func (r *Recorder) History() History {
	var h History
	for _, ops := range r.clients {
		h = append(h, ops...)
	}
	return h
}

// Model is a sequential specification.
type Model struct {
	// Init returns the initial state.
	Init func() any
	// Step applies in to state. It reports whether out is a legal response
	// and returns the next state. Step must not mutate state.
	Step func(state any, in Input, out Output) (bool, any)
	// Key identifies a state for memoization.
	Key func(state any) string
}

type memoKey struct {
	done  uint64
	state string
}

// Check reports whether h is linearizable with respect to m.
// Panics if h holds more than MaxOperations operations.
func Check(m Model, h History) bool {
	n := len(h)
	if n > MaxOperations {
		panic("lincheck: history too long")
	}
	full := uint64(1)<<n - 1
	if n == MaxOperations {
		full = ^uint64(0)
	}
	seen := make(map[memoKey]struct{})

	var search func(done uint64, state any) bool
	search = func(done uint64, state any) bool {
		if done == full {
			return true
		}
		key := memoKey{done: done, state: m.Key(state)}
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}

		// Any pending operation invoked before the earliest pending
		// response may take effect next.
		minReturn := ^uint64(0)
		for i := range n {
			if done&(1<<i) == 0 && h[i].Return < minReturn {
				minReturn = h[i].Return
			}
		}
		for i := range n {
			if done&(1<<i) != 0 || h[i].Call > minReturn {
				continue
			}
			if ok, next := m.Step(state, h[i].Input, h[i].Output); ok {
				if search(done|1<<i, next) {
					return true
				}
			}
		}
		return false
	}
	return search(0, m.Init())
}
