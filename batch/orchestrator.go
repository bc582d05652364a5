// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/lexingest/core"
)

// Outcome is one slot of a batch result: either a successful value or an
// error record. A batch of N inputs always yields exactly N outcomes, in
// input order.
type Outcome[T any] struct {
	Value T
	Err   *core.ErrorRecord
}

// Failed reports whether this slot holds an error record.
func (o Outcome[T]) Failed() bool {
	return o.Err != nil
}

// Orchestrator fans independent single-item operations out over a worker
// pool, isolating per-item failures. Items share no mutable state beyond
// read-only snapshots and engine handles.
type Orchestrator struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}

		if o.pool != nil {
			o.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// New creates a batch orchestrator.
func New(opts ...Option) (*Orchestrator, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		pool:   pool,
		logger: slog.Default().With("component", "batch"),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}

	return o, nil
}

// Release releases the worker pool.
// The orchestrator should not be used after calling Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}

// Run schedules op for every input concurrently and returns one outcome per
// input, in input order, regardless of completion order or individual
// latency. No input causes another input's result to be lost: an op error or
// panic is substituted as an ErrorRecord in that input's slot. errKind
// classifies op failures in the resulting error records; locate names an
// input for its error record (the file path, the document's source locator).
//
// If ctx is cancelled, in-flight items finish (or fail on their own context
// checks) and not-yet-started items surface as cancelled error records; the
// ordering contract is preserved either way.
func Run[I, T any](ctx context.Context, o *Orchestrator, inputs []I, errKind string,
	locate func(I) string, op func(ctx context.Context, input I) (T, error)) []Outcome[T] {

	outcomes := make([]Outcome[T], len(inputs))
	var wg sync.WaitGroup

	for i := range inputs {
		i, input := i, inputs[i]

		if err := ctx.Err(); err != nil {
			outcomes[i] = cancelledOutcome[T](locate(input))
			continue
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			outcomes[i] = runOne(ctx, o.logger, input, locate(input), errKind, op)
		}

		if err := o.pool.Submit(task); err != nil {
			// Pool rejected the task (released or overloaded); run inline so
			// the slot is still produced.
			o.logger.Warn("pool submit failed, running inline", "input", locate(input), "err", err)
			task()
		}
	}

	wg.Wait()
	return outcomes
}

// runOne executes op for a single input, converting errors, cancellation and
// panics into error records.
func runOne[I, T any](ctx context.Context, logger *slog.Logger, input I, locator, errKind string,
	op func(ctx context.Context, input I) (T, error)) (outcome Outcome[T]) {

	defer func() {
		if p := recover(); p != nil {
			logger.Error("batch item panicked", "input", locator, "panic", p)
			outcome = Outcome[T]{Err: &core.ErrorRecord{
				SourceLocator: locator,
				Kind:          core.ErrorKindPanic,
				Message:       fmt.Sprintf("%v", p),
			}}
		}
	}()

	if err := ctx.Err(); err != nil {
		return cancelledOutcome[T](locator)
	}

	value, err := op(ctx, input)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return cancelledOutcome[T](locator)
		}

		logger.Warn("batch item failed", "input", locator, "err", err)
		return Outcome[T]{Err: &core.ErrorRecord{
			SourceLocator: locator,
			Kind:          errKind,
			Message:       err.Error(),
		}}
	}

	return Outcome[T]{Value: value}
}

// Locator is the identity locate function for string inputs such as file
// paths.
func Locator(input string) string {
	return input
}

func cancelledOutcome[T any](locator string) Outcome[T] {
	return Outcome[T]{Err: &core.ErrorRecord{
		SourceLocator: locator,
		Kind:          core.ErrorKindCancelled,
		Message:       "batch cancelled before item completed",
	}}
}
