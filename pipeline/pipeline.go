package pipeline

import "context"

// Iterator yields values on demand. Next returns (zero, false, nil) once
// the stream is exhausted.
type Iterator[T any] interface {
	Next(ctx context.Context) (T, bool, error)
	Close() error
}

// Pipeline is a recipe for an Iterator. Nothing runs until Drain or Iter
// pulls from it, and every pull travels the whole chain.
type Pipeline[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// Runnable is a drained pipeline waiting to be run.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run pulls until the stream ends, a stage fails or ctx is done.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// lazyIter adapts a pair of closures to Iterator. Once next reports the end
// or an error, later calls return the end without calling it again.
type lazyIter[T any] struct {
	next  func(ctx context.Context) (T, bool, error)
	close func() error
	done  bool
}

func (it *lazyIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.done {
		return zero, false, nil
	}
	v, ok, err := it.next(ctx)
	if err != nil || !ok {
		it.done = true
		return zero, false, err
	}
	return v, true, nil
}

func (it *lazyIter[T]) Close() error {
	it.done = true
	if it.close == nil {
		return nil
	}
	return it.close()
}

// From wraps an existing Iterator. Such a pipeline can be pulled once.
func From[T any](it Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{create: func(context.Context) Iterator[T] { return it }}
}

// FromSlice streams items, restarting from the first on every pull.
func FromSlice[T any](items []T) *Pipeline[T] {
	return &Pipeline[T]{create: func(context.Context) Iterator[T] { return Slice(items) }}
}

// Generate calls next once per pull, never ahead of demand, until it
// reports the end or fails.
func Generate[T any](next func(ctx context.Context) (T, bool, error)) Iterator[T] {
	return &lazyIter[T]{next: next}
}

// Slice iterates over items.
func Slice[T any](items []T) Iterator[T] {
	i := 0
	return Generate(func(context.Context) (T, bool, error) {
		if i >= len(items) {
			var zero T
			return zero, false, nil
		}
		i++
		return items[i-1], true, nil
	})
}

// Drain builds a Runnable that feeds every value to sink.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{run: func(ctx context.Context) error {
		it := p.create(ctx)
		defer it.Close()
		for ctx.Err() == nil {
			v, ok, err := it.Next(ctx)
			if err != nil || !ok {
				return err
			}
			if err := sink(ctx, v); err != nil {
				return err
			}
		}
		return ctx.Err()
	}}
}

// Iter starts the pipeline and hands over its Iterator. The caller closes it.
func (p *Pipeline[T]) Iter(ctx context.Context) Iterator[T] {
	return p.create(ctx)
}
