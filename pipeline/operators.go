package pipeline

import "context"

// Stage rewrites a pipeline without changing its element type.
type Stage[T any] func(*Pipeline[T]) *Pipeline[T]

// Execute applies stages to initial in order.
func Execute[T any](initial *Pipeline[T], stages ...Stage[T]) *Pipeline[T] {
	p := initial
	for _, stage := range stages {
		p = stage(p)
	}
	return p
}

// derive builds a pipeline whose iterator reads from p's.
func derive[I, O any](p *Pipeline[I], next func(src Iterator[I]) func(context.Context) (O, bool, error)) *Pipeline[O] {
	return &Pipeline[O]{create: func(ctx context.Context) Iterator[O] {
		src := p.create(ctx)
		return &lazyIter[O]{next: next(src), close: src.Close}
	}}
}

// Map applies fn to each pulled value.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return derive(p, func(src Iterator[I]) func(context.Context) (O, bool, error) {
		return func(ctx context.Context) (O, bool, error) {
			var zero O
			v, ok, err := src.Next(ctx)
			if err != nil || !ok {
				return zero, false, err
			}
			out, err := fn(ctx, v)
			if err != nil {
				return zero, false, err
			}
			return out, true, nil
		}
	})
}

// Tap runs fn on each value and passes the value on. An error from fn
// ends the stream.
func Tap[T any](p *Pipeline[T], fn func(context.Context, T) error) *Pipeline[T] {
	return Map(p, func(ctx context.Context, v T) (T, error) {
		if err := fn(ctx, v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	})
}

// Flatten streams each inner iterator to its end, closing it, before it
// pulls the next one.
func Flatten[T any](p *Pipeline[Iterator[T]]) *Pipeline[T] {
	return &Pipeline[T]{create: func(ctx context.Context) Iterator[T] {
		src := p.create(ctx)
		var cur Iterator[T]
		closeCur := func() {
			if cur != nil {
				_ = cur.Close()
				cur = nil
			}
		}
		next := func(ctx context.Context) (T, bool, error) {
			var zero T
			for {
				if cur != nil {
					v, ok, err := cur.Next(ctx)
					if err != nil {
						return zero, false, err
					}
					if ok {
						return v, true, nil
					}
					closeCur()
				}
				inner, ok, err := src.Next(ctx)
				if err != nil || !ok {
					return zero, false, err
				}
				cur = inner
			}
		}
		return &lazyIter[T]{next: next, close: func() error {
			closeCur()
			return src.Close()
		}}
	}}
}

// FlatMap maps each value to an iterator and flattens the results.
func FlatMap[I, O any](p *Pipeline[I], fn func(context.Context, I) (Iterator[O], error)) *Pipeline[O] {
	return Flatten(Map(p, fn))
}
