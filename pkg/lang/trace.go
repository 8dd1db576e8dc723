package lang

import (
	"context"
	"fmt"
)

const TraceSize = 1000

// Trace is a ring of the call frames currently being evaluated.
//
// A Trace is mutated in place, so every concurrently evaluating statement or
// task needs its own; see ForkTrace.
type Trace struct {
	frames [TraceSize]*Annotate
	depth  int
}

type traceKey struct{}

func (trace *Trace) Record(frame *Annotate) {
	trace.frames[trace.depth%TraceSize] = frame
	trace.depth++
}

func (trace *Trace) Pop(n int) {
	if trace.depth < n {
		panic(fmt.Sprintf("impossible: popped too far! (%d < %d)", trace.depth, n))
	}

	for i := 0; i < n; i++ {
		trace.depth--
		trace.frames[trace.depth%TraceSize] = nil
	}
}

func (trace *Trace) IsEmpty() bool {
	return trace.depth == 0
}

// Frames returns the recorded frames, outermost first.
func (trace *Trace) Frames() []*Annotate {
	frames := make([]*Annotate, 0, TraceSize)

	offset := trace.depth % TraceSize
	for i := offset; i < TraceSize; i++ {
		if frame := trace.frames[i]; frame != nil {
			frames = append(frames, frame)
		}
	}

	for i := 0; i < offset; i++ {
		if frame := trace.frames[i]; frame != nil {
			frames = append(frames, frame)
		}
	}

	return frames
}

func (trace *Trace) Reset() {
	for i := range trace.frames {
		trace.frames[i] = nil
	}

	trace.depth = 0
}

func WithTrace(ctx context.Context, trace *Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// ForkTrace gives the context a copy of its trace, so a spawned task records
// its frames without disturbing its parent's.
func ForkTrace(ctx context.Context) context.Context {
	if trace, ok := TraceFrom(ctx); ok {
		cp := &Trace{}
		copy(cp.frames[:], trace.frames[:])
		cp.depth = trace.depth
		return context.WithValue(ctx, traceKey{}, cp)
	}

	return ctx
}

func TraceFrom(ctx context.Context) (*Trace, bool) {
	trace, ok := ctx.Value(traceKey{}).(*Trace)
	return trace, ok
}

// WithFrame records the frame in the context's trace, returning a
// continuation which pops it once the frame returns.
func WithFrame(ctx context.Context, frame *Annotate, cont Cont) Cont {
	trace, ok := TraceFrom(ctx)
	if !ok {
		return cont
	}

	trace.Record(frame)

	return cont.Traced(trace)
}
