package future_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vito/arepl/pkg/future"
	"github.com/vito/is"
)

func TestResolve(t *testing.T) {
	is := is.New(t)

	f := future.New[int]()
	is.True(!f.Settled())

	go f.Resolve(42)

	val, err := f.Wait(context.Background())
	is.NoErr(err)
	is.Equal(val, 42)
	is.True(f.Settled())
}

func TestReject(t *testing.T) {
	is := is.New(t)

	boom := errors.New("boom")

	f := future.New[string]()
	go f.Reject(boom)

	val, err := f.Wait(context.Background())
	is.True(errors.Is(err, boom))
	is.Equal(val, "")
}

func TestWaitCancelled(t *testing.T) {
	is := is.New(t)

	f := future.New[int]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Wait(ctx)
	is.True(errors.Is(err, context.Canceled))
	is.True(!f.Settled())

	// still settles later
	f.Resolve(7)

	val, err := f.Wait(context.Background())
	is.NoErr(err)
	is.Equal(val, 7)
}

func TestWaitPrefersResult(t *testing.T) {
	is := is.New(t)

	f := future.New[int]()
	f.Resolve(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	val, err := f.Wait(ctx)
	is.NoErr(err)
	is.Equal(val, 1)
}

func TestWaitBlocks(t *testing.T) {
	is := is.New(t)

	f := future.New[int]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		f.Resolve(3)
	}()

	select {
	case <-f.Done():
		t.Fatal("settled too early")
	default:
	}

	val, err := f.Wait(context.Background())
	is.NoErr(err)
	is.Equal(val, 3)
}

func TestSettleTwicePanics(t *testing.T) {
	is := is.New(t)

	f := future.New[int]()
	f.Resolve(1)

	defer func() {
		is.True(recover() != nil)
	}()

	f.Reject(errors.New("again"))
}
