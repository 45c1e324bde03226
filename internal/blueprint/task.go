package blueprint

import (
	"context"
	"sync"
)

// Source is something a blueprint can be decoded from.
type Source interface {
	Label() string
	Decode() (*Blueprint, error)
}

// DataURL is a blueprint embedded as a base64 image data URL.
type DataURL string

func (d DataURL) Label() string               { return dataURLLabel(string(d)) }
func (d DataURL) Decode() (*Blueprint, error) { return DecodeDataURL(string(d)) }

// File is a blueprint image on disk.
type File string

func (f File) Label() string               { return string(f) }
func (f File) Decode() (*Blueprint, error) { return DecodeFile(string(f)) }

// Task is an in-flight asynchronous decode. It resolves exactly once,
// either with a blueprint or with a *DecodeError.
type Task struct {
	label string
	done  chan struct{}
	once  sync.Once

	bp  *Blueprint
	err error
}

// Start decodes src on its own goroutine. Cancelling ctx resolves the task
// with a DecodeError wrapping ctx.Err() if the decode has not finished yet.
func Start(ctx context.Context, src Source) *Task {
	t := &Task{label: src.Label(), done: make(chan struct{})}
	go func() {
		bp, err := src.Decode()
		t.resolve(bp, err)
	}()
	go func() {
		select {
		case <-ctx.Done():
			t.resolve(nil, &DecodeError{Source: t.label, Err: ctx.Err()})
		case <-t.done:
		}
	}()
	return t
}

func (t *Task) resolve(bp *Blueprint, err error) {
	t.once.Do(func() {
		t.bp, t.err = bp, err
		close(t.done)
	})
}

// Done is closed once the task has resolved.
func (t *Task) Done() <-chan struct{} { return t.done }

// Ready reports whether the task has resolved without blocking.
func (t *Task) Ready() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Result blocks until the task resolves.
func (t *Task) Result() (*Blueprint, error) {
	<-t.done
	return t.bp, t.err
}

// Wait is Result bounded by ctx.
func (t *Task) Wait(ctx context.Context) (*Blueprint, error) {
	select {
	case <-t.done:
		return t.bp, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
