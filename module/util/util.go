package util

import (
	"context"
	"sync"

	"github.com/onflow/dispute-client/module"
)

// AllReady returns a channel that is closed when all components are ready.
func AllReady(components ...module.ReadyDoneAware) <-chan struct{} {
	readyChans := make([]<-chan struct{}, len(components))
	for i, c := range components {
		readyChans[i] = c.Ready()
	}
	return AllClosed(readyChans...)
}

// AllDone returns a channel that is closed when all components are done.
func AllDone(components ...module.ReadyDoneAware) <-chan struct{} {
	doneChans := make([]<-chan struct{}, len(components))
	for i, c := range components {
		doneChans[i] = c.Done()
	}
	return AllClosed(doneChans...)
}

// AllClosed returns a channel that is closed when all input channels are closed.
func AllClosed(channels ...<-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(len(channels))
	for _, ch := range channels {
		go func(ch <-chan struct{}) {
			<-ch
			wg.Done()
		}(ch)
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

// WaitClosed waits for the channel to close or the context to be cancelled.
// A channel that is closed by the time the context is cancelled wins.
func WaitClosed(ctx context.Context, ch <-chan struct{}) error {
	select {
	case <-ctx.Done():
		select {
		case <-ch:
			return nil
		default:
		}
		return ctx.Err()
	case <-ch:
		return nil
	}
}

// WaitError waits for either an error on the error channel or the done channel
// to close. An error that is already available when done closes is still returned.
func WaitError(errChan <-chan error, done <-chan struct{}) error {
	select {
	case err := <-errChan:
		return err
	case <-done:
		select {
		case err := <-errChan:
			return err
		default:
		}
		return nil
	}
}
