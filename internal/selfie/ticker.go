package selfie

import (
	"sync"
	"time"
)

// DefaultTickInterval refreshes the preview at about 25 fps.
const DefaultTickInterval = 40 * time.Millisecond

// TimerScheduler runs fn on its own goroutine driven by a time.Ticker.
// A slow fn delays the next call; missed ticks are dropped, not queued.
type TimerScheduler struct{}

// Every starts calling fn every d. The returned stop function blocks until
// the goroutine has exited and may be called more than once.
func (TimerScheduler) Every(d time.Duration, fn func()) func() {
	if d <= 0 {
		d = DefaultTickInterval
	}
	ticker := time.NewTicker(d)
	stopCh := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
			}
			// Stop wins over a tick that raced with it.
			select {
			case <-stopCh:
				return
			default:
			}
			fn()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopCh) })
		<-done
	}
}
