package app

import "sync"

// BackgroundUpdater performs out-of-band work on the background goroutine.
// It is stateless; everything it needs arrives per call.
type BackgroundUpdater struct{}

// Update blocks on the condition until the model signals it. The lock is
// released on every exit path. The body after the wait is the extension
// point for future background work (autosave, geometry precomputation);
// today it performs none.
func (BackgroundUpdater) Update(app *App, cond *sync.Cond) {
	cond.L.Lock()
	defer cond.L.Unlock()

	// Shutdown may flip the flag and broadcast before this call acquires
	// the lock; waiting then would miss the wakeup. With the lock held,
	// either the flag is already false or the broadcast is still pending
	// behind this lock and the wait below will receive it.
	if !app.running.Load() {
		return
	}

	cond.Wait()
	// Future background updates run here, still holding cond.L.
}

// backgroundUpdates is the background goroutine body. The running flag is
// re-checked only after each wait returns, so a final shutdown broadcast
// costs at most one more bounded check cycle before the goroutine exits.
func (a *App) backgroundUpdates(cond *sync.Cond) {
	defer close(a.bgDone)

	var updater BackgroundUpdater
	for a.running.Load() {
		updater.Update(a, cond)
	}
}
