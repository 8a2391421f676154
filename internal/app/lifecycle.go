package app

import "go.uber.org/zap"

// Shutdown releases the backend handles in reverse order of opening.
// It is safe to call on a zero Application and more than once.
func (a *Application) Shutdown() {
	if a == nil {
		return
	}
	log := a.log
	if log == nil {
		log = zap.NewNop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn("close backend returned error", zap.Error(err))
		}
	}
	a.closers = nil
}
