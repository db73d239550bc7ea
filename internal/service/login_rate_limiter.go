package service

import (
	"sync"
	"time"
)

// LoginRateLimiter limita los logins fallidos por clave. Un login correcto
// limpia el contador de su clave.
type LoginRateLimiter interface {
	// Allow indica si la clave puede intentar un login.
	Allow(key string) bool
	// RecordFailure cuenta un intento fallido dentro de la ventana.
	RecordFailure(key string)
	// Reset olvida los fallos de la clave.
	Reset(key string)
}

type loginRateLimiter struct {
	mu          sync.Mutex
	window      time.Duration
	maxFailures int
	failures    map[string][]time.Time
	now         func() time.Time
}

// NewLoginRateLimiter crea un limitador en memoria que tolera maxFailures
// fallos por ventana; el siguiente intento se rechaza.
func NewLoginRateLimiter(window time.Duration, maxFailures int) LoginRateLimiter {
	if maxFailures <= 0 {
		maxFailures = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &loginRateLimiter{
		window:      window,
		maxFailures: maxFailures,
		failures:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

func (l *loginRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(key)) <= l.maxFailures
}

func (l *loginRateLimiter) RecordFailure(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[key] = append(l.prune(key), l.now().UTC())
}

func (l *loginRateLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, key)
}

// prune descarta los fallos fuera de la ventana. Requiere l.mu.
func (l *loginRateLimiter) prune(key string) []time.Time {
	cutoff := l.now().UTC().Add(-l.window)
	entries := l.failures[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(l.failures, key)
		return nil
	}
	l.failures[key] = kept
	return kept
}
