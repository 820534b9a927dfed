package catalog

import "time"

// SetClock reemplaza el reloj del store en tests.
func (s *Store) SetClock(now func() time.Time) { s.now = now }
