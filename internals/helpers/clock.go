package helper

import "time"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock selalu mengembalikan waktu yang sama (dipakai di test).
type FixedClock struct{ T time.Time }

func (f FixedClock) Now() time.Time { return f.T }

// DateOnly memotong t ke 00:00 UTC pada tanggal yang sama.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
