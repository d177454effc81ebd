package logging

import "testing"

func TestNewLogger(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		l := NewLogger(verbose)
		if l == nil || l.SugaredLogger == nil {
			t.Fatalf("NewLogger(%v) returned unusable logger", verbose)
		}
		// flushing a console logger must never panic or surface an error
		l.Sync()
	}
}
