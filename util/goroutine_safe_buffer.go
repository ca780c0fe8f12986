package util

import (
	"bytes"
	"sync"
)

// GoroutineSafeBuffer is a bytes.Buffer that several output plugins (or a
// test and the goroutine it observes) may share.
type GoroutineSafeBuffer struct {
	sync.Mutex
	buf bytes.Buffer
}

func NewGoroutineSafeBuffer() *GoroutineSafeBuffer {
	return &GoroutineSafeBuffer{}
}

func (g *GoroutineSafeBuffer) Write(p []byte) (n int, err error) {
	g.Lock()
	defer g.Unlock()
	return g.buf.Write(p)
}

func (g *GoroutineSafeBuffer) String() string {
	g.Lock()
	defer g.Unlock()
	return g.buf.String()
}

func (g *GoroutineSafeBuffer) Reset() {
	g.Lock()
	defer g.Unlock()
	g.buf.Reset()
}

func (g *GoroutineSafeBuffer) Len() int {
	g.Lock()
	defer g.Unlock()
	return g.buf.Len()
}
