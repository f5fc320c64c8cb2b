package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

var errWriterClosed = errors.New("logger: writer closed")

// lineWriter fans complete log lines out to every sink from one goroutine.
// Lines queued back to back are flushed together.
type lineWriter struct {
	lines  chan []byte
	syncs  chan chan error
	quit   chan struct{}
	closed chan struct{}
	stop   sync.Once

	out *bufio.Writer

	mu  sync.Mutex
	err error
}

func newLineWriter(sinks []io.Writer, bufSize int) *lineWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	live := sinks[:0:0]
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	w := &lineWriter{
		lines:  make(chan []byte, 256),
		syncs:  make(chan chan error),
		quit:   make(chan struct{}),
		closed: make(chan struct{}),
		out:    bufio.NewWriterSize(io.MultiWriter(live...), bufSize),
	}
	go w.run()
	return w
}

func (w *lineWriter) run() {
	defer close(w.closed)
	for {
		select {
		case line := <-w.lines:
			w.put(line)
			if len(w.lines) == 0 {
				w.record(w.out.Flush())
			}
		case ack := <-w.syncs:
			ack <- w.flush()
		case <-w.quit:
			for {
				select {
				case line := <-w.lines:
					w.put(line)
				default:
					w.record(w.out.Flush())
					return
				}
			}
		}
	}
}

func (w *lineWriter) put(line []byte) {
	if _, err := w.out.Write(line); err != nil {
		w.record(err)
	}
}

func (w *lineWriter) flush() error {
	err := w.out.Flush()
	w.record(err)
	return err
}

// Write queues a copy of line. It blocks while the queue is full.
func (w *lineWriter) Write(line []byte) error {
	if err := w.firstErr(); err != nil {
		return err
	}
	if len(line) == 0 {
		return nil
	}
	buf := append([]byte(nil), line...)
	select {
	case w.lines <- buf:
		return nil
	case <-w.quit:
		return errWriterClosed
	}
}

// Flush waits until every queued line reached the sinks.
func (w *lineWriter) Flush() error {
	ack := make(chan error, 1)
	select {
	case w.syncs <- ack:
		return <-ack
	case <-w.closed:
		return w.firstErr()
	}
}

// Close drains the queue and returns the first write error seen.
func (w *lineWriter) Close() error {
	w.stop.Do(func() { close(w.quit) })
	<-w.closed
	return w.firstErr()
}

func (w *lineWriter) record(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.mu.Unlock()
}

func (w *lineWriter) firstErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
