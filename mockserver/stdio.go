package mockserver

import (
	"errors"
	"io"
)

type stdioStream struct {
	in  io.ReadCloser
	out io.WriteCloser
}

// StdioStream combines a process's standard input and output into the byte stream that Serve
// expects.
func StdioStream(in io.ReadCloser, out io.WriteCloser) io.ReadWriteCloser {
	return stdioStream{in: in, out: out}
}

func (s stdioStream) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s stdioStream) Write(p []byte) (int, error) { return s.out.Write(p) }

func (s stdioStream) Close() error {
	return errors.Join(s.in.Close(), s.out.Close())
}
