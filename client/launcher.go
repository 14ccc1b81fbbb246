package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/buildserver/bsp-contract-tests/framework"

	"github.com/alessio/shellescape"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDialTimeout  = time.Second * 10
	processExitTimeout  = time.Second * 5
	stderrLogLinePrefix = "[server stderr] "
)

// LaunchOptions describes how to reach the build server under test.
type LaunchOptions struct {
	// WorkspaceRoot is the directory of the workspace to test. Required.
	WorkspaceRoot string

	// CompilerOutputDir is the directory where the harness expects compiled classes or other
	// output to be written. Optional.
	CompilerOutputDir string

	// Argv, if set, is the command that starts the server, overriding any connection file.
	Argv []string

	// ConnectionFile selects a connection file when there is more than one; see
	// FindConnectionFile.
	ConnectionFile string

	// TCPAddress, if set, means that the server is already running and listening on this
	// address, so nothing is started.
	TCPAddress string

	// StartupOutput receives human-readable progress messages. Optional.
	StartupOutput io.Writer

	// Logger receives debug output, including the server's standard error. Optional.
	Logger framework.Logger
}

// Validate checks the options for configuration errors that can be detected without starting
// anything, and makes the workspace path absolute.
func (o *LaunchOptions) Validate() error {
	if o.WorkspaceRoot == "" {
		return errors.New("workspace root is required")
	}
	abs, err := filepath.Abs(o.WorkspaceRoot)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace root %s is not a directory", abs)
	}
	o.WorkspaceRoot = abs
	if o.CompilerOutputDir != "" {
		if o.CompilerOutputDir, err = filepath.Abs(o.CompilerOutputDir); err != nil {
			return err
		}
	}
	if o.TCPAddress != "" && len(o.Argv) > 0 {
		return errors.New("a server command and a TCP address cannot both be specified")
	}
	return nil
}

// Launch starts or connects to the build server described by opts and returns a Session.
//
// If opts.TCPAddress is set, the server is dialed. Otherwise the server command is taken from
// opts.Argv or from a connection file in the workspace, and the server is started as a child
// process in the workspace directory, communicating over its standard input and output.
func Launch(ctx context.Context, opts LaunchOptions) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	out := opts.StartupOutput
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = framework.NullLogger()
	}

	if opts.TCPAddress != "" {
		return Dial(ctx, opts)
	}

	details := ConnectionDetails{Name: "command line", Argv: opts.Argv}
	if len(opts.Argv) == 0 {
		file, err := FindConnectionFile(opts.WorkspaceRoot, opts.ConnectionFile)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "Using connection file %s (%s %s, BSP %s)\n",
			file.Path, file.Details.Name, file.Details.Version, file.Details.BspVersion)
		details = file.Details
	}

	fmt.Fprintf(out, "Starting build server: %s\n", FormatCommand(details.Argv))
	proc, err := startProcess(ctx, details.Argv, opts.WorkspaceRoot, logger)
	if err != nil {
		return nil, err
	}
	session := NewSession(proc, SessionOptions{
		Details:           details,
		WorkspaceRoot:     opts.WorkspaceRoot,
		CompilerOutputDir: opts.CompilerOutputDir,
		Logger:            logger,
	})
	session.AddCloser(proc.wait)
	return session, nil
}

// Dial connects to a build server that is already listening on opts.TCPAddress.
func Dial(ctx context.Context, opts LaunchOptions) (*Session, error) {
	if opts.StartupOutput != nil {
		fmt.Fprintf(opts.StartupOutput, "Connecting to build server at %s\n", opts.TCPAddress)
	}
	dialer := net.Dialer{Timeout: defaultDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", opts.TCPAddress)
	if err != nil {
		return nil, fmt.Errorf("could not connect to build server: %w", err)
	}
	return NewSession(conn, SessionOptions{
		Details:           ConnectionDetails{Name: "tcp://" + opts.TCPAddress},
		WorkspaceRoot:     opts.WorkspaceRoot,
		CompilerOutputDir: opts.CompilerOutputDir,
		Logger:            opts.Logger,
	}), nil
}

// FormatCommand renders a command line so that it can be pasted into a shell.
func FormatCommand(argv []string) string {
	var quoted []string
	for _, a := range argv {
		quoted = append(quoted, shellescape.Quote(a))
	}
	return strings.Join(quoted, " ")
}

// serverProcess is the byte stream to a child process: we read its stdout and write its stdin.
type serverProcess struct {
	cmd    *exec.Cmd
	stdout *os.File
	stdin  io.WriteCloser
	group  *errgroup.Group
	exited chan struct{}

	closeOnce sync.Once
	closeErr  error
}

func startProcess(ctx context.Context, argv []string, dir string, logger framework.Logger) (*serverProcess, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty server command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	// os.Pipe rather than cmd.StdoutPipe, because Wait closes the latter as soon as the process
	// exits, which would race with the connection reading its last messages.
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		_ = stdoutR.Close()
		_ = stdoutW.Close()
		return nil, err
	}
	closePipes := func() {
		for _, f := range []*os.File{stdoutR, stdoutW, stderrR, stderrW} {
			_ = f.Close()
		}
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW
	stdin, err := cmd.StdinPipe()
	if err != nil {
		closePipes()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		closePipes()
		return nil, fmt.Errorf("could not start build server: %w", err)
	}
	_ = stdoutW.Close()
	_ = stderrW.Close()

	p := &serverProcess{
		cmd:    cmd,
		stdout: stdoutR,
		stdin:  stdin,
		group:  new(errgroup.Group),
		exited: make(chan struct{}),
	}
	p.group.Go(func() error {
		defer stderrR.Close()
		scanner := bufio.NewScanner(stderrR)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			logger.Printf("%s%s", stderrLogLinePrefix, scanner.Text())
		}
		return nil
	})
	p.group.Go(func() error {
		defer close(p.exited)
		err := cmd.Wait()
		if err != nil {
			logger.Printf("Build server process exited: %s", err)
		} else {
			logger.Printf("Build server process exited normally")
		}
		return nil
	})
	return p, nil
}

func (p *serverProcess) Read(b []byte) (int, error)  { return p.stdout.Read(b) }
func (p *serverProcess) Write(b []byte) (int, error) { return p.stdin.Write(b) }

func (p *serverProcess) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = errors.Join(p.stdin.Close(), p.stdout.Close())
	})
	return p.closeErr
}

// wait gives the process a chance to exit by itself after its input has been closed, and kills
// it if it does not.
func (p *serverProcess) wait() error {
	_ = p.stdin.Close()
	select {
	case <-p.exited:
	case <-time.After(processExitTimeout):
		_ = p.cmd.Process.Kill()
	}
	return p.group.Wait()
}
