package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"

	"github.com/buildserver/bsp-contract-tests/bsp"
	"github.com/buildserver/bsp-contract-tests/bsptests"
	"github.com/buildserver/bsp-contract-tests/client"
	"github.com/buildserver/bsp-contract-tests/framework"
	"github.com/buildserver/bsp-contract-tests/mockserver"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errTestsFailed = errors.New("some tests failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	params := &commandParams{}
	cmd := &cobra.Command{
		Use:   "bsp-contract-tests",
		Short: "Conformance tests for Build Server Protocol servers",
		Long: `Starts or connects to a build server for a workspace, drives it through the
Build Server Protocol, and reports whether its responses are what a client can expect.

Example:
  bsp-contract-tests --workspace ./example --debug
  bsp-contract-tests --workspace . --server my-bsp --server --stdio --scenario compile-successfully`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := params.resolve(cmd); err != nil {
				return err
			}
			return runSuite(cmd.Context(), params, cmd.OutOrStdout())
		},
	}
	params.addFlags(cmd)
	cmd.AddCommand(newMockServerCommand())
	return cmd
}

func runSuite(ctx context.Context, params *commandParams, out io.Writer) error {
	if params.noColor {
		color.NoColor = true
	}

	var fixtures bsptests.Fixtures
	if params.fixtures != "" {
		var err error
		if fixtures, err = bsptests.LoadFixtures(params.fixtures); err != nil {
			return err
		}
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(out, "", log.LstdFlags)
	}

	session, err := client.Launch(ctx, client.LaunchOptions{
		WorkspaceRoot:     params.workspace,
		CompilerOutputDir: params.compilerOutput,
		Argv:              params.server,
		ConnectionFile:    params.connection,
		TCPAddress:        params.tcp,
		StartupOutput:     out,
		Logger:            mainDebugLogger,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, params.filters, nil, nil)

	fmt.Fprintln(out, "Running test suite")

	testLogger := framework.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
		Output:               out,
	}
	results, err := bsptests.RunTestSuite(session, bsptests.TestClientOptions{
		Timeout:    params.timeout,
		Filter:     params.filters.AsFilter,
		TestLogger: testLogger,
		Fixtures:   fixtures,
	}, params.scenarioIDs())
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, framework.RegexFilters{}, bsp.AllCapabilities, session.Capabilities().Has)
	framework.PrintResults(out, results)
	if !results.OK() {
		return errTestsFailed
	}
	return nil
}

// newMockServerCommand provides a well-behaved build server, for trying out the harness and for
// connection files in example workspaces.
func newMockServerCommand() *cobra.Command {
	var configFile, listen string
	cmd := &cobra.Command{
		Use:    "mock-server",
		Short:  "Run a mock build server on standard input and output",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := mockserver.DefaultConfig()
			if configFile != "" {
				data, err := os.ReadFile(configFile)
				if err != nil {
					return err
				}
				if err := framework.DecodeDocument(data, &config); err != nil {
					return fmt.Errorf("invalid mock server config: %w", err)
				}
			}
			server := mockserver.New(config, log.New(os.Stderr, "", log.LstdFlags))
			if listen == "" {
				server.Serve(cmd.Context(), mockserver.StdioStream(os.Stdin, os.Stdout))
				return nil
			}
			listener, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}
			defer listener.Close()
			fmt.Fprintf(os.Stderr, "mock server listening on %s\n", listener.Addr())
			conn, err := listener.Accept()
			if err != nil {
				return err
			}
			server.Serve(cmd.Context(), conn)
			return nil
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "YAML or JSON file overriding the default mock server configuration")
	cmd.Flags().StringVar(&listen, "listen", "", "accept one TCP connection on this address instead of using standard input and output")
	return cmd
}
