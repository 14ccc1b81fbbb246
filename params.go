package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/buildserver/bsp-contract-tests/bsptests"
	"github.com/buildserver/bsp-contract-tests/framework"

	"github.com/spf13/cobra"
)

type commandParams struct {
	workspace      string
	compilerOutput string
	server         []string
	connection     string
	tcp            string
	timeout        time.Duration
	scenarios      []string
	fixtures       string
	configFile     string
	filters        framework.RegexFilters
	debug          bool
	debugAll       bool
	noColor        bool
}

// suiteConfig is the format of the file named by --config. Relative paths are resolved against
// the directory that contains the file.
type suiteConfig struct {
	Workspace      string   `json:"workspace"`
	CompilerOutput string   `json:"compilerOutput"`
	Server         []string `json:"server"`
	Connection     string   `json:"connection"`
	TCP            string   `json:"tcp"`
	Timeout        string   `json:"timeout"`
	Scenarios      []string `json:"scenarios"`
	Fixtures       string   `json:"fixtures"`
	Run            []string `json:"run"`
	Skip           []string `json:"skip"`
}

func (c *commandParams) addFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&c.workspace, "workspace", "", "root directory of the workspace to test (required)")
	fs.StringVar(&c.compilerOutput, "compiler-output", "", "directory where the server is expected to write compiler output")
	fs.StringArrayVar(&c.server, "server", nil, "one argument of the command that starts the build server (repeat for each argument)")
	fs.StringVar(&c.connection, "connection", "", "name of the connection file in the workspace's .bsp directory")
	fs.StringVar(&c.tcp, "tcp", "", "address of a build server that is already listening")
	fs.DurationVar(&c.timeout, "timeout", bsptests.DefaultTimeout, "time limit for each response")
	fs.StringSliceVar(&c.scenarios, "scenario", nil, "scenario(s) to run, in order (default: all)")
	fs.StringVar(&c.fixtures, "fixtures", "", "path or URL of a fixture file for the comparison scenarios")
	fs.StringVar(&c.configFile, "config", "", "YAML file providing any of these settings; flags take precedence")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
}

// resolve merges in the config file, if any, and checks everything that can be checked before
// starting the server.
func (c *commandParams) resolve(cmd *cobra.Command) error {
	if c.configFile != "" {
		if err := c.applyConfigFile(cmd); err != nil {
			return err
		}
	}
	if c.workspace == "" {
		return errors.New("--workspace is required")
	}
	if c.timeout <= 0 {
		return fmt.Errorf("invalid timeout %s", c.timeout)
	}
	known := bsptests.KnownScenarios()
	for _, s := range c.scenarios {
		if !isKnownScenario(known, s) {
			return fmt.Errorf("unknown scenario %q; valid scenarios are: %s", s, joinScenarios(known))
		}
	}
	return nil
}

func (c *commandParams) applyConfigFile(cmd *cobra.Command) error {
	data, err := os.ReadFile(c.configFile)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}
	var config suiteConfig
	if err := framework.DecodeDocument(data, &config); err != nil {
		return fmt.Errorf("invalid config file %s: %w", c.configFile, err)
	}
	dir := filepath.Dir(c.configFile)
	fs := cmd.Flags()

	setString := func(flag string, target *string, value string, isPath bool) {
		if fs.Changed(flag) || value == "" {
			return
		}
		if isPath && !filepath.IsAbs(value) && !isURL(value) {
			value = filepath.Join(dir, value)
		}
		*target = value
	}
	setString("workspace", &c.workspace, config.Workspace, true)
	setString("compiler-output", &c.compilerOutput, config.CompilerOutput, true)
	setString("connection", &c.connection, config.Connection, false)
	setString("tcp", &c.tcp, config.TCP, false)
	setString("fixtures", &c.fixtures, config.Fixtures, true)

	if !fs.Changed("server") && len(config.Server) > 0 {
		c.server = config.Server
	}
	if !fs.Changed("scenario") && len(config.Scenarios) > 0 {
		c.scenarios = config.Scenarios
	}
	if !fs.Changed("timeout") && config.Timeout != "" {
		if c.timeout, err = time.ParseDuration(config.Timeout); err != nil {
			return fmt.Errorf("invalid timeout in config file: %w", err)
		}
	}
	for _, rx := range config.Run {
		if !fs.Changed("run") {
			if err := c.filters.MustMatch.Set(rx); err != nil {
				return err
			}
		}
	}
	for _, rx := range config.Skip {
		if !fs.Changed("skip") {
			if err := c.filters.MustNotMatch.Set(rx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *commandParams) scenarioIDs() []bsptests.ScenarioID {
	var ret []bsptests.ScenarioID
	for _, s := range c.scenarios {
		ret = append(ret, bsptests.ScenarioID(s))
	}
	return ret
}

func isKnownScenario(known []bsptests.ScenarioID, s string) bool {
	for _, k := range known {
		if string(k) == s {
			return true
		}
	}
	return false
}

func joinScenarios(ids []bsptests.ScenarioID) string {
	var ss []string
	for _, id := range ids {
		ss = append(ss, string(id))
	}
	return strings.Join(ss, ", ")
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
