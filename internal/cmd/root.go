package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/niels/rawhttpd/pkg/accesslog"
	"github.com/niels/rawhttpd/pkg/config"
	"github.com/niels/rawhttpd/pkg/endpoint"
	"github.com/niels/rawhttpd/pkg/logging"
	"github.com/niels/rawhttpd/pkg/server"
	"github.com/niels/rawhttpd/pkg/store"
	"github.com/niels/rawhttpd/pkg/version"
	"github.com/niels/rawhttpd/pkg/wirelog"
	"github.com/spf13/cobra"
)

// options holds the parsed command line flags
type options struct {
	configPath  string
	directory   string
	host        string
	port        int
	debug       bool
	showVersion bool
	wireLogPath string
	noColor     bool
}

// NewRootCmd creates the root command for rawhttpd
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithContext(context.Background())
}

// NewRootCmdWithContext creates the root command. The server stops when
// parent is cancelled or the process receives SIGINT or SIGTERM.
func NewRootCmdWithContext(parent context.Context) *cobra.Command {
	opts := &options{}
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: version.Description,
		Long: fmt.Sprintf(`%s - %s

Serves /, /echo/<text>, /user-agent and /files/<name> (GET and POST).
Every connection carries exactly one request and is closed after the response.
`, version.AppName, version.Description),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				cfg = config.LoadOrDefault(opts.configPath)
			} else {
				cfg = config.Default()
				config.ApplyEnv(cfg)
			}
			applyFlags(cmd, opts, cfg)

			logging.InitGlobalLogger(opts.debug, cfg)
			if opts.debug {
				logging.Debug("Debug logging enabled")
			}

			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
				return nil
			}
			return run(parent, cmd, opts, cfg)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.directory, "directory", "", "Directory served under /files (overrides config)")
	rootCmd.PersistentFlags().StringVar(&opts.host, "host", "", "Host to listen on (overrides config)")
	rootCmd.PersistentFlags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging and dump every exchange to stderr")
	rootCmd.PersistentFlags().BoolVarP(&opts.showVersion, "version", "v", false, "Show version information")
	rootCmd.PersistentFlags().StringVar(&opts.wireLogPath, "log-wire", "", "Append raw requests and responses to this file")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable color output")

	return rootCmd
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("directory") {
		cfg.Files.Directory = opts.directory
	}
	if flags.Changed("host") {
		cfg.Server.Host = opts.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = opts.port
	}
	if flags.Changed("log-wire") {
		cfg.Logging.WireLogPath = opts.wireLogPath
	}
}

func run(parent context.Context, cmd *cobra.Command, opts *options, cfg *config.Config) error {
	directory := cfg.Files.Directory
	if directory == "" {
		directory = "."
		logging.Warn("No files directory configured, serving /files from the working directory")
	}

	wireLog, err := wirelog.NewLogger(cfg.Logging.WireLogPath != "", cfg.Logging.WireLogPath)
	if err != nil {
		logging.ErrorWith("Failed to open wire log", map[string]interface{}{
			"path":  cfg.Logging.WireLogPath,
			"error": err,
		})
		return fmt.Errorf("failed to initialize wire log: %w", err)
	}
	defer wireLog.Close()

	var recorder *accesslog.ConsoleRecorder
	serverOpts := []server.Option{server.WithWireLog(wireLog)}
	if cfg.AccessLogEnabled() {
		recorder = accesslog.NewConsoleRecorder().WithWriter(cmd.OutOrStdout())
		if opts.noColor {
			recorder.WithColor(false)
		}
		serverOpts = append(serverOpts, server.WithRecorder(recorder))
	}
	if opts.debug {
		serverOpts = append(serverOpts, server.WithDump(cmd.ErrOrStderr()))
	}

	srv := server.New(cfg, endpoint.NewRouter(store.NewDir(directory)), serverOpts...)

	logging.InfoWith("Starting server", map[string]interface{}{
		"addr":        srv.Addr(),
		"directory":   directory,
		"read_buffer": cfg.Server.ReadBufferSize,
		"wire_log":    cfg.Logging.WireLogPath,
	})

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = srv.ListenAndServe(ctx)
	srv.Wait()
	if err != nil {
		logging.ErrorWith("Server failed", map[string]interface{}{
			"error": err,
		})
		return fmt.Errorf("server failed: %w", err)
	}

	if recorder != nil {
		summary := recorder.Summary()
		fmt.Fprintf(cmd.OutOrStdout(), "Served %d requests (%d failed, %d rejected)\n",
			summary.Served, summary.Failed, summary.Rejected)
	}
	logging.Info("Server stopped")
	return nil
}
