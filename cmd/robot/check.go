package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/miaopass-future/robotframework/internal/config"
	"github.com/miaopass-future/robotframework/internal/output"
	"github.com/miaopass-future/robotframework/internal/output/lua"
	"github.com/miaopass-future/robotframework/pkg/listener"
)

// metricsRegistered guards against duplicate registration when the command
// runs more than once in a process.
var metricsRegistered bool

// NewCheckCmd creates the check subcommand. It takes every configured
// listener into use and reports what was bound, without running any tests.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [listener ...]",
		Short: "Resolve listeners and report their bound versions",
		Long: `Resolve each listener reference from the config file and the
command line, bind it the way a test run would, and report its name and
API version. With strict listeners enabled the first failure aborts;
otherwise failures are reported and the rest are checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runCheck(cmd, cfg, args)
		},
	}
	cmd.Flags().Bool("strict", false, "abort on the first listener failure")
	return cmd
}

func runCheck(cmd *cobra.Command, cfg config.Config, extra []string) error {
	if !metricsRegistered {
		output.RegisterMetrics(prometheus.DefaultRegisterer)
		metricsRegistered = true
	}

	host := lua.NewHost()
	defer host.Close()

	importer := output.NewImporter(newRegistry(), output.WithScriptHost(host))

	refs := make([]any, 0, len(cfg.Listeners)+len(extra))
	for _, ref := range cfg.Listeners {
		refs = append(refs, ref)
	}
	for _, ref := range extra {
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		cmd.Println("no listeners configured")
		return nil
	}

	strict := cfg.StrictListeners
	if flagStrict, _ := cmd.Flags().GetBool("strict"); flagStrict {
		strict = true
	}

	proxies, err := importer.ImportListeners(refs, strict)
	if err != nil {
		slog.Error("listener check failed", "error", err)
		return err
	}

	for _, p := range proxies {
		cmd.Printf("%s\tversion %d\n", p.Name(), p.Version())
	}
	if len(proxies) < len(refs) {
		cmd.Printf("%d of %d listeners failed\n", len(refs)-len(proxies), len(refs))
	}
	return nil
}

// newRegistry builds the named listener registry with the builtins.
func newRegistry() *output.Registry {
	reg := output.NewRegistry()
	reg.RegisterFactory("slog", func(...string) (any, error) {
		return listener.NewSlogListener(nil), nil
	})
	return reg
}
