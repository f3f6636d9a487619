package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	providerdrv "github.com/podops/podops/adapters/drivers/provider"
	_ "github.com/podops/podops/adapters/drivers/provider/runpod"
	"github.com/podops/podops/config/podcfg"
	"github.com/podops/podops/internal/logging"
	"github.com/podops/podops/internal/naming"
	poduc "github.com/podops/podops/usecase/pod"
)

// errHelpShown signals that help was printed instead of running an operation;
// main exits 1 without logging an error.
var errHelpShown = errors.New("help shown")

var actions = []string{"start", "stop", "restart", "status", "deploy", "terminate"}

func newRootCmd() *cobra.Command {
	var (
		verbose        bool
		deployIfNeeded bool
		configFile     string
		logFormat      string
		podTypes       []string
	)

	cmd := &cobra.Command{
		Use:     "podops <project_name> <pod_type> <action>",
		Short:   "Manage GPU pod lifecycles on RunPod",
		Version: version,
		Long: `podops manages the lifecycle of GPU pods on the RunPod cloud.

Pods are discovered by the naming convention {project}-{pod_type}-{timestamp};
deploy picks the cheapest GPU at or below the configured price ceiling.

Examples:
  podops myproj main start       Start the main pod
  podops myproj branch stop      Stop the branch pod
  podops myproj main deploy      Deploy a new main pod on the cheapest GPU
  podops myproj main restart --deploy-new-if-needed
                                 Restart, deploying a replacement if needed

The RUNPOD_API_KEY environment variable must hold the provider API key.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			format := logFormat
			if env := os.Getenv("PODOPS_LOG_FORMAT"); env != "" { // env overrides flag
				format = env
			}
			// Non-verbose keeps stderr quiet; stdout carries the
			// machine-parsable result line.
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			l, err := logging.New(format, level)
			if err != nil {
				return err
			}
			l = l.With("runId", uuid.NewString())
			c.SetContext(logging.WithLogger(c.Context(), l))
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = c.Help()
				return errHelpShown
			}
			if len(args) != 3 {
				return fmt.Errorf("expected <project_name> <pod_type> <action>, got %d arguments", len(args))
			}
			project, podType, action := args[0], args[1], args[2]

			if env := os.Getenv("PODOPS_POD_TYPES"); env != "" {
				// An explicit --pod-types flag wins over the environment.
				if f := findFlag(c, "pod-types"); f == nil || !f.Changed {
					podTypes = strings.Split(env, ",")
				}
			}
			if err := validateArgs(project, podType, action, podTypes); err != nil {
				return err
			}

			return runAction(c, project, podType, action, configFile, deployIfNeeded, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose narrative output (default: one machine-parsable line)")
	cmd.Flags().BoolVar(&deployIfNeeded, "deploy-new-if-needed", false, "Deploy a new pod if the current one cannot be started (start/restart only)")
	cmd.Flags().StringVar(&configFile, "config-file", "", "Path to configuration file (KEY=VALUE, or YAML for .yml/.yaml)")
	cmd.Flags().StringVar(&logFormat, "log-format", "human", "Log format (human|text|json) (env PODOPS_LOG_FORMAT)")
	cmd.Flags().StringSliceVar(&podTypes, "pod-types", []string{"main", "branch"}, "Allowed pod types (env PODOPS_POD_TYPES)")

	cmd.AddCommand(newCmdVersion())
	return cmd
}

// findFlag walks up the command tree looking for a named flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

func validateArgs(project, podType, action string, podTypes []string) error {
	if err := naming.ValidateProjectName(project); err != nil {
		return err
	}
	allowed := false
	for _, t := range podTypes {
		if strings.TrimSpace(t) == podType {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("invalid pod type %q (allowed: %s)", podType, strings.Join(podTypes, ", "))
	}
	if err := naming.ValidatePodType(podType); err != nil {
		return err
	}
	validAction := false
	for _, a := range actions {
		if a == action {
			validAction = true
			break
		}
	}
	if !validAction {
		return fmt.Errorf("invalid action %q (allowed: %s)", action, strings.Join(actions, ", "))
	}
	return nil
}

func runAction(c *cobra.Command, project, podType, action, configFile string, deployIfNeeded, verbose bool) (err error) {
	cfg, err := podcfg.New(project, podcfg.WithConfigFile(configFile))
	if err != nil {
		return err
	}

	drv, err := providerdrv.New("runpod", map[string]string{
		"API_KEY":      cfg.APIKey,
		"API_ENDPOINT": cfg.Get(podcfg.KeyAPIEndpoint, ""),
	})
	if err != nil {
		return err
	}

	uc := &poduc.UseCase{
		Config:  cfg,
		Port:    drv,
		Out:     c.OutOrStdout(),
		Verbose: verbose,
	}

	ctx, cleanup := withCmdRunLogger(c.Context(), "pod."+action, project+"/"+podType)
	defer func() { cleanup(err) }()

	switch action {
	case "start":
		_, err = uc.Start(ctx, &poduc.StartInput{PodType: podType, DeployIfNeeded: deployIfNeeded})
	case "stop":
		_, err = uc.Stop(ctx, &poduc.StopInput{PodType: podType})
	case "restart":
		_, err = uc.Restart(ctx, &poduc.RestartInput{PodType: podType, DeployIfNeeded: deployIfNeeded})
	case "status":
		_, err = uc.Status(ctx, &poduc.StatusInput{PodType: podType})
	case "deploy":
		_, err = uc.Deploy(ctx, &poduc.DeployInput{PodType: podType})
	case "terminate":
		_, err = uc.Terminate(ctx, &poduc.TerminateInput{PodType: podType})
	}
	return err
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		if errors.Is(err, errHelpShown) {
			os.Exit(1)
		}
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		os.Exit(1)
	}
}
