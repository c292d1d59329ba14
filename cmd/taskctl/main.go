package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"taskhub/pkg/logger"
	"taskhub/pkg/syncclient"

	"github.com/spf13/cobra"
)

var Version = "dev"

type app struct {
	configPath string
	verbose    bool
	cfg        *Config
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "taskctl - manage TaskHub tasks from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if a.verbose {
				level = "debug"
			}
			if err := logger.Init(logger.Config{Level: level, Format: "text", Output: "stdout"}); err != nil {
				return err
			}
			cfg, err := loadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Print every local state change")

	rootCmd.AddCommand(a.loginCmd())
	rootCmd.AddCommand(a.lsCmd())
	rootCmd.AddCommand(a.addCmd())
	rootCmd.AddCommand(a.doneCmd(true))
	rootCmd.AddCommand(a.doneCmd(false))
	rootCmd.AddCommand(a.editCmd())
	rootCmd.AddCommand(a.rmCmd())
	rootCmd.AddCommand(a.subCmd())
	rootCmd.AddCommand(a.progressCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) api() (*syncclient.HTTPTaskAPI, error) {
	if a.cfg.Token == "" {
		return nil, errNotLoggedIn
	}
	return syncclient.NewHTTPTaskAPI(a.cfg.APIURL, a.cfg.Token), nil
}

// client builds a sync client seeded with tasks. In verbose mode every
// optimistic step is echoed so the apply/confirm/rollback sequence is visible.
func (a *app) client(api syncclient.TaskAPI, tasks ...syncclient.Task) *syncclient.Client {
	opts := []syncclient.Option{syncclient.WithTasks(tasks)}
	if a.verbose {
		opts = append(opts, syncclient.WithListener(func(ev syncclient.Event) {
			fmt.Fprintf(os.Stderr, "[%s %s] %s (%d local)\n", ev.Op, ev.Phase, ev.TaskID, len(ev.Tasks))
		}))
	}
	return syncclient.New(api, opts...)
}
