// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fjacquet/finance-peres/internal/config"
	"fjacquet/finance-peres/internal/container"
	"fjacquet/finance-peres/internal/dateutils"
	"fjacquet/finance-peres/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	ConfigFile string
	Month      string
	HideValues bool
}

var (
	// AppContainer holds the wired dependencies for the running command.
	// Tests may set it before Execute to inject their own container.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finance-peres",
		Short: "Household finance tracker synchronized with a Google Sheet.",
		Long: `finance-peres records income, expenses and investments, keeps a local
snapshot of them and mirrors every change to a spreadsheet web app.
It also produces monthly summaries, CSV/XLSX exports and AI insights.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  initContainer,
		PersistentPostRunE: closeContainer,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	initOnce sync.Once
)

// Init initializes the root command flags. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches $HOME/.finance-peres, .finance-peres and .)")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Month, "month", "m", "", "Month to work on as YYYY-MM (default: current month)")
		Cmd.PersistentFlags().BoolVar(&SharedFlags.HideValues, "hide-values", false, "Mask amounts in printed output")
	})
}

func initContainer(cmd *cobra.Command, args []string) error {
	if AppContainer != nil {
		return nil
	}
	config.LoadEnv()

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}

	c, err := container.NewContainer(Context(cmd), cfg)
	if err != nil {
		return fmt.Errorf("error initializing application: %w", err)
	}
	AppContainer = c
	return nil
}

func closeContainer(cmd *cobra.Command, args []string) error {
	if AppContainer == nil {
		return nil
	}
	err := AppContainer.Close()
	AppContainer = nil
	return err
}

// GetContainer returns the container created for the running command.
func GetContainer() *container.Container {
	return AppContainer
}

// GetLogger returns the container's logger, or a discarding logger before
// initialization.
func GetLogger() logging.Logger {
	if AppContainer == nil {
		return logging.NewDiscardLogger()
	}
	return AppContainer.GetLogger()
}

// SelectedMonth resolves the --month flag, defaulting to the current month.
func SelectedMonth() (int, time.Month, error) {
	if SharedFlags.Month == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	return dateutils.ParseYearMonth(SharedFlags.Month)
}

// OpenStore warms the store from the cache and then refreshes it from the
// remote. A failed refresh is logged and the local data is used.
func OpenStore(ctx context.Context) error {
	c := GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	st := c.GetStore()
	st.Warm(ctx)
	if !c.GetRemote().Configured() {
		return nil
	}
	if err := st.Reload(ctx); err != nil {
		c.GetLogger().WithError(err).Warn("Working offline with local data")
	}
	return nil
}

// Context returns the command context, never nil.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
