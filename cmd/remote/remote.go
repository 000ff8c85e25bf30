// Package remote handles the commands that talk to the spreadsheet directly
package remote

import (
	"fmt"

	"fjacquet/finance-peres/cmd/root"
	"fjacquet/finance-peres/internal/config"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/syncerror"

	"github.com/spf13/cobra"
)

// Cmd groups the pull and push subcommands
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize with the spreadsheet",
	Long: `Pull replaces the local data with the spreadsheet contents (an empty
spreadsheet never wipes local data). Push overwrites the spreadsheet with
the local data.`,
}

// PullCmd fetches the authoritative list
var PullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch every transaction from the spreadsheet",
	Args:  cobra.NoArgs,
	RunE:  pullFunc,
}

// PushCmd sends the whole local collection
var PushCmd = &cobra.Command{
	Use:   "push",
	Short: "Overwrite the spreadsheet with the local transactions",
	Args:  cobra.NoArgs,
	RunE:  pushFunc,
}

// StatusCmd reports connectivity and local data
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity state and local data",
	Args:  cobra.NoArgs,
	RunE:  statusFunc,
}

func init() {
	Cmd.AddCommand(PullCmd, PushCmd)
}

func pullFunc(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	app := root.GetContainer()
	if app == nil {
		return fmt.Errorf("container not initialized")
	}
	if !app.GetRemote().Configured() {
		return syncerror.ErrRemoteNotConfigured
	}

	st := app.GetStore()
	st.Warm(ctx)
	if err := st.Reload(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d transações sincronizadas (%s).\n",
		len(st.Snapshot()), st.Tracker().Current())
	return nil
}

func pushFunc(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	app := root.GetContainer()
	if app == nil {
		return fmt.Errorf("container not initialized")
	}
	if !app.GetRemote().Configured() {
		return syncerror.ErrRemoteNotConfigured
	}

	st := app.GetStore()
	count := st.Warm(ctx)
	d := st.Push(ctx)
	if !d.OK() {
		return fmt.Errorf("push failed: %w", d.Err)
	}
	app.GetLogger().Info("Pushed local transactions", logging.F(logging.FieldCount, count))
	fmt.Fprintf(cmd.OutOrStdout(), "%d transações enviadas.\n", count)
	return nil
}

func statusFunc(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	app := root.GetContainer()
	if app == nil {
		return fmt.Errorf("container not initialized")
	}
	cfg := app.GetConfig()
	st := app.GetStore()

	cached := st.Warm(ctx)
	var fetchErr error
	if app.GetRemote().Configured() {
		fetchErr = st.Reload(ctx)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Estado:        %s\n", st.Tracker().Current())
	fmt.Fprintf(out, "Transações:    %d (cache: %d)\n", len(st.Snapshot()), cached)
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		fmt.Fprintf(out, "Cache:         redis %s/%d key=%s\n", cfg.Cache.RedisAddr, cfg.Cache.RedisDB, cfg.Cache.Key)
	default:
		fmt.Fprintf(out, "Cache:         %s\n", config.ExpandDirectory(cfg.Cache.Directory))
	}
	if app.GetRemote().Configured() {
		fmt.Fprintln(out, "Planilha:      configurada")
	} else {
		fmt.Fprintln(out, "Planilha:      não configurada")
	}
	fmt.Fprintf(out, "Insights IA:   %t\n", app.GetInsights().Enabled())
	if fetchErr != nil {
		fmt.Fprintf(out, "Último erro:   %v\n", fetchErr)
	}
	return nil
}
