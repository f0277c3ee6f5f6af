// Package serve implements the serve subcommand.
package serve

import (
	"github.com/ruslany/expense-tracker/cmd/root"
	"github.com/ruslany/expense-tracker/internal/exporter"
	"github.com/ruslany/expense-tracker/internal/importer"
	"github.com/ruslany/expense-tracker/internal/server"
	"github.com/ruslany/expense-tracker/internal/splitter"

	"github.com/spf13/cobra"
)

var addr string

// Cmd is the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server exposing import, split and export endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := root.OpenStore(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()

		if addr == "" {
			addr = root.Cfg.Server.Addr
		}
		srv := server.New(
			importer.New(store, root.Log),
			splitter.New(store, root.Log),
			exporter.New(store, root.Log),
			root.Log,
		)
		return srv.ListenAndServe(addr)
	},
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides configuration)")
}
