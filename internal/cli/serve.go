package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/posterkit/posterkit/internal/web"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the posterkit HTTP API server",
		Long: `Run the posterkit HTTP API server.

The server exposes the same pipeline as the generate command:

  POST /api/posters   render a poster (JSON body)
  GET  /api/themes    list available themes
  GET  /api/layouts   list available layouts
  GET  /healthz       liveness probe

Set POSTERKIT_REDIS_ADDR to share the artifact cache between replicas.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			server := web.NewServer(runner, loggerFromContext(ctx))
			printInfo("Serving posterkit API on %s", StyleHighlight.Render(addr))
			return server.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
