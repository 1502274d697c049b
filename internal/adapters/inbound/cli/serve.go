package cli

import (
	"github.com/spf13/cobra"

	"github.com/a11ykraft/a11ykraft/internal/adapters/inbound/httpapi"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var (
		addr    string
		fixes   bool
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Serve audits over HTTP. Documents are posted as extracted text; see /v1/audits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, ".")
			if err != nil {
				return err
			}
			rt, err := newRuntime(cfg, ".")
			if err != nil {
				return err
			}
			gen, err := newFixGenerator(cfg.FixGenerator, fixes)
			if err != nil {
				return err
			}

			routerOpts := []httpapi.Option{httpapi.WithFixGenerator(gen)}
			if len(origins) > 0 {
				routerOpts = append(routerOpts, httpapi.WithAllowedOrigins(origins...))
			}
			return httpapi.ListenAndServe(cmd.Context(), addr, httpapi.NewRouter(rt.svc, rt.orch, routerOpts...))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVar(&fixes, "fixes", false, "Generate suggested fixes with the configured provider")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origins (default any)")

	return cmd
}
