package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/consensus-cli/internal/config"
	"github.com/sells-group/consensus-cli/internal/consensus"
	"github.com/sells-group/consensus-cli/internal/model"
	"github.com/sells-group/consensus-cli/internal/resolver"
	"github.com/sells-group/consensus-cli/internal/trust"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <evidence.json>",
	Short: "Resolve one entity from an evidence bundle file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd.Context(), cfg, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

// resolveOutput is the JSON document the resolve command emits.
type resolveOutput struct {
	Entity *model.ResolvedEntity `json:"entity"`
	Trust  *trust.Result         `json:"trust"`
}

func runResolve(ctx context.Context, cfg *config.Config, path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "resolve: read evidence %s", path)
	}

	var bundle model.EvidenceBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return eris.Wrap(err, "resolve: parse evidence bundle")
	}

	catalog, err := loadCatalog(cfg.Taxonomy)
	if err != nil {
		return err
	}

	r := resolver.New(cfg.Resolver, catalog)
	entity, verdict, err := r.Resolve(ctx, bundle)
	if err != nil {
		return eris.Wrap(err, "resolve: run")
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(resolveOutput{Entity: entity, Trust: verdict}), "resolve: encode output")
}

// loadCatalog returns the configured taxonomy catalog, or nil for the
// built-in one.
func loadCatalog(cfg config.TaxonomyConfig) (*consensus.Catalog, error) {
	if cfg.CatalogPath == "" {
		return nil, nil
	}
	catalog, err := consensus.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, eris.Wrap(err, "resolve: load catalog")
	}
	return catalog, nil
}
