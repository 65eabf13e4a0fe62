package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ministore/internal/catalog"
	"github.com/roach88/ministore/internal/engine"
)

// CatalogOptions holds flags for the catalog command.
type CatalogOptions struct {
	*RootOptions
	Catalog  string
	Query    string
	Category string
}

// CatalogResult is the output of the catalog command.
type CatalogResult struct {
	Query      string               `json:"query"`
	Category   string               `json:"category"`
	Categories []string             `json:"categories"`
	Products   []engine.ProductView `json:"products"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the catalog, optionally filtered",
		Long: `List the products visible for a search query and category.

The query matches product names only, case-insensitively. The category
must be "All" or one of the catalog categories.

Examples:
  ministore catalog
  ministore catalog --query er --category Kitchen
  ministore catalog --catalog ./outdoor.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to a CUE catalog (default: built-in)")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "search text")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", catalog.AllCategories, "category filter")

	return cmd
}

func runCatalog(opts *CatalogOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := loadSettings(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	if !cat.HasCategory(opts.Category) {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("unknown category %q", opts.Category), cat.Categories())
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown category %q", opts.Category))
	}

	visible := catalog.Filter(cat.Products(), opts.Query, opts.Category)
	result := CatalogResult{
		Query:      opts.Query,
		Category:   opts.Category,
		Categories: cat.Categories(),
		Products:   make([]engine.ProductView, len(visible)),
	}
	for i, p := range visible {
		result.Products[i] = engine.ProductView{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.DisplayPrice(),
			Category:    p.Category,
			Description: p.Description,
			Image:       p.ImageURL(),
		}
	}

	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Categories: %s\n", strings.Join(result.Categories, ", "))
		fmt.Fprintf(w, "Products (%d of %d):\n", len(result.Products), cat.Len())
		renderProducts(w, result.Products, engine.NoProductsText)
	})
}
