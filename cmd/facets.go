package cmd

import (
	"encoding/json"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/spf13/cobra"
)

type facetOutput struct {
	ByteStart int    `json:"byteStart"`
	ByteEnd   int    `json:"byteEnd"`
	URI       string `json:"uri"`
}

// newFacetsCmd prints the link facets Bluesky would receive for a text.
func newFacetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "facets <text>",
		Short: "Print the link facets computed for a text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			facets := domain.BuildFacets(args[0])
			out := make([]facetOutput, 0, len(facets))
			for _, facet := range facets {
				out = append(out, facetOutput{ByteStart: facet.ByteStart, ByteEnd: facet.ByteEnd, URI: facet.URI})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
