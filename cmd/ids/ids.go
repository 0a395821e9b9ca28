// Package ids handles the discovery-only command
package ids

import (
	"bytes"
	"fmt"

	"fjacquet/ud-extract/cmd/root"
	"fjacquet/ud-extract/internal/container"
	"fjacquet/ud-extract/internal/logging"

	"github.com/spf13/cobra"
)

// NewCommand returns the ids command, which runs only the discovery pass
// and prints the matching trace ids, one per line, in numeric order.
func NewCommand(st *root.State) *cobra.Command {
	return &cobra.Command{
		Use:   "ids <input-file> <merchant-id> <product-id>",
		Short: "List the trace ids of a merchant/product pair",
		Long: `Run only the discovery pass and print the distinct trace ids found on lines
mentioning the merchant and then the product. Useful to check the filter
before a full extraction.`,
		Args: root.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := container.Request{InputFile: args[0], MerchantID: args[1], ProductID: args[2]}

			ids, err := st.App.DiscoverIDs(cmd.Context(), req)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			for _, id := range ids {
				fmt.Fprintln(&buf, id)
			}
			if err := root.WriteOutput(cmd, "", buf.Bytes()); err != nil {
				return err
			}

			st.App.GetLogger().Info("Trace ids listed", logging.F(logging.FieldCount, len(ids)))
			return nil
		},
	}
}
