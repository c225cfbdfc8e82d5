package commands

import (
	"fmt"
	"reflect"

	"fundview/internal/rawdoc"
	"fundview/internal/viewmodel"

	"github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the view model",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := storeSchema()
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

// storeSchema infers the view model schema. The raw passthrough accepts any JSON.
func storeSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[viewmodel.SimulationStore](&jsonschema.ForOptions{
		TypeSchemas: map[reflect.Type]*jsonschema.Schema{
			reflect.TypeFor[rawdoc.Value](): {Description: "Document the view model was built from"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to infer schema: %w", err)
	}
	schema.Title = "SimulationStore"
	return schema, nil
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
