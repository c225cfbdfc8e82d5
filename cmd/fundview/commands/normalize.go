package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fundview/internal/diagnostics"
	"fundview/internal/rawdoc"
	"fundview/internal/viewmodel"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	outputFormat string
	lenient      bool
	repairArrays bool
	checkArrays  bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file|-]",
	Short: "Normalize a raw simulation document and print the view model",
	Long: `Reads one simulation result or status document from a file or stdin and prints the
normalized view model. Files ending in .hjson are read as Hjson.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		raw, err := readDocument(cmd.InOrStdin(), path, lenient)
		if err != nil {
			return err
		}

		vm := viewmodel.NormalizeWith(raw, normalizeOptions(repairArrays || cfg.RepairParallelArrays))
		if checkArrays {
			if n := diagnostics.NewRecorder(log.Logger).Issues(vm.ID, viewmodel.Check(vm)); n == 0 {
				log.Info().Str("simulation", vm.ID).Msg("Parallel arrays are consistent")
			}
		}
		return writeStore(cmd.OutOrStdout(), vm, outputFormat)
	},
}

// readDocument reads path, or stdin for "-", and parses it by extension.
func readDocument(stdin io.Reader, path string, lenient bool) (rawdoc.Value, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return rawdoc.Value{}, fmt.Errorf("failed to read document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return rawdoc.Value{}, fmt.Errorf("document %s is empty", path)
	}

	var raw rawdoc.Value
	switch {
	case strings.EqualFold(filepath.Ext(path), ".hjson"):
		raw, err = rawdoc.ParseHJSON(data)
	case lenient:
		raw, err = rawdoc.ParseLenient(data)
	default:
		raw, err = rawdoc.Parse(data)
	}
	if err != nil {
		return rawdoc.Value{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return raw, nil
}

func writeStore(w io.Writer, vm viewmodel.SimulationStore, format string) error {
	var (
		out []byte
		err error
	)
	switch strings.ToLower(format) {
	case "", "json":
		out, err = json.MarshalIndent(vm, "", "  ")
		out = append(out, '\n')
	case "yaml", "yml":
		out, err = toYAML(vm)
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode view model: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// toYAML renders v through its JSON form so the YAML keys and their order
// match the JSON contract.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	blockStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow and quoting styles the JSON input leaves on every node.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func init() {
	normalizeCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
	normalizeCmd.Flags().BoolVar(&lenient, "lenient", false, "repair malformed JSON before parsing")
	normalizeCmd.Flags().BoolVar(&repairArrays, "repair-arrays", false, "truncate mismatched parallel arrays to their shortest member")
	normalizeCmd.Flags().BoolVar(&checkArrays, "check", false, "log parallel-array length mismatches")
	rootCmd.AddCommand(normalizeCmd)
}
