package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"niseko/config"
	"niseko/internal/domains/guest/model"
	"niseko/internal/domains/guest/session"
	"niseko/internal/domains/room/catalog"

	"github.com/spf13/cobra"
)

type deriveOptions struct {
	cfg         *config.Config
	file        string
	catalogFile string
	wifiNetwork string
}

func newDeriveCmd(cfg *config.Config) *cobra.Command {
	opts := deriveOptions{cfg: cfg}

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a guest session from registration JSON",
		Long: `Reads one registration (the check-in form answers) as JSON and prints the session
the API would issue for it: dates resolve in APP_TIMEZONE and the network defaults to
GUEST_WIFI_NETWORK. Nothing is stored. Use "-f -" to read from stdin.`,
		Example: `  sessionctl derive -f registration.json
  cat registration.json | sessionctl derive -f - --catalog rooms.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDerive(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "-", "registration JSON file, - for stdin")
	cmd.Flags().StringVar(&opts.catalogFile, "catalog", "", "room catalog YAML (defaults to the embedded catalog)")
	cmd.Flags().StringVar(&opts.wifiNetwork, "wifi-network", "", "guest wifi SSID override")

	return cmd
}

func runDerive(stdin io.Reader, out io.Writer, opts deriveOptions) error {
	input := stdin

	if opts.file != "-" {
		f, err := os.Open(opts.file)
		if err != nil {
			return fmt.Errorf("failed to open registration: %w", err)
		}
		defer f.Close()

		input = f
	}

	var registration model.RegisteredGuestData
	if err := json.NewDecoder(input).Decode(&registration); err != nil {
		return fmt.Errorf("failed to decode registration: %w", err)
	}

	rooms, err := loadCatalog(opts.catalogFile)
	if err != nil {
		return err
	}

	builder := session.ForHotel(opts.cfg, rooms, session.WithWifiNetwork(opts.wifiNetwork))

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(builder.Build(registration)); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return catalog.Load(data) //nolint:wrapcheck
}
