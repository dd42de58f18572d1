package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muldoon/wledctl/internal/config"
	"github.com/muldoon/wledctl/internal/console"
	"github.com/muldoon/wledctl/internal/discovery"
	"github.com/muldoon/wledctl/internal/dispatch"
	"github.com/muldoon/wledctl/internal/fleet"
	"github.com/muldoon/wledctl/internal/logging"
	"github.com/muldoon/wledctl/internal/wled"
)

var scanTimeout int

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(powerCmd)

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (0 uses the configured window)")
	powerCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (0 uses the configured window)")
}

// setup initializes logging and loads the settings file. Logging stays
// silent unless WLEDCTL_LOG_LEVEL is set.
func setup() (*config.Settings, error) {
	if err := logging.InitializeFromEnv(); err != nil {
		// GetLogger falls back to a nop logger.
		_ = err
	}

	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return settings, nil
}

func runConsole(cmd *cobra.Command, _ []string) error {
	settings, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync()

	return console.New(settings).Run(cmd.Context())
}

// browse runs one discovery pass, honoring the --timeout override.
func browse(cmd *cobra.Command, settings *config.Settings) ([]discovery.Record, error) {
	scanner := discovery.NewScanner()
	scanner.Service = settings.Discovery.Service
	scanner.Domain = settings.Discovery.Domain
	scanner.Window = settings.ScanWindow()
	if scanTimeout > 0 {
		scanner.Window = time.Duration(scanTimeout) * time.Second
	}

	fmt.Printf("Scanning for WLED devices (timeout: %ds)...\n\n", int(scanner.Window.Seconds()))

	records, err := scanner.Scan(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return records, nil
}

// scanCmd discovers devices on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for WLED devices on the network",
	Long: `Scan for WLED devices using mDNS/DNS-SD discovery.

This command listens for _wled._tcp announcements and prints every
controller heard with its address and advertised name.`,
	Example: `  # Scan with the configured window (10 seconds by default)
  wledctl scan

  # Quick 3-second scan
  wledctl scan --timeout 3

  # Longer scan for networks with many devices
  wledctl scan --timeout 30`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	settings, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync()

	records, err := browse(cmd, settings)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Check that the controllers are powered and on this network")
		fmt.Println("  - mDNS does not cross most VLAN or subnet boundaries")
		fmt.Println("  - Try increasing --timeout for slower networks")
		return nil
	}

	registry := fleet.NewRegistry()
	registry.Merge(discovery.Observations(records))

	fmt.Printf("Found %d device(s):\n\n", registry.Len())
	fmt.Println(console.RenderDeviceList(registry.Devices()))
	fmt.Println()
	fmt.Println("Run 'wledctl' without arguments for the interactive console.")

	return nil
}

// powerCmd scans and then switches a selection on or off
var powerCmd = &cobra.Command{
	Use:   "power {on|off} <selector>",
	Short: "Scan, then switch a device selection on or off",
	Long: `Discover the fleet, resolve a selector against it, and set power.

The selector addresses the freshly scanned listing: a single index (3),
a range (1-3), a comma list (0,2-4), or 'all'. Group assignments only
exist inside a console session, so one-shot invocations select by index.`,
	Example: `  # Everything off
  wledctl power off all

  # First three devices on, after a quick scan
  wledctl power on 0-2 --timeout 3`,
	Args: cobra.ExactArgs(2),
	RunE: runPower,
}

func runPower(cmd *cobra.Command, args []string) error {
	mode := strings.ToLower(args[0])
	if mode != "on" && mode != "off" {
		return fmt.Errorf("power mode must be 'on' or 'off', got %q", args[0])
	}

	settings, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync()

	records, err := browse(cmd, settings)
	if err != nil {
		return err
	}

	registry := fleet.NewRegistry()
	registry.Merge(discovery.Observations(records))

	indices, err := fleet.ResolveSelector(args[1], registry.Len(), registry)
	if err != nil {
		return err
	}
	targets := registry.ByIndices(indices)

	op := dispatch.PowerOp{
		Transport: wled.NewTransport(settings.RequestTimeout()),
		On:        mode == "on",
	}
	result := dispatch.NewExecutor(settings).Run(cmd.Context(), op, targets, settings.Execution.Retries)

	for _, o := range result.Outcomes {
		if o.OK() {
			fmt.Printf("%d. %s: %s\n", o.Device.Index, o.Device.Name, strings.ToUpper(mode))
		} else {
			fmt.Printf("%d. %s: %s\n", o.Device.Index, o.Device.Name, wled.GetShortErrorMessage(o.Err))
		}
	}

	if failed := len(result.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d devices failed", failed, len(result.Outcomes))
	}
	return nil
}
