package main

import (
	"fmt"
	"os"
	"strconv"

	megatec "github.com/piotrmaciejbednarski/megatec-ups-control"
	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/protocol"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	vendorIDFlag  string
	productIDFlag string

	// Per-command flags
	noAckFlag    bool
	rawFlag      bool
	minutesFlag  int
	untilLowFlag bool
	yesFlag      bool
)

var rootCmd = &cobra.Command{
	Use:   "megatecctl",
	Short: "Control Megatec protocol UPS devices over USB",
	Long: `megatecctl drives UPS units that tunnel the Megatec text protocol over
USB string descriptor reads (Krauler and Ablerex style boards). It queries
status and nameplate ratings, runs battery self tests, toggles the beeper
and shuts the UPS down.`,
}

var nameCmd = &cobra.Command{
	Use:   "name",
	Short: "Read the UPS identification string",
	Run: func(cmd *cobra.Command, args []string) {
		ups := openUPS()
		defer ups.Close()

		name, err := ups.Name()
		if err != nil {
			fatal("identification read failed: %v", err)
		}
		fmt.Println(name)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query UPS electrical and thermal status",
	Run: func(cmd *cobra.Command, args []string) {
		ups := openUPS()
		defer ups.Close()

		var (
			status *protocol.Status
			err    error
		)
		if noAckFlag {
			status, err = ups.StatusNoAck()
		} else {
			status, err = ups.Status()
		}
		if err != nil {
			fatal("status query failed: %v", err)
		}

		fmt.Printf("Input voltage:       %.1f V\n", status.InputVoltage)
		fmt.Printf("Input fault voltage: %.1f V\n", status.InputFaultVoltage)
		fmt.Printf("Output voltage:      %.1f V\n", status.OutputVoltage)
		fmt.Printf("Load:                %.0f %%\n", status.OutputCurrent)
		fmt.Printf("Input frequency:     %.1f Hz\n", status.InputFrequency)
		fmt.Printf("Battery voltage:     %.2f V\n", status.BatteryVoltage)
		fmt.Printf("Temperature:         %.1f C\n", status.Temperature)
	},
}

var ratingCmd = &cobra.Command{
	Use:   "rating",
	Short: "Read nameplate rating information",
	Run: func(cmd *cobra.Command, args []string) {
		ups := openUPS()
		defer ups.Close()

		if rawFlag {
			text, err := ups.Rating()
			if err != nil {
				fatal("rating read failed: %v", err)
			}
			fmt.Println(text)
			return
		}

		rating, err := ups.RatingInfo()
		if err != nil {
			fatal("rating read failed: %v", err)
		}
		fmt.Printf("Voltage:         %.1f V\n", rating.Voltage)
		fmt.Printf("Current:         %.0f A\n", rating.Current)
		fmt.Printf("Battery voltage: %.2f V\n", rating.BatteryVoltage)
		fmt.Printf("Frequency:       %.1f Hz\n", rating.Frequency)
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run a battery self test",
	Long: `Run a battery self test. Without flags the firmware's 10 second test is
started; --minutes runs a timed test of 1 to 99 minutes and --until-low
discharges until the battery low point.`,
	Run: func(cmd *cobra.Command, args []string) {
		if untilLowFlag && minutesFlag > 0 {
			fatal("choose either --minutes or --until-low, not both")
		}

		ups := openUPS()
		defer ups.Close()

		var err error
		switch {
		case untilLowFlag:
			err = ups.TestUntilBatteryLow()
		case minutesFlag > 0:
			err = ups.TestWithTime(minutesFlag)
		default:
			err = ups.Test()
		}
		if err != nil {
			fatal("self test failed: %v", err)
		}
		fmt.Println("Self test started")
	},
}

var abortCmd = &cobra.Command{
	Use:   "abort",
	Short: "Cancel a running self test",
	Run: func(cmd *cobra.Command, args []string) {
		ups := openUPS()
		defer ups.Close()

		if err := ups.AbortTest(); err != nil {
			fatal("abort failed: %v", err)
		}
		fmt.Println("Self test aborted")
	},
}

var beepCmd = &cobra.Command{
	Use:   "beep",
	Short: "Toggle the beeper",
	Run: func(cmd *cobra.Command, args []string) {
		ups := openUPS()
		defer ups.Close()

		if err := ups.ToggleBeep(); err != nil {
			fatal("beeper toggle failed: %v", err)
		}
		fmt.Println("Beeper toggled")
	},
}

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Cut UPS output after the one minute grace period",
	Run: func(cmd *cobra.Command, args []string) {
		if !yesFlag {
			fatal("shutdown cuts power to every load; confirm with --yes")
		}

		ups := openUPS()
		defer ups.Close()

		if err := ups.Shutdown(); err != nil {
			fatal("shutdown failed: %v", err)
		}
		fmt.Println("Shutdown scheduled, output drops in about one minute")
	},
}

func init() {
	// Disable the default help command (use --help flag instead)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Global flags (available to all commands)
	rootCmd.PersistentFlags().StringVarP(&vendorIDFlag, "vid", "v", "0x0001", "Vendor id of the UPS")
	rootCmd.PersistentFlags().StringVarP(&productIDFlag, "pid", "p", "0x0000", "Product id of the UPS")

	statusCmd.Flags().BoolVar(&noAckFlag, "no-ack", false, "Skip the status acknowledgment handshake")
	ratingCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the decoded reply without parsing")
	testCmd.Flags().IntVarP(&minutesFlag, "minutes", "m", 0, "Timed test duration in minutes (1-99)")
	testCmd.Flags().BoolVar(&untilLowFlag, "until-low", false, "Test until the battery low point")
	shutdownCmd.Flags().BoolVar(&yesFlag, "yes", false, "Confirm the shutdown")

	rootCmd.AddCommand(nameCmd, statusCmd, ratingCmd, testCmd, abortCmd, beepCmd, shutdownCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openUPS opens the device selected by the global flags or exits.
func openUPS() *megatec.UPS {
	vid, err := parseID(vendorIDFlag)
	if err != nil {
		fatal("invalid vendor id %q: %v", vendorIDFlag, err)
	}
	pid, err := parseID(productIDFlag)
	if err != nil {
		fatal("invalid product id %q: %v", productIDFlag, err)
	}

	ups, err := megatec.Open(vid, pid)
	if err != nil {
		fatal("%v", err)
	}
	return ups
}

func parseID(s string) (uint16, error) {
	id, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(id), nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
