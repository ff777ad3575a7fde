package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/NeedsSoySauce/Packet-Browser/internal/errors"
	"github.com/NeedsSoySauce/Packet-Browser/internal/pcapimport"
	"github.com/NeedsSoySauce/Packet-Browser/internal/progress"
)

type importPcapFlags struct {
	input    string
	output   string
	progress bool
}

func newImportPcapCmd() *cobra.Command {
	flags := &importPcapFlags{}

	cmd := &cobra.Command{
		Use:   "import-pcap",
		Short: "Convert a pcap or pcapng capture into a trace file",
		Long: `Read an offline capture and write one trace record per frame:

  id, seconds since the first frame, source IP, source port,
  destination IP, destination port, frame length, IPv4 total length

Address and size columns stay empty for frames that are not IPv4, and port
columns stay empty for anything other than TCP or UDP.`,
		Example: `  packetbrowser import-pcap --input capture.pcap --output trace.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			return runImportPcap(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.input, "input", "", "Capture file to read (required)")
	cmd.Flags().StringVar(&flags.output, "output", "", "Trace file to write (required)")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "Show a running frame count on stderr")

	return cmd
}

func runImportPcap(cmd *cobra.Command, flags *importPcapFlags) error {
	if flags.input == "" {
		return missingFlagError(cmd, "--input")
	}
	if flags.output == "" {
		return missingFlagError(cmd, "--output")
	}

	in, err := os.Open(flags.input)
	if err != nil {
		return apperrors.WrapFileReadError(err, flags.input)
	}
	defer in.Close()

	out, err := os.Create(flags.output)
	if err != nil {
		return fmt.Errorf("create %s: %w", flags.output, err)
	}

	var opts []pcapimport.Option
	var counter *progress.Counter
	if flags.progress {
		counter = progress.NewCounter(os.Stderr, "frames", 100*time.Millisecond)
		opts = append(opts, pcapimport.WithFrameCallback(counter.Add))
	}

	summary, err := pcapimport.Convert(in, out, opts...)
	if counter != nil {
		counter.Finish()
	}
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close %s: %w", flags.output, closeErr)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s (%d IPv4, %d TCP, %d UDP)\n",
		summary.Frames, flags.output, summary.IPv4, summary.TCP, summary.UDP)
	return nil
}
