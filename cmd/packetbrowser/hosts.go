package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NeedsSoySauce/Packet-Browser/internal/app"
	"github.com/NeedsSoySauce/Packet-Browser/internal/report"
)

type listFlags struct {
	common commonFlags
	side   string
	json   bool
}

func newHostsCmd() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "List the distinct host addresses on one side",
		Long: `List every distinct source or destination IPv4 address found in the trace,
in numeric order. Records with a malformed address on either side are ignored.`,
		Example: `  # Source hosts
  packetbrowser hosts --input trace.txt

  # Destination hosts as JSON
  packetbrowser hosts --input trace.txt --side destination --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			return runList(cmd, flags, func(s *app.Session, side string) (any, []string, error) {
				parsed, err := app.ParseSide(side)
				if err != nil {
					return nil, nil, err
				}
				ips := s.Simulator().UniqueSortedHostIPs(parsed)
				return ips, ips, nil
			})
		},
	}

	registerListFlags(cmd, flags)
	return cmd
}

func newPortsCmd() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List the distinct ports on one side",
		Long: `List every distinct source or destination port found in records that carry
both ports and two valid IPv4 addresses, in ascending order.`,
		Example: `  packetbrowser ports --input trace.txt --side destination`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			return runList(cmd, flags, func(s *app.Session, side string) (any, []string, error) {
				parsed, err := app.ParseSide(side)
				if err != nil {
					return nil, nil, err
				}
				ports := s.Simulator().UniqueSortedHostPorts(parsed)
				text := make([]string, len(ports))
				for i, p := range ports {
					text[i] = fmt.Sprint(p)
				}
				return ports, text, nil
			})
		},
	}

	registerListFlags(cmd, flags)
	return cmd
}

func registerListFlags(cmd *cobra.Command, flags *listFlags) {
	registerCommonFlags(cmd, &flags.common)
	registerProgressFlag(cmd, &flags.common)
	cmd.Flags().StringVar(&flags.side, "side", "source", "Which end of each packet: source|destination")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print a JSON array")
}

func runList(cmd *cobra.Command, flags *listFlags, list func(*app.Session, string) (any, []string, error)) error {
	session, _, logger, err := openSession(cmd, &flags.common)
	if err != nil {
		return err
	}
	defer logger.Close()

	value, lines, err := list(session, flags.side)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if flags.json {
		return report.WriteJSON(out, value)
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
