package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type editFlags struct {
	common commonFlags
	line   int
	size   string
}

func newEditCmd() *cobra.Command {
	flags := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Set the IP packet size of one record and save the file",
		Long: `Set the IP packet size column of the record on --line (1-based) and rewrite
that line of the trace file. The record must have two valid IPv4 addresses.

The size must be a whole number accepted by table.size_policy in the config
(non-negative by default).`,
		Example: `  packetbrowser edit --input trace.txt --line 12 --size 1500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			return runEdit(cmd, flags)
		},
	}

	registerCommonFlags(cmd, &flags.common)
	cmd.Flags().IntVar(&flags.line, "line", 0, "1-based line number of the record (required)")
	cmd.Flags().StringVar(&flags.size, "size", "", "New IP packet size (required)")

	return cmd
}

func runEdit(cmd *cobra.Command, flags *editFlags) error {
	if flags.common.input == "" {
		return missingFlagError(cmd, "--input")
	}
	if flags.line <= 0 {
		return missingFlagError(cmd, "--line")
	}
	if flags.size == "" {
		return missingFlagError(cmd, "--size")
	}

	session, _, logger, err := openSession(cmd, &flags.common)
	if err != nil {
		return err
	}
	defer logger.Close()

	result, err := session.EditSize(flags.line, flags.size)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "line %d: %s\n", flags.line, result)
	return nil
}
