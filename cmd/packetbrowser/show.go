package main

import (
	"github.com/spf13/cobra"

	"github.com/NeedsSoySauce/Packet-Browser/internal/app"
	"github.com/NeedsSoySauce/Packet-Browser/internal/report"
)

type showFlags struct {
	common commonFlags
	params app.QueryParams
	json   bool
}

func newShowCmd() *cobra.Command {
	flags := &showFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the packets of a host or a flow as a table",
		Long: `Show the packets sent or received by one host, or exchanged between two
hosts, with the sum and mean IP packet size underneath.

Browse mode (default) selects packets by one side:
  --filter ip   --side source|destination --ip ADDRESS
  --filter port --side source|destination --port PORT

Flow mode selects packets by both sides:
  --mode flow --filter ip   --src ADDRESS --dest ADDRESS
  --mode flow --filter port --src PORT    --dest PORT

Packets selected by destination list the destination columns first.`,
		Example: `  # Everything sent by 10.0.0.1
  packetbrowser show --input trace.txt --ip 10.0.0.1

  # Everything received on port 80
  packetbrowser show --input trace.txt --filter port --side destination --port 80

  # One flow as JSON
  packetbrowser show --input trace.txt --mode flow --src 10.0.0.1 --dest 192.168.1.1 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			return runShow(cmd, flags)
		},
	}

	registerCommonFlags(cmd, &flags.common)
	registerProgressFlag(cmd, &flags.common)
	cmd.Flags().StringVar(&flags.params.Mode, "mode", "browse", "Selection mode: browse|flow")
	cmd.Flags().StringVar(&flags.params.Filter, "filter", "ip", "Match hosts by: ip|port")
	cmd.Flags().StringVar(&flags.params.Side, "side", "source", "Browse side: source|destination")
	cmd.Flags().StringVar(&flags.params.IP, "ip", "", "Host address (browse, --filter ip)")
	cmd.Flags().StringVar(&flags.params.Port, "port", "", "Host port (browse, --filter port)")
	cmd.Flags().StringVar(&flags.params.Src, "src", "", "Flow source address or port")
	cmd.Flags().StringVar(&flags.params.Dest, "dest", "", "Flow destination address or port")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the table as JSON")

	return cmd
}

func runShow(cmd *cobra.Command, flags *showFlags) error {
	q, err := flags.params.Query()
	if err != nil {
		return err
	}
	if !q.Complete() {
		return missingFlagError(cmd, missingQueryFlag(q))
	}

	session, _, logger, err := openSession(cmd, &flags.common)
	if err != nil {
		return err
	}
	defer logger.Close()

	model := session.Table(q)
	if flags.json {
		return report.WriteJSON(cmd.OutOrStdout(), report.FromModel(model, q.String()))
	}
	return report.WriteText(cmd.OutOrStdout(), model)
}

func missingQueryFlag(q app.Query) string {
	switch {
	case q.Mode == app.Flow:
		return "--src and --dest"
	case q.Filter == app.ByPort:
		return "--port"
	default:
		return "--ip"
	}
}
