package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfwatch/pfwatch/internal/pflogcap"
)

var pcapCmd = &cobra.Command{
	Use:   "pcap <file>",
	Short: "Decode a binary pflog pcap capture",
	Long: `Decode a binary pflog capture written by tcpdump on a pflog
interface and print one JSON summary per packet.

Examples:
  tcpdump -i pflog0 -w pflog.pcap
  pfwatch pcap pflog.pcap`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPcapCommand(args[0])
	},
}

func runPcapCommand(path string) {
	enc := json.NewEncoder(os.Stdout)
	err := pflogcap.ReadFile(path, func(s pflogcap.Summary) error {
		return enc.Encode(s)
	})
	if err != nil {
		exitWithError("failed to decode capture", err)
	}
}
