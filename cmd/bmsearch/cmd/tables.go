package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/corey/bmsearch/internal/adapters/socket"
	"github.com/corey/bmsearch/internal/domain/boyermoore"
	"github.com/spf13/cobra"
)

var (
	tablesJSON     bool
	tablesAlphabet string
	tablesRemote   bool
)

var tablesCmd = &cobra.Command{
	Use:   "tables <pattern>",
	Short: "Show the bad-character and good-suffix tables for a pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runTables,
}

func init() {
	f := tablesCmd.Flags()
	f.BoolVar(&tablesJSON, "json", false, "Print tables as JSON")
	f.StringVar(&tablesAlphabet, "alphabet", "bytes", "Alphabet the pattern must use: bytes, ascii, dna")
	f.BoolVar(&tablesRemote, "remote", false, "Ask the running daemon")
}

func runTables(cmd *cobra.Command, args []string) error {
	pattern := []byte(args[0])

	var tables *socket.TablesResult
	if tablesRemote {
		client := socket.NewClient(socket.SocketPath(projectRoot()))
		t, err := client.Tables(socket.TablesParams{Pattern: pattern, Alphabet: tablesAlphabet})
		if err != nil {
			return err
		}
		tables = t
	} else {
		alphabet, err := boyermoore.AlphabetByName(tablesAlphabet)
		if err != nil {
			return err
		}
		m, err := boyermoore.Compile(pattern, boyermoore.WithAlphabet(alphabet))
		if err != nil {
			return err
		}
		t := socket.TablesFor(m)
		tables = &t
	}

	if tablesJSON {
		data, err := json.MarshalIndent(tables, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(formatTables(tables, resolveColor("auto")))
	return nil
}
