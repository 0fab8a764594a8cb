package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	sender    string
	recipient string
	amount    string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node.",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "from", "f", "", "Who is sending the amount.")
	sendCmd.Flags().StringVarP(&recipient, "to", "r", "", "Who is receiving the amount.")
	sendCmd.Flags().StringVarP(&amount, "amount", "v", "", "The amount to send.")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) error {
	var n json.Number
	if err := json.Unmarshal([]byte(amount), &n); err != nil {
		return fmt.Errorf("amount %q is not a number", amount)
	}

	tx := struct {
		Sender    string      `json:"sender"`
		Recipient string      `json:"recipient"`
		Amount    json.Number `json:"amount"`
	}{
		Sender:    sender,
		Recipient: recipient,
		Amount:    n,
	}

	return call(cmd.OutOrStdout(), http.MethodPost, "/transactions/new", tx, http.StatusCreated)
}
