package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Print the node's known peers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/nodes", nil, http.StatusOK)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register address...",
	Short: "Register peers with the node.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := struct {
			Nodes []string `json:"nodes"`
		}{
			Nodes: args,
		}
		return call(cmd.OutOrStdout(), http.MethodPost, "/nodes/register", body, http.StatusCreated)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Ask the node to adopt the longest valid chain of its peers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/nodes/resolve", nil, http.StatusOK)
	},
}

func init() {
	nodesCmd.AddCommand(registerCmd)
	nodesCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(nodesCmd)
}
