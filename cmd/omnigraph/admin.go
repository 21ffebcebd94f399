package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/omnii-ai/omnigraph"
)

var (
	nodeTenant  string
	clearTenant string
)

func buildClient() (*omnigraph.Client, error) {
	gw, err := buildGateway()
	if err != nil {
		return nil, err
	}
	emb, err := buildEmbedder()
	if err != nil {
		gw.Close(context.Background())
		return nil, err
	}
	model, err := buildLLM()
	if err != nil {
		gw.Close(context.Background())
		emb.Close()
		return nil, err
	}
	return omnigraph.NewClient(gw, emb, model, log), nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Provision the vector and range indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}
		defer client.Close(context.Background())

		if err := client.CreateIndices(cmd.Context()); err != nil {
			return err
		}
		log.Info("indexes provisioned")
		return nil
	},
}

var nodeCmd = &cobra.Command{
	Use:   "node <id>",
	Short: "Fetch a single node by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}
		defer client.Close(context.Background())

		node, err := client.GetNode(cmd.Context(), nodeTenant, args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(node)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every node and edge belonging to a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}
		defer client.Close(context.Background())

		return client.ClearTenant(cmd.Context(), clearTenant)
	},
}

func init() {
	nodeCmd.Flags().StringVar(&nodeTenant, "tenant", "", "tenant id (required)")
	nodeCmd.MarkFlagRequired("tenant")
	clearCmd.Flags().StringVar(&clearTenant, "tenant", "", "tenant id (required)")
	clearCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(initCmd, nodeCmd, clearCmd)
}
