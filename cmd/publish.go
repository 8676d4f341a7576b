package cmd

import (
	"fmt"

	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/db"
	"github.com/jsphweid/ssedit/editor"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(publishCmd, lookupCmd)
}

func connect() (*db.Index, error) {
	return db.Connect(constants.GetDynamoEndpoint(), constants.GetDynamoRegion(), constants.GetDynamoTable())
}

var publishCmd = &cobra.Command{
	Use:   "publish <level>...",
	Short: "Publishes level metadata to the shared index",
	Long:  `Stores the metadata of each level under its id in the DynamoDB table SSEDIT_DYNAMO_TABLE.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := connect()
		if err != nil {
			return err
		}
		for _, path := range args {
			s, err := editor.Open(path, options())
			if err != nil {
				return err
			}
			m, err := index.Publish(s.Level)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Printf("%s\t%s\n", m.ID, path)
		}
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <id>...",
	Short: "Looks up published levels by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := connect()
		if err != nil {
			return err
		}
		found, err := index.Lookup(args)
		if err != nil {
			return err
		}
		for _, id := range args {
			m, ok := found[id]
			if !ok {
				fmt.Printf("%s\tnot published\n", id)
				continue
			}
			fmt.Printf("%s\t%s - %s\t%s\t%d notes\n", m.ID, m.Author, m.Name, m.Difficulty, m.Notes)
		}
		return nil
	},
}
