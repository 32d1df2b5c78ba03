package main

import (
	"cargo-tracking-service/internal/adapters/messaging"
	"cargo-tracking-service/internal/platform/logger"
	"errors"

	"github.com/spf13/cobra"
)

var (
	partitions  int32
	replication int16
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Create notification and dead letter topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required")
		}
		client, err := messaging.NewKafkaClient(cfg.KafkaBrokers, "", nil)
		if err != nil {
			return err
		}
		defer client.Close()

		topics := messaging.NewTopics(cfg.KafkaTopicPrefix).All()
		if err := messaging.EnsureTopics(cmd.Context(), client, partitions, replication, topics...); err != nil {
			return err
		}
		logger.FromContext(cmd.Context()).Info("topics ready", "topics", topics)
		return nil
	},
}

func init() {
	topicsCmd.Flags().Int32Var(&partitions, "partitions", 3, "partitions per topic")
	topicsCmd.Flags().Int16Var(&replication, "replication", 1, "replication factor")
	rootCmd.AddCommand(topicsCmd)
}
