package main

import (
	"os"
	"os/signal"
	"syscall"

	"niseko/config"
	"niseko/infras/kafka"
	"niseko/infras/otel"
	"niseko/internal/domains/guest/event"
	"niseko/internal/domains/guest/model/dto"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
)

func newWatchCmd(cfg *config.Config) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Tail guest check-in events from Kafka",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := kafka.New(cfg, otel.New(cfg))
			defer client.Close()

			if group == "" {
				group = cfg.Kafka.ConsumerGroup
			}

			client.Consume(ctx, group, event.CheckedInTopic(cfg), logCheckIn)

			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "consumer group (defaults to KAFKA_CONSUMER_GROUP)")

	return cmd
}

func logCheckIn(message kafkaGo.Message) {
	key, checkedIn, err := kafka.DecodeKafkaMessage[dto.CheckedInEvent](message)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("skipping undecodable check-in event")

		return
	}

	log.Info().
		Str("guest_id", checkedIn.GuestID).
		Str("confirmation_code", checkedIn.ConfirmationCode).
		Str("room", checkedIn.Room.Number).
		Str("check_in", checkedIn.Stay.CheckIn).
		Str("check_out", checkedIn.Stay.CheckOut).
		Str("source", checkedIn.Source).
		Msg("guest checked in")
}

