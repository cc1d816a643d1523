package main

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/oav/pkg/entities"
	"github.com/Jacobbrewer1/oav/pkg/messages"
)

const (
	// addEventCmdName is the name of the command that schedules a flight event.
	addEventCmdName = "addevent"

	optDate       = "date"
	optDepAirport = "dep_airport"
	optArrAirport = "arr_airport"
	optDepTime    = "dep_time"
	optFlightTime = "flight_time"
	optOperator   = "operator"
	optFlightNo   = "flight_no"
	optAircraft   = "aircraft"
	optServer     = "server"
)

var (
	// addEventCmd schedules a flight event.
	addEventCmd = &discordgo.ApplicationCommand{
		Name:        addEventCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Schedule a flight event.",
		Options: []*discordgo.ApplicationCommandOption{
			stringOption(optDate, "Date of the event"),
			stringOption(optDepAirport, "Departure airport"),
			stringOption(optArrAirport, "Arrival airport"),
			stringOption(optDepTime, "Departure time"),
			stringOption(optFlightTime, "Flight time"),
			stringOption(optOperator, "Operator"),
			stringOption(optFlightNo, "Flight number"),
			stringOption(optAircraft, "Aircraft"),
			stringOption(optServer, "Server"),
		},
	}

	// slashCommands are registered in every guild.
	slashCommands = []*discordgo.ApplicationCommand{
		addEventCmd,
		ticketPanelCmd,
	}
)

func stringOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        name,
		Type:        discordgo.ApplicationCommandOptionString,
		Description: description,
		Required:    true,
	}
}

// eventDetailsFromOptions reads the event fields from the command options. Every option is required.
func eventDetailsFromOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) (entities.EventDetails, error) {
	values := make(map[string]string, len(opts))
	for _, opt := range opts {
		if opt.Type != discordgo.ApplicationCommandOptionString {
			continue
		}
		values[opt.Name] = opt.StringValue()
	}

	for _, opt := range addEventCmd.Options {
		if values[opt.Name] == "" {
			return entities.EventDetails{}, fmt.Errorf("missing option %s", opt.Name)
		}
	}

	return entities.EventDetails{
		Date:       values[optDate],
		DepAirport: values[optDepAirport],
		ArrAirport: values[optArrAirport],
		DepTime:    values[optDepTime],
		FlightTime: values[optFlightTime],
		Operator:   values[optOperator],
		FlightNo:   values[optFlightNo],
		Aircraft:   values[optAircraft],
		Server:     values[optServer],
	}, nil
}

func addEventHandler(a IApp, i *discordgo.InteractionCreate) error {
	details, err := eventDetailsFromOptions(i.ApplicationCommandData().Options)
	if err != nil {
		return fmt.Errorf("error reading event options: %w", err)
	}

	event, err := a.Scheduler().AddEvent(context.Background(), details)
	if err != nil {
		if respErr := respondSlashEphemeral(a, i, messages.ErrEventFailed); respErr != nil {
			return fmt.Errorf("error adding event: %w, error responding to interaction: %w", err, respErr)
		}
		return fmt.Errorf("%w: error adding event: %w", errAlreadyResponded, err)
	}

	if err := respondSlashEphemeral(a, i, fmt.Sprintf(messages.EventSaved, event.ID)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}
