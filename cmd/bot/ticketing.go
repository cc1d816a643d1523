package main

import (
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/oav/pkg/entities"
	"github.com/Jacobbrewer1/oav/pkg/ticketing"
)

const (
	// StaffTicketButtonID is the ID for the staff help ticket button.
	StaffTicketButtonID = "ticket_staff"

	// RecruiterTicketButtonID is the ID for the recruiter ticket button.
	RecruiterTicketButtonID = "ticket_recruiter"

	// CareerTicketButtonID is the ID for the career mode ticket button.
	CareerTicketButtonID = "ticket_career"
)

// errBotNotReady is returned when a button is pressed before the gateway has identified the bot.
var errBotNotReady = errors.New("bot user is not known yet")

type ticketButton struct {
	id       string
	label    string
	category entities.TicketCategory
}

// ticketButtons are the buttons of the ticket panel, in display order.
var ticketButtons = []ticketButton{
	{id: StaffTicketButtonID, label: "🛠 Staff Help Ticket", category: entities.TicketCategoryStaffHelp},
	{id: RecruiterTicketButtonID, label: "🧑‍✈️ Recruiter Ticket", category: entities.TicketCategoryRecruiter},
	{id: CareerTicketButtonID, label: "🎮 Career Mode Ticket", category: entities.TicketCategoryCareerMode},
}

func ticketButtonProcessors() map[string]commandProcessor {
	processors := make(map[string]commandProcessor, len(ticketButtons))
	for _, b := range ticketButtons {
		processors[b.id] = openTicketHandler(b.category)
	}
	return processors
}

// openTicketHandler opens a ticket of the given category for the member pressing the button.
func openTicketHandler(category entities.TicketCategory) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		s := a.Session()
		if s.State == nil || s.State.User == nil {
			return errBotNotReady
		}

		// Opening a ticket takes several calls, so answer within the interaction deadline first.
		if err := deferEphemeral(a, i); err != nil {
			return fmt.Errorf("error deferring interaction: %w", err)
		}

		req := ticketing.Request{
			GuildID:   i.GuildID,
			Requester: i.Member.User,
			Category:  category,
			BotID:     s.State.User.ID,
		}

		// The workflow always answers the requester, with the ticket or a failure notice.
		if _, err := a.Tickets().Open(req, &interactionReplier{a: a, i: i}); err != nil {
			return fmt.Errorf("%w: %w", errAlreadyResponded, err)
		}
		return nil
	}
}
