package messages

// Messages shown to users.
const (
	// ErrUserErrorProcessing is shown when an interaction fails for an unexpected reason.
	ErrUserErrorProcessing = "Sorry, something went wrong while processing your request. Please try again later."

	// ErrUserRateLimited is shown when a user interacts too quickly.
	ErrUserRateLimited = "You are doing that too quickly, please wait a moment and try again."

	// ErrUserNotAdmin is shown when a non administrator uses an administrator command.
	ErrUserNotAdmin = "You must be an administrator to use this command."

	// ErrUserGuildOnly is shown when a command is used outside of a server.
	ErrUserGuildOnly = "This can only be used inside a server."

	// ErrTicketFailed is shown when a ticket could not be created and nothing was left behind.
	ErrTicketFailed = "Sorry, your ticket could not be created. Please try again later."

	// ErrTicketPartial is shown when a ticket channel exists but could not be fully set up.
	ErrTicketPartial = "Your ticket channel %s was created but could not be fully set up. Please let a member of staff know."

	// ErrEventFailed is shown when an event could not be saved.
	ErrEventFailed = "Sorry, the event could not be saved. Please try again later."

	// TicketCreated is the private confirmation of a new ticket.
	TicketCreated = "✅ Ticket created: %s"

	// TicketExists is the private confirmation when the requester already has a ticket of that category.
	TicketExists = "You already have an open ticket: %s"

	// TicketOpenedTitle is the title of the announcement embed in a new ticket.
	TicketOpenedTitle = "🎫 Ticket Opened"

	// TicketOpenedBy is the description of the announcement embed in a new ticket.
	TicketOpenedBy = "Opened by %s"

	// TicketNoStaff is added to the announcement when none of the staff roles of the category could be found.
	TicketNoStaff = "No staff roles could be found for this ticket. Please ping a member of staff."

	// EventSaved is the private confirmation of a saved event.
	EventSaved = "✅ Event saved\n📌 ID: `%s`"

	// PanelPosted is the private confirmation that the ticket panel was posted.
	PanelPosted = "The ticket panel has been posted in %s"
)
