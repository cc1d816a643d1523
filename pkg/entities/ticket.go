package entities

import (
	"fmt"
	"strings"
)

// TicketCategory is the purpose of a ticket. The set of categories is closed, each one has a fixed tag and a fixed
// list of entitled staff roles.
type TicketCategory int

const (
	// TicketCategoryStaffHelp is a general help request for the moderators.
	TicketCategoryStaffHelp TicketCategory = iota + 1

	// TicketCategoryRecruiter is a recruitment request.
	TicketCategoryRecruiter

	// TicketCategoryCareerMode is a career mode request.
	TicketCategoryCareerMode

	// ticketCategoryEnd marks the end of the enumeration. Keep it last.
	ticketCategoryEnd
)

// ticketCategoryTags is indexed by TicketCategory. The array is sized by the enumeration, so a new category without
// a tag is caught by TestTicketCategory_AllTagged.
var ticketCategoryTags = [ticketCategoryEnd]string{
	TicketCategoryStaffHelp:  "staff-help",
	TicketCategoryRecruiter:  "recruiter",
	TicketCategoryCareerMode: "career-mode",
}

// TicketCategories returns every ticket category in declaration order.
func TicketCategories() []TicketCategory {
	cats := make([]TicketCategory, 0, int(ticketCategoryEnd)-1)
	for c := TicketCategoryStaffHelp; c < ticketCategoryEnd; c++ {
		cats = append(cats, c)
	}
	return cats
}

// Valid reports whether c is one of the declared categories.
func (c TicketCategory) Valid() bool {
	return c >= TicketCategoryStaffHelp && c < ticketCategoryEnd
}

// Tag returns the tag of the category, for example "staff-help". The tag prefixes the ticket channel name.
func (c TicketCategory) Tag() string {
	if !c.Valid() {
		return ""
	}
	return ticketCategoryTags[c]
}

func (c TicketCategory) String() string {
	if !c.Valid() {
		return fmt.Sprintf("TicketCategory(%d)", int(c))
	}
	return c.Tag()
}

// ParseTicketCategory returns the category with the given tag.
func ParseTicketCategory(tag string) (TicketCategory, error) {
	for _, c := range TicketCategories() {
		if c.Tag() == tag {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown ticket category %q", tag)
}

// Ticket describes a ticket channel that is about to be, or has been, created. Tickets are not persisted, the
// channel itself is the record.
type Ticket struct {
	// GuildID is the ID of the guild that the ticket is in.
	GuildID string

	// Category is the purpose of the ticket.
	Category TicketCategory

	// UserID is the ID of the user that requested the ticket.
	UserID string

	// Username is the username of the user that requested the ticket.
	Username string

	// ChannelID is the ID of the ticket channel, empty until the channel is created.
	ChannelID string
}

// Name returns the channel name of the ticket.
// For example, if the users username is "wolf" and the category is staff help, the ticket name will be
// "staff-help-wolf".
func (t *Ticket) Name() string {
	return fmt.Sprintf("%s-%s", t.Category.Tag(), channelHandle(t.Username))
}

// channelHandle makes a username safe for a text channel name. Discord lower cases text channel names and does not
// allow spaces, so the name is normalised here to make lookups by name match what Discord stores.
func channelHandle(username string) string {
	h := strings.ToLower(strings.TrimSpace(username))
	return strings.Join(strings.Fields(h), "-")
}
