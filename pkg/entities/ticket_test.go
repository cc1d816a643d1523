package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTicketCategory_AllTagged(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range TicketCategories() {
		require.True(t, c.Valid())
		require.NotEmpty(t, c.Tag(), "category %d has no tag", int(c))
		require.False(t, seen[c.Tag()], "duplicate tag %s", c.Tag())
		seen[c.Tag()] = true
	}
	require.Len(t, seen, 3)
}

func TestParseTicketCategory(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    TicketCategory
		wantErr bool
	}{
		{name: "staff help", tag: "staff-help", want: TicketCategoryStaffHelp},
		{name: "recruiter", tag: "recruiter", want: TicketCategoryRecruiter},
		{name: "career mode", tag: "career-mode", want: TicketCategoryCareerMode},
		{name: "unknown", tag: "billing", wantErr: true},
		{name: "empty", tag: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTicketCategory(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTicketCategory_Invalid(t *testing.T) {
	require.False(t, TicketCategory(0).Valid())
	require.Equal(t, "", TicketCategory(0).Tag())
	require.Equal(t, "TicketCategory(42)", TicketCategory(42).String())
}

func TestTicket_Name(t *testing.T) {
	tests := []struct {
		name   string
		ticket Ticket
		want   string
	}{
		{
			name:   "simple",
			ticket: Ticket{Category: TicketCategoryStaffHelp, Username: "alice"},
			want:   "staff-help-alice",
		},
		{
			name:   "mixed case",
			ticket: Ticket{Category: TicketCategoryRecruiter, Username: "Bob"},
			want:   "recruiter-bob",
		},
		{
			name:   "spaces",
			ticket: Ticket{Category: TicketCategoryCareerMode, Username: " Captain  Kirk "},
			want:   "career-mode-captain-kirk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.ticket.Name())
		})
	}
}
