package ticketing

import "github.com/Jacobbrewer1/oav/pkg/entities"

// Staff role IDs of the airline's guild.
const (
	CEORoleID       = "1393269068689309746"
	CAORoleID       = "1393269824544575498"
	CMORoleID       = "1421109822526591077"
	RecruiterRoleID = "1393270492429025370"
	ModRoleID       = "1468120470304981194"
)

// EntitledRoles returns the staff roles that can see and post in tickets of the given category, in ping order. The
// result depends on the category alone.
func EntitledRoles(category entities.TicketCategory) []string {
	switch category {
	case entities.TicketCategoryStaffHelp:
		return []string{ModRoleID}
	case entities.TicketCategoryRecruiter:
		return []string{RecruiterRoleID, CMORoleID}
	case entities.TicketCategoryCareerMode:
		return []string{CEORoleID, CAORoleID}
	default:
		return nil
	}
}
