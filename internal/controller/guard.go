package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"mindset-backend/internal/repository"
	"mindset-backend/internal/service"
	"mindset-backend/utilities"
)

const contextOrganizationID = "organization_id"

// MembershipGuard admits a request under /organizations/:org_id only when the
// caller is an active member of that organization.
func MembershipGuard(orgs service.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := uintParam(c, "org_id")
		if !ok {
			c.Abort()
			return
		}
		if _, err := orgs.RequireMembership(c.Request.Context(), utilities.UserID(c), orgID); err != nil {
			RespondError(c, err)
			c.Abort()
			return
		}
		c.Set(contextOrganizationID, orgID)
		c.Next()
	}
}

// AdminGuard admits only callers with an admin membership. Catalog writes
// change what every organization can start, so a plain member may not make them.
func AdminGuard(orgs service.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := orgs.RequireAdmin(c.Request.Context(), utilities.UserID(c)); err != nil {
			RespondError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// owner is the caller scoped to the organization admitted by MembershipGuard.
func owner(c *gin.Context) repository.Owner {
	return repository.Owner{
		UserID:         utilities.UserID(c),
		OrganizationID: c.GetUint(contextOrganizationID),
	}
}

// uintParam parses a positive id path parameter, answering 400 when it is not one.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}
