package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindset-backend/internal/service"
	"mindset-backend/utilities"
)

type OrganizationController struct {
	OrganizationService service.OrganizationService
}

func (oc *OrganizationController) ListOrganizations(c *gin.Context) {
	memberships, err := oc.OrganizationService.ListForUser(c.Request.Context(), utilities.UserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, gin.H{
			"id":   m.Organization.ID,
			"name": m.Organization.Name,
			"slug": m.Organization.Slug,
			"role": m.Role,
		})
	}
	c.JSON(http.StatusOK, out)
}
