package admin

import (
	"github.com/harvestmart/harvestmart-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RolePolicyRequest 角色策略请求
type RolePolicyRequest struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// AdminListRoles 列出授权角色
func (h *Handler) AdminListRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"roles": roles})
}

// AdminGetRolePolicies 查询角色策略
func (h *Handler) AdminGetRolePolicies(c *gin.Context) {
	role := c.Param("role")
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, gin.H{"policies": policies})
}

// AdminGrantRolePolicy 为角色授予策略
func (h *Handler) AdminGrantRolePolicy(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	requestLog(c).Infow("authz_policy_granted",
		"admin_id", adminID,
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, gin.H{"granted": true})
}

// AdminRevokeRolePolicy 撤销角色策略
func (h *Handler) AdminRevokeRolePolicy(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	requestLog(c).Infow("authz_policy_revoked",
		"admin_id", adminID,
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, gin.H{"revoked": true})
}
