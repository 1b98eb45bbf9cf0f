package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"condominio_backend/internals/constants"
	"condominio_backend/internals/features/users/user/dto"
	"condominio_backend/internals/features/users/user/service"
	helper "condominio_backend/internals/helpers"
	helperAuth "condominio_backend/internals/helpers/auth"
)

const featureUsers = "user management"

type UserController struct {
	Svc *service.UserService
}

func NewUserController(svc *service.UserService) *UserController {
	return &UserController{Svc: svc}
}

func adminPrincipal(c *fiber.Ctx) (*helperAuth.Principal, error) {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, helper.Forbidden("%s", constants.RoleErrorAdmin(featureUsers))
	}
	return p, nil
}

// admin biasa hanya boleh mengelola user yang berbagi kondominium dengannya dan bukan super admin.
func canManage(p *helperAuth.Principal, u *dto.UserDetail) bool {
	if p.IsSuperAdmin() {
		return true
	}
	if u.HasRole(constants.RoleSuperAdmin.String()) {
		return false
	}
	return lo.SomeBy(u.CondominiumIDs, p.HasCondominiumAccess)
}

func grantsSuperAdmin(roles []string) bool {
	return lo.Contains(roles, constants.RoleSuperAdmin.String())
}

// GET /api/users?condominium_id=&role=&q=&is_active=
func (uc *UserController) List(c *fiber.Ctx) error {
	p, err := adminPrincipal(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	condoID, err := helper.QueryUUID(c, "condominium_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	active, err := helper.QueryBool(c, "is_active")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	paging := helper.ResolvePaging(c, 20, 200)
	q := dto.ListUserQuery{
		Role:     strings.TrimSpace(c.Query("role")),
		Search:   c.Query("q"),
		IsActive: active,
		Offset:   paging.Offset,
		Limit:    paging.Limit,
	}
	switch {
	case condoID != nil:
		if err := helperAuth.EnsureCondominiumAccess(p, *condoID); err != nil {
			return helper.JsonFromError(c, err)
		}
		q.CondominiumIDs = []uuid.UUID{*condoID}
	case !p.IsSuperAdmin():
		q.CondominiumIDs = append([]uuid.UUID{}, p.CondominiumIDs...)
	}
	rows, total, err := uc.Svc.ListUsers(c.UserContext(), q)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, paging))
}

// POST /api/users
func (uc *UserController) Create(c *fiber.Ctx) error {
	p, err := adminPrincipal(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateUserRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	if !p.IsSuperAdmin() {
		if grantsSuperAdmin(req.Roles) {
			return helper.JsonFromError(c, helper.Forbidden("%s", constants.RoleErrorSuperAdmin("super admin role assignment")))
		}
		if len(req.CondominiumIDs) == 0 {
			return helper.JsonFromError(c, helper.Validation("condominium_ids is required"))
		}
		for _, id := range req.CondominiumIDs {
			if err := helperAuth.EnsureCondominiumAccess(p, id); err != nil {
				return helper.JsonFromError(c, err)
			}
		}
	}
	row, err := uc.Svc.CreateUser(c.UserContext(), req, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "user created", row)
}

func (uc *UserController) load(c *fiber.Ctx) (*helperAuth.Principal, *dto.UserDetail, error) {
	p, err := adminPrincipal(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, nil, err
	}
	u, err := uc.Svc.GetUser(c.UserContext(), id)
	if err != nil {
		return nil, nil, err
	}
	if !canManage(p, u) {
		return nil, nil, helper.NotFound("user not found")
	}
	return p, u, nil
}

// GET /api/users/:id
func (uc *UserController) Get(c *fiber.Ctx) error {
	_, u, err := uc.load(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", u)
}

// PATCH /api/users/:id
func (uc *UserController) Update(c *fiber.Ctx) error {
	p, u, err := uc.load(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateUserRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	if req.Roles != nil && grantsSuperAdmin(*req.Roles) && !p.IsSuperAdmin() {
		return helper.JsonFromError(c, helper.Forbidden("%s", constants.RoleErrorSuperAdmin("super admin role assignment")))
	}
	if u.ID == p.UserID && req.IsActive != nil && !*req.IsActive {
		return helper.JsonFromError(c, helper.Validation("you cannot deactivate your own account"))
	}
	row, err := uc.Svc.UpdateUser(c.UserContext(), u.ID, req, &p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "user updated", row)
}

// POST /api/users/:id/condominiums
func (uc *UserController) AssignCondominium(c *fiber.Ctx) error {
	p, err := adminPrincipal(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.MembershipRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureCondominiumAccess(p, req.CondominiumID); err != nil {
		return helper.JsonFromError(c, err)
	}
	target, err := uc.Svc.GetUser(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if target.HasRole(constants.RoleSuperAdmin.String()) && !p.IsSuperAdmin() {
		return helper.JsonFromError(c, helper.NotFound("user not found"))
	}
	row, err := uc.Svc.AssignCondominium(c.UserContext(), id, req.CondominiumID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "membership added", row)
}

// DELETE /api/users/:id/condominiums/:condominium_id
func (uc *UserController) UnassignCondominium(c *fiber.Ctx) error {
	p, err := adminPrincipal(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	condoID, err := helper.ParseUUIDParam(c, "condominium_id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureCondominiumAccess(p, condoID); err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := uc.Svc.UnassignCondominium(c.UserContext(), id, condoID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "membership removed", fiber.Map{"user_id": id, "condominium_id": condoID})
}

// DELETE /api/users/:id (super admin)
func (uc *UserController) Delete(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureSuperAdmin(p, featureUsers); err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := uc.Svc.DeleteUser(c.UserContext(), id, p.UserID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "user deleted", fiber.Map{"user_id": id})
}

// GET /api/users/roles/all (super admin)
func (uc *UserController) Roles(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := helperAuth.EnsureSuperAdmin(p, featureUsers); err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := uc.Svc.ListRoles(c.UserContext())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

/* ===================== Profil sendiri ===================== */

// GET /api/profile
func (uc *UserController) Profile(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := uc.Svc.GetProfile(c.UserContext(), p.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// PUT /api/profile
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateProfileRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := uc.Svc.UpdateProfile(c.UserContext(), p.UserID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "profile updated", out)
}

// POST /api/profile/upload-photo (multipart: file)
func (uc *UserController) UploadProfilePhoto(c *fiber.Ctx) error {
	p, err := helperAuth.FromCtx(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	out, err := uc.Svc.UploadProfilePhoto(c.UserContext(), p.UserID, fh)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "profile photo updated", out)
}
