// Package user exposes registration and profile endpoints.
package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dkurilov/bankcards/pkg/config"
	"github.com/dkurilov/bankcards/pkg/middleware"
	usersvc "github.com/dkurilov/bankcards/pkg/service/user"
	"github.com/dkurilov/bankcards/webapi/common"
)

// Routes registers the user endpoints. Registration is open; profile reads
// require a token.
func Routes(app *fiber.App, userSvc *usersvc.Service, cfg config.Jwt) {
	app.Post("/user", Create(userSvc))
	app.Get("/user/:id", middleware.Protected(cfg), Get(userSvc))
}

// Create registers a new user account.
// @Summary Create a new user
// @Description Create a new user account with username, email, and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body NewUserInput true "User creation data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /user [post]
func Create(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[NewUserInput](c)
		if input == nil {
			return err
		}
		created, err := userSvc.Create(c.Context(), input.Username, input.Email, input.Password)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Created user", toUserRead(created))
	}
}

// Get returns a user profile. Users may only read themselves; admins anyone.
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /user/{id} [get]
// @Security Bearer
func Get(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.CurrentActor(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, fiber.StatusBadRequest, "Invalid user ID", err.Error())
		}
		u, err := userSvc.Get(c.Context(), actor, id)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", toUserRead(u))
	}
}
