// Package auth exposes the login endpoint.
package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dkurilov/bankcards/pkg/domain"
	authsvc "github.com/dkurilov/bankcards/pkg/service/auth"
	"github.com/dkurilov/bankcards/webapi/common"
)

// Routes registers the authentication endpoints.
func Routes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/auth/login", Login(authSvc))
}

// Login handles user authentication and returns a JWT token.
// @Summary User login
// @Description Authenticate user with identity (username or email) and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err // Error already written by BindAndValidate
		}
		u, err := authSvc.Login(c.Context(), input.Identity, input.Password)
		if err != nil {
			if errors.Is(err, domain.ErrUserUnauthorized) {
				return common.ProblemDetailsJSON(c, fiber.StatusUnauthorized,
					"Invalid identity or password", "Identity or password is incorrect")
			}
			return common.DomainErrorJSON(c, err)
		}
		token, err := authSvc.GenerateToken(u)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", fiber.Map{"token": token})
	}
}
