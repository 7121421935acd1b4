package webapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ksoliman/banksim/pkg/service/auth"
	"github.com/ksoliman/banksim/pkg/service/user"
	"github.com/ksoliman/banksim/webapi/common"
)

// Register returns the signup handler. Registration creates the user and
// their zero-balance account in one unit of work.
func Register(userSvc *user.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err
		}
		u, err := userSvc.Register(c.Context(),
			input.Username, input.Email, input.Password, input.FirstName, input.LastName)
		if err != nil {
			return common.DomainErrorJSON(c, "Registration failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered", u)
	}
}

// Login returns the login handler. It verifies credentials and issues a
// bearer token carrying the owner identity.
func Login(authSvc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		u, err := authSvc.Login(c.Context(), input.Identity, input.Password)
		if err != nil {
			return common.DomainErrorJSON(c, "Login failed", err)
		}
		token, err := authSvc.GenerateToken(u)
		if err != nil {
			return common.DomainErrorJSON(c, "Login failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login successful", TokenResponse{Token: token})
	}
}
