// Package card exposes the card lifecycle and transfer endpoints. All routes
// require a valid JWT.
package card

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dkurilov/bankcards/pkg/config"
	"github.com/dkurilov/bankcards/pkg/domain"
	"github.com/dkurilov/bankcards/pkg/middleware"
	"github.com/dkurilov/bankcards/pkg/money"
	cardsvc "github.com/dkurilov/bankcards/pkg/service/card"
	transfersvc "github.com/dkurilov/bankcards/pkg/service/transfer"
	"github.com/dkurilov/bankcards/webapi/common"
)

// Routes registers the card endpoints behind JWT protection.
func Routes(
	app *fiber.App,
	cardSvc *cardsvc.Service,
	transferSvc *transfersvc.Service,
	cfg config.Jwt,
) {
	protected := middleware.Protected(cfg)
	app.Post("/cards", protected, Create(cardSvc))
	app.Get("/cards", protected, List(cardSvc))
	app.Get("/cards/:id", protected, Get(cardSvc))
	app.Post("/cards/:id/block", protected, RequestBlock(cardSvc))
	app.Patch("/cards/:id", protected, Update(cardSvc))
	app.Delete("/cards/:id", protected, Delete(cardSvc))
	app.Post("/cards/transfer", protected, Transfer(transferSvc))
}

// Create issues a new card.
// @Summary Create a card
// @Description Issue a new card; admins may issue for any user
// @Tags cards
// @Accept json
// @Produce json
// @Param request body CreateCardInput true "Card data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /cards [post]
// @Security Bearer
func Create(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.CurrentActor(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CreateCardInput](c)
		if input == nil {
			return err
		}

		ownerID := actor.ID
		if input.OwnerID != "" {
			if ownerID, err = uuid.Parse(input.OwnerID); err != nil {
				return common.ProblemDetailsJSON(c, fiber.StatusBadRequest, "Invalid owner ID", err.Error())
			}
		}
		expiry, err := domain.ParseExpiry(input.Expiry)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}

		created, err := cardSvc.Create(c.Context(), actor, ownerID, input.Number, input.CVV, input.PIN, expiry)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Card created", toCardRead(created))
	}
}

// List returns the caller's cards, or all cards for admins.
// @Summary List cards
// @Tags cards
// @Produce json
// @Success 200 {object} common.Response
// @Router /cards [get]
// @Security Bearer
func List(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.CurrentActor(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		cards, err := cardSvc.List(c.Context(), actor)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Cards listed", toCardReads(cards))
	}
}

// Get returns one card.
// @Summary Get a card
// @Tags cards
// @Produce json
// @Param id path string true "Card ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /cards/{id} [get]
// @Security Bearer
func Get(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, id, ok, werr := actorAndID(c)
		if !ok {
			return werr
		}
		found, err := cardSvc.Get(c.Context(), actor, id)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Card found", toCardRead(found))
	}
}

// RequestBlock asks for a card to be blocked. Owners get BLOCK_REQUESTED,
// admins block immediately.
// @Summary Request a card block
// @Tags cards
// @Produce json
// @Param id path string true "Card ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /cards/{id}/block [post]
// @Security Bearer
func RequestBlock(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, id, ok, werr := actorAndID(c)
		if !ok {
			return werr
		}
		updated, err := cardSvc.RequestBlock(c.Context(), actor, id)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Block requested", toCardRead(updated))
	}
}

// Update changes a card's status or expiry. Admin only.
// @Summary Update a card
// @Tags cards
// @Accept json
// @Produce json
// @Param id path string true "Card ID"
// @Param request body UpdateCardInput true "Fields to update"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /cards/{id} [patch]
// @Security Bearer
func Update(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, id, ok, werr := actorAndID(c)
		if !ok {
			return werr
		}
		input, err := common.BindAndValidate[UpdateCardInput](c)
		if input == nil {
			return err
		}
		if input.Status == "" && input.Expiry == "" {
			return common.ProblemDetailsJSON(c, fiber.StatusBadRequest,
				"Invalid request body", "status or expiry must be set")
		}

		var updated *domain.Card
		if input.Status != "" {
			status, err := domain.ParseCardStatus(input.Status)
			if err != nil {
				return common.DomainErrorJSON(c, err)
			}
			if updated, err = cardSvc.UpdateStatus(c.Context(), actor, id, status); err != nil {
				return common.DomainErrorJSON(c, err)
			}
		}
		if input.Expiry != "" {
			expiry, err := domain.ParseExpiry(input.Expiry)
			if err != nil {
				return common.DomainErrorJSON(c, err)
			}
			if updated, err = cardSvc.UpdateExpiry(c.Context(), actor, id, expiry); err != nil {
				return common.DomainErrorJSON(c, err)
			}
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Card updated", toCardRead(updated))
	}
}

// Delete removes a card.
// @Summary Delete a card
// @Tags cards
// @Param id path string true "Card ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /cards/{id} [delete]
// @Security Bearer
func Delete(cardSvc *cardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, id, ok, werr := actorAndID(c)
		if !ok {
			return werr
		}
		if err := cardSvc.Delete(c.Context(), actor, id); err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Card deleted", nil)
	}
}

// Transfer moves funds between two of the caller's cards.
// @Summary Transfer between own cards
// @Tags cards
// @Accept json
// @Produce json
// @Param request body TransferInput true "Transfer data"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /cards/transfer [post]
// @Security Bearer
func Transfer(transferSvc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := common.CurrentActor(c)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[TransferInput](c)
		if input == nil {
			return err
		}

		fromID, err := uuid.Parse(input.FromCardID)
		if err != nil {
			return common.ProblemDetailsJSON(c, fiber.StatusBadRequest, "Invalid source card ID", err.Error())
		}
		toID, err := uuid.Parse(input.ToCardID)
		if err != nil {
			return common.ProblemDetailsJSON(c, fiber.StatusBadRequest, "Invalid target card ID", err.Error())
		}
		amount, err := money.Parse(input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, fiber.StatusBadRequest, "Invalid amount", err.Error())
		}

		entry, err := transferSvc.Execute(c.Context(), actor, fromID, toID, amount)
		if err != nil {
			return common.DomainErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer completed", toTransferRead(entry))
	}
}

// actorAndID resolves the caller and the :id path parameter. When it reports
// false the error response has already been written and the returned error is
// whatever writing it produced, so handlers pass it back to fiber.
func actorAndID(c *fiber.Ctx) (domain.Actor, uuid.UUID, bool, error) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		return domain.Actor{}, uuid.Nil, false, common.DomainErrorJSON(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.Actor{}, uuid.Nil, false,
			common.ProblemDetailsJSON(c, fiber.StatusBadRequest, "Invalid card ID", err.Error())
	}
	return actor, id, true, nil
}
