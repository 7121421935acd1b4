package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
	"github.com/ksoliman/banksim/pkg/service/auth"
	"github.com/ksoliman/banksim/pkg/service/history"
	"github.com/ksoliman/banksim/pkg/service/ledger"
	"github.com/ksoliman/banksim/webapi/common"
)

// GetBalance returns the balance handler for the caller's account.
func GetBalance(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c.Locals("user").(*jwt.Token))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		balance, err := ledgerSvc.Balance(c.Context(), ownerID)
		if err != nil {
			return common.DomainErrorJSON(c, "Balance lookup failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance retrieved",
			AccountResponse{OwnerID: ownerID, Balance: balance.Float64()})
	}
}

// SubmitTransaction returns the synchronous deposit/withdrawal handler. The
// mutation is applied before the response is written.
func SubmitTransaction(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c.Locals("user").(*jwt.Token))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		input, err := common.BindAndValidate[TransactionRequest](c)
		if input == nil {
			return err
		}
		kind, amount, err := parseSubmission(input)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction", err.Error())
		}
		tx, err := ledgerSvc.Submit(c.Context(), ownerID, kind, amount)
		if err != nil {
			return common.DomainErrorJSON(c, "Transaction rejected", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction applied",
			toTransactionResponse(tx))
	}
}

// SubmitTransactionAsync returns the deferred submission handler. It only
// enqueues the job; validation runs in the worker against the balance current
// at execution time, so the response is a 202 acknowledgment, not an outcome.
func SubmitTransactionAsync(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c.Locals("user").(*jwt.Token))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		input, err := common.BindAndValidate[TransactionRequest](c)
		if input == nil {
			return err
		}
		kind, amount, err := parseSubmission(input)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction", err.Error())
		}
		jobID, err := ledgerSvc.SubmitAsync(c.Context(), ownerID, kind, amount)
		if err != nil {
			return common.DomainErrorJSON(c, "Transaction enqueue failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusAccepted, "Transaction pending",
			PendingResponse{JobID: jobID, Status: "pending"})
	}
}

// GetHistory returns the transaction history handler, newest first.
func GetHistory(historySvc *history.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c.Locals("user").(*jwt.Token))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		txs, err := historySvc.List(c.Context(), ownerID)
		if err != nil {
			return common.DomainErrorJSON(c, "History lookup failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "History retrieved",
			toTransactionResponses(txs))
	}
}

func parseSubmission(input *TransactionRequest) (domain.TxKind, money.Money, error) {
	kind, err := domain.ParseTxKind(input.Kind)
	if err != nil {
		return "", money.Zero(), err
	}
	amount, err := money.NewFromFloat(input.Amount)
	if err != nil {
		return "", money.Zero(), err
	}
	return kind, amount, nil
}
