package webapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/domain"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"first_name" validate:"max=30"`
	LastName  string `json:"last_name" validate:"max=30"`
}

// LoginRequest authenticates by username or email.
type LoginRequest struct {
	Identity string `json:"username_or_email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TransactionRequest is a deposit or withdrawal submission. Amount is in
// major units (e.g. 12.34); sign and bounds are decided by the ledger
// validator, not here, so the sync and async paths reject identically.
type TransactionRequest struct {
	Kind   string  `json:"transaction_type" validate:"required,oneof=deposit withdrawal"`
	Amount float64 `json:"amount" validate:"required"`
}

// AccountResponse is the balance view.
type AccountResponse struct {
	OwnerID uuid.UUID `json:"owner_id"`
	Balance float64   `json:"balance"`
}

// TransactionResponse is one record of the history.
type TransactionResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"transaction_type"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"timestamp"`
}

// PendingResponse acknowledges a deferred submission.
type PendingResponse struct {
	JobID  uuid.UUID `json:"job_id"`
	Status string    `json:"status"`
}

// TokenResponse carries the issued JWT.
type TokenResponse struct {
	Token string `json:"access"`
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID,
		Kind:      tx.Kind.String(),
		Amount:    tx.Amount.Float64(),
		CreatedAt: tx.CreatedAt,
	}
}

func toTransactionResponses(txs []*domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return out
}
