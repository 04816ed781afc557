package engine

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/clearbook/clearbook/internal/ledger"
	"github.com/clearbook/clearbook/internal/money"
)

// Handler accepts transaction submissions over HTTP.
type Handler struct {
	processor *Processor
}

// NewHandler constructs a submission handler.
func NewHandler(processor *Processor) *Handler {
	return &Handler{processor: processor}
}

// SubmitRequest is the wire shape of one transaction submission.
// Amount is a decimal string to keep floats out of the money path.
type SubmitRequest struct {
	Type   string `json:"type"`
	Client uint64 `json:"client"`
	Tx     uint32 `json:"tx"`
	Amount string `json:"amount"`
}

// Submit validates the request shape, enqueues the record and responds
// 202. Content-level rejections (insufficient funds, bad dispute state,
// ...) happen asynchronously in the ledger and surface in the account's
// history, not here.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	kind, err := ledger.ParseKind(req.Type)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	rec := ledger.Record{
		Kind:   kind,
		Client: ledger.ClientID(req.Client),
		Tx:     ledger.TxID(req.Tx),
	}

	if kind.MovesFunds() {
		amount, err := money.Parse(req.Amount)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if !amount.IsPositive() {
			return fiber.NewError(http.StatusBadRequest, "amount must be positive")
		}
		rec.Amount = amount
	}

	h.processor.Submit(rec)

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"status": "accepted",
		"client": req.Client,
		"tx":     req.Tx,
	})
}
