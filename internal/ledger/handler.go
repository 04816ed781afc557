package ledger

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes read-only account endpoints over HTTP.
type Handler struct {
	ledger *Ledger
}

// NewHandler constructs an account handler.
func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// List returns every account snapshot in ascending client order.
func (h *Handler) List(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"accounts": h.ledger.SortedSnapshots(),
	})
}

// Get returns one account snapshot.
func (h *Handler) Get(c *fiber.Ctx) error {
	client, err := parseClientID(c)
	if err != nil {
		return err
	}
	snap, ok := h.ledger.Snapshot(client)
	if !ok {
		return fiber.NewError(http.StatusNotFound, "account not found")
	}
	return c.Status(http.StatusOK).JSON(snap)
}

// History returns the full audit trail for one account.
func (h *Handler) History(c *fiber.Ctx) error {
	client, err := parseClientID(c)
	if err != nil {
		return err
	}
	history, ok := h.ledger.History(client)
	if !ok {
		return fiber.NewError(http.StatusNotFound, "account not found")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"client":  client,
		"history": history,
	})
}

func parseClientID(c *fiber.Ctx) (ClientID, error) {
	raw := c.Params("clientId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid client id")
	}
	return ClientID(id), nil
}
