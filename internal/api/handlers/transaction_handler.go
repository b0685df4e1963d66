package handlers

import (
	"encoding/json"
	"fmt"

	"fintrack/internal/dto"
	"fintrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a single income, expense or transfer record
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Router /api/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	draft, err := req.ToDraft()
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create transaction")
	}

	tx, err := h.txService.Create(c.UserContext(), draft)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create transaction")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewTransactionResponse(tx))
}

// ListTransactions godoc
// @Summary List transactions
// @Description List live transactions, newest first, narrowed by optional filters
// @Tags transactions
// @Produce json
// @Param startDate query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Param type query string false "income, expense or transfer"
// @Param category query string false "Exact category"
// @Param minAmount query number false "Inclusive minimum amount"
// @Param maxAmount query number false "Inclusive maximum amount"
// @Param searchTerm query string false "Case-insensitive description search"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Router /api/transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	transactions, err := h.txService.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list transactions")
	}

	return c.JSON(dto.NewTransactionListResponse(transactions))
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}

	tx, err := h.txService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get transaction")
	}

	return c.JSON(dto.NewTransactionResponse(tx))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Partial update: omitted fields are kept, null clears optional fields
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}

	var req dto.UpdateTransactionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	patch, err := req.ToPatch()
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update transaction")
	}

	tx, err := h.txService.Update(c.UserContext(), id, patch)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update transaction")
	}

	return c.JSON(dto.NewTransactionResponse(tx))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Soft-delete: the record disappears from every read but is kept in storage
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}

	if err := h.txService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err, "Failed to delete transaction")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ImportTransactions godoc
// @Summary Bulk-create transactions
// @Description Store a JSON array of transactions atomically; one invalid element rejects the batch
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body []dto.CreateTransactionRequest true "Transactions"
// @Success 201 {object} dto.ImportResponse
// @Failure 400 {object} map[string]string
// @Router /api/transactions/import [post]
func (h *TransactionHandler) ImportTransactions(c *fiber.Ctx) error {
	var req []dto.CreateTransactionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "Request body must be a JSON array of transactions")
	}

	drafts, err := dto.ToDrafts(req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to import transactions")
	}

	created, err := h.txService.BulkCreate(c.UserContext(), drafts)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to import transactions")
	}

	ids := make([]uuid.UUID, len(created))
	for i, tx := range created {
		ids[i] = tx.ID
	}
	return c.Status(fiber.StatusCreated).JSON(
		dto.NewImportResponse(fmt.Sprintf("Successfully imported %d transactions", len(ids)), ids),
	)
}
