package handlers

import (
	"net/http"

	"paymenthub/internal/domain/payment"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service *payment.Service
}

func NewPaymentHandler(s *payment.Service) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type CreatePaymentParams struct {
	Amount          int64  `json:"amount" binding:"required"`
	Currency        string `json:"currency"`
	Description     string `json:"description" binding:"required"`
	CustomerEmail   string `json:"customer_email" binding:"required,email"`
	CustomerName    string `json:"customer_name" binding:"required"`
	PaymentMethodID string `json:"payment_method_id"`
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var params CreatePaymentParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	res, err := h.service.CreatePayment(c.Request.Context(), payment.CreatePaymentRequest{
		Amount:          params.Amount,
		Currency:        params.Currency,
		Description:     params.Description,
		CustomerEmail:   params.CustomerEmail,
		CustomerName:    params.CustomerName,
		PaymentMethodID: params.PaymentMethodID,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PaymentHandler) Confirm(c *gin.Context) {
	paymentID := c.Param("payment_id")
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing payment_id"})
		return
	}

	res, err := h.service.ConfirmPayment(c.Request.Context(), paymentID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID := c.Param("payment_id")
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing payment_id"})
		return
	}

	res, err := h.service.GetPaymentStatus(c.Request.Context(), paymentID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type RefundParams struct {
	PaymentID string `json:"payment_id" binding:"required"`
	Reason    string `json:"reason"`
	Amount    int64  `json:"amount"`
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	var params RefundParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	res, err := h.service.RefundPayment(c.Request.Context(), payment.RefundRequest{
		PaymentID: params.PaymentID,
		Reason:    params.Reason,
		Amount:    params.Amount,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
