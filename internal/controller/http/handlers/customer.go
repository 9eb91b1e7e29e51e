package handlers

import (
	"net/http"

	"paymenthub/internal/domain/customer"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	service *customer.Service
}

func NewCustomerHandler(s *customer.Service) *CustomerHandler {
	return &CustomerHandler{service: s}
}

type CreateCustomerParams struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var params CreateCustomerParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	res, err := h.service.CreateCustomer(c.Request.Context(), customer.CreateCustomerRequest{
		Email:       params.Email,
		Name:        params.Name,
		Description: params.Description,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type AddPaymentMethodParams struct {
	CardNumber   string `json:"card_number" binding:"required"`
	ExpMonth     int    `json:"exp_month" binding:"required,min=1,max=12"`
	ExpYear      int    `json:"exp_year" binding:"required,min=2024"`
	CVC          string `json:"cvc" binding:"required"`
	BillingName  string `json:"billing_name"`
	BillingEmail string `json:"billing_email"`
}

func (h *CustomerHandler) AddPaymentMethod(c *gin.Context) {
	customerID := c.Param("customer_id")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing customer_id"})
		return
	}

	var params AddPaymentMethodParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	res, err := h.service.AddPaymentMethod(c.Request.Context(), customer.AddPaymentMethodRequest{
		CustomerID:   customerID,
		CardNumber:   params.CardNumber,
		ExpMonth:     params.ExpMonth,
		ExpYear:      params.ExpYear,
		CVC:          params.CVC,
		BillingName:  params.BillingName,
		BillingEmail: params.BillingEmail,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CustomerHandler) ListPaymentMethods(c *gin.Context) {
	customerID := c.Param("customer_id")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing customer_id"})
		return
	}

	res, err := h.service.ListPaymentMethods(c.Request.Context(), customerID)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
