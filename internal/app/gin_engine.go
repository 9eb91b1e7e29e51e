package app

import (
	"paymenthub/pkg/logger"
	"paymenthub/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Card fields travel through this route; its request body is never logged.
const addPaymentMethodRoute = "/customers/:customer_id/payment-methods"

func NewGinEngine(l *logger.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		metrics.GinMiddleware(),
		logger.CorrelationMiddleware(),
		l.GinBodyLogger(addPaymentMethodRoute),
		gin.Recovery(),
	)
	return engine
}
