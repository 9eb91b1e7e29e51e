package http

import (
	"net/http"

	"paymenthub/internal/controller/http/handlers"
	"paymenthub/pkg/health"
	"paymenthub/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	serviceName    = "Stripe Payment Integration API"
	serviceVersion = "1.0.0"
)

type Router struct {
	payment  *handlers.PaymentHandler
	customer *handlers.CustomerHandler
	webhook  *handlers.WebhookHandler
	health   *health.Registry
}

func NewRouter(
	payment *handlers.PaymentHandler,
	customer *handlers.CustomerHandler,
	webhook *handlers.WebhookHandler,
	healthRegistry *health.Registry,
) *Router {
	return &Router{
		payment:  payment,
		customer: customer,
		webhook:  webhook,
		health:   healthRegistry,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/", r.status)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.health, health.DefaultTimeout))
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	engine.POST("/payments/create", r.payment.Create)
	engine.POST("/payments/:payment_id/confirm", r.payment.Confirm)
	engine.GET("/payments/:payment_id", r.payment.Get)
	engine.POST("/payments/:payment_id/refund", r.payment.Refund)

	engine.POST("/customers/create", r.customer.Create)
	engine.POST("/customers/:customer_id/payment-methods", r.customer.AddPaymentMethod)
	engine.GET("/customers/:customer_id/payment-methods", r.customer.ListPaymentMethods)

	engine.POST("/webhook", r.webhook.Receive)
}

func (r *Router) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}
