package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /api/v1/deliveries)
	ListDeliveries(ctx echo.Context, params ListDeliveriesParams) error
	// (POST /api/v1/deliveries)
	CreateDelivery(ctx echo.Context) error
	// (GET /api/v1/deliveries/{deliveryId})
	GetDelivery(ctx echo.Context, deliveryId string) error
	// (POST /api/v1/deliveries/{deliveryId}/start)
	StartDelivery(ctx echo.Context, deliveryId string) error
	// (POST /api/v1/deliveries/{deliveryId}/otp)
	GenerateDeliveryOtp(ctx echo.Context, deliveryId string) error
	// (POST /api/v1/deliveries/{deliveryId}/confirm)
	ConfirmDelivery(ctx echo.Context, deliveryId string) error
	// (POST /api/v1/deliveries/{deliveryId}/release)
	ReleaseEscrow(ctx echo.Context, deliveryId string) error
	// (POST /api/v1/deliveries/{deliveryId}/cancel)
	CancelDelivery(ctx echo.Context, deliveryId string) error
	// (GET /api/v1/deliveries/{deliveryId}/receipt)
	GetDeliveryReceipt(ctx echo.Context, deliveryId string) error
	// (GET /api/v1/receipts/{receiptId})
	GetReceipt(ctx echo.Context, receiptId string) error
	// (GET /api/v1/owners/{principal}/receipts)
	ListReceiptsByOwner(ctx echo.Context, principal string) error
	// (GET /api/v1/escrow/balance)
	GetEscrowBalance(ctx echo.Context) error
	// (GET /api/v1/notifications)
	GetNotifications(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) ListDeliveries(ctx echo.Context) error {
	var params ListDeliveriesParams

	if err := runtime.BindQueryParameter("form", true, false, "buyer", ctx.QueryParams(), &params.Buyer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter buyer: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "seller", ctx.QueryParams(), &params.Seller); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter seller: %s", err))
	}

	return w.Handler.ListDeliveries(ctx, params)
}

func (w *ServerInterfaceWrapper) CreateDelivery(ctx echo.Context) error {
	return w.Handler.CreateDelivery(ctx)
}

func (w *ServerInterfaceWrapper) GetDelivery(ctx echo.Context) error {
	return withPathParam(ctx, "deliveryId", w.Handler.GetDelivery)
}

func (w *ServerInterfaceWrapper) StartDelivery(ctx echo.Context) error {
	return withPathParam(ctx, "deliveryId", w.Handler.StartDelivery)
}

func (w *ServerInterfaceWrapper) GenerateDeliveryOtp(ctx echo.Context) error {
	return withPathParam(ctx, "deliveryId", w.Handler.GenerateDeliveryOtp)
}

func (w *ServerInterfaceWrapper) ConfirmDelivery(ctx echo.Context) error {
	return withPathParam(ctx, "deliveryId", w.Handler.ConfirmDelivery)
}

func (w *ServerInterfaceWrapper) ReleaseEscrow(ctx echo.Context) error {
	return withPathParam(ctx, "deliveryId", w.Handler.ReleaseEscrow)
}

func (w *ServerInterfaceWrapper) CancelDelivery(ctx echo.Context) error {
	return withPathParam(ctx, "deliveryId", w.Handler.CancelDelivery)
}

func (w *ServerInterfaceWrapper) GetDeliveryReceipt(ctx echo.Context) error {
	return withPathParam(ctx, "deliveryId", w.Handler.GetDeliveryReceipt)
}

func (w *ServerInterfaceWrapper) GetReceipt(ctx echo.Context) error {
	return withPathParam(ctx, "receiptId", w.Handler.GetReceipt)
}

func (w *ServerInterfaceWrapper) ListReceiptsByOwner(ctx echo.Context) error {
	return withPathParam(ctx, "principal", w.Handler.ListReceiptsByOwner)
}

func (w *ServerInterfaceWrapper) GetEscrowBalance(ctx echo.Context) error {
	return w.Handler.GetEscrowBalance(ctx)
}

func (w *ServerInterfaceWrapper) GetNotifications(ctx echo.Context) error {
	return w.Handler.GetNotifications(ctx)
}

func withPathParam(ctx echo.Context, name string, next func(echo.Context, string) error) error {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return next(ctx, value)
}

// EchoRouter is implemented by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends baseURL to the
// paths, so that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/deliveries", wrapper.ListDeliveries)
	router.POST(baseURL+"/api/v1/deliveries", wrapper.CreateDelivery)
	router.GET(baseURL+"/api/v1/deliveries/:deliveryId", wrapper.GetDelivery)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/start", wrapper.StartDelivery)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/otp", wrapper.GenerateDeliveryOtp)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/confirm", wrapper.ConfirmDelivery)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/release", wrapper.ReleaseEscrow)
	router.POST(baseURL+"/api/v1/deliveries/:deliveryId/cancel", wrapper.CancelDelivery)
	router.GET(baseURL+"/api/v1/deliveries/:deliveryId/receipt", wrapper.GetDeliveryReceipt)
	router.GET(baseURL+"/api/v1/receipts/:receiptId", wrapper.GetReceipt)
	router.GET(baseURL+"/api/v1/owners/:principal/receipts", wrapper.ListReceiptsByOwner)
	router.GET(baseURL+"/api/v1/escrow/balance", wrapper.GetEscrowBalance)
	router.GET(baseURL+"/api/v1/notifications", wrapper.GetNotifications)
}
