// Package http exposes ProofParcel over REST with echo. Mutating routes need
// a caller principal (see Identity); read routes accept anonymous callers.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"proofparcel/internal/adapters/in/http/api"
	"proofparcel/internal/core/application/usecases/commands"
	"proofparcel/internal/core/application/usecases/queries"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var _ api.ServerInterface = (*Server)(nil)

// Transition labels of proofparcel_delivery_transitions_total.
const (
	TransitionCreate  = "create"
	TransitionStart   = "start"
	TransitionDeliver = "deliver"
	TransitionRelease = "release"
	TransitionCancel  = "cancel"
)

// CommandHandlers are the write handlers the server dispatches to.
type CommandHandlers struct {
	Create      commands.CreateDeliveryCommandHandler
	Start       commands.StartDeliveryCommandHandler
	GenerateOtp commands.GenerateDeliveryOtpCommandHandler
	Confirm     commands.ConfirmDeliveryCommandHandler
	Release     commands.ReleaseEscrowCommandHandler
	Cancel      commands.CancelDeliveryCommandHandler
}

// QueryHandlers are the read handlers the server dispatches to.
type QueryHandlers struct {
	GetDelivery         queries.GetDeliveryQueryHandler
	ListDeliveries      queries.ListDeliveriesQueryHandler
	GetReceipt          queries.GetReceiptQueryHandler
	ListReceiptsByOwner queries.ListReceiptsByOwnerQueryHandler
	GetEscrowBalance    queries.GetEscrowBalanceQueryHandler
	GetNotifications    queries.GetNotificationsQueryHandler
	HealthCheck         queries.HealthCheckQueryHandler
}

// Server implements api.ServerInterface on top of the use cases.
type Server struct {
	commands CommandHandlers
	queries  QueryHandlers
	metrics  *Metrics
	logger   *slog.Logger
}

// NewServer wires handlers into an api.ServerInterface implementation.
func NewServer(cmds CommandHandlers, qs QueryHandlers, metrics *Metrics, logger *slog.Logger) *Server {
	return &Server{
		commands: cmds,
		queries:  qs,
		metrics:  metrics,
		logger:   logger.With("component", "http-server"),
	}
}

// CreateDelivery handles POST /api/v1/deliveries. The caller becomes the seller.
func (s *Server) CreateDelivery(c echo.Context) error {
	seller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var body api.NewDelivery
	if err = c.Bind(&body); err != nil {
		return err
	}

	buyer, err := kernel.NewPrincipal(body.Buyer)
	if err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewCreateDeliveryCommand(id, seller, buyer, body.Description, body.Amount)
	if err != nil {
		return err
	}
	if err = s.commands.Create.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	s.metrics.ObserveTransitions(TransitionCreate, 1)
	return c.JSON(http.StatusCreated, api.CreatedDelivery{Id: id.String()})
}

func (s *Server) StartDelivery(c echo.Context, deliveryID string) error {
	caller, id, err := target(c, deliveryID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewStartDeliveryCommand(caller, id)
	if err != nil {
		return err
	}
	if err = s.commands.Start.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	s.metrics.ObserveTransitions(TransitionStart, 1)
	return c.NoContent(http.StatusNoContent)
}

// GenerateDeliveryOtp returns the plaintext code once; later reads of the
// delivery show it to the seller only.
func (s *Server) GenerateDeliveryOtp(c echo.Context, deliveryID string) error {
	caller, id, err := target(c, deliveryID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewGenerateDeliveryOtpCommand(caller, id)
	if err != nil {
		return err
	}
	code, err := s.commands.GenerateOtp.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, api.IssuedOtp{
		Otp:       code.Value(),
		ExpiresAt: unix(code.ExpiresAt()),
	})
}

func (s *Server) ConfirmDelivery(c echo.Context, deliveryID string) error {
	caller, id, err := target(c, deliveryID)
	if err != nil {
		return err
	}

	var body api.Confirmation
	if err = c.Bind(&body); err != nil {
		return err
	}

	cmd, err := commands.NewConfirmDeliveryCommand(caller, id, body.Otp)
	if err != nil {
		return err
	}
	receiptID, err := s.commands.Confirm.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	s.metrics.ObserveTransitions(TransitionDeliver, 1)
	return c.JSON(http.StatusOK, api.ConfirmedDelivery{ReceiptId: receiptID.String()})
}

func (s *Server) ReleaseEscrow(c echo.Context, deliveryID string) error {
	caller, id, err := target(c, deliveryID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewReleaseEscrowCommand(caller, id)
	if err != nil {
		return err
	}
	if err = s.commands.Release.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	s.metrics.ObserveTransitions(TransitionRelease, 1)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) CancelDelivery(c echo.Context, deliveryID string) error {
	caller, id, err := target(c, deliveryID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelDeliveryCommand(caller, id)
	if err != nil {
		return err
	}
	if err = s.commands.Cancel.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	s.metrics.ObserveTransitions(TransitionCancel, 1)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) GetDelivery(c echo.Context, deliveryID string) error {
	id, err := parseID("delivery", deliveryID)
	if err != nil {
		return err
	}

	query, err := queries.NewGetDeliveryQuery(id, callerFrom(c))
	if err != nil {
		return err
	}
	view, err := s.queries.GetDelivery.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	if view == nil {
		return errs.NewObjectNotFoundError("delivery", id.String())
	}

	return c.JSON(http.StatusOK, toDelivery(*view))
}

// ListDeliveries handles GET /api/v1/deliveries with at most one of the
// buyer and seller filters.
func (s *Server) ListDeliveries(c echo.Context, params api.ListDeliveriesParams) error {
	viewer := callerFrom(c)

	var (
		query queries.ListDeliveriesQuery
		err   error
	)
	switch {
	case params.Buyer != nil && params.Seller != nil:
		return echo.NewHTTPError(http.StatusBadRequest, "filter by buyer or by seller, not both")
	case params.Buyer != nil:
		var buyer kernel.Principal
		if buyer, err = kernel.NewPrincipal(*params.Buyer); err != nil {
			return err
		}
		query, err = queries.NewListDeliveriesByBuyerQuery(buyer, viewer)
	case params.Seller != nil:
		var seller kernel.Principal
		if seller, err = kernel.NewPrincipal(*params.Seller); err != nil {
			return err
		}
		query, err = queries.NewListDeliveriesBySellerQuery(seller, viewer)
	default:
		query = queries.NewListAllDeliveriesQuery(viewer)
	}
	if err != nil {
		return err
	}

	views, err := s.queries.ListDeliveries.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]api.Delivery, len(views))
	for i, view := range views {
		response[i] = toDelivery(view)
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) GetDeliveryReceipt(c echo.Context, deliveryID string) error {
	id, err := parseID("delivery", deliveryID)
	if err != nil {
		return err
	}

	query, err := queries.NewGetReceiptByDeliveryQuery(id)
	if err != nil {
		return err
	}
	return s.getReceipt(c, query, "receipt for delivery")
}

func (s *Server) GetReceipt(c echo.Context, receiptID string) error {
	id, err := parseID("receipt", receiptID)
	if err != nil {
		return err
	}

	query, err := queries.NewGetReceiptQuery(id)
	if err != nil {
		return err
	}
	return s.getReceipt(c, query, "receipt")
}

func (s *Server) getReceipt(c echo.Context, query queries.GetReceiptQuery, name string) error {
	view, err := s.queries.GetReceipt.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	if view == nil {
		return errs.NewObjectNotFoundError(name, query.ID().String())
	}
	return c.JSON(http.StatusOK, toReceipt(*view))
}

func (s *Server) ListReceiptsByOwner(c echo.Context, principal string) error {
	owner, err := kernel.NewPrincipal(principal)
	if err != nil {
		return err
	}

	query, err := queries.NewListReceiptsByOwnerQuery(owner)
	if err != nil {
		return err
	}
	views, err := s.queries.ListReceiptsByOwner.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]api.Receipt, len(views))
	for i, view := range views {
		response[i] = toReceipt(view)
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) GetEscrowBalance(c echo.Context) error {
	balance, err := s.queries.GetEscrowBalance.Handle(c.Request().Context(), queries.NewGetEscrowBalanceQuery())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, api.EscrowBalance{Balance: balance})
}

// GetNotifications returns the caller's own notifications.
func (s *Server) GetNotifications(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetNotificationsQuery(caller)
	if err != nil {
		return err
	}
	views, err := s.queries.GetNotifications.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]api.Notification, len(views))
	for i, view := range views {
		response[i] = api.Notification{
			Id:         view.ID.String(),
			DeliveryId: view.DeliveryID.String(),
			Message:    view.Message,
			Kind:       string(view.Kind),
			CreatedAt:  unix(view.CreatedAt),
			Read:       view.Read,
		}
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, s.queries.HealthCheck.Handle(c.Request().Context(), queries.NewHealthCheckQuery()))
}

// target resolves the caller and the delivery id of a mutating route.
// parseID resolves a path identifier. Identifiers are opaque to clients, so
// one that cannot name a stored object reports NotFound.
func parseID(name, raw string) (kernel.UUID, error) {
	id, err := kernel.ParseUUID(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewObjectNotFoundError(name, raw)
	}
	return id, nil
}

func target(c echo.Context, deliveryID string) (kernel.Principal, kernel.UUID, error) {
	caller, err := requireCaller(c)
	if err != nil {
		return kernel.Principal{}, kernel.UUID{}, err
	}

	id, err := parseID("delivery", deliveryID)
	if err != nil {
		return kernel.Principal{}, kernel.UUID{}, err
	}
	return caller, id, nil
}

func toDelivery(view queries.DeliveryView) api.Delivery {
	history := make([]api.StatusChange, len(view.History))
	for i, change := range view.History {
		history[i] = api.StatusChange{Status: change.Status.String(), At: unix(change.At)}
	}

	return api.Delivery{
		Id:               view.ID.String(),
		Status:           view.Status.String(),
		Description:      view.Description,
		Seller:           view.Seller.String(),
		Buyer:            view.Buyer.String(),
		Amount:           view.Amount,
		Otp:              view.Otp,
		OtpExpiresAt:     unixPtr(view.OtpExpiresAt),
		CreatedAt:        unix(view.CreatedAt),
		InTransitAt:      unixPtr(view.InTransitAt),
		DeliveredAt:      unixPtr(view.DeliveredAt),
		ConfirmedAt:      unixPtr(view.ConfirmedAt),
		EscrowReleasedAt: unixPtr(view.EscrowReleasedAt),
		CancelledAt:      unixPtr(view.CancelledAt),
		StatusHistory:    history,
	}
}

func toReceipt(view queries.ReceiptView) api.Receipt {
	return api.Receipt{
		Id:         view.ID.String(),
		DeliveryId: view.DeliveryID.String(),
		Owner:      view.Owner.String(),
		Metadata:   view.Metadata,
		MintedAt:   unix(view.MintedAt),
	}
}

func unix(t time.Time) uint64 {
	if t.Unix() < 0 {
		return 0
	}
	return uint64(t.Unix())
}

func unixPtr(t *time.Time) *uint64 {
	if t == nil {
		return nil
	}
	v := unix(*t)
	return &v
}
