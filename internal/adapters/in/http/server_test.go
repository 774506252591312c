package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"proofparcel/internal/adapters/in/http/api"
	"proofparcel/internal/adapters/out/memory"
	"proofparcel/internal/core/application/usecases/commands"
	"proofparcel/internal/core/application/usecases/queries"
	"proofparcel/internal/core/domain/model/otp"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/pkg/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sellerID = "seller-1"
	buyerID  = "buyer-1"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type memoryUoWFactory struct {
	factory memory.UnitOfWorkFactory
}

func (f memoryUoWFactory) Create() commands.UoW {
	return f.factory.Create()
}

type testAPI struct {
	t     *testing.T
	echo  *echo.Echo
	clock *clock.FakeClock
}

func newTestAPI(t *testing.T, identity IdentityConfig) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore(logger)
	factory := memoryUoWFactory{factory: memory.NewUnitOfWorkFactory(store)}
	clk := clock.Fake(t0)
	issuer, err := otp.NewIssuer(8, 5*time.Minute, nil)
	require.NoError(t, err)

	cmds := CommandHandlers{
		Create:      commands.NewCreateDeliveryCommandHandler(factory, clk),
		Start:       commands.NewStartDeliveryCommandHandler(factory, clk),
		GenerateOtp: commands.NewGenerateDeliveryOtpCommandHandler(factory, issuer, clk),
		Confirm:     commands.NewConfirmDeliveryCommandHandler(factory, clk),
		Release:     commands.NewReleaseEscrowCommandHandler(factory, services.ReleaseBySeller, clk),
		Cancel:      commands.NewCancelDeliveryCommandHandler(factory, clk),
	}
	qs := QueryHandlers{
		GetDelivery:         queries.NewGetDeliveryQueryHandler(store),
		ListDeliveries:      queries.NewListDeliveriesQueryHandler(store),
		GetReceipt:          queries.NewGetReceiptQueryHandler(store),
		ListReceiptsByOwner: queries.NewListReceiptsByOwnerQueryHandler(store),
		GetEscrowBalance:    queries.NewGetEscrowBalanceQueryHandler(store),
		GetNotifications:    queries.NewGetNotificationsQueryHandler(store),
		HealthCheck:         queries.NewHealthCheckQueryHandler(),
	}

	metrics := NewMetrics(qs.GetEscrowBalance)
	e, err := NewRouter(NewServer(cmds, qs, metrics, logger), metrics, identity)
	require.NoError(t, err)

	return &testAPI{t: t, echo: e, clock: clk}
}

func headerIdentity() IdentityConfig {
	return IdentityConfig{Mode: IdentityFromHeader, Header: "X-Principal"}
}

func (a *testAPI) do(method, path, caller, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if caller != "" {
		req.Header.Set("X-Principal", caller)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testAPI) createDelivery(amount int) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/deliveries", sellerID,
		`{"description":"widget","buyer":"`+buyerID+`","amount":`+itoa(amount)+`}`)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[api.CreatedDelivery](a.t, rec).Id
}

func (a *testAPI) issueOtp(id string) api.IssuedOtp {
	a.t.Helper()
	require.Equal(a.t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/deliveries/"+id+"/start", sellerID, "").Code)
	rec := a.do(http.MethodPost, "/api/v1/deliveries/"+id+"/otp", sellerID, "")
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[api.IssuedOtp](a.t, rec)
}

func itoa(v int) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, code int, kind string) {
	t.Helper()
	require.Equal(t, code, rec.Code, rec.Body.String())
	body := decode[api.Error](t, rec)
	assert.Equal(t, code, body.Code)
	assert.Equal(t, kind, body.Kind)
	assert.NotEmpty(t, body.Message)
}

func TestServer_HappyPath(t *testing.T) {
	a := newTestAPI(t, headerIdentity())
	id := a.createDelivery(100)

	balance := decode[api.EscrowBalance](t, a.do(http.MethodGet, "/api/v1/escrow/balance", "", ""))
	assert.Equal(t, uint64(100), balance.Balance)

	issued := a.issueOtp(id)
	assert.Len(t, issued.Otp, 8)
	assert.Equal(t, uint64(t0.Add(5*time.Minute).Unix()), issued.ExpiresAt)

	t.Run("should show the code to the seller only", func(t *testing.T) {
		asSeller := decode[api.Delivery](t, a.do(http.MethodGet, "/api/v1/deliveries/"+id, sellerID, ""))
		require.NotNil(t, asSeller.Otp)
		assert.Equal(t, issued.Otp, *asSeller.Otp)
		assert.Equal(t, "InTransit", asSeller.Status)

		asBuyer := decode[api.Delivery](t, a.do(http.MethodGet, "/api/v1/deliveries/"+id, buyerID, ""))
		assert.Nil(t, asBuyer.Otp)

		anonymous := decode[api.Delivery](t, a.do(http.MethodGet, "/api/v1/deliveries/"+id, "", ""))
		assert.Nil(t, anonymous.Otp)
	})

	rec := a.do(http.MethodPost, "/api/v1/deliveries/"+id+"/confirm", buyerID, `{"otp":"`+issued.Otp+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	confirmed := decode[api.ConfirmedDelivery](t, rec)

	receipt := decode[api.Receipt](t, a.do(http.MethodGet, "/api/v1/deliveries/"+id+"/receipt", "", ""))
	assert.Equal(t, confirmed.ReceiptId, receipt.Id)
	assert.Equal(t, buyerID, receipt.Owner)
	assert.Contains(t, receipt.Metadata, `"description":"widget"`)

	byID := decode[api.Receipt](t, a.do(http.MethodGet, "/api/v1/receipts/"+confirmed.ReceiptId, "", ""))
	assert.Equal(t, id, byID.DeliveryId)

	owned := decode[[]api.Receipt](t, a.do(http.MethodGet, "/api/v1/owners/"+buyerID+"/receipts", "", ""))
	assert.Len(t, owned, 1)

	require.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/deliveries/"+id+"/release", sellerID, "").Code)

	final := decode[api.Delivery](t, a.do(http.MethodGet, "/api/v1/deliveries/"+id, "", ""))
	assert.Equal(t, "EscrowReleased", final.Status)
	require.NotNil(t, final.EscrowReleasedAt)
	assert.Len(t, final.StatusHistory, 5)

	balance = decode[api.EscrowBalance](t, a.do(http.MethodGet, "/api/v1/escrow/balance", "", ""))
	assert.Zero(t, balance.Balance)

	notes := decode[[]api.Notification](t, a.do(http.MethodGet, "/api/v1/notifications", buyerID, ""))
	assert.NotEmpty(t, notes)
	for _, n := range notes {
		assert.Equal(t, id, n.DeliveryId)
		assert.False(t, n.Read)
	}
}

func TestServer_Errors(t *testing.T) {
	a := newTestAPI(t, headerIdentity())
	id := a.createDelivery(50)

	t.Run("should reject a mutating call without a caller", func(t *testing.T) {
		assertError(t, a.do(http.MethodPost, "/api/v1/deliveries/"+id+"/start", "", ""), http.StatusForbidden, "Unauthorized")
	})

	t.Run("should reject a caller who is not the seller", func(t *testing.T) {
		assertError(t, a.do(http.MethodPost, "/api/v1/deliveries/"+id+"/start", buyerID, ""), http.StatusForbidden, "Unauthorized")
	})

	t.Run("should answer not found for an id that names nothing", func(t *testing.T) {
		for _, path := range []string{
			"/api/v1/deliveries/not-a-uuid",
			"/api/v1/deliveries/not-a-uuid/receipt",
			"/api/v1/receipts/not-a-uuid",
		} {
			assertError(t, a.do(http.MethodGet, path, "", ""), http.StatusNotFound, "NotFound")
		}

		rec := a.do(http.MethodPost, "/api/v1/deliveries/not-a-uuid/start", sellerID, "")
		assertError(t, rec, http.StatusNotFound, "NotFound")
	})

	t.Run("should return not found for an unknown delivery", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/v1/deliveries/0b7d8c52-7c1e-4a55-9d2b-9f1f0f5b9a10", "", "")
		assertError(t, rec, http.StatusNotFound, "NotFound")

		rec = a.do(http.MethodGet, "/api/v1/deliveries/"+id+"/receipt", "", "")
		assertError(t, rec, http.StatusNotFound, "NotFound")
	})

	t.Run("should reject a zero amount", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/deliveries", sellerID, `{"description":"widget","buyer":"buyer-1","amount":0}`)
		assertError(t, rec, http.StatusBadRequest, "InvalidAmount")
	})

	t.Run("should reject the seller as buyer", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/deliveries", sellerID, `{"description":"widget","buyer":"seller-1","amount":5}`)
		assertError(t, rec, http.StatusBadRequest, "InvalidParty")
	})

	t.Run("should reject a body that breaks the contract", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/deliveries", sellerID, `{"description":"widget","amount":5}`)
		assertError(t, rec, http.StatusBadRequest, KindInvalidInput)
	})

	t.Run("should reject releasing a pending delivery", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/deliveries/"+id+"/release", sellerID, "")
		assertError(t, rec, http.StatusConflict, "InvalidState")
	})

	t.Run("should report a wrong code", func(t *testing.T) {
		other := a.createDelivery(10)
		issued := a.issueOtp(other)
		wrong := strings.Repeat("Z", len(issued.Otp))
		if wrong == issued.Otp {
			wrong = strings.Repeat("Y", len(issued.Otp))
		}

		rec := a.do(http.MethodPost, "/api/v1/deliveries/"+other+"/confirm", buyerID, `{"otp":"`+wrong+`"}`)
		assertError(t, rec, http.StatusUnprocessableEntity, "OtpMismatch")
	})

	t.Run("should report an expired code", func(t *testing.T) {
		other := a.createDelivery(10)
		issued := a.issueOtp(other)
		a.clock.Advance(5*time.Minute + time.Second)

		rec := a.do(http.MethodPost, "/api/v1/deliveries/"+other+"/confirm", buyerID, `{"otp":"`+issued.Otp+`"}`)
		assertError(t, rec, http.StatusUnprocessableEntity, "OtpExpired")
	})

	t.Run("should reject two list filters", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/v1/deliveries?buyer=a&seller=b", "", "")
		assertError(t, rec, http.StatusBadRequest, KindInvalidInput)
	})

	t.Run("should require a caller for notifications", func(t *testing.T) {
		assertError(t, a.do(http.MethodGet, "/api/v1/notifications", "", ""), http.StatusForbidden, "Unauthorized")
	})
}

func TestServer_ListDeliveries(t *testing.T) {
	a := newTestAPI(t, headerIdentity())
	first := a.createDelivery(1)
	second := a.createDelivery(2)

	all := decode[[]api.Delivery](t, a.do(http.MethodGet, "/api/v1/deliveries", "", ""))
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0].Id)
	assert.Equal(t, second, all[1].Id)

	byBuyer := decode[[]api.Delivery](t, a.do(http.MethodGet, "/api/v1/deliveries?buyer="+buyerID, "", ""))
	assert.Len(t, byBuyer, 2)

	bySeller := decode[[]api.Delivery](t, a.do(http.MethodGet, "/api/v1/deliveries?seller=nobody", "", ""))
	assert.Empty(t, bySeller)
}

func TestServer_CancelRefundsEscrow(t *testing.T) {
	a := newTestAPI(t, headerIdentity())
	id := a.createDelivery(70)

	require.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/deliveries/"+id+"/cancel", sellerID, "").Code)

	d := decode[api.Delivery](t, a.do(http.MethodGet, "/api/v1/deliveries/"+id, "", ""))
	assert.Equal(t, "Cancelled", d.Status)
	assert.NotNil(t, d.CancelledAt)

	balance := decode[api.EscrowBalance](t, a.do(http.MethodGet, "/api/v1/escrow/balance", "", ""))
	assert.Zero(t, balance.Balance)
}

func TestServer_JWTIdentity(t *testing.T) {
	secret := []byte("test-secret")
	a := newTestAPI(t, IdentityConfig{Mode: IdentityFromJWT, JWTSecret: secret})

	sign := func(t *testing.T, key []byte, subject string) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject}).SignedString(key)
		require.NoError(t, err)
		return token
	}

	post := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/deliveries",
			strings.NewReader(`{"description":"widget","buyer":"buyer-1","amount":9}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if token != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		a.echo.ServeHTTP(rec, req)
		return rec
	}

	t.Run("should take the caller from the subject claim", func(t *testing.T) {
		rec := post(sign(t, secret, sellerID))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		id := decode[api.CreatedDelivery](t, rec).Id
		d := decode[api.Delivery](t, a.do(http.MethodGet, "/api/v1/deliveries/"+id, "", ""))
		assert.Equal(t, sellerID, d.Seller)
	})

	t.Run("should reject a token signed with another key", func(t *testing.T) {
		assertError(t, post(sign(t, []byte("other"), sellerID)), http.StatusForbidden, "Unauthorized")
	})

	t.Run("should ignore the principal header", func(t *testing.T) {
		assertError(t, a.do(http.MethodPost, "/api/v1/deliveries", sellerID,
			`{"description":"widget","buyer":"buyer-1","amount":9}`), http.StatusForbidden, "Unauthorized")
	})
}

func TestServer_OperationalRoutes(t *testing.T) {
	a := newTestAPI(t, headerIdentity())
	a.createDelivery(30)

	t.Run("should report health", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/health", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, queries.HealthyMessage, rec.Body.String())
	})

	t.Run("should expose metrics", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/metrics", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `proofparcel_delivery_transitions_total{transition="create"} 1`)
		assert.Contains(t, body, "proofparcel_escrow_locked_balance 30")
		assert.Contains(t, body, `route="/api/v1/deliveries"`)
	})

	t.Run("should serve the contract", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/openapi.yaml", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
	})
}

func TestIdentityConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		cfg     IdentityConfig
		wantErr bool
	}{
		"should accept header mode":            {cfg: IdentityConfig{Mode: IdentityFromHeader, Header: "X-Principal"}},
		"should accept jwt mode with a secret": {cfg: IdentityConfig{Mode: IdentityFromJWT, JWTSecret: []byte("s")}},
		"should reject header mode without a header": {
			cfg: IdentityConfig{Mode: IdentityFromHeader}, wantErr: true,
		},
		"should reject jwt mode without a secret": {cfg: IdentityConfig{Mode: IdentityFromJWT}, wantErr: true},
		"should reject an unknown mode":           {cfg: IdentityConfig{Mode: "cookie"}, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
