package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/storefront/app"
	"github.com/jcmexdev/storefront/internal/storefront/domain"
	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx/middlewares"
)

// HeaderIdempotencyKey lets a client replay POST /orders/ safely: the first
// successful response is cached under the key and returned verbatim for
// repeats, without touching stock again.
const HeaderIdempotencyKey = "X-Idempotency-Key"

// idempotencyTTL is how long a cached order response stays replayable.
const idempotencyTTL = 24 * time.Hour

// Handler handles incoming HTTP requests for the storefront.
type Handler struct {
	catalog  *app.CatalogService
	orders   *app.OrderService
	accounts *app.AccountService
	replay   cache.Cache // nil-safe: idempotent replay skipped if nil
}

// NewHandler initializes the handler with its domain services.
// replay may be nil, in which case X-Idempotency-Key is ignored.
func NewHandler(
	catalog *app.CatalogService,
	orders *app.OrderService,
	accounts *app.AccountService,
	replay cache.Cache,
) *Handler {
	return &Handler{
		catalog:  catalog,
		orders:   orders,
		accounts: accounts,
		replay:   replay,
	}
}

// Root reports service liveness.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Server is running.",
	})
}

// Register creates a new account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{ID: user.ID, Email: user.Email})
}

// Token exchanges credentials for a bearer token.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// CreateProduct adds a catalog entry owned by the authenticated user.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), userID,
		req.Name, req.Description, decimal.NewFromFloat(req.Price), req.Stock)
	if err != nil {
		h.writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapProduct(product))
}

// ListProducts returns a catalog page.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r)

	products, err := h.catalog.ListProducts(r.Context(), skip, limit)
	if err != nil {
		h.writeDomainError(r.Context(), w, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, mapProduct(&products[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateOrder places an all-or-nothing order for the authenticated user.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	// The replay key is scoped per user: clients pick idempotency keys
	// independently, so the same value from two users must never collide.
	idempKey := r.Header.Get(HeaderIdempotencyKey)
	if h.replay != nil && idempKey != "" {
		key := h.replay.GenerateKey("orders", fmt.Sprintf("%d:%s", userID, idempKey))
		if body, err := h.replay.Get(r.Context(), key); err == nil && body != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(body))
			return
		}
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lines := make([]domain.OrderLine, 0, len(req.Products))
	for _, p := range req.Products {
		lines = append(lines, domain.OrderLine{ProductID: p.ProductID, Quantity: p.Quantity})
	}

	order, err := h.orders.PlaceOrder(r.Context(), userID, lines)
	if err != nil {
		h.writeDomainError(r.Context(), w, err)
		return
	}

	resp := OrderResponse{
		ID:         order.ID,
		TotalPrice: order.TotalPrice.InexactFloat64(),
		Status:     string(order.Status),
	}

	if h.replay != nil && idempKey != "" {
		if body, err := json.Marshal(resp); err == nil {
			key := h.replay.GenerateKey("orders", fmt.Sprintf("%d:%s", userID, idempKey))
			if err := h.replay.Set(r.Context(), key, string(body), idempotencyTTL); err != nil {
				slog.WarnContext(r.Context(), "failed to store idempotent response", "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetOrder returns a single order of the authenticated user, items included.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		h.writeDomainError(r.Context(), w, err)
		return
	}

	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.InexactFloat64(),
		})
	}
	writeJSON(w, http.StatusOK, OrderDetailResponse{
		ID:         order.ID,
		TotalPrice: order.TotalPrice.InexactFloat64(),
		Status:     string(order.Status),
		Items:      items,
	})
}

// ListOrders returns a page of the authenticated user's orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	skip, limit := pageParams(r)

	orders, err := h.orders.ListOrders(r.Context(), userID, skip, limit)
	if err != nil {
		h.writeDomainError(r.Context(), w, err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderResponse{
			ID:         o.ID,
			TotalPrice: o.TotalPrice.InexactFloat64(),
			Status:     string(o.Status),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// writeDomainError maps domain errors onto the HTTP taxonomy: 422 for field
// validation, 400 for business-rule rejections, 401 for credential failures,
// 409 for a conflict that survived the internal retries, 500 otherwise.
func (h *Handler) writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var quantityErr *domain.InvalidQuantityError
	var stockErr *domain.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusUnprocessableEntity, validationErr.Error())
	case errors.As(err, &quantityErr):
		writeError(w, http.StatusBadRequest, quantityErr.Error())
	case errors.As(err, &stockErr):
		writeError(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, domain.ErrEmptyOrder):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidLogin), errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "temporary conflict, please retry")
	default:
		slog.ErrorContext(ctx, "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func mapProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
	}
}

// pageParams reads skip/limit query parameters. Unparseable values fall back
// to the defaults; the service layer clamps the range.
func pageParams(r *http.Request) (skip, limit int64) {
	limit = app.MaxPageSize
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			limit = n
		}
	}
	return skip, limit
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
