package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/service"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// fakeInventory is a minimal in-memory stock ledger for order scenarios.
type fakeInventory map[string]int

// fakeBackend implements the dispatcher's service interfaces against
// in-memory state so full tool conversations can run without a database.
type fakeBackend struct {
	stock     fakeInventory
	customers map[int]*models.Customer
	orders    map[int]*models.OrderWithItems
	nextOrder int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		stock: fakeInventory{},
		customers: map[int]*models.Customer{
			7: {ID: 7, Name: "Bodega La Esquina"},
		},
		orders:    map[int]*models.OrderWithItems{},
		nextOrder: 1,
	}
}

func (f *fakeBackend) SearchStock(ctx context.Context, distributorID int, query string) ([]service.StockSearchResult, error) {
	var results []service.StockSearchResult
	for sku, qty := range f.stock {
		if strings.Contains(strings.ToLower(sku), strings.ToLower(query)) {
			results = append(results, service.StockSearchResult{SKU: sku, AvailableStock: qty})
		}
	}
	return results, nil
}

func (f *fakeBackend) SuggestProducts(ctx context.Context, distributorID, customerID int, asOf time.Time, topN int) ([]models.SuggestedProduct, error) {
	if _, ok := f.customers[customerID]; !ok {
		return nil, utils.ErrCustomerNotFound
	}
	return []models.SuggestedProduct{{SKU: "SKU-A", Score: 0.8}}, nil
}

func (f *fakeBackend) CreateOrder(ctx context.Context, in service.CreateOrderInput) (*models.OrderWithItems, error) {
	if _, ok := f.customers[in.CustomerID]; !ok {
		return nil, utils.ErrCustomerNotFound
	}
	if len(in.Items) == 0 {
		return nil, utils.ErrEmptyOrder
	}
	order := &models.OrderWithItems{Order: models.Order{
		ID:         f.nextOrder,
		CustomerID: in.CustomerID,
		Status:     models.OrderDraft,
	}}
	for _, item := range in.Items {
		available, ok := f.stock[item.SKU]
		if !ok {
			return nil, utils.ErrProductNotFound
		}
		if available < item.Quantity {
			return nil, &utils.InsufficientStockError{SKU: item.SKU, Available: available, Requested: item.Quantity}
		}
		order.Items = append(order.Items, models.OrderItem{SKU: item.SKU, Quantity: item.Quantity})
	}
	f.orders[order.ID] = order
	f.nextOrder++
	return order, nil
}

func (f *fakeBackend) ConfirmOrder(ctx context.Context, distributorID, orderID int) (*models.OrderWithItems, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, utils.ErrOrderNotFound
	}
	if order.Status != models.OrderDraft {
		return nil, &utils.InvalidTransitionError{From: string(order.Status), To: string(models.OrderConfirmed)}
	}
	// All-or-nothing: validate every line before decrementing anything.
	for _, item := range order.Items {
		if f.stock[item.SKU] < item.Quantity {
			return nil, &utils.InsufficientStockError{
				SKU: item.SKU, Available: f.stock[item.SKU], Requested: item.Quantity,
			}
		}
	}
	for _, item := range order.Items {
		f.stock[item.SKU] -= item.Quantity
	}
	order.Status = models.OrderConfirmed
	return order, nil
}

func (f *fakeBackend) GetOrder(ctx context.Context, distributorID, orderID int) (*models.OrderWithItems, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, utils.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeBackend) Search(ctx context.Context, distributorID int, name string, limit int) ([]service.CustomerSummary, error) {
	var results []service.CustomerSummary
	for _, c := range f.customers {
		if name == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			results = append(results, service.CustomerSummary{ID: c.ID, Name: c.Name})
		}
	}
	return results, nil
}

func (f *fakeBackend) Get(ctx context.Context, distributorID, customerID int) (*models.Customer, error) {
	c, ok := f.customers[customerID]
	if !ok {
		return nil, utils.ErrCustomerNotFound
	}
	return c, nil
}

func newTestDispatcher(backend *fakeBackend) *Dispatcher {
	return NewDispatcher(backend, backend, backend, backend)
}

func tenant(customerID *int) TenantContext {
	return TenantContext{DistributorID: 1, SalespersonID: 3, CustomerID: customerID}
}

func TestDispatchOrderHappyPath(t *testing.T) {
	backend := newFakeBackend()
	backend.stock["SKU-A"] = 10
	d := newTestDispatcher(backend)
	ctx := context.Background()
	clientID := 7

	result, err := d.Dispatch(ctx, tenant(&clientID), "crearOrden", map[string]any{
		"items": []any{
			map[string]any{"sku": "SKU-A", "quantity": float64(4)},
		},
	})
	if err != nil {
		t.Fatalf("crearOrden: %v", err)
	}
	order, ok := result.(*models.OrderWithItems)
	if !ok {
		t.Fatalf("crearOrden result = %T, want *models.OrderWithItems", result)
	}
	if order.Status != models.OrderDraft {
		t.Errorf("new order status = %s, want DRAFT", order.Status)
	}
	if backend.stock["SKU-A"] != 10 {
		t.Errorf("stock must not move at creation time, got %d", backend.stock["SKU-A"])
	}

	result, err = d.Dispatch(ctx, tenant(&clientID), "confirmarOrden", map[string]any{
		"orderId": float64(order.ID),
	})
	if err != nil {
		t.Fatalf("confirmarOrden: %v", err)
	}
	confirmed := result.(*models.OrderWithItems)
	if confirmed.Status != models.OrderConfirmed {
		t.Errorf("confirmed order status = %s", confirmed.Status)
	}
	if backend.stock["SKU-A"] != 6 {
		t.Errorf("stock after confirmation = %d, want 6", backend.stock["SKU-A"])
	}
}

func TestDispatchInsufficientStockAtCreation(t *testing.T) {
	backend := newFakeBackend()
	backend.stock["SKU-A"] = 10
	d := newTestDispatcher(backend)
	clientID := 7

	result, err := d.Dispatch(context.Background(), tenant(&clientID), "crearOrden", map[string]any{
		"items": []any{
			map[string]any{"sku": "SKU-A", "quantity": float64(11)},
		},
	})
	if err != nil {
		t.Fatalf("domain failures must not surface as errors: %v", err)
	}
	payload, ok := result.(toolError)
	if !ok {
		t.Fatalf("result = %T, want toolError", result)
	}
	if !strings.Contains(payload.Error, "10 available") || !strings.Contains(payload.Error, "11 requested") {
		t.Errorf("error message should name quantities: %q", payload.Error)
	}
	if len(backend.orders) != 0 {
		t.Error("no order may exist after a failed creation")
	}
}

func TestDispatchConfirmationRace(t *testing.T) {
	backend := newFakeBackend()
	backend.stock["SKU-A"] = 10
	d := newTestDispatcher(backend)
	ctx := context.Background()
	clientID := 7

	// Two drafts compete for the same 10 units.
	for _, qty := range []float64{6, 6} {
		if _, err := d.Dispatch(ctx, tenant(&clientID), "crearOrden", map[string]any{
			"items": []any{map[string]any{"sku": "SKU-A", "quantity": qty}},
		}); err != nil {
			t.Fatalf("crearOrden: %v", err)
		}
	}

	if _, err := d.Dispatch(ctx, tenant(&clientID), "confirmarOrden", map[string]any{"orderId": float64(1)}); err != nil {
		t.Fatalf("first confirmation: %v", err)
	}

	result, err := d.Dispatch(ctx, tenant(&clientID), "confirmarOrden", map[string]any{"orderId": float64(2)})
	if err != nil {
		t.Fatalf("second confirmation must fail as a domain error: %v", err)
	}
	payload, ok := result.(toolError)
	if !ok {
		t.Fatalf("result = %T, want toolError", result)
	}
	if !strings.Contains(payload.Error, "4 available") || !strings.Contains(payload.Error, "6 requested") {
		t.Errorf("race failure should name remaining stock: %q", payload.Error)
	}
	if backend.orders[2].Status != models.OrderDraft {
		t.Errorf("losing order must stay DRAFT, got %s", backend.orders[2].Status)
	}
	if backend.stock["SKU-A"] != 4 {
		t.Errorf("stock = %d, want 4 (only the winner decremented)", backend.stock["SKU-A"])
	}
}

func TestDispatchTenantUnresolved(t *testing.T) {
	backend := newFakeBackend()
	backend.stock["SKU-A"] = 10
	d := newTestDispatcher(backend)

	// No session client and no clientId argument.
	result, err := d.Dispatch(context.Background(), tenant(nil), "crearOrden", map[string]any{
		"items": []any{map[string]any{"sku": "SKU-A", "quantity": float64(1)}},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	payload, ok := result.(toolError)
	if !ok {
		t.Fatalf("result = %T, want toolError", result)
	}
	if !strings.Contains(payload.Error, "listarClientes") {
		t.Errorf("message should steer the model to listarClientes: %q", payload.Error)
	}
}

func TestDispatchModelSuppliedClientIsValidated(t *testing.T) {
	backend := newFakeBackend()
	backend.stock["SKU-A"] = 10
	d := newTestDispatcher(backend)
	ctx := context.Background()

	// A clientId the distributor does not have must be rejected.
	result, err := d.Dispatch(ctx, tenant(nil), "crearOrden", map[string]any{
		"clientId": float64(999),
		"items":    []any{map[string]any{"sku": "SKU-A", "quantity": float64(1)}},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if _, ok := result.(toolError); !ok {
		t.Fatalf("unknown client must fail as toolError, got %T", result)
	}

	// A valid one passes.
	result, err = d.Dispatch(ctx, tenant(nil), "crearOrden", map[string]any{
		"clientId": float64(7),
		"items":    []any{map[string]any{"sku": "SKU-A", "quantity": float64(1)}},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if _, ok := result.(*models.OrderWithItems); !ok {
		t.Fatalf("valid clientId should create the order, got %T", result)
	}
}

func TestDispatchSessionClientOverridesArgument(t *testing.T) {
	backend := newFakeBackend()
	backend.customers[8] = &models.Customer{ID: 8, Name: "Otro"}
	backend.stock["SKU-A"] = 10
	d := newTestDispatcher(backend)
	sessionClient := 7

	result, err := d.Dispatch(context.Background(), tenant(&sessionClient), "crearOrden", map[string]any{
		"clientId": float64(8),
		"items":    []any{map[string]any{"sku": "SKU-A", "quantity": float64(1)}},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	order := result.(*models.OrderWithItems)
	if order.CustomerID != 7 {
		t.Errorf("session-resolved client must win over the model argument, got %d", order.CustomerID)
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	d := newTestDispatcher(newFakeBackend())

	result, err := d.Dispatch(context.Background(), tenant(nil), "borrarTodo", nil)
	if err != nil {
		t.Fatalf("unknown tool must be a domain failure: %v", err)
	}
	payload, ok := result.(toolError)
	if !ok {
		t.Fatalf("result = %T, want toolError", result)
	}
	if !strings.Contains(payload.Error, "borrarTodo") {
		t.Errorf("message should name the unknown tool: %q", payload.Error)
	}
}

func TestDispatchDoubleConfirmation(t *testing.T) {
	backend := newFakeBackend()
	backend.stock["SKU-A"] = 10
	d := newTestDispatcher(backend)
	ctx := context.Background()
	clientID := 7

	if _, err := d.Dispatch(ctx, tenant(&clientID), "crearOrden", map[string]any{
		"items": []any{map[string]any{"sku": "SKU-A", "quantity": float64(2)}},
	}); err != nil {
		t.Fatalf("crearOrden: %v", err)
	}
	if _, err := d.Dispatch(ctx, tenant(&clientID), "confirmarOrden", map[string]any{"orderId": float64(1)}); err != nil {
		t.Fatalf("first confirmation: %v", err)
	}

	result, err := d.Dispatch(ctx, tenant(&clientID), "confirmarOrden", map[string]any{"orderId": float64(1)})
	if err != nil {
		t.Fatalf("second confirmation: %v", err)
	}
	payload, ok := result.(toolError)
	if !ok {
		t.Fatalf("result = %T, want toolError", result)
	}
	if !strings.Contains(payload.Error, "CONFIRMED") {
		t.Errorf("message should name the invalid transition: %q", payload.Error)
	}
	if backend.stock["SKU-A"] != 8 {
		t.Errorf("stock must only be decremented once, got %d", backend.stock["SKU-A"])
	}
}

func TestDispatchConsultarStock(t *testing.T) {
	backend := newFakeBackend()
	backend.stock["AZUCAR-1KG"] = 25
	d := newTestDispatcher(backend)

	result, err := d.Dispatch(context.Background(), tenant(nil), "consultarStock", map[string]any{"query": "azucar"})
	if err != nil {
		t.Fatalf("consultarStock: %v", err)
	}
	hits := result.([]service.StockSearchResult)
	if len(hits) != 1 || hits[0].AvailableStock != 25 {
		t.Errorf("hits = %+v", hits)
	}

	// Missing query is a validation failure, not an infra error.
	result, err = d.Dispatch(context.Background(), tenant(nil), "consultarStock", map[string]any{})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if _, ok := result.(toolError); !ok {
		t.Fatalf("empty query should return toolError, got %T", result)
	}
}

func TestDomainErrorMessagePassesInfraErrorsThrough(t *testing.T) {
	if _, ok := domainErrorMessage(context.DeadlineExceeded); ok {
		t.Error("infrastructure errors must not map to tool payloads")
	}
}
