package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DistriaGit/distria_api/internal/models"
	"github.com/DistriaGit/distria_api/internal/service"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// TenantContext is the ambient identity resolved from the authenticated
// session. Tools receive it explicitly; nothing in it ever comes from model
// output, which is what keeps the agent from being talked into another
// tenant's data.
type TenantContext struct {
	DistributorID int
	SalespersonID int
	// CustomerID is the client this conversation is about, when the request
	// resolved one. Tools fall back to a model-supplied clientId (validated
	// under the distributor) only when it is nil.
	CustomerID *int
}

// CatalogSearcher answers consultarStock.
type CatalogSearcher interface {
	SearchStock(ctx context.Context, distributorID int, query string) ([]service.StockSearchResult, error)
}

// Suggester answers sugerirProductos.
type Suggester interface {
	SuggestProducts(ctx context.Context, distributorID, customerID int, asOf time.Time, topN int) ([]models.SuggestedProduct, error)
}

// OrderManager answers crearOrden, confirmarOrden, and obtenerOrden.
type OrderManager interface {
	CreateOrder(ctx context.Context, in service.CreateOrderInput) (*models.OrderWithItems, error)
	ConfirmOrder(ctx context.Context, distributorID, orderID int) (*models.OrderWithItems, error)
	GetOrder(ctx context.Context, distributorID, orderID int) (*models.OrderWithItems, error)
}

// CustomerDirectory answers listarClientes and client resolution.
type CustomerDirectory interface {
	Search(ctx context.Context, distributorID int, name string, limit int) ([]service.CustomerSummary, error)
	Get(ctx context.Context, distributorID, customerID int) (*models.Customer, error)
}

// Dispatcher validates tool arguments, injects tenant context, and delegates
// to the business services. Domain failures come back as structured tool
// results, not Go errors, so one bad order never kills a session.
type Dispatcher struct {
	catalog   CatalogSearcher
	suggester Suggester
	orders    OrderManager
	customers CustomerDirectory
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(catalog CatalogSearcher, suggester Suggester, orders OrderManager, customers CustomerDirectory) *Dispatcher {
	return &Dispatcher{catalog: catalog, suggester: suggester, orders: orders, customers: customers}
}

// toolError is the structured payload returned into the agent loop for
// domain-level failures, phrased for direct inclusion in a reply.
type toolError struct {
	Error string `json:"error"`
}

// Dispatch runs one tool call. The returned value is always safe to marshal
// into a tool message; a non-nil error means infrastructure failure only.
func (d *Dispatcher) Dispatch(ctx context.Context, tenant TenantContext, name string, args map[string]any) (any, error) {
	result, err := d.dispatch(ctx, tenant, name, args)
	if err != nil {
		if msg, ok := domainErrorMessage(err); ok {
			return toolError{Error: msg}, nil
		}
		return nil, err
	}
	return result, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, tenant TenantContext, name string, args map[string]any) (any, error) {
	switch name {
	case "consultarStock":
		query, _ := getStringArg(args, "query")
		if query == "" {
			return nil, &utils.ValidationError{Field: "query", Message: "is required"}
		}
		return d.catalog.SearchStock(ctx, tenant.DistributorID, query)

	case "sugerirProductos":
		customerID, err := d.resolveCustomer(ctx, tenant, args)
		if err != nil {
			return nil, err
		}
		topN := getIntArg(args, "topN", 0)
		return d.suggester.SuggestProducts(ctx, tenant.DistributorID, customerID, time.Now(), topN)

	case "crearOrden":
		customerID, err := d.resolveCustomer(ctx, tenant, args)
		if err != nil {
			return nil, err
		}
		items, err := getItemsArg(args)
		if err != nil {
			return nil, err
		}
		in := service.CreateOrderInput{
			DistributorID: tenant.DistributorID,
			CustomerID:    customerID,
			SalespersonID: &tenant.SalespersonID,
			Items:         items,
		}
		if addr, ok := getStringArg(args, "deliveryAddress"); ok && addr != "" {
			in.DeliveryAddress = &addr
		}
		if notes, ok := getStringArg(args, "notes"); ok && notes != "" {
			in.Notes = &notes
		}
		return d.orders.CreateOrder(ctx, in)

	case "confirmarOrden":
		orderID := getIntArg(args, "orderId", 0)
		if orderID <= 0 {
			return nil, &utils.ValidationError{Field: "orderId", Message: "must be a positive integer"}
		}
		return d.orders.ConfirmOrder(ctx, tenant.DistributorID, orderID)

	case "obtenerOrden":
		orderID := getIntArg(args, "orderId", 0)
		if orderID <= 0 {
			return nil, &utils.ValidationError{Field: "orderId", Message: "must be a positive integer"}
		}
		return d.orders.GetOrder(ctx, tenant.DistributorID, orderID)

	case "listarClientes":
		nameFilter, _ := getStringArg(args, "name")
		return d.customers.Search(ctx, tenant.DistributorID, nameFilter, 50)

	default:
		return nil, &utils.ValidationError{Field: "tool", Message: fmt.Sprintf("unknown tool %q", name)}
	}
}

// resolveCustomer picks the conversation's client: the session-resolved one
// when present, otherwise a model-supplied clientId verified to belong to the
// distributor. With neither, the tool fails descriptively so the model asks
// the user instead of guessing.
func (d *Dispatcher) resolveCustomer(ctx context.Context, tenant TenantContext, args map[string]any) (int, error) {
	if tenant.CustomerID != nil {
		return *tenant.CustomerID, nil
	}
	if clientID := getIntArg(args, "clientId", 0); clientID > 0 {
		if _, err := d.customers.Get(ctx, tenant.DistributorID, clientID); err != nil {
			return 0, err
		}
		return clientID, nil
	}
	return 0, utils.ErrTenantUnresolved
}

// domainErrorMessage maps business-rule failures to user-facing messages.
// Anything it does not recognize propagates as an infrastructure error.
func domainErrorMessage(err error) (string, bool) {
	var insufficientStock *utils.InsufficientStockError
	var invalidTransition *utils.InvalidTransitionError
	var validation *utils.ValidationError

	switch {
	case errors.As(err, &insufficientStock):
		return fmt.Sprintf("Not enough stock of %s: %d available, %d requested.",
			insufficientStock.SKU, insufficientStock.Available, insufficientStock.Requested), true
	case errors.As(err, &invalidTransition):
		return fmt.Sprintf("The order cannot move from %s to %s.", invalidTransition.From, invalidTransition.To), true
	case errors.As(err, &validation):
		return fmt.Sprintf("Invalid input: %s.", validation.Error()), true
	case errors.Is(err, utils.ErrTenantUnresolved):
		return "No client is selected for this conversation. Ask the user which client this is for, then use listarClientes to find them.", true
	case errors.Is(err, utils.ErrEmptyOrder):
		return "The order has no items; at least one item is required.", true
	case errors.Is(err, utils.ErrProductNotFound):
		return "That product does not exist in the catalog or is no longer active.", true
	case errors.Is(err, utils.ErrCustomerNotFound):
		return "That client was not found for this distributor.", true
	case errors.Is(err, utils.ErrOrderNotFound):
		return "That order was not found.", true
	case errors.Is(err, utils.ErrLotNotFound):
		return "That inventory lot was not found.", true
	}
	return "", false
}
