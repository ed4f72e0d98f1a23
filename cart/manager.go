package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront-service/clients"
	"storefront-service/logger"
	"storefront-service/models"
)

// ErrItemNotFound is returned when an operation targets a line item that is
// not in the local cart.
var ErrItemNotFound = errors.New("cart item not found")

// Notification levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// CartAPI is the remote cart service surface the manager reconciles against.
type CartAPI interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID string, req clients.AddItemRequest) (*clients.AddItemResponse, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error)
	Clear(ctx context.Context, userID string) error
}

// Notifier delivers user-visible messages about cart changes.
type Notifier interface {
	Notify(ctx context.Context, userID, level, message string)
}

// Events publishes cart activity for downstream consumers.
type Events interface {
	Publish(event models.CartEvent)
}

// AddResult is returned from AddToCart for UI feedback.
type AddResult struct {
	AlreadyInCart bool   `json:"already_in_cart"`
	ItemID        string `json:"item_id"`
	Quantity      int    `json:"quantity"`
	Message       string `json:"message"`
}

// Manager owns the in-memory cart for one user. It applies optimistic local
// edits, issues the corresponding remote calls, and reconciles divergences
// the server reports. It is the sole writer of its cart; consumers only ever
// see snapshots.
type Manager struct {
	userID     string
	api        CartAPI
	notifier   Notifier
	events     Events
	graceDelay time.Duration

	mu            sync.Mutex
	cart          models.Cart
	actionLoading string
	// generation increments on every cart replacement or mutation so a
	// grace timer armed against an older cart never fires a removal.
	generation  uint64
	graceTimers map[string]*time.Timer
}

// NewManager builds a manager with an empty cart. Call FetchCart to load the
// authoritative state.
func NewManager(userID string, api CartAPI, notifier Notifier, events Events, graceDelay time.Duration) *Manager {
	return &Manager{
		userID:      userID,
		api:         api,
		notifier:    notifier,
		events:      events,
		graceDelay:  graceDelay,
		cart:        emptyCart(),
		graceTimers: map[string]*time.Timer{},
	}
}

// Snapshot returns a deep copy of the current cart.
func (m *Manager) Snapshot() models.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Clone()
}

// ActionLoading reports the in-flight mutation token: a line-item id, "add",
// "clear", or empty when idle. Advisory only; the manager does not enforce
// mutual exclusion at the data layer.
func (m *Manager) ActionLoading() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actionLoading
}

// FetchCart loads the cart from the remote API, replacing local state
// wholesale. Any failure, including not-found and unauthorized, falls back
// to an empty cart; the error is logged, never propagated.
func (m *Manager) FetchCart(ctx context.Context) {
	remote, err := m.api.GetCart(ctx, m.userID)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		logger.Log.Warn("Failed to fetch cart, falling back to empty",
			zap.String("user_id", m.userID), zap.Error(err))
		m.replaceCartLocked(emptyCart())
		return
	}
	m.replaceCartLocked(*remote)
}

// AddToCart sends an add request and resyncs the whole cart from the server:
// merging with an existing line item is server-side logic, so there is no
// optimistic path for additions.
func (m *Manager) AddToCart(ctx context.Context, productID, stockName string, quantity int) (*AddResult, error) {
	if quantity <= 0 {
		quantity = 1
	}

	m.setAction("add")
	defer m.clearAction()

	resp, err := m.api.AddItem(ctx, m.userID, clients.AddItemRequest{
		ProductID: productID,
		StockName: stockName,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, errors.New(serverMessage(err, "Failed to add item to cart"))
	}

	m.FetchCart(ctx)
	m.publish(models.EventItemAdded, productID, resp.CartItem.ID, resp.CartItem.Quantity, "")

	return &AddResult{
		AlreadyInCart: resp.AlreadyInCart,
		ItemID:        resp.CartItem.ID,
		Quantity:      resp.CartItem.Quantity,
		Message:       resp.Message,
	}, nil
}

// UpdateQuantity changes a line item's quantity. The local cart is updated
// optimistically before the network call; the server response either
// confirms (replacing local state wholesale) or reports a stock conflict,
// which is reconciled per conflict kind.
func (m *Manager) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity <= 0 {
		return m.RemoveFromCart(ctx, itemID)
	}

	m.mu.Lock()
	idx := m.findLocked(itemID)
	if idx < 0 {
		m.mu.Unlock()
		return ErrItemNotFound
	}
	m.cancelGraceTimerLocked(itemID)
	m.generation++
	m.cart.Items[idx] = RevalidateItem(m.cart.Items[idx], quantity)
	m.cart.Summary = ComputeSummary(m.cart.Items)
	m.actionLoading = itemID
	m.mu.Unlock()
	defer m.clearAction()

	remote, err := m.api.UpdateQuantity(ctx, m.userID, itemID, quantity)
	if err == nil {
		m.mu.Lock()
		m.replaceCartLocked(*remote)
		m.mu.Unlock()
		m.publish(models.EventItemUpdated, "", itemID, quantity, "")
		return nil
	}

	var conflict *clients.StockConflictError
	if errors.As(err, &conflict) {
		return m.reconcileConflict(ctx, itemID, conflict)
	}

	// Unknown server error or transport failure: discard the optimistic
	// update by re-fetching the authoritative cart.
	m.FetchCart(ctx)
	m.notify(ctx, LevelError, serverMessage(err, "Failed to update cart"))
	return err
}

// reconcileConflict handles the race where stock changed between page load
// and the user's action.
func (m *Manager) reconcileConflict(ctx context.Context, itemID string, conflict *clients.StockConflictError) error {
	switch conflict.Kind {
	case clients.ConflictOutOfStock:
		m.applyStockConflict(ctx, itemID, conflict)
		m.armGraceRemoval(itemID)
	case clients.ConflictInsufficientStock:
		m.applyStockConflict(ctx, itemID, conflict)
	case clients.ConflictProductUnavailable:
		m.notify(ctx, LevelWarning, m.conflictMessage(itemID, conflict))
		if err := m.RemoveFromCart(ctx, itemID); err != nil {
			return err
		}
	}
	m.publish(models.EventStockConflict, productIDOf(conflict), itemID, 0, string(conflict.Kind))
	return conflict
}

// applyStockConflict corrects the local item against the server-reported
// stock numbers and recomputes the summary.
func (m *Manager) applyStockConflict(ctx context.Context, itemID string, conflict *clients.StockConflictError) {
	m.mu.Lock()
	idx := m.findLocked(itemID)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.generation++
	m.cart.Items[idx] = correctItem(m.cart.Items[idx], conflict)
	m.cart.Summary = conflictSummary(m.cart.Items)
	m.mu.Unlock()

	m.notify(ctx, LevelWarning, m.conflictMessage(itemID, conflict))
}

// armGraceRemoval schedules the out-of-stock item's removal after the grace
// delay, giving the user time to see the notification. The timer is
// cancelled (or fires as a no-op) if the cart changes again first.
func (m *Manager) armGraceRemoval(itemID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelGraceTimerLocked(itemID)
	generation := m.generation
	m.graceTimers[itemID] = time.AfterFunc(m.graceDelay, func() {
		m.graceRemove(itemID, generation)
	})
}

func (m *Manager) graceRemove(itemID string, generation uint64) {
	m.mu.Lock()
	delete(m.graceTimers, itemID)
	stale := m.generation != generation || m.findLocked(itemID) < 0
	m.mu.Unlock()
	if stale {
		return
	}
	if err := m.RemoveFromCart(context.Background(), itemID); err != nil {
		logger.Log.Warn("Grace removal failed",
			zap.String("user_id", m.userID), zap.String("item_id", itemID), zap.Error(err))
	}
}

// RemoveFromCart removes a line item optimistically, then confirms with the
// server. A failure reverts by re-fetching the authoritative cart. Removing
// an id that is not in the cart is a no-op.
func (m *Manager) RemoveFromCart(ctx context.Context, itemID string) error {
	m.mu.Lock()
	idx := m.findLocked(itemID)
	if idx < 0 {
		m.mu.Unlock()
		return nil
	}
	m.cancelGraceTimerLocked(itemID)
	m.generation++
	m.cart.Items = append(m.cart.Items[:idx], m.cart.Items[idx+1:]...)
	m.cart.Summary = ComputeSummary(m.cart.Items)
	m.actionLoading = itemID
	m.mu.Unlock()
	defer m.clearAction()

	remote, err := m.api.RemoveItem(ctx, m.userID, itemID)
	if err != nil {
		m.FetchCart(ctx)
		m.notify(ctx, LevelError, serverMessage(err, "Failed to remove item from cart"))
		return err
	}

	m.mu.Lock()
	m.replaceCartLocked(*remote)
	m.mu.Unlock()
	m.publish(models.EventItemRemoved, "", itemID, 0, "")
	return nil
}

// ClearCart empties the cart server-side, then resets local state. On
// failure the local cart is left unchanged.
func (m *Manager) ClearCart(ctx context.Context) error {
	m.setAction("clear")
	defer m.clearAction()

	if err := m.api.Clear(ctx, m.userID); err != nil {
		m.notify(ctx, LevelError, serverMessage(err, "Failed to clear cart"))
		return err
	}

	m.mu.Lock()
	m.replaceCartLocked(emptyCart())
	m.mu.Unlock()
	m.publish(models.EventCartCleared, "", "", 0, "")
	return nil
}

// IsInCart reports whether the product (and variant, when given) is in the
// cart.
func (m *Manager) IsInCart(productID, stockName string) bool {
	_, ok := m.GetCartItem(productID, stockName)
	return ok
}

// GetCartItem returns the line item matching the product and variant. An
// empty stockName matches any variant.
func (m *Manager) GetCartItem(productID, stockName string) (models.CartLineItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.cart.Items {
		if item.ProductID == productID && (stockName == "" || item.StockName == stockName) {
			return item, true
		}
	}
	return models.CartLineItem{}, false
}

// Close cancels any pending grace timers. Used on logout/session teardown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	for id, timer := range m.graceTimers {
		timer.Stop()
		delete(m.graceTimers, id)
	}
}

// replaceCartLocked swaps in an authoritative cart. Last writer wins: any
// full-cart server payload supersedes whatever local state raced with it.
func (m *Manager) replaceCartLocked(cart models.Cart) {
	m.generation++
	for id, timer := range m.graceTimers {
		timer.Stop()
		delete(m.graceTimers, id)
	}
	if cart.Items == nil {
		cart.Items = []models.CartLineItem{}
	}
	if len(cart.Items) == 0 {
		cart.Summary = EmptyCartSummary()
	}
	m.cart = cart
}

func (m *Manager) findLocked(itemID string) int {
	for i, item := range m.cart.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

func (m *Manager) cancelGraceTimerLocked(itemID string) {
	if timer, ok := m.graceTimers[itemID]; ok {
		timer.Stop()
		delete(m.graceTimers, itemID)
	}
}

func (m *Manager) conflictMessage(itemID string, conflict *clients.StockConflictError) string {
	name := "Item"
	if conflict.ProductInfo != nil && conflict.ProductInfo.Name != "" {
		name = conflict.ProductInfo.Name
	} else {
		m.mu.Lock()
		if idx := m.findLocked(itemID); idx >= 0 && m.cart.Items[idx].Name != "" {
			name = m.cart.Items[idx].Name
		}
		m.mu.Unlock()
	}
	return name + ": " + conflict.Message
}

func (m *Manager) setAction(token string) {
	m.mu.Lock()
	m.actionLoading = token
	m.mu.Unlock()
}

func (m *Manager) clearAction() {
	m.setAction("")
}

func (m *Manager) notify(ctx context.Context, level, message string) {
	if m.notifier != nil {
		m.notifier.Notify(ctx, m.userID, level, message)
	}
}

func (m *Manager) publish(event, productID, itemID string, quantity int, detail string) {
	if m.events == nil {
		return
	}
	m.events.Publish(models.CartEvent{
		Event:     event,
		UserID:    m.userID,
		ProductID: productID,
		ItemID:    itemID,
		Quantity:  quantity,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}

func productIDOf(conflict *clients.StockConflictError) string {
	if conflict.ProductInfo != nil {
		return conflict.ProductInfo.ID
	}
	return ""
}

// serverMessage extracts a user-facing message from an upstream error,
// falling back to the given generic text.
func serverMessage(err error, fallback string) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var conflict *clients.StockConflictError
	if errors.As(err, &conflict) && conflict.Message != "" {
		return conflict.Message
	}
	return fallback
}
