package services

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"souq/internal/domain"
	"souq/internal/repos"
)

var (
	// ErrEmptyItems rejects an order with no items.
	ErrEmptyItems = errors.New("order must include at least one item")
	// ErrBadItem rejects an order item without a numeric product id and a
	// positive quantity.
	ErrBadItem = errors.New("order item needs a product id and a positive quantity")
	// ErrInsufficientStock means a guarded stock decrement matched no row.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OrderInput is one order submission in a checkout batch.
type OrderInput struct {
	Items        domain.OrderItems `json:"items"`
	Phone        string            `json:"phone"`
	Address      string            `json:"address"`
	Status       string            `json:"status"`
	Active       *bool             `json:"active"`
	VoucherInfo  domain.JSONValue  `json:"voucher_info"`
	DeliveryCost *float64          `json:"delivery_cost"`
	VoucherID    *int64            `json:"voucher_id"`
}

// OrderService applies checkout batches as single transactions and owns the
// order/stock coupling.
type OrderService struct {
	db       *sqlx.DB
	Orders   *repos.OrderRepo
	Products *repos.ProductRepo
}

func NewOrderService(db *sqlx.DB, orders *repos.OrderRepo, products *repos.ProductRepo) *OrderService {
	return &OrderService{db: db, Orders: orders, Products: products}
}

// Place inserts every order in the batch and decrements stock for every item,
// all inside one transaction. Any failure - validation aside - rolls the
// whole batch back: no order row and no stock decrement survives a partial
// batch. The decrement is guarded (stock >= quantity in the UPDATE itself) so
// concurrent checkouts cannot drive stock negative, and a product whose stock
// reaches zero is deactivated in the same transaction.
func (s *OrderService) Place(userID int64, inputs []OrderInput) ([]domain.Order, error) {
	for _, in := range inputs {
		if len(in.Items) == 0 {
			return nil, ErrEmptyItems
		}
		for _, it := range in.Items {
			id, ok := it.ProductID()
			qty, qok := it.Quantity()
			if !ok || !qok || id <= 0 || qty <= 0 {
				return nil, ErrBadItem
			}
		}
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	inserted := make([]domain.Order, 0, len(inputs))
	for _, in := range inputs {
		status := in.Status
		if status == "" {
			status = "pending"
		}
		active := true
		if in.Active != nil {
			active = *in.Active
		}

		o, err := s.Orders.InsertTx(tx, domain.Order{
			UserID:       userID,
			Items:        in.Items,
			Phone:        in.Phone,
			Address:      in.Address,
			Status:       status,
			Active:       active,
			VoucherInfo:  in.VoucherInfo,
			DeliveryCost: in.DeliveryCost,
			VoucherID:    in.VoucherID,
		})
		if err != nil {
			return nil, err
		}

		for _, it := range in.Items {
			id, _ := it.ProductID()
			qty, _ := it.Quantity()
			ok, err := s.Products.DecrementStockTx(tx, id, qty)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("product %d: %w", id, ErrInsufficientStock)
			}
			if err := s.Products.DeactivateIfExhaustedTx(tx, id); err != nil {
				return nil, err
			}
		}

		inserted = append(inserted, o)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inserted, nil
}

// UpdateItems rewrites an order's quantities and applies the signed delta of
// each change to product stock. Unlike Place this is best-effort per item:
// entries without a numeric id/quantity are skipped (counted in the return
// value), the stock adjustment is unguarded, and no cross-item transaction is
// taken.
func (s *OrderService) UpdateItems(orderID int64, updates domain.OrderItems) (skipped int, err error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return 0, err
	}
	items := o.Items

	for _, upd := range updates {
		id, ok := upd.ProductID()
		newQty, qok := upd.Quantity()
		if !ok || !qok {
			skipped++
			continue
		}

		var existing domain.OrderItem
		var oldQty int64
		for _, it := range items {
			if itID, itOK := it.ProductID(); itOK && itID == id {
				existing = it
				oldQty, _ = it.Quantity()
				break
			}
		}

		diff := newQty - oldQty
		if diff == 0 {
			continue
		}
		if err := s.Products.AdjustStock(id, diff); err != nil {
			return skipped, err
		}
		if existing != nil {
			existing["quantity"] = newQty
		} else {
			upd["id"] = id
			items = append(items, upd)
		}
	}

	return skipped, s.Orders.SaveItems(orderID, items)
}

// OrderProducts pairs an order with the live state of its products.
type OrderProducts struct {
	Order    domain.OrderWithUser `json:"order"`
	Products []domain.OrderItem   `json:"product"`
}

// ProductsForOrder overlays each stored order item with the product's current
// name, price, stock and primary image so stale snapshots are visible.
func (s *OrderService) ProductsForOrder(orderID int64) (OrderProducts, error) {
	o, err := s.Orders.GetWithUser(orderID)
	if err != nil {
		return OrderProducts{}, err
	}

	ids := make([]int64, 0, len(o.Items))
	for _, it := range o.Items {
		if id, ok := it.ProductID(); ok {
			ids = append(ids, id)
		}
	}
	cards, err := s.Products.CardsByIDs(ids, false)
	if err != nil {
		return OrderProducts{}, err
	}

	merged := make([]domain.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		m := make(domain.OrderItem, len(it)+5)
		for k, v := range it {
			m[k] = v
		}
		if id, ok := it.ProductID(); ok {
			m["id"] = id
			if c, found := cards[id]; found {
				m["name"] = c.Name
				m["price"] = c.Price
				m["stock"] = c.Stock
				m["primary_image"] = c.PrimaryImage
			}
		}
		merged = append(merged, m)
	}

	return OrderProducts{Order: o, Products: merged}, nil
}
