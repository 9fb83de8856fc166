package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

// --- Products ---

type fakeProducts struct {
	mu       sync.Mutex
	items    map[primitive.ObjectID]models.Product
	clashes  int
	saves    int
	getCalls int
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{items: make(map[primitive.ObjectID]models.Product)}
	for _, p := range products {
		f.items[p.ID] = cloneProduct(p)
	}
	return f
}

func cloneProduct(p models.Product) models.Product {
	p.Reviews = append([]models.Review(nil), p.Reviews...)
	p.Media = append([]models.Descriptor(nil), p.Media...)
	return p
}

func (f *fakeProducts) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	p, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("product", id.Hex())
	}
	c := cloneProduct(p)
	return &c, nil
}

func (f *fakeProducts) SaveReviews(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[p.ID]
	if !ok {
		return fmt.Errorf("product %s: %w", p.ID.Hex(), apperrors.ErrVersionClash)
	}
	if f.clashes > 0 {
		// Simulate a writer that got in first.
		f.clashes--
		stored.Version++
		f.items[p.ID] = stored
		return fmt.Errorf("product %s: %w", p.ID.Hex(), apperrors.ErrVersionClash)
	}
	if stored.Version != p.Version {
		return fmt.Errorf("product %s: %w", p.ID.Hex(), apperrors.ErrVersionClash)
	}
	stored.Reviews = append([]models.Review(nil), p.Reviews...)
	stored.Ratings = p.Ratings
	stored.NumReviews = p.NumReviews
	stored.Version++
	f.items[p.ID] = stored
	p.Version = stored.Version
	f.saves++
	return nil
}

func (f *fakeProducts) stored(id primitive.ObjectID) models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneProduct(f.items[id])
}

// --- Orders ---

type fakeOrders struct {
	mu        sync.Mutex
	items     map[primitive.ObjectID]models.Order
	markErr   error
	insertErr error
}

func newFakeOrders(orders ...models.Order) *fakeOrders {
	f := &fakeOrders{items: make(map[primitive.ObjectID]models.Order)}
	for _, o := range orders {
		f.items[o.ID] = o
	}
	return f
}

func (f *fakeOrders) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("order", id.Hex())
	}
	o.Cart = append([]models.OrderItem(nil), o.Cart...)
	return &o, nil
}

func (f *fakeOrders) Insert(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.items[o.ID] = *o
	return nil
}

func (f *fakeOrders) MarkLineReviewed(_ context.Context, orderID, productID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	o, ok := f.items[orderID]
	if !ok {
		return apperrors.NotFound("order", orderID.Hex())
	}
	cart := append([]models.OrderItem(nil), o.Cart...)
	for i := range cart {
		if cart[i].ProductID == productID {
			cart[i].IsReviewed = true
			o.Cart = cart
			f.items[orderID] = o
			return nil
		}
	}
	return apperrors.NotFound("order line", orderID.Hex())
}

// --- Public reviews ---

type fakePublicReviews struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.PublicReview
}

func newFakePublicReviews() *fakePublicReviews {
	return &fakePublicReviews{items: make(map[primitive.ObjectID]models.PublicReview)}
}

func (f *fakePublicReviews) Insert(_ context.Context, r *models.PublicReview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[r.ID] = *r
	return nil
}

func (f *fakePublicReviews) List(_ context.Context, page, limit int) ([]models.PublicReview, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]models.PublicReview, 0, len(f.items))
	for _, r := range f.items {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (f *fakePublicReviews) Increment(_ context.Context, id primitive.ObjectID, field string) (*models.PublicReview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("review", id.Hex())
	}
	switch field {
	case "helpfulUp":
		r.HelpfulUp++
	case "helpfulDown":
		r.HelpfulDown++
	default:
		return nil, fmt.Errorf("unknown counter %q", field)
	}
	f.items[id] = r
	return &r, nil
}

func (f *fakePublicReviews) stored(id primitive.ObjectID) models.PublicReview {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id]
}

// --- Catalog entities ---

type fakeEntities[T any, PT interface {
	*T
	models.MediaEntity
}] struct {
	mu        sync.Mutex
	items     map[primitive.ObjectID]T
	insertErr error
	pushErr   error
}

func newFakeEntities[T any, PT interface {
	*T
	models.MediaEntity
}]() *fakeEntities[T, PT] {
	return &fakeEntities[T, PT]{items: make(map[primitive.ObjectID]T)}
}

func (f *fakeEntities[T, PT]) Get(_ context.Context, id primitive.ObjectID) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("entity", id.Hex())
	}
	return &doc, nil
}

func (f *fakeEntities[T, PT]) Insert(_ context.Context, doc *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.items[PT(doc).EntityID()] = *doc
	return nil
}

func (f *fakeEntities[T, PT]) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperrors.NotFound("entity", id.Hex())
	}
	delete(f.items, id)
	return nil
}

func (f *fakeEntities[T, PT]) List(_ context.Context, page, limit int) ([]T, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]T, 0, len(f.items))
	for _, doc := range f.items {
		out = append(out, doc)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEntities[T, PT]) PushMedia(_ context.Context, id primitive.ObjectID, media []models.Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	doc, ok := f.items[id]
	if !ok {
		return apperrors.NotFound("entity", id.Hex())
	}
	pt := PT(&doc)
	pt.SetMediaList(append(append([]models.Descriptor(nil), pt.MediaList()...), media...))
	f.items[id] = doc
	return nil
}

func (f *fakeEntities[T, PT]) Referenced(_ context.Context, externalIDs []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	attached := make(map[string]bool)
	for _, doc := range f.items {
		for _, d := range PT(&doc).MediaList() {
			attached[d.ExternalID] = true
		}
	}
	var used []string
	for _, id := range externalIDs {
		if attached[id] {
			used = append(used, id)
		}
	}
	return used, nil
}

func (f *fakeEntities[T, PT]) put(doc T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[PT(&doc).EntityID()] = doc
}

func (f *fakeEntities[T, PT]) has(id primitive.ObjectID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[id]
	return ok
}

// --- Carts ---

type fakeCarts struct {
	mu       sync.Mutex
	items    map[primitive.ObjectID][]models.CartItem
	clearErr error
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{items: make(map[primitive.ObjectID][]models.CartItem)}
}

func (f *fakeCarts) ForUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := append([]models.CartItem{}, f.items[userID]...)
	return &models.Cart{UserID: userID, Items: items}, nil
}

func (f *fakeCarts) AddItem(_ context.Context, userID, productID primitive.ObjectID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.items[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			return nil
		}
	}
	f.items[userID] = append(items, models.CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

func (f *fakeCarts) RemoveItem(_ context.Context, userID, productID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []models.CartItem
	for _, it := range f.items[userID] {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	f.items[userID] = kept
	return nil
}

func (f *fakeCarts) SetQuantity(_ context.Context, userID, productID primitive.ObjectID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.items[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return nil
		}
	}
	return apperrors.NotFound("cart item", productID.Hex())
}

func (f *fakeCarts) Clear(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	delete(f.items, userID)
	return nil
}

// --- Users ---

type fakeUsers struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{items: make(map[primitive.ObjectID]models.User)}
}

func (f *fakeUsers) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("user", id.Hex())
	}
	return &u, nil
}

func (f *fakeUsers) Insert(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Email == u.Email {
			return apperrors.Conflict("user already exists")
		}
	}
	f.items[u.ID] = *u
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user", email)
}

func (f *fakeUsers) UpdateName(_ context.Context, id primitive.ObjectID, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("user", id.Hex())
	}
	u.Name = name
	f.items[id] = u
	return &u, nil
}

// --- Tokens ---

type fakeTokens struct{ err error }

func (f fakeTokens) Generate(userID primitive.ObjectID, role models.Role) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID.Hex() + "-" + string(role), nil
}

var errBoom = errors.New("boom")
