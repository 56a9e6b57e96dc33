package data

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/awesome-store/store/db"
	"github.com/awesome-store/store/model/category"
	"github.com/awesome-store/store/model/item"
	"github.com/awesome-store/store/model/location"
	"github.com/awesome-store/store/model/user"
	"github.com/evergreen-ci/gimlet"
	"github.com/pkg/errors"
)

// MockConnector is an in-memory Connector for route tests. When StoredError
// is set every method fails with it.
type MockConnector struct {
	Items      []item.Item
	Categories []category.Category
	Users      []user.User
	Locations  []location.Location
	// Images maps image URLs to their content.
	Images      map[string][]byte
	StoredError error

	mu sync.Mutex
}

func (mc *MockConnector) FindItems(_ context.Context, opts item.SearchOptions) ([]item.Item, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid search options")
	}
	if opts.Empty() {
		return []item.Item{}, nil
	}

	out := []item.Item{}
	for _, i := range mc.Items {
		if matchesSearch(i, opts) {
			out = append(out, i)
		}
	}
	return page(out, opts.Skip, opts.Limit), nil
}

func matchesSearch(i item.Item, opts item.SearchOptions) bool {
	contains := func(s, sub string) bool {
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}

	switch {
	case opts.ID != "" && i.ID != db.ParseID(opts.ID):
		return false
	case opts.Name != "" && !contains(i.Name, opts.Name):
		return false
	case opts.Description != "" && !contains(i.Description, opts.Description):
		return false
	case i.Price < opts.MinPrice:
		return false
	case opts.MaxPrice != nil && i.Price > *opts.MaxPrice:
		return false
	case opts.Category != "" && i.Category != opts.Category:
		return false
	case opts.CategoryID != "" && i.CategoryID != db.ParseID(opts.CategoryID):
		return false
	}

	for _, tag := range opts.Tags {
		if !i.HasTag(tag) {
			return false
		}
	}
	return true
}

func page(items []item.Item, skip, limit int) []item.Item {
	if skip >= len(items) {
		return []item.Item{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (mc *MockConnector) FindItemsByCategory(ctx context.Context, name string, skip, limit int) ([]item.Item, error) {
	return mc.FindItems(ctx, item.SearchOptions{Category: name, Skip: skip, Limit: limit})
}

func (mc *MockConnector) FindItemByID(_ context.Context, id db.ID) (*item.Item, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	for _, i := range mc.Items {
		if i.ID == id {
			found := i
			return &found, nil
		}
	}
	return nil, nil
}

// CreateItem follows the category rules of item.InsertWithCategory.
func (mc *MockConnector) CreateItem(_ context.Context, i *item.Item) (*db.InsertResult, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	if err := i.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid item")
	}
	if i.Category == "" {
		return nil, errors.New("item category must not be empty")
	}
	for _, existing := range mc.Items {
		if existing.Name == i.Name {
			return db.Unacknowledged(), nil
		}
	}

	byName := mc.categoryWhere(func(c category.Category) bool { return c.Name == i.Category })
	var newCategory *category.Category
	if !i.CategoryID.IsZero() {
		byID := mc.categoryWhere(func(c category.Category) bool { return c.ID == i.CategoryID })
		switch {
		case byID != nil && byName != nil:
			if byID.ID != byName.ID {
				return db.Unacknowledged(), nil
			}
		case byID != nil || byName != nil:
			return db.Unacknowledged(), nil
		default:
			newCategory = &category.Category{ID: i.CategoryID, Name: i.Category}
		}
	} else if byName != nil {
		i.CategoryID = byName.ID
	} else {
		newCategory = &category.Category{ID: db.NewID(), Name: i.Category}
		i.CategoryID = newCategory.ID
	}

	if i.ID.IsZero() {
		i.ID = db.NewID()
	}
	mc.Items = append(mc.Items, *i)
	res := &db.InsertResult{Acknowledged: true, InsertedIDs: []string{i.ID.String()}}
	if newCategory != nil {
		mc.Categories = append(mc.Categories, *newCategory)
		res.InsertedIDs = append(res.InsertedIDs, newCategory.ID.String())
	}
	return res, nil
}

func (mc *MockConnector) categoryWhere(match func(category.Category) bool) *category.Category {
	for _, c := range mc.Categories {
		if match(c) {
			found := c
			return &found
		}
	}
	return nil
}

func (mc *MockConnector) UpsertItem(_ context.Context, id db.ID, i *item.Item) (*db.UpdateResult, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	if err := i.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid item")
	}

	updated := *i
	updated.ID = id
	for idx := range mc.Items {
		if mc.Items[idx].ID == id {
			if updated.CategoryID.IsZero() {
				updated.CategoryID = mc.Items[idx].CategoryID
			}
			if updated.Tags == nil {
				updated.Tags = mc.Items[idx].Tags
			}
			mc.Items[idx] = updated
			return &db.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}

	mc.Items = append(mc.Items, updated)
	return &db.UpdateResult{Acknowledged: true, UpsertedID: id.String()}, nil
}

func (mc *MockConnector) DeleteItem(_ context.Context, id db.ID) (*db.DeleteResult, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	for idx := range mc.Items {
		if mc.Items[idx].ID == id {
			mc.Items = append(mc.Items[:idx], mc.Items[idx+1:]...)
			return &db.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &db.DeleteResult{Acknowledged: true}, nil
}

func (mc *MockConnector) GetItemImage(ctx context.Context, id db.ID) ([]byte, error) {
	i, err := mc.FindItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if i == nil || i.ImageURL == "" {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("no image for item '%s'", id.String()),
		}
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	out, ok := mc.Images[i.ImageURL]
	if !ok {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Message:    fmt.Sprintf("fetching image '%s': remote returned '404 Not Found'", i.ImageURL),
		}
	}
	return out, nil
}

func (mc *MockConnector) FindCategories(context.Context) ([]category.Category, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	out := append([]category.Category{}, mc.Categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (mc *MockConnector) FindItemCategoryNames(context.Context) ([]string, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	seen := map[string]bool{}
	names := []string{}
	for _, i := range mc.Items {
		if i.Category != "" && !seen[i.Category] {
			seen[i.Category] = true
			names = append(names, i.Category)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (mc *MockConnector) FindCategoryByID(_ context.Context, id db.ID) (*category.Category, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	return mc.categoryWhere(func(c category.Category) bool { return c.ID == id }), nil
}

func (mc *MockConnector) CreateCategory(_ context.Context, c *category.Category) (*db.InsertResult, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	if c.Name == "" {
		return nil, errors.New("category name must not be empty")
	}
	exists := mc.categoryWhere(func(existing category.Category) bool {
		return existing.Name == c.Name || (!c.ID.IsZero() && existing.ID == c.ID)
	})
	if exists != nil {
		return db.Unacknowledged(), nil
	}

	if c.ID.IsZero() {
		c.ID = db.NewID()
	}
	mc.Categories = append(mc.Categories, *c)
	return &db.InsertResult{Acknowledged: true, InsertedIDs: []string{c.ID.String()}}, nil
}

func (mc *MockConnector) RegisterUser(_ context.Context, u *user.User) (*db.InsertResult, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	if err := u.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid user")
	}
	for _, existing := range mc.Users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, errors.Wrapf(user.ErrDuplicateUser, "registering user '%s'", u.Username)
		}
	}
	if err := u.SetPassword(u.Password); err != nil {
		return nil, err
	}

	u.ID = db.NewID()
	mc.Users = append(mc.Users, *u)
	return &db.InsertResult{Acknowledged: true, InsertedIDs: []string{u.ID.String()}}, nil
}

func (mc *MockConnector) LoginUser(ctx context.Context, username, password string) (*user.User, string, error) {
	u, err := mc.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "Username does not exist.", nil
	}
	if !u.CheckPassword(password) {
		return nil, "Incorrect password", nil
	}
	return u, "Login successful", nil
}

func (mc *MockConnector) FindUserByUsername(_ context.Context, username string) (*user.User, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	for _, u := range mc.Users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (mc *MockConnector) UpdateUser(_ context.Context, username string, changes *user.User) (*db.UpdateResult, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	for idx := range mc.Users {
		u := &mc.Users[idx]
		if u.Username != username {
			continue
		}
		if changes.FirstName != "" {
			u.FirstName = changes.FirstName
		}
		if changes.LastName != "" {
			u.LastName = changes.LastName
		}
		if changes.Email != "" {
			u.Email = changes.Email
		}
		if changes.Password != "" {
			if err := u.SetPassword(changes.Password); err != nil {
				return nil, err
			}
		}
		return &db.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return &db.UpdateResult{Acknowledged: true}, nil
}

func (mc *MockConnector) FindLocations(_ context.Context, username string) ([]location.Location, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	out := []location.Location{}
	for _, l := range mc.Locations {
		if username == "" || l.Username == username {
			out = append(out, l)
		}
	}
	return out, nil
}

func (mc *MockConnector) FindLocationByUsername(_ context.Context, username string) (*location.Location, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	for _, l := range mc.Locations {
		if l.Username == username {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

func (mc *MockConnector) UpsertLocation(_ context.Context, l *location.Location) (*db.UpdateResult, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.StoredError != nil {
		return nil, mc.StoredError
	}
	if err := l.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid location")
	}
	if l.Timestamp == 0 {
		l.Timestamp = time.Now().UnixMilli()
	}

	for idx := range mc.Locations {
		if mc.Locations[idx].Username == l.Username {
			mc.Locations[idx] = *l
			return &db.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	mc.Locations = append(mc.Locations, *l)
	return &db.UpdateResult{Acknowledged: true, UpsertedID: l.Username}, nil
}
