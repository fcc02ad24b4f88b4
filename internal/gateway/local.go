package gateway

import (
	"context"
	"database/sql"

	"github.com/erazemk/zbirka/internal/auth"
	"github.com/erazemk/zbirka/internal/catalog"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/store"
)

// Local reads and writes the signed-in user's items in the server's own
// database.
type Local struct {
	db      *sql.DB
	session *auth.Session
}

// NewLocal returns a gateway acting as the session's user. A nil session
// makes every call fail with ErrNotAuthenticated.
func NewLocal(db *sql.DB, session *auth.Session) *Local {
	return &Local{db: db, session: session}
}

func (l *Local) userID() (string, error) {
	if l.session == nil || l.session.UserID == "" {
		return "", ErrNotAuthenticated
	}
	return l.session.UserID, nil
}

// GetCollection returns the user's items, newest first.
func (l *Local) GetCollection(ctx context.Context) ([]model.Item, error) {
	uid, err := l.userID()
	if err != nil {
		return nil, err
	}
	rows, err := store.ListItems(ctx, l.db, uid)
	if err != nil {
		return nil, backendError(err.Error())
	}
	return toItems(rows), nil
}

// AddItem stores a new item.
func (l *Local) AddItem(ctx context.Context, n model.NewItem) (*model.Item, error) {
	uid, err := l.userID()
	if err != nil {
		return nil, err
	}
	row, err := store.CreateItem(ctx, l.db, newRow(catalog.Get(), uid, n))
	if err != nil {
		return nil, backendError(err.Error())
	}
	item := toItem(*row)
	return &item, nil
}

// UpdateItem writes the fields the patch sets.
func (l *Local) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) error {
	uid, err := l.userID()
	if err != nil {
		return err
	}
	found, err := store.UpdateItem(ctx, l.db, uid, id, rowFields(patch))
	if err != nil {
		return backendError(err.Error())
	}
	if !found {
		return backendError("item not found")
	}
	return nil
}

// DeleteItem removes an item.
func (l *Local) DeleteItem(ctx context.Context, id string) error {
	uid, err := l.userID()
	if err != nil {
		return err
	}
	found, err := store.DeleteItem(ctx, l.db, uid, id)
	if err != nil {
		return backendError(err.Error())
	}
	if !found {
		return backendError("item not found")
	}
	return nil
}

// Catalog returns the bundled catalog.
func (l *Local) Catalog() *catalog.Data {
	return catalog.Get()
}
