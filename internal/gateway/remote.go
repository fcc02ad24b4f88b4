package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/zbirka/internal/auth"
	"github.com/erazemk/zbirka/internal/catalog"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/store"
)

// RequestTimeout bounds every call to the JSON API.
const RequestTimeout = 15 * time.Second

// Remote talks to a zbirka server over its JSON API.
type Remote struct {
	baseURL string
	session *auth.Session
	client  *http.Client
}

// NewRemote returns a gateway for the server at baseURL. A nil session makes
// every collection call fail with ErrNotAuthenticated.
func NewRemote(baseURL string, session *auth.Session) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		client:  &http.Client{Timeout: RequestTimeout},
	}
}

// GetCollection returns the user's items, newest first.
func (r *Remote) GetCollection(ctx context.Context) ([]model.Item, error) {
	var rows []store.ItemRow
	if err := r.do(ctx, http.MethodGet, "/api/collection_items", nil, &rows); err != nil {
		return nil, err
	}
	return toItems(rows), nil
}

// AddItem stores a new item and returns it as persisted.
func (r *Remote) AddItem(ctx context.Context, n model.NewItem) (*model.Item, error) {
	var row store.ItemRow
	if err := r.do(ctx, http.MethodPost, "/api/collection_items", newRow(catalog.Get(), "", n), &row); err != nil {
		return nil, err
	}
	item := toItem(row)
	return &item, nil
}

// UpdateItem sends only the fields the patch sets.
func (r *Remote) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) error {
	return r.do(ctx, http.MethodPatch, "/api/collection_items/"+url.PathEscape(id), rowFields(patch), nil)
}

// DeleteItem removes an item.
func (r *Remote) DeleteItem(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/collection_items/"+url.PathEscape(id), nil, nil)
}

// Catalog returns the bundled catalog.
func (r *Remote) Catalog() *catalog.Data {
	return catalog.Get()
}

func (r *Remote) do(ctx context.Context, method, path string, body, out any) error {
	if r.session == nil || r.session.Token == "" {
		return ErrNotAuthenticated
	}
	return call(ctx, r.client, method, r.baseURL+path, r.session.Token, body, out)
}

// call performs one JSON request. Error responses carry {"error": msg},
// which is returned verbatim wrapped in ErrBackend.
func call(ctx context.Context, client *http.Client, method, target, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return backendError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = resp.Status
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", ErrNotAuthenticated, e.Error)
		}
		return backendError(e.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
