package resources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/octabyte/bm-health-portal/gateway"
	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/session"
)

// Doer sends one request through the gateway.
type Doer interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

// collection implements the user scoped CRUD shape shared by every record
// type:
//
//	GET    /{name}/user/{uid}[/{view}]
//	POST   /{name}/user/{uid}
//	PUT    /{name}/{id}
//	DELETE /{name}/{id}
type collection[T models.Validatable] struct {
	gw    Doer
	store session.Store
	name  string
}

func newCollection[T models.Validatable](gw Doer, store session.Store, name string) collection[T] {
	return collection[T]{gw: gw, store: store, name: name}
}

func (c collection[T]) userPath(ctx context.Context, view string) (string, error) {
	uid, err := session.CurrentUserID(ctx, c.store)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	path := fmt.Sprintf("/%s/user/%d", c.name, uid)
	if view != "" {
		path += "/" + view
	}
	return path, nil
}

func (c collection[T]) recordPath(ctx context.Context, id int64) (string, error) {
	if _, err := session.CurrentUserID(ctx, c.store); err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	return fmt.Sprintf("/%s/%d", c.name, id), nil
}

func (c collection[T]) list(ctx context.Context, view string) ([]T, error) {
	path, err := c.userPath(ctx, view)
	if err != nil {
		return nil, err
	}

	var out []T
	if err := c.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAll lists the current user's records.
func (c collection[T]) GetAll(ctx context.Context) ([]T, error) {
	return c.list(ctx, "")
}

// Create sends payload as given and returns the stored record.
func (c collection[T]) Create(ctx context.Context, payload T) (T, error) {
	var created T
	path, err := c.userPath(ctx, "")
	if err != nil {
		return created, err
	}
	err = c.gw.Do(ctx, gateway.Request{Method: http.MethodPost, Path: path, Body: payload}, &created)
	return created, err
}

func (c collection[T]) Update(ctx context.Context, id int64, payload T) (T, error) {
	var updated T
	path, err := c.recordPath(ctx, id)
	if err != nil {
		return updated, err
	}
	err = c.gw.Do(ctx, gateway.Request{Method: http.MethodPut, Path: path, Body: payload}, &updated)
	return updated, err
}

func (c collection[T]) Delete(ctx context.Context, id int64) error {
	path, err := c.recordPath(ctx, id)
	if err != nil {
		return err
	}
	return c.gw.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: path}, nil)
}
