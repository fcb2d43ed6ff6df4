package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pulseras/storefront-backend/pkg/config"
	"github.com/pulseras/storefront-backend/pkg/db/models"
	pkgerrors "github.com/pulseras/storefront-backend/pkg/errors"
	"github.com/pulseras/storefront-backend/pkg/restclient"
)

// RemoteClient talks to the storefront REST backend that owns orders.
type RemoteClient struct {
	rest *restclient.Client
}

func NewRemoteClient(cfg config.OrdersConfig, opts ...restclient.Option) (*RemoteClient, error) {
	base := []restclient.Option{restclient.WithTimeout(cfg.Timeout)}
	rest, err := restclient.New("orders", cfg.BaseURL, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return &RemoteClient{rest: rest}, nil
}

func (c *RemoteClient) GetByID(ctx context.Context, id string) (*models.Order, error) {
	path, err := orderPath(id)
	if err != nil {
		return nil, err
	}
	payload, err := c.rest.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeOrder(payload)
}

// Update sends the full record with PUT. When the order came from GetByID, the fetched
// document is sent back with only the fields changed on the struct replaced, so fields
// the backend returned but Order does not model survive the round trip.
func (c *RemoteClient) Update(ctx context.Context, id string, order *models.Order) (*models.Order, error) {
	path, err := orderPath(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order body is required")
	}
	body, err := mergeDocument(order)
	if err != nil {
		return nil, err
	}
	payload, err := c.rest.Do(ctx, http.MethodPut, path, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		updated := *order
		updated.Document = body
		return &updated, nil
	}
	return decodeOrder(payload)
}

func decodeOrder(payload []byte) (*models.Order, error) {
	var document map[string]json.RawMessage
	if err := restclient.DecodeData(payload, &document); err != nil {
		return nil, err
	}
	order, err := orderFromDocument(document)
	if err != nil {
		return nil, err
	}
	order.Document = document
	return order, nil
}

func orderFromDocument(document map[string]json.RawMessage) (*models.Order, error) {
	raw, err := json.Marshal(document)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode order document")
	}
	var order models.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order")
	}
	return &order, nil
}

// mergeDocument overlays on the fetched document only the fields whose encoding differs
// from what was fetched. Orders built without a document are sent as a whole.
func mergeDocument(order *models.Order) (map[string]json.RawMessage, error) {
	current, err := encodeFields(order)
	if err != nil {
		return nil, err
	}
	if order.Document == nil {
		return current, nil
	}

	fetched, err := orderFromDocument(order.Document)
	if err != nil {
		return nil, err
	}
	original, err := encodeFields(fetched)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]json.RawMessage, len(order.Document))
	for key, value := range order.Document {
		merged[key] = value
	}
	for key, value := range current {
		if bytes.Equal(value, original[key]) {
			continue
		}
		merged[key] = value
	}
	return merged, nil
}

func encodeFields(order *models.Order) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order")
	}
	return fields, nil
}

func orderPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return "orders/" + url.PathEscape(id), nil
}
