package orders

import (
	"errors"

	"github.com/pulseras/storefront-backend/pkg/config"
	"github.com/pulseras/storefront-backend/pkg/db"
)

// NewService picks the order backend configured by PULSERAS_ORDERS_MODE.
func NewService(cfg config.OrdersConfig, dbClient *db.Client) (Service, error) {
	if cfg.IsRemote() {
		remote, err := NewRemoteClient(cfg)
		if err != nil {
			return nil, err
		}
		return remote, nil
	}
	if dbClient == nil {
		return nil, errors.New("local orders require a database connection")
	}
	svc, err := NewRepositoryService(NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
