package shop

import (
	"context"
	"encoding/json"

	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kv"
)

func unmarshalOrder(v []byte) (*storefront.Order, error) {
	o := &storefront.Order{}
	if err := json.Unmarshal(v, o); err != nil {
		return nil, ErrCorruptRecord("order", err)
	}

	return o, nil
}

func marshalOrder(o *storefront.Order) ([]byte, error) {
	v, err := json.Marshal(o)
	if err != nil {
		return nil, ErrUnprocessableRecord("order", err)
	}

	return v, nil
}

// CreateOrder writes o under its id, replacing any order already stored there.
func (s *Store) CreateOrder(ctx context.Context, tx kv.Tx, o *storefront.Order) (retErr error) {
	defer func() {
		retErr = ErrInternalServiceError(retErr, storefront.OpCreateOrder)
	}()

	b, err := tx.Bucket(orderBucket)
	if err != nil {
		return err
	}

	v, err := marshalOrder(o)
	if err != nil {
		return err
	}

	return b.Put([]byte(o.ID), v)
}

// GetOrder returns the order stored under id.
func (s *Store) GetOrder(ctx context.Context, tx kv.Tx, id string) (order *storefront.Order, retErr error) {
	defer func() {
		retErr = ErrInternalServiceError(retErr, storefront.OpFindOrderByID)
	}()

	b, err := tx.Bucket(orderBucket)
	if err != nil {
		return nil, err
	}

	v, err := b.Get([]byte(id))
	if kv.IsNotFound(err) {
		return nil, storefront.ErrOrderNotFound
	}

	if err != nil {
		return nil, err
	}

	return unmarshalOrder(v)
}
