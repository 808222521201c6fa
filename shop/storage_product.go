package shop

import (
	"context"
	"encoding/json"

	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kv"
)

func unmarshalProduct(v []byte) (*storefront.Product, error) {
	p := &storefront.Product{}
	if err := json.Unmarshal(v, p); err != nil {
		return nil, ErrCorruptRecord("product", err)
	}

	return p, nil
}

func marshalProduct(p *storefront.Product) ([]byte, error) {
	v, err := json.Marshal(p)
	if err != nil {
		return nil, ErrUnprocessableRecord("product", err)
	}

	return v, nil
}

// CreateProduct writes p under its id, replacing any product already stored there.
func (s *Store) CreateProduct(ctx context.Context, tx kv.Tx, p *storefront.Product) (retErr error) {
	defer func() {
		retErr = ErrInternalServiceError(retErr, storefront.OpCreateProduct)
	}()

	b, err := tx.Bucket(productBucket)
	if err != nil {
		return err
	}

	v, err := marshalProduct(p)
	if err != nil {
		return err
	}

	return b.Put([]byte(p.ID), v)
}

// GetProduct returns the product stored under id.
func (s *Store) GetProduct(ctx context.Context, tx kv.Tx, id string) (product *storefront.Product, retErr error) {
	defer func() {
		retErr = ErrInternalServiceError(retErr, storefront.OpFindProductByID)
	}()

	b, err := tx.Bucket(productBucket)
	if err != nil {
		return nil, err
	}

	v, err := b.Get([]byte(id))
	if kv.IsNotFound(err) {
		return nil, storefront.ErrProductNotFound
	}

	if err != nil {
		return nil, err
	}

	return unmarshalProduct(v)
}

// ListProducts returns up to storefront.MaxProductsListed products.
func (s *Store) ListProducts(ctx context.Context, tx kv.Tx) (products []*storefront.Product, retErr error) {
	defer func() {
		retErr = ErrInternalServiceError(retErr, storefront.OpFindProducts)
	}()

	b, err := tx.Bucket(productBucket)
	if err != nil {
		return nil, err
	}

	products = []*storefront.Product{}
	var decodeErr error
	err = kv.WalkFirst(b, func(k, v []byte) bool {
		pv, err := project(v, storefront.ProductListAttributes)
		if err != nil {
			decodeErr = ErrCorruptRecord("product", err)
			return false
		}

		p, err := unmarshalProduct(pv)
		if err != nil {
			decodeErr = err
			return false
		}

		products = append(products, p)
		return len(products) < storefront.MaxProductsListed
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}

	return products, nil
}

// DeleteProduct removes the product stored under id. A missing product is
// not an error.
func (s *Store) DeleteProduct(ctx context.Context, tx kv.Tx, id string) (retErr error) {
	defer func() {
		retErr = ErrInternalServiceError(retErr, storefront.OpDeleteProduct)
	}()

	b, err := tx.Bucket(productBucket)
	if err != nil {
		return err
	}

	return b.Delete([]byte(id))
}
