package service

import (
	"context"
	"encoding/json"

	"storefront-checkout/internal/model"
)

// memRepo is an in-memory AddressRepository. It round-trips through JSON so
// callers never share slices with the stored book, same as the real store.
type memRepo struct {
	data    []byte
	saveErr error
	loadErr error
	saveCnt int
}

func (r *memRepo) Load(_ context.Context) (*model.AddressBook, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	book := &model.AddressBook{}
	if r.data != nil {
		_ = json.Unmarshal(r.data, book)
	}
	return book, nil
}

func (r *memRepo) Save(_ context.Context, book *model.AddressBook) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saveCnt++
	r.data, _ = json.Marshal(book)
	return nil
}

// fakeCommerce is a canned CommerceClient.
type fakeCommerce struct {
	gateways    []model.PaymentMethod
	gatewaysErr error

	orderResult *model.OrderResult
	orderErr    error
	lastOrder   *model.OrderRequest
}

func (f *fakeCommerce) GetPaymentGateways(_ context.Context) ([]model.PaymentMethod, error) {
	if f.gatewaysErr != nil {
		return nil, f.gatewaysErr
	}
	return f.gateways, nil
}

func (f *fakeCommerce) CreateOrder(_ context.Context, req *model.OrderRequest) (*model.OrderResult, error) {
	f.lastOrder = req
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.orderResult, nil
}
