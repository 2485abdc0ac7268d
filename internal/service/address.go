package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
)

// AddressService owns the saved-address book: insertion order, the default
// pointer and its invariants. Every mutation persists the whole book before
// returning.
type AddressService interface {
	Load(ctx context.Context) (*model.AddressBook, error)
	// Upsert stores the address and returns its id, assigning one when
	// absent. The first address ever saved becomes the default whether or
	// not makeDefault is set.
	Upsert(ctx context.Context, addr model.ShippingAddress, makeDefault bool) (string, error)
	// Remove deletes the entry if present; removing the default promotes
	// the first remaining address. An unknown id is a no-op.
	Remove(ctx context.Context, id string) error
	SetDefault(ctx context.Context, id string) error
}

type addressServiceImpl struct {
	repo repository.AddressRepository
}

func NewAddressService(repo repository.AddressRepository) AddressService {
	return &addressServiceImpl{repo: repo}
}

func (s *addressServiceImpl) Load(ctx context.Context) (*model.AddressBook, error) {
	return s.repo.Load(ctx)
}

func (s *addressServiceImpl) Upsert(ctx context.Context, addr model.ShippingAddress, makeDefault bool) (string, error) {
	if err := validateAddress(&addr); err != nil {
		return "", err
	}

	book, err := s.repo.Load(ctx)
	if err != nil {
		return "", err
	}

	if addr.Country == "" {
		addr.Country = "US"
	}
	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}

	wasEmpty := len(book.Addresses) == 0

	if existing := book.Find(addr.ID); existing != nil {
		*existing = addr
	} else {
		book.Addresses = append(book.Addresses, addr)
	}

	if wasEmpty || makeDefault {
		setBookDefault(book, addr.ID)
	}

	if err := s.repo.Save(ctx, book); err != nil {
		return "", err
	}
	return addr.ID, nil
}

func (s *addressServiceImpl) Remove(ctx context.Context, id string) error {
	book, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range book.Addresses {
		if book.Addresses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	book.Addresses = append(book.Addresses[:idx], book.Addresses[idx+1:]...)

	if book.DefaultAddressID == id {
		if len(book.Addresses) > 0 {
			setBookDefault(book, book.Addresses[0].ID)
		} else {
			book.DefaultAddressID = ""
		}
	}

	return s.repo.Save(ctx, book)
}

func (s *addressServiceImpl) SetDefault(ctx context.Context, id string) error {
	book, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	if book.Find(id) == nil {
		return fmt.Errorf("set default address %s: %w", id, ErrNotFound)
	}

	setBookDefault(book, id)
	return s.repo.Save(ctx, book)
}

// setBookDefault moves the default pointer and keeps the is_default flags
// consistent with it: at most one address carries the flag.
func setBookDefault(book *model.AddressBook, id string) {
	book.DefaultAddressID = id
	for i := range book.Addresses {
		book.Addresses[i].IsDefault = book.Addresses[i].ID == id
	}
}

func validateAddress(addr *model.ShippingAddress) error {
	if strings.TrimSpace(addr.Address1) == "" ||
		strings.TrimSpace(addr.City) == "" ||
		strings.TrimSpace(addr.State) == "" ||
		strings.TrimSpace(addr.Postcode) == "" {
		return validationErr("Please fill in all required address fields")
	}
	return nil
}
