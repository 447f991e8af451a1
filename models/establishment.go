package models

import (
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Establishment is a customer location receiving deliveries and making
// payments. JSON tags are the local (camelCase) shape stored in the blob
// store; the remote column shape lives in the remote package.
type Establishment struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	ContactName  string    `json:"contactName"`
	ContactPhone string    `json:"contactPhone"`
	ContactEmail string    `json:"contactEmail"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type NewEstablishment struct {
	Name         string `json:"name" validate:"required"`
	Address      string `json:"address" validate:"required"`
	ContactName  string `json:"contactName" validate:"required"`
	ContactPhone string `json:"contactPhone" validate:"required"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
	Notes        string `json:"notes"`
}

func (input *NewEstablishment) Validate() error {
	return utils.ValidateStruct(input)
}

// EstablishmentPatch carries a partial update; nil fields are left
// untouched.
type EstablishmentPatch struct {
	Name         *string `json:"name,omitempty"`
	Address      *string `json:"address,omitempty"`
	ContactName  *string `json:"contactName,omitempty"`
	ContactPhone *string `json:"contactPhone,omitempty"`
	ContactEmail *string `json:"contactEmail,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type EstablishmentRepository struct {
	col          collection[Establishment]
	transactions *TransactionRepository
}

// NewEstablishmentRepository wires the repository over the given store.
// transactions is required: establishment deletes cascade into it.
func NewEstablishmentRepository(store localstore.BlobStore, logger *logrus.Logger, transactions *TransactionRepository) *EstablishmentRepository {
	return &EstablishmentRepository{
		col:          newCollection[Establishment](EstablishmentsKey, store, logger),
		transactions: transactions,
	}
}

// List never fails; an unwritten or faulted collection reads as empty.
func (r *EstablishmentRepository) List() []Establishment {
	return r.col.load("List")
}

func (r *EstablishmentRepository) Get(id string) (Establishment, bool) {
	for _, est := range r.col.load("Get") {
		if est.ID == id {
			return est, true
		}
	}
	return Establishment{}, false
}

func (r *EstablishmentRepository) Create(input NewEstablishment) Establishment {
	now := nowUTC()
	est := Establishment{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Address:      input.Address,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		ContactEmail: input.ContactEmail,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	establishments := r.col.load("Create")
	establishments = append(establishments, est)
	r.col.persist("Create", establishments)

	return est
}

func (r *EstablishmentRepository) Update(id string, patch EstablishmentPatch) (Establishment, bool) {
	establishments := r.col.load("Update")
	for i, est := range establishments {
		if est.ID != id {
			continue
		}
		if patch.Name != nil {
			est.Name = *patch.Name
		}
		if patch.Address != nil {
			est.Address = *patch.Address
		}
		if patch.ContactName != nil {
			est.ContactName = *patch.ContactName
		}
		if patch.ContactPhone != nil {
			est.ContactPhone = *patch.ContactPhone
		}
		if patch.ContactEmail != nil {
			est.ContactEmail = *patch.ContactEmail
		}
		if patch.Notes != nil {
			est.Notes = *patch.Notes
		}
		est.UpdatedAt = nowUTC()
		establishments[i] = est
		r.col.persist("Update", establishments)
		return est, true
	}
	return Establishment{}, false
}

// Delete removes the establishment and, as a second persisted write,
// every transaction referencing it.
func (r *EstablishmentRepository) Delete(id string) bool {
	establishments := r.col.load("Delete")
	remaining := establishments[:0:0]
	for _, est := range establishments {
		if est.ID != id {
			remaining = append(remaining, est)
		}
	}
	if len(remaining) == len(establishments) {
		return false
	}
	ok := r.col.persist("Delete", remaining)
	r.transactions.deleteByEstablishment(id)
	return ok
}

// Put mirrors a record echoed back by the remote store: the remote id
// and timestamps are authoritative, so an existing record with the same
// id is replaced in place.
func (r *EstablishmentRepository) Put(est Establishment) bool {
	establishments := r.col.load("Put")
	for i := range establishments {
		if establishments[i].ID == est.ID {
			establishments[i] = est
			return r.col.persist("Put", establishments)
		}
	}
	establishments = append(establishments, est)
	return r.col.persist("Put", establishments)
}
