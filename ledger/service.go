// Package ledger is the dual-store synchronization core. A save goes to
// the remote authoritative store first; only a successful remote write
// is mirrored into the local blob store, with the remote's id and
// timestamps. The two-call pattern of earlier clients (remote call in
// the form, local call beside it) is collapsed into one operation with
// a tagged result, so a partial success is visible instead of silent.
package ledger

import (
	"context"

	"bitbucket.org/karoofoods/biltong_tracker/config"
	"bitbucket.org/karoofoods/biltong_tracker/models"
	"bitbucket.org/karoofoods/biltong_tracker/utils"
	"github.com/sirupsen/logrus"
)

const moduleName = "ledger"

// RemoteAPI is the slice of the remote store the save path needs.
// *remote.Store satisfies it; tests use a stub.
type RemoteAPI interface {
	CreateEstablishment(ctx context.Context, input models.NewEstablishment) (*models.Establishment, error)
	UpdateEstablishment(ctx context.Context, id string, patch models.EstablishmentPatch) (*models.Establishment, error)
	CreateEmployee(ctx context.Context, input models.NewEmployee) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id string, patch models.EmployeePatch) (*models.Employee, error)
	CreateProduct(ctx context.Context, input models.NewProduct, productId string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	CreateTransaction(ctx context.Context, input models.NewTransaction) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, patch models.TransactionPatch) (*models.Transaction, error)
}

type SaveStatus string

const (
	// StatusSaved: remote write succeeded and the record was mirrored
	// into the local store.
	StatusSaved SaveStatus = "saved"
	// StatusInvalid: the input failed boundary validation; neither store
	// was touched.
	StatusInvalid SaveStatus = "invalid"
	// StatusRemoteFailed: the remote write failed. With the outbox
	// enabled the mutation was captured locally and queued for replay
	// (Queued=true, Record set); otherwise nothing was written.
	StatusRemoteFailed SaveStatus = "remote_failed"
	// StatusLocalMirrorFailed: the remote write succeeded but the local
	// mirror write was dropped. Record holds the authoritative remote
	// echo so the caller can retry the mirror or surface the divergence.
	StatusLocalMirrorFailed SaveStatus = "local_mirror_failed"
)

type SaveResult[T any] struct {
	Status SaveStatus
	Record T
	Err    error
	Queued bool
}

func (r SaveResult[T]) Saved() bool {
	return r.Status == StatusSaved
}

// Service owns one save pipeline per entity type. outbox may be nil
// (feature off): remote failures then drop the mutation after the
// error result, the strict remote-first contract.
type Service struct {
	remote RemoteAPI
	repos  *models.Repositories
	outbox *Outbox
	logger *logrus.Logger
}

func NewService(remoteAPI RemoteAPI, repos *models.Repositories, outbox *Outbox, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &Service{remote: remoteAPI, repos: repos, outbox: outbox, logger: logger}
}

func (s *Service) SaveEstablishment(ctx context.Context, input models.NewEstablishment) SaveResult[models.Establishment] {
	if err := input.Validate(); err != nil {
		return invalid[models.Establishment](s, err, "SaveEstablishment")
	}
	echo, err := s.remote.CreateEstablishment(ctx, input)
	if err != nil {
		if s.outbox != nil {
			record := s.repos.Establishments.Create(input)
			queued := s.enqueue(EntityEstablishment, record.ID, record, "SaveEstablishment")
			return SaveResult[models.Establishment]{Status: StatusRemoteFailed, Record: record, Err: err, Queued: queued}
		}
		return SaveResult[models.Establishment]{Status: StatusRemoteFailed, Err: err}
	}
	return mirror(s, *echo, s.repos.Establishments.Put, "SaveEstablishment")
}

func (s *Service) UpdateEstablishment(ctx context.Context, id string, patch models.EstablishmentPatch) SaveResult[models.Establishment] {
	echo, err := s.remote.UpdateEstablishment(ctx, id, patch)
	if err != nil {
		if s.outbox != nil {
			if record, ok := s.repos.Establishments.Update(id, patch); ok {
				queued := s.enqueue(EntityEstablishment, record.ID, record, "UpdateEstablishment")
				return SaveResult[models.Establishment]{Status: StatusRemoteFailed, Record: record, Err: err, Queued: queued}
			}
		}
		return SaveResult[models.Establishment]{Status: StatusRemoteFailed, Err: err}
	}
	return mirror(s, *echo, s.repos.Establishments.Put, "UpdateEstablishment")
}

func (s *Service) SaveEmployee(ctx context.Context, input models.NewEmployee) SaveResult[models.Employee] {
	if input.EmployeeNumber == "" {
		input.EmployeeNumber = s.repos.Employees.GenerateEmployeeNumber()
	}
	if err := input.Validate(); err != nil {
		return invalid[models.Employee](s, err, "SaveEmployee")
	}
	echo, err := s.remote.CreateEmployee(ctx, input)
	if err != nil {
		if s.outbox != nil {
			record := s.repos.Employees.Create(input)
			queued := s.enqueue(EntityEmployee, record.ID, record, "SaveEmployee")
			return SaveResult[models.Employee]{Status: StatusRemoteFailed, Record: record, Err: err, Queued: queued}
		}
		return SaveResult[models.Employee]{Status: StatusRemoteFailed, Err: err}
	}
	return mirror(s, *echo, s.repos.Employees.Put, "SaveEmployee")
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, patch models.EmployeePatch) SaveResult[models.Employee] {
	echo, err := s.remote.UpdateEmployee(ctx, id, patch)
	if err != nil {
		if s.outbox != nil {
			if record, ok := s.repos.Employees.Update(id, patch); ok {
				queued := s.enqueue(EntityEmployee, record.ID, record, "UpdateEmployee")
				return SaveResult[models.Employee]{Status: StatusRemoteFailed, Record: record, Err: err, Queued: queued}
			}
		}
		return SaveResult[models.Employee]{Status: StatusRemoteFailed, Err: err}
	}
	return mirror(s, *echo, s.repos.Employees.Put, "UpdateEmployee")
}

func (s *Service) SaveProduct(ctx context.Context, input models.NewProduct) SaveResult[models.Product] {
	if err := input.Validate(); err != nil {
		return invalid[models.Product](s, err, "SaveProduct")
	}
	if s.outbox != nil {
		// Offline-capable path: capture locally first so the P-nnnn code
		// is generated exactly once, then push the full record.
		if echo, err := s.tryRemoteProduct(ctx, input); err == nil {
			return mirror(s, *echo, s.repos.Products.Put, "SaveProduct")
		} else {
			record := s.repos.Products.Create(input)
			queued := s.enqueue(EntityProduct, record.ID, record, "SaveProduct")
			return SaveResult[models.Product]{Status: StatusRemoteFailed, Record: record, Err: err, Queued: queued}
		}
	}
	echo, err := s.tryRemoteProduct(ctx, input)
	if err != nil {
		return SaveResult[models.Product]{Status: StatusRemoteFailed, Err: err}
	}
	return mirror(s, *echo, s.repos.Products.Put, "SaveProduct")
}

func (s *Service) tryRemoteProduct(ctx context.Context, input models.NewProduct) (*models.Product, error) {
	productId := s.repos.Products.GenerateProductId()
	return s.remote.CreateProduct(ctx, input, productId)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) SaveResult[models.Product] {
	echo, err := s.remote.UpdateProduct(ctx, id, patch)
	if err != nil {
		if s.outbox != nil {
			if record, ok := s.repos.Products.Update(id, patch); ok {
				queued := s.enqueue(EntityProduct, record.ID, record, "UpdateProduct")
				return SaveResult[models.Product]{Status: StatusRemoteFailed, Record: record, Err: err, Queued: queued}
			}
		}
		return SaveResult[models.Product]{Status: StatusRemoteFailed, Err: err}
	}
	return mirror(s, *echo, s.repos.Products.Put, "UpdateProduct")
}

func (s *Service) SaveTransaction(ctx context.Context, input models.NewTransaction) SaveResult[models.Transaction] {
	if err := input.Validate(); err != nil {
		return invalid[models.Transaction](s, err, "SaveTransaction")
	}
	echo, err := s.remote.CreateTransaction(ctx, input)
	if err != nil {
		if s.outbox != nil {
			record := s.repos.Transactions.Create(input)
			queued := s.enqueue(EntityTransaction, record.ID, record, "SaveTransaction")
			return SaveResult[models.Transaction]{Status: StatusRemoteFailed, Record: record, Err: err, Queued: queued}
		}
		return SaveResult[models.Transaction]{Status: StatusRemoteFailed, Err: err}
	}
	return mirror(s, *echo, s.repos.Transactions.Put, "SaveTransaction")
}

func (s *Service) UpdateTransaction(ctx context.Context, id string, patch models.TransactionPatch) SaveResult[models.Transaction] {
	echo, err := s.remote.UpdateTransaction(ctx, id, patch)
	if err != nil {
		if s.outbox != nil {
			if record, ok := s.repos.Transactions.Update(id, patch); ok {
				queued := s.enqueue(EntityTransaction, record.ID, record, "UpdateTransaction")
				return SaveResult[models.Transaction]{Status: StatusRemoteFailed, Record: record, Err: err, Queued: queued}
			}
		}
		return SaveResult[models.Transaction]{Status: StatusRemoteFailed, Err: err}
	}
	return mirror(s, *echo, s.repos.Transactions.Put, "UpdateTransaction")
}

func invalid[T any](s *Service, err error, funcName string) SaveResult[T] {
	entry := s.logger.WithFields(logrus.Fields{"module": moduleName, "func": funcName})
	if fields := utils.ProcessValidationErrors(err); len(fields) > 0 {
		entry = entry.WithField("fields", fields)
	}
	entry.Debug("input rejected: " + err.Error())
	return SaveResult[T]{Status: StatusInvalid, Err: err}
}

func mirror[T any](s *Service, echo T, put func(T) bool, funcName string) SaveResult[T] {
	if !put(echo) {
		config.LogWarn(s.logger, moduleName, funcName, "local mirror write dropped", "remote saved, local store diverged")
		return SaveResult[T]{Status: StatusLocalMirrorFailed, Record: echo}
	}
	return SaveResult[T]{Status: StatusSaved, Record: echo}
}

func (s *Service) enqueue(entity Entity, recordId string, record any, funcName string) bool {
	if err := s.outbox.Enqueue(entity, recordId, record); err != nil {
		config.LogError(s.logger, moduleName, funcName, "enqueue outbox", recordId, err)
		return false
	}
	return true
}
