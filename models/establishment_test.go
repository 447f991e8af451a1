package models_test

import (
	"testing"

	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newTestRepos(t *testing.T) (*models.Repositories, *localstore.MemoryStore) {
	t.Helper()
	store := localstore.NewMemoryStore()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return models.NewRepositories(store, logger), store
}

func strPtr(s string) *string { return &s }

func TestEstablishmentCreateAssignsIdentityAndTimestamps(t *testing.T) {
	repos, _ := newTestRepos(t)

	first := repos.Establishments.Create(models.NewEstablishment{
		Name:         "Karoo Padstal",
		Address:      "R62, Ladismith",
		ContactName:  "Elsabe du Toit",
		ContactPhone: "+27 28 551 1043",
	})
	second := repos.Establishments.Create(models.NewEstablishment{
		Name:         "Die Biltong Hoek",
		Address:      "14 Kerk Street, Oudtshoorn",
		ContactName:  "Pieter Marais",
		ContactPhone: "+27 44 272 8860",
	})

	if first.ID == "" || second.ID == "" {
		t.Fatal("expected generated ids")
	}
	if first.ID == second.ID {
		t.Fatalf("ids must be unique, both got %s", first.ID)
	}
	if !first.CreatedAt.Equal(first.UpdatedAt) {
		t.Fatalf("on create, createdAt (%v) must equal updatedAt (%v)", first.CreatedAt, first.UpdatedAt)
	}

	listed := repos.Establishments.List()
	if len(listed) != 2 {
		t.Fatalf("expected 2 establishments, got %d", len(listed))
	}
}

func TestEstablishmentUpdateTouchesOnlyPatchedFields(t *testing.T) {
	repos, _ := newTestRepos(t)

	est := repos.Establishments.Create(models.NewEstablishment{
		Name:         "Karoo Padstal",
		Address:      "R62, Ladismith",
		ContactName:  "Elsabe du Toit",
		ContactPhone: "+27 28 551 1043",
		ContactEmail: "elsabe@karoopadstal.example",
	})

	updated, ok := repos.Establishments.Update(est.ID, models.EstablishmentPatch{
		ContactPhone: strPtr("+27 28 551 9999"),
	})
	if !ok {
		t.Fatal("update of existing establishment must succeed")
	}
	if updated.ContactPhone != "+27 28 551 9999" {
		t.Fatalf("patched field not applied, got %s", updated.ContactPhone)
	}
	if updated.Name != est.Name || updated.Address != est.Address || updated.ContactEmail != est.ContactEmail {
		t.Fatal("unpatched fields must be untouched")
	}
	if !updated.CreatedAt.Equal(est.CreatedAt) {
		t.Fatal("createdAt must never change on update")
	}
	if updated.UpdatedAt.Before(est.UpdatedAt) {
		t.Fatal("updatedAt must be stamped on update")
	}
}

func TestEstablishmentUpdateMissingIdReturnsFalse(t *testing.T) {
	repos, _ := newTestRepos(t)
	repos.Establishments.Create(models.NewEstablishment{
		Name: "Karoo Padstal", Address: "R62", ContactName: "Elsabe", ContactPhone: "1",
	})

	if _, ok := repos.Establishments.Update("no-such-id", models.EstablishmentPatch{Name: strPtr("x")}); ok {
		t.Fatal("update of a missing id must report false")
	}
}

func TestEstablishmentDeleteMissingIdLeavesCollectionUnchanged(t *testing.T) {
	repos, _ := newTestRepos(t)
	repos.Establishments.Create(models.NewEstablishment{
		Name: "Karoo Padstal", Address: "R62", ContactName: "Elsabe", ContactPhone: "1",
	})

	if repos.Establishments.Delete("no-such-id") {
		t.Fatal("delete of a missing id must report false")
	}
	if got := len(repos.Establishments.List()); got != 1 {
		t.Fatalf("collection must be unchanged, got %d records", got)
	}
}

func TestEstablishmentDeleteCascadesIntoTransactions(t *testing.T) {
	repos, _ := newTestRepos(t)

	keep := repos.Establishments.Create(models.NewEstablishment{
		Name: "Keep", Address: "a", ContactName: "c", ContactPhone: "1",
	})
	doomed := repos.Establishments.Create(models.NewEstablishment{
		Name: "Doomed", Address: "b", ContactName: "c", ContactPhone: "2",
	})

	for i := 0; i < 3; i++ {
		repos.Transactions.Create(models.NewTransaction{
			EstablishmentId: doomed.ID,
			EmployeeId:      "emp-1",
			Type:            models.TransactionTypePayment,
			Amount:          decimal.NewFromInt(100),
			Date:            nowForTest(),
			PaymentStatus:   models.PaymentStatusPaid,
		})
	}
	kept := repos.Transactions.Create(models.NewTransaction{
		EstablishmentId: keep.ID,
		EmployeeId:      "emp-1",
		Type:            models.TransactionTypePayment,
		Amount:          decimal.NewFromInt(50),
		Date:            nowForTest(),
		PaymentStatus:   models.PaymentStatusPaid,
	})

	if !repos.Establishments.Delete(doomed.ID) {
		t.Fatal("delete of existing establishment must succeed")
	}

	remaining := repos.Transactions.List()
	if len(remaining) != 1 {
		t.Fatalf("cascade must remove exactly the referencing transactions, %d left", len(remaining))
	}
	if remaining[0].ID != kept.ID {
		t.Fatalf("unrelated transaction %s must survive, found %s", kept.ID, remaining[0].ID)
	}
	if len(repos.Establishments.List()) != 1 {
		t.Fatal("only the deleted establishment may be removed")
	}
}

func TestEstablishmentDeleteReportsDroppedWrite(t *testing.T) {
	store := &dropWriteStore{MemoryStore: localstore.NewMemoryStore()}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	repos := models.NewRepositories(store, logger)

	est := repos.Establishments.Create(models.NewEstablishment{
		Name: "Karoo Padstal", Address: "R62", ContactName: "Elsabe", ContactPhone: "1",
	})
	repos.Transactions.Create(models.NewTransaction{
		EstablishmentId: est.ID,
		EmployeeId:      "emp-1",
		Type:            models.TransactionTypePayment,
		Amount:          decimal.NewFromInt(100),
		Date:            nowForTest(),
		PaymentStatus:   models.PaymentStatusPaid,
	})

	store.dropKey = models.EstablishmentsKey
	if repos.Establishments.Delete(est.ID) {
		t.Fatal("a dropped collection write must be reported as false")
	}

	store.dropKey = ""
	if got := len(repos.Establishments.List()); got != 1 {
		t.Fatalf("the dropped write must leave the record in place, got %d", got)
	}
}

func TestEstablishmentListDegradesFaultToEmpty(t *testing.T) {
	repos, store := newTestRepos(t)
	repos.Establishments.Create(models.NewEstablishment{
		Name: "Karoo Padstal", Address: "R62", ContactName: "Elsabe", ContactPhone: "1",
	})

	store.FailKeys = map[string]bool{models.EstablishmentsKey: true}
	store.FailErr = errForced

	if got := repos.Establishments.List(); len(got) != 0 {
		t.Fatalf("a faulted read must degrade to empty, got %d records", len(got))
	}

	store.FailKeys = nil
	if got := repos.Establishments.List(); len(got) != 1 {
		t.Fatalf("data must survive the fault, got %d records", len(got))
	}
}
