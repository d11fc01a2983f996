// Package seed loads a small demo workspace so a fresh development database
// has something to show in the snapshot.
package seed

import (
	"context"
	"errors"
	"time"

	crmdomain "github.com/smallbiznis/gestionale/internal/crm/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	demoClientID  = "demo-client-rossi"
	demoContactID = "demo-contact-giulia"
	demoProjectID = "demo-project-matrimonio"
	demoQuoteID   = "demo-quote-matrimonio"
)

// EnsureDemoWorkspace inserts the demo records that are missing. Existing
// rows with the same ids are left untouched.
func EnsureDemoWorkspace(ctx context.Context, db *gorm.DB, now time.Time) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	now = now.UTC()
	clientID := demoClientID
	projectID := demoProjectID
	quoteID := demoQuoteID
	email := "amministrazione@rossi-eventi.it"
	description := "Reportage matrimonio Rossi"
	vat := "IT01234567890"
	city := "Milano"
	taxable := true
	eventStart := now.AddDate(0, 2, 0)
	paidAt := now.AddDate(0, 0, -7)
	dueAt := now.AddDate(0, 2, 7)
	kmDistance, kmRate := 120.0, 0.42

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		insert := func(v any) error {
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(v).Error
		}

		if err := insert(&crmdomain.Client{
			ID: clientID, Name: "Rossi Eventi", Email: &email,
			VATNumber: &vat, BillingCity: &city, CreatedAt: &now,
		}); err != nil {
			return err
		}
		if err := insert(&crmdomain.Contact{
			ID:        demoContactID,
			ClientID:  &clientID,
			Emails:    datatypes.NewJSONSlice([]crmdomain.ContactEmail{{Email: "giulia@rossi-eventi.it", Type: crmdomain.ContactInfoWork}}),
			Phones:    datatypes.NewJSONSlice([]crmdomain.ContactPhone{{Number: "+39 333 1234567", Type: crmdomain.ContactInfoWork}}),
			CreatedAt: &now,
		}); err != nil {
			return err
		}
		if err := insert(&crmdomain.Project{
			ID: projectID, ClientID: clientID, Name: "Matrimonio Rossi", Category: "wedding",
			Status: crmdomain.ProjectStatusInCorso, StartDate: &eventStart, CreatedAt: &now,
		}); err != nil {
			return err
		}
		if err := insert(&crmdomain.ProjectContact{
			ID: "demo-link-giulia", ProjectID: projectID, ContactID: demoContactID, IsPrimary: true, CreatedAt: &now,
		}); err != nil {
			return err
		}
		if err := insert(&crmdomain.Quote{
			ID: quoteID, ClientID: clientID, ProjectID: &projectID, Description: &description,
			Amount: 2400, Status: crmdomain.QuoteStatusAccontoRicevuto, EventStart: &eventStart, CreatedAt: &now,
		}); err != nil {
			return err
		}
		fee := 2000.0
		if err := insert(&crmdomain.Service{
			ID: "demo-service-reportage", ProjectID: projectID, ServiceDate: &eventStart,
			FeeShooting: &fee, KmDistance: &kmDistance, KmRate: &kmRate, IsTaxable: &taxable, CreatedAt: &now,
		}); err != nil {
			return err
		}
		method := string(crmdomain.PaymentMethodBonifico)
		if err := insert(&[]crmdomain.Payment{
			{
				ID: "demo-payment-acconto", ClientID: clientID, ProjectID: &projectID, QuoteID: &quoteID,
				PaymentDate: &paidAt, PaymentType: crmdomain.PaymentTypeAcconto, PaymentMethod: &method,
				Amount: 800, Status: crmdomain.PaymentStatusRicevuto, CreatedAt: &now,
			},
			{
				ID: "demo-payment-saldo", ClientID: clientID, ProjectID: &projectID, QuoteID: &quoteID,
				PaymentDate: &dueAt, PaymentType: crmdomain.PaymentTypeSaldo, PaymentMethod: &method,
				Amount: 1600, Status: crmdomain.PaymentStatusInAttesa, CreatedAt: &now,
			},
		}); err != nil {
			return err
		}
		amount := 65.0
		return insert(&crmdomain.Expense{
			ID: "demo-expense-noleggio", ClientID: &clientID, ProjectID: &projectID, ExpenseDate: &paidAt,
			ExpenseType: crmdomain.ExpenseTypeNoleggio, Amount: &amount, CreatedAt: &now,
		})
	})
}
