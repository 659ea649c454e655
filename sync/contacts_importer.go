// ABOUTME: Google Contacts importer
// ABOUTME: Turns People API connections into new customers with stable ids and deduplication
package sync

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"google.golang.org/api/people/v1"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

// ContactsNamespace seeds customer ids derived from People resource names.
var ContactsNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://people.googleapis.com/amil/contacts"))

// GoogleTag marks customers that came from Google Contacts.
const GoogleTag = "google"

type GoogleContact struct {
	ResourceName string
	Name         string
	Email        string
	Phone        string
	Company      string
	Notes        string
}

// CustomerID is stable across imports of the same contact.
func (gc *GoogleContact) CustomerID() string {
	return uuid.NewSHA1(ContactsNamespace, []byte(gc.ResourceName)).String()
}

// Customer builds the draft for a contact that matched nobody.
func (gc *GoogleContact) Customer() models.Customer {
	notes := gc.Notes
	if gc.Company != "" {
		if notes != "" {
			notes = gc.Company + "\n" + notes
		} else {
			notes = gc.Company
		}
	}
	return models.Customer{
		ID:    gc.CustomerID(),
		Name:  gc.Name,
		Phone: gc.Phone,
		Email: gc.Email,
		Type:  models.CustomerNew,
		Tags:  []string{GoogleTag},
		Notes: notes,
	}
}

// ImportResult summarises one contacts import.
type ImportResult struct {
	Fetched   int
	Created   int
	Matched   int
	Skipped   int
	Known     int
	Persisted error
}

// Progress receives a tick per processed record.
type Progress interface {
	Add(n int) error
}

type ContactsImporter struct {
	svc     *crm.Service
	matcher *CustomerMatcher
	log     *log.Logger
	pending []models.Customer
}

func NewContactsImporter(svc *crm.Service, logger *log.Logger) *ContactsImporter {
	return &ContactsImporter{
		svc:     svc,
		matcher: NewCustomerMatcher(svc.Customers(crm.CustomerFilter{})),
		log:     logger,
	}
}

// Stage queues a contact for creation unless it matches an existing
// customer. It reports whether the contact was queued.
func (ci *ContactsImporter) Stage(gc *GoogleContact) bool {
	if existing, found := ci.matcher.FindMatch(gc.Phone, gc.Email); found {
		ci.log.Debug("contact matches existing customer", "contact", gc.Name, "customer", existing.ID)
		return false
	}
	c := gc.Customer()
	ci.pending = append(ci.pending, c)
	ci.matcher.Add(&ci.pending[len(ci.pending)-1])
	return true
}

// Commit merges the queued customers into the CRM.
func (ci *ContactsImporter) Commit() (crm.MergeResult, error) {
	res, err := ci.svc.MergeCustomers(ci.pending)
	ci.pending = nil
	return res, err
}

// ImportContacts fetches every connection page and imports contacts that
// have a name and a phone number, which a customer requires.
func ImportContacts(ctx context.Context, svc *crm.Service, client *people.Service, progress Progress, logger *log.Logger) (ImportResult, error) {
	importer := NewContactsImporter(svc, logger)

	var res ImportResult
	pageToken := ""
	for {
		call := client.People.Connections.List("people/me").
			Context(ctx).
			PageSize(1000).
			PersonFields("names,emailAddresses,phoneNumbers,organizations,biographies")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return res, fmt.Errorf("failed to fetch contacts: %w", err)
		}
		if response == nil || response.Connections == nil {
			break
		}
		res.Fetched += len(response.Connections)

		for _, person := range response.Connections {
			gc := convertPerson(person)
			switch {
			case gc.Name == "" || gc.Phone == "":
				res.Skipped++
			case importer.Stage(gc):
				res.Created++
			default:
				res.Matched++
			}
			if progress != nil {
				_ = progress.Add(1)
			}
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
		logger.Debug("fetched contacts page", "so_far", res.Fetched)
	}

	merged, err := importer.Commit()
	// Created counted staged records; ids already present were imported before
	res.Created = merged.Added
	res.Known = merged.Known
	res.Skipped += merged.Invalid
	if err != nil {
		if !crm.IsWarning(err) {
			return res, err
		}
		res.Persisted = err
	}
	return res, nil
}

// convertPerson converts a People API Person to GoogleContact.
func convertPerson(person *people.Person) *GoogleContact {
	gc := &GoogleContact{
		ResourceName: person.ResourceName,
	}

	if len(person.Names) > 0 && person.Names[0].DisplayName != "" {
		gc.Name = person.Names[0].DisplayName
	}

	// Prefer primary, otherwise first available
	for _, email := range person.EmailAddresses {
		if email.Value != "" {
			if gc.Email == "" {
				gc.Email = email.Value
			}
			if email.Metadata != nil && email.Metadata.Primary {
				gc.Email = email.Value
				break
			}
		}
	}

	for _, phone := range person.PhoneNumbers {
		if phone.Value != "" {
			if gc.Phone == "" {
				gc.Phone = phone.Value
			}
			if phone.Metadata != nil && phone.Metadata.Primary {
				gc.Phone = phone.Value
				break
			}
		}
	}

	if len(person.Organizations) > 0 && person.Organizations[0].Name != "" {
		gc.Company = person.Organizations[0].Name
	}

	if len(person.Biographies) > 0 && person.Biographies[0].Value != "" {
		gc.Notes = person.Biographies[0].Value
	}

	return gc
}
