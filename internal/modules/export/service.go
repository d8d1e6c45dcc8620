package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"formatech/internal/domain"
	"formatech/internal/modules/companies"
	"formatech/internal/modules/contacts"
	"formatech/internal/modules/deals"
	"formatech/internal/pkg/validator"
	"formatech/internal/repository"
)

var ErrInvalidFile = errors.New("invalid import file")

type DealSource interface {
	List(ctx context.Context, q deals.ListDealsQuery) ([]domain.Deal, error)
}

type ContactStore interface {
	List(ctx context.Context, q contacts.ListQuery) ([]domain.Contact, error)
	Create(ctx context.Context, req contacts.ContactRequest) (*domain.Contact, error)
}

type CompanyStore interface {
	List(ctx context.Context, q companies.ListQuery) ([]domain.Company, error)
	Create(ctx context.Context, req companies.CompanyRequest) (*domain.Company, error)
}

type EmailLookup interface {
	FindByEmail(ctx context.Context, email string) (*domain.Contact, error)
}

// RowError explains why one input row was skipped. Rows are numbered from 1.
type RowError struct {
	Row     int               `json:"row"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ImportResult struct {
	Imported   int        `json:"imported"`
	Duplicates int        `json:"duplicates"`
	Skipped    int        `json:"skipped"`
	Errors     []RowError `json:"errors,omitempty"`
}

func (r *ImportResult) skip(row int, msg string, fields map[string]string) {
	r.Skipped++
	r.Errors = append(r.Errors, RowError{Row: row, Message: msg, Fields: fields})
}

// ContactImportRequest carries rows keyed by source column and a
// source column -> contact field mapping.
type ContactImportRequest struct {
	Data    []map[string]string `json:"data" validate:"required"`
	Mapping map[string]string   `json:"mapping" validate:"required,min=1"`
}

type Service struct {
	deals     DealSource
	contacts  ContactStore
	companies CompanyStore
	emails    EmailLookup
}

func NewService(deals DealSource, contacts ContactStore, companies CompanyStore, emails EmailLookup) *Service {
	return &Service{deals: deals, contacts: contacts, companies: companies, emails: emails}
}

func (s *Service) ExportDeals(ctx context.Context, q deals.ListDealsQuery, w io.Writer) error {
	list, err := s.deals.List(ctx, q)
	if err != nil {
		return err
	}
	return writeCSV(w, list, dealColumns)
}

func (s *Service) ExportContacts(ctx context.Context, w io.Writer) error {
	list, err := s.contacts.List(ctx, contacts.ListQuery{})
	if err != nil {
		return err
	}
	return writeCSV(w, list, contactColumns)
}

func (s *Service) ExportCompanies(ctx context.Context, w io.Writer) error {
	list, err := s.companies.List(ctx, companies.ListQuery{})
	if err != nil {
		return err
	}
	return writeCSV(w, list, companyColumns)
}

// ImportContacts creates one contact per row. Rows whose email already exists are counted as duplicates.
func (s *Service) ImportContacts(ctx context.Context, req ContactImportRequest) (ImportResult, error) {
	res := ImportResult{}
	for i, row := range req.Data {
		n := i + 1
		fields := make(map[string]string, len(req.Mapping))
		for src, dst := range req.Mapping {
			if v, ok := row[src]; ok {
				fields[dst] = strings.TrimSpace(v)
			}
		}

		if email := fields["email"]; email != "" {
			_, err := s.emails.FindByEmail(ctx, email)
			if err == nil {
				res.Duplicates++
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return res, err
			}
		}

		in := contactRequest(fields)
		if verrs := validator.Validate(in); verrs != nil {
			res.skip(n, "invalid row", verrs)
			continue
		}
		if _, err := s.contacts.Create(ctx, in); err != nil {
			if errors.Is(err, contacts.ErrUnknownCompany) {
				res.skip(n, "unknown company", map[string]string{"company_id": "exists"})
				continue
			}
			return res, err
		}
		res.Imported++
	}
	return res, nil
}

func contactRequest(f map[string]string) contacts.ContactRequest {
	req := contacts.ContactRequest{
		Civility:        domain.Civility(f["civility"]),
		FirstName:       f["first_name"],
		LastName:        f["last_name"],
		Function:        f["function"],
		Email:           f["email"],
		PhoneFixed:      f["phone_fixed"],
		PhoneMobile:     f["phone_mobile"],
		LinkedinURL:     f["linkedin_url"],
		IsDecisionMaker: domain.DecisionMaker(f["is_decision_maker"]),
		IsSignatory:     parseYes(f["is_signatory"]),
		Notes:           f["notes"],
	}
	if id := f["company_id"]; id != "" {
		req.CompanyID = &id
	}
	return req
}

// ImportCompanies reads the company export format. Rows whose SIREN already
// exists are counted as duplicates.
func (s *Service) ImportCompanies(ctx context.Context, r io.Reader) (ImportResult, error) {
	header, rows, err := readCSV(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}
	if _, ok := index[colCompanyName]; !ok {
		return ImportResult{}, fmt.Errorf("%w: missing %q column", ErrInvalidFile, colCompanyName)
	}
	get := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	res := ImportResult{}
	for i, row := range rows {
		n := i + 1
		if isBlank(row) {
			continue
		}
		req := companies.CompanyRequest{
			Name:                get(row, colCompanyName),
			Sector:              domain.Sector(get(row, colCompanySector)),
			Size:                domain.CompanySize(get(row, colCompanySize)),
			Address:             get(row, colCompanyAddress),
			City:                get(row, colCompanyCity),
			PostalCode:          get(row, colCompanyPostalCode),
			Website:             get(row, colCompanyWebsite),
			CollectiveAgreement: get(row, colCompanyAgreement),
			Opco:                get(row, colCompanyOpco),
		}
		if siren := get(row, colCompanySiren); siren != "" {
			req.Siren = &siren
		}
		if raw := get(row, colCompanyRevenue); raw != "" {
			v, err := strconv.ParseInt(strings.ReplaceAll(raw, " ", ""), 10, 64)
			if err != nil {
				res.skip(n, "invalid row", map[string]string{"estimated_revenue": "numeric"})
				continue
			}
			req.EstimatedRevenue = &v
		}

		if verrs := validator.Validate(req); verrs != nil {
			res.skip(n, "invalid row", verrs)
			continue
		}
		if _, err := s.companies.Create(ctx, req); err != nil {
			if errors.Is(err, companies.ErrSirenDuplicate) {
				res.Duplicates++
				continue
			}
			return res, err
		}
		res.Imported++
	}
	return res, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oui", "yes", "true", "1", "x":
		return true
	}
	return false
}
