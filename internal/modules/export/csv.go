package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"formatech/internal/domain"
)

// bom makes spreadsheet tools detect UTF-8.
const bom = "\ufeff"

const separator = ';'

type column[T any] struct {
	header string
	value  func(T) string
}

func writeCSV[T any](w io.Writer, rows []T, cols []column[T]) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = separator

	record := make([]string, len(cols))
	for i, c := range cols {
		record[i] = c.header
	}
	if err := cw.Write(record); err != nil {
		return err
	}
	for _, row := range rows {
		for i, c := range cols {
			record[i] = c.value(row)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readCSV parses a semicolon separated file and returns its header and rows.
func readCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = separator
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, records[1:], nil
}

var dealColumns = []column[domain.Deal]{
	{"Entreprise", func(d domain.Deal) string { return d.CompanyName() }},
	{"SIREN", func(d domain.Deal) string {
		if d.Company == nil {
			return ""
		}
		return d.Company.SirenValue()
	}},
	{"Prénom Contact", func(d domain.Deal) string { return contactField(d, func(c *domain.Contact) string { return c.FirstName }) }},
	{"Nom Contact", func(d domain.Deal) string { return contactField(d, func(c *domain.Contact) string { return c.LastName }) }},
	{"Email Contact", func(d domain.Deal) string { return contactField(d, func(c *domain.Contact) string { return c.Email }) }},
	{"Étape", func(d domain.Deal) string { return string(d.Stage) }},
	{"Source", func(d domain.Deal) string { return string(d.Source) }},
	{"Offre", func(d domain.Deal) string { return string(d.Proposal.OfferType) }},
	{"Montant HT", func(d domain.Deal) string { return strconv.FormatInt(d.CurrentAmount, 10) }},
	{"Commercial (Prénom)", func(d domain.Deal) string { return userField(d, func(u *domain.User) string { return u.FirstName }) }},
	{"Commercial (Nom)", func(d domain.Deal) string { return userField(d, func(u *domain.User) string { return u.LastName }) }},
	{"Date création", func(d domain.Deal) string { return formatDateTime(d.CreatedAt) }},
	{"Closing prévu", func(d domain.Deal) string { return formatDate(d.ExpectedCloseDate) }},
	{"Score Qualification", func(d domain.Deal) string { return strconv.Itoa(d.Qualification.TotalScore) }},
	{"Montant Signé", func(d domain.Deal) string { return formatAmount(d.Won.FinalAmount) }},
	{"Date Signature", func(d domain.Deal) string { return formatDate(d.Won.SignatureDate) }},
}

var contactColumns = []column[domain.Contact]{
	{"Civilité", func(c domain.Contact) string { return string(c.Civility) }},
	{"Prénom", func(c domain.Contact) string { return c.FirstName }},
	{"Nom", func(c domain.Contact) string { return c.LastName }},
	{"Fonction", func(c domain.Contact) string { return c.Function }},
	{"Email", func(c domain.Contact) string { return c.Email }},
	{"Téléphone Fixe", func(c domain.Contact) string { return c.PhoneFixed }},
	{"Téléphone Mobile", func(c domain.Contact) string { return c.PhoneMobile }},
	{"LinkedIn", func(c domain.Contact) string { return c.LinkedinURL }},
	{"Décideur", func(c domain.Contact) string { return string(c.IsDecisionMaker) }},
	{"Signataire", func(c domain.Contact) string { return yesNo(c.IsSignatory) }},
	{"Entreprise", func(c domain.Contact) string {
		if c.Company == nil {
			return ""
		}
		return c.Company.Name
	}},
	{"SIREN Entreprise", func(c domain.Contact) string {
		if c.Company == nil {
			return ""
		}
		return c.Company.SirenValue()
	}},
	{"Notes", func(c domain.Contact) string { return c.Notes }},
}

// Company headers double as the import format.
const (
	colCompanyName       = "Raison Sociale"
	colCompanySiren      = "SIREN"
	colCompanySector     = "Secteur"
	colCompanySize       = "Taille"
	colCompanyAddress    = "Adresse"
	colCompanyCity       = "Ville"
	colCompanyPostalCode = "Code Postal"
	colCompanyWebsite    = "Site Web"
	colCompanyRevenue    = "CA Estimé"
	colCompanyAgreement  = "Convention Collective"
	colCompanyOpco       = "OPCO"
)

var companyColumns = []column[domain.Company]{
	{colCompanyName, func(c domain.Company) string { return c.Name }},
	{colCompanySiren, func(c domain.Company) string { return c.SirenValue() }},
	{colCompanySector, func(c domain.Company) string { return string(c.Sector) }},
	{colCompanySize, func(c domain.Company) string { return string(c.Size) }},
	{colCompanyAddress, func(c domain.Company) string { return c.Address }},
	{colCompanyCity, func(c domain.Company) string { return c.City }},
	{colCompanyPostalCode, func(c domain.Company) string { return c.PostalCode }},
	{colCompanyWebsite, func(c domain.Company) string { return c.Website }},
	{colCompanyRevenue, func(c domain.Company) string { return formatAmount(c.EstimatedRevenue) }},
	{colCompanyAgreement, func(c domain.Company) string { return c.CollectiveAgreement }},
	{colCompanyOpco, func(c domain.Company) string { return c.Opco }},
}

func contactField(d domain.Deal, f func(*domain.Contact) string) string {
	if d.Contact == nil {
		return ""
	}
	return f(d.Contact)
}

func userField(d domain.Deal, f func(*domain.User) string) string {
	if d.User == nil {
		return ""
	}
	return f(d.User)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateTime)
}

func formatAmount(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func yesNo(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}
