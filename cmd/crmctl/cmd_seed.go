package main

import (
	"context"
	"fmt"

	"formatech/internal/app"
	"formatech/internal/domain"
	"formatech/internal/modules/companies"
	"formatech/internal/modules/contacts"
	"formatech/internal/modules/deals"
	"formatech/internal/modules/users"

	"github.com/spf13/cobra"
)

type seedCompany struct {
	req      companies.CompanyRequest
	contacts []contacts.ContactRequest
}

var seedUsers = []users.UserRequest{
	{FirstName: "Claire", LastName: "Martin", Email: "claire.martin@formatech.fr", Role: domain.RoleManager},
	{FirstName: "Julien", LastName: "Petit", Email: "julien.petit@formatech.fr", Role: domain.RoleCommercial},
}

var seedCompanies = []seedCompany{
	{
		req: companies.CompanyRequest{
			Name: "Métallerie Dubois", Sector: domain.SectorIndustry, Size: domain.SizeSmall,
			City: "Lyon", PostalCode: "69007", Opco: "OPCO 2i", Priority: domain.PriorityHigh,
		},
		contacts: []contacts.ContactRequest{
			{Civility: domain.CivilityMrs, FirstName: "Sophie", LastName: "Dubois", Function: "DRH", Email: "s.dubois@metallerie-dubois.fr", IsDecisionMaker: domain.DecisionMakerYes},
			{Civility: domain.CivilityMr, FirstName: "Marc", LastName: "Leroy", Function: "Responsable formation", Email: "m.leroy@metallerie-dubois.fr"},
		},
	},
	{
		req: companies.CompanyRequest{
			Name: "Clinique des Alpes", Sector: domain.SectorHealth, Size: domain.SizeMedium,
			City: "Grenoble", PostalCode: "38000", Opco: "OPCO Santé",
		},
		contacts: []contacts.ContactRequest{
			{Civility: domain.CivilityMrs, FirstName: "Nadia", LastName: "Benali", Function: "Directrice des soins", Email: "n.benali@clinique-alpes.fr", IsDecisionMaker: domain.DecisionMakerYes},
		},
	},
	{
		req: companies.CompanyRequest{
			Name: "Nova Conseil", Sector: domain.SectorServices, Size: domain.SizeVerySmall,
			City: "Paris", PostalCode: "75011", Priority: domain.PriorityLow,
		},
		contacts: []contacts.ContactRequest{
			{Civility: domain.CivilityMr, FirstName: "Thomas", LastName: "Garnier", Function: "Gérant", Email: "thomas@nova-conseil.fr"},
		},
	},
}

func runSeed(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
		existing, err := a.Users.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "database already has users, skipping seed")
			return nil
		}

		n, err := seed(ctx, a)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d companies, %d deals\n", len(seedUsers), len(seedCompanies), n)
		return nil
	})
}

// seed creates one deal per company, owned in turn by each user.
func seed(ctx context.Context, a *app.App) (int, error) {
	var owners []string
	for _, req := range seedUsers {
		u, err := a.Users.Create(ctx, req)
		if err != nil {
			return 0, fmt.Errorf("user %s: %w", req.Email, err)
		}
		owners = append(owners, u.ID)
	}

	dealCount := 0
	for i, sc := range seedCompanies {
		company, err := a.Companies.Create(ctx, sc.req)
		if err != nil {
			return 0, fmt.Errorf("company %s: %w", sc.req.Name, err)
		}

		var first *domain.Contact
		for _, req := range sc.contacts {
			req.CompanyID = &company.ID
			c, err := a.Contacts.Create(ctx, req)
			if err != nil {
				return 0, fmt.Errorf("contact %s %s: %w", req.FirstName, req.LastName, err)
			}
			if first == nil {
				first = c
			}
		}

		owner := owners[i%len(owners)]
		deal, err := a.Deals.Create(ctx, deals.CreateDealRequest{
			CompanyID: company.ID,
			ContactID: first.ID,
			UserID:    owner,
			Source:    domain.SourceLinkedin,
		})
		if err != nil {
			return 0, fmt.Errorf("deal for %s: %w", company.Name, err)
		}
		dealCount++

		for step := 0; step < i; step++ {
			if _, err := a.Deals.ChangeStage(ctx, deal.ID, deals.ChangeStageRequest{Direction: "advance", UserID: &owner}); err != nil {
				return 0, fmt.Errorf("advance deal for %s: %w", company.Name, err)
			}
		}
	}
	return dealCount, nil
}
