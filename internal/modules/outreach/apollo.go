package outreach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	apolloSearchPath = "/v1/mixed_people/search"
	apolloPageSize   = 25
	apolloTimeout    = 30 * time.Second
)

// searchTitles targets training and HR people.
var searchTitles = []string{
	"formation",
	"learning",
	"development",
	"L&D",
	"RH",
	"HR",
	"ressources humaines",
	"talent",
	"training",
	"DRH",
	"directeur formation",
	"responsable formation",
}

type Person struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Title       string
	LinkedinURL string
}

type SearchResult struct {
	People     []Person
	TotalFound int
}

type PeopleSearcher interface {
	Search(ctx context.Context, companyName string) (SearchResult, error)
}

// ProviderError is a non-2xx answer from an outreach provider.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}

type ApolloClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewApolloClient(baseURL, apiKey string) *ApolloClient {
	return &ApolloClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: apolloTimeout},
	}
}

type apolloSearchRequest struct {
	OrganizationName string   `json:"q_organization_name"`
	PersonTitles     []string `json:"person_titles"`
	Page             int      `json:"page"`
	PerPage          int      `json:"per_page"`
}

type apolloSearchResponse struct {
	People []struct {
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		Email        string `json:"email"`
		Title        string `json:"title"`
		LinkedinURL  string `json:"linkedin_url"`
		PhoneNumbers []struct {
			RawNumber string `json:"raw_number"`
		} `json:"phone_numbers"`
	} `json:"people"`
	Pagination struct {
		TotalEntries int `json:"total_entries"`
	} `json:"pagination"`
}

func (c *ApolloClient) Search(ctx context.Context, companyName string) (SearchResult, error) {
	payload, err := json.Marshal(apolloSearchRequest{
		OrganizationName: companyName,
		PersonTitles:     searchTitles,
		Page:             1,
		PerPage:          apolloPageSize,
	})
	if err != nil {
		return SearchResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apolloSearchPath, bytes.NewReader(payload))
	if err != nil {
		return SearchResult{}, fmt.Errorf("build apollo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("apollo search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return SearchResult{}, &ProviderError{Provider: "apollo", Status: resp.StatusCode, Body: string(body)}
	}

	var out apolloSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SearchResult{}, fmt.Errorf("decode apollo response: %w", err)
	}

	res := SearchResult{TotalFound: out.Pagination.TotalEntries, People: make([]Person, 0, len(out.People))}
	for _, p := range out.People {
		person := Person{
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			Email:       p.Email,
			Title:       p.Title,
			LinkedinURL: p.LinkedinURL,
		}
		if len(p.PhoneNumbers) > 0 {
			person.Phone = p.PhoneNumbers[0].RawNumber
		}
		res.People = append(res.People, person)
	}
	return res, nil
}
