package deals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"formatech/internal/domain"
	"formatech/internal/pipeline"
	"formatech/internal/pkg/validator"
	"formatech/internal/repository"

	"github.com/google/uuid"
)

type Service struct {
	deals      DealRepository
	activities ActivityRepository
	contacts   ContactRepository
	now        func() time.Time
}

func NewService(deals DealRepository, activities ActivityRepository, contacts ContactRepository) *Service {
	return &Service{
		deals:      deals,
		activities: activities,
		contacts:   contacts,
		now:        time.Now,
	}
}

func (s *Service) List(ctx context.Context, q ListDealsQuery) ([]domain.Deal, error) {
	f := repository.DealFilter{
		UserID:    q.UserID,
		CompanyID: q.CompanyID,
		Source:    q.Source,
		OfferType: q.OfferType,
		Search:    q.Search,
	}
	if q.Stage != "" {
		stage, err := pipeline.ParseStage(q.Stage)
		if err != nil {
			return nil, err
		}
		f.Stage = string(stage)
	}
	var err error
	if f.StartDate, err = validator.ParseOptionalDate(&q.StartDate); err != nil {
		return nil, fmt.Errorf("%w: start_date", ErrValidation)
	}
	if f.EndDate, err = validator.ParseOptionalDate(&q.EndDate); err != nil {
		return nil, fmt.Errorf("%w: end_date", ErrValidation)
	}
	if f.EndDate != nil && len(q.EndDate) == len(time.DateOnly) {
		// a bare end date includes the whole day
		end := f.EndDate.Add(24*time.Hour - time.Nanosecond)
		f.EndDate = &end
	}
	return s.deals.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*DealDetail, error) {
	d, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	acts, err := s.activities.List(ctx, repository.ActivityFilter{DealID: id})
	if err != nil {
		return nil, err
	}
	contacts, err := s.contacts.ListByCompany(ctx, d.CompanyID)
	if err != nil {
		return nil, err
	}
	if acts == nil {
		acts = []domain.Activity{}
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return &DealDetail{Deal: *d, Activities: acts, CompanyContacts: contacts}, nil
}

// Create opens a deal in the first pipeline stage and logs "Deal créé".
func (s *Service) Create(ctx context.Context, req CreateDealRequest) (*domain.Deal, error) {
	entry, err := validator.ParseOptionalDate(req.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: entry_date", ErrValidation)
	}
	closeDate, err := validator.ParseOptionalDate(req.ExpectedCloseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: expected_close_date", ErrValidation)
	}

	d := &domain.Deal{
		ID:                uuid.NewString(),
		CompanyID:         req.CompanyID,
		ContactID:         req.ContactID,
		UserID:            req.UserID,
		Stage:             domain.StageLeadIn,
		Source:            req.Source,
		SourceDetails:     req.SourceDetails,
		HowDidTheyFindUs:  req.HowDidTheyFindUs,
		ExpectedCloseDate: closeDate,
		Proposal:          domain.Proposal{ValidityDays: pipeline.DefaultValidityDays},
	}
	if entry != nil {
		d.EntryDate = *entry
	}

	userID := req.UserID
	act := &domain.Activity{UserID: &userID, Type: domain.ActivityNote, Description: "Deal créé"}
	if err := s.deals.Create(ctx, d, act); err != nil {
		return nil, mapErr(err)
	}
	return s.fetch(ctx, d.ID)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateDealRequest) (*domain.Deal, error) {
	closeDate, err := validator.ParseOptionalDate(req.ExpectedCloseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: expected_close_date", ErrValidation)
	}
	d, err := s.deals.Mutate(ctx, id, func(d *domain.Deal) (*domain.Activity, error) {
		if req.CompanyID != nil {
			d.CompanyID = *req.CompanyID
		}
		if req.ContactID != nil {
			d.ContactID = *req.ContactID
		}
		if req.UserID != nil {
			d.UserID = *req.UserID
		}
		if req.Source != nil {
			d.Source = *req.Source
		}
		if req.SourceDetails != nil {
			d.SourceDetails = *req.SourceDetails
		}
		if req.HowDidTheyFindUs != nil {
			d.HowDidTheyFindUs = *req.HowDidTheyFindUs
		}
		if closeDate != nil {
			d.ExpectedCloseDate = closeDate
		}
		return nil, nil
	})
	return d, mapErr(err)
}

func (s *Service) ChangeStage(ctx context.Context, id string, req ChangeStageRequest) (*domain.Deal, error) {
	var target domain.Stage
	if req.Stage != "" {
		st, err := pipeline.ParseStage(req.Stage)
		if err != nil {
			return nil, err
		}
		target = st
	}
	return s.mutate(ctx, id, req.UserID, func(d *domain.Deal) (pipeline.Event, error) {
		switch {
		case target != "":
			return pipeline.ChangeStage(d, target)
		case req.Direction == "retreat":
			return pipeline.Retreat(d)
		default:
			return pipeline.Advance(d)
		}
	})
}

func (s *Service) UpdateQualification(ctx context.Context, id string, req QualificationRequest) (*domain.Deal, error) {
	in := pipeline.QualificationInput{
		BudgetIdentified:        req.BudgetIdentified,
		DecisionMakerIdentified: req.DecisionMakerIdentified,
		Timing:                  req.Timing,
		RealNeedExpressed:       req.RealNeedExpressed,
		CompanySize:             req.CompanySize,
	}
	return s.mutate(ctx, id, req.UserID, func(d *domain.Deal) (pipeline.Event, error) {
		return pipeline.ApplyQualification(d, in)
	})
}

func (s *Service) UpdateDemo(ctx context.Context, id string, req DemoRequest) (*domain.Deal, error) {
	date, err := validator.ParseOptionalDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: demo_date", ErrValidation)
	}
	demo := domain.Demo{
		Date:                 date,
		Participants:         req.Participants,
		Duration:             req.Duration,
		ClientContext:        req.ClientContext,
		NeedsExpressed:       req.NeedsExpressed,
		ObjectionsRaised:     req.ObjectionsRaised,
		NextSteps:            req.NextSteps,
		DecisionMakerPresent: req.DecisionMakerPresent,
	}
	return s.mutate(ctx, id, req.UserID, func(d *domain.Deal) (pipeline.Event, error) {
		return pipeline.ApplyDemo(d, demo), nil
	})
}

func (s *Service) UpdateProposal(ctx context.Context, id string, req ProposalRequest) (*domain.Deal, error) {
	sent, err := validator.ParseOptionalDate(req.SentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: prop_sent_date", ErrValidation)
	}
	p := domain.Proposal{
		SentDate:          sent,
		OfferType:         req.OfferType,
		Amount:            req.Amount,
		ParticipantsCount: req.ParticipantsCount,
		ProposedDates:     req.ProposedDates,
		ValidityDays:      req.ValidityDays,
		PdfPath:           req.PdfPath,
	}
	return s.mutate(ctx, id, req.UserID, func(d *domain.Deal) (pipeline.Event, error) {
		return pipeline.ApplyProposal(d, p), nil
	})
}

func (s *Service) UpdateNegotiationAmount(ctx context.Context, id string, req NegotiationAmountRequest) (*domain.Deal, error) {
	if req.RevisedAmount == nil {
		return nil, fmt.Errorf("%w: nego_revised_amount", ErrValidation)
	}
	revised := *req.RevisedAmount
	return s.mutate(ctx, id, req.UserID, func(d *domain.Deal) (pipeline.Event, error) {
		return pipeline.ApplyNegotiationAmount(d, revised, req.DiscountReason), nil
	})
}

func (s *Service) AddNegotiationEntry(ctx context.Context, id string, req NegotiationEntryRequest) (*domain.Deal, error) {
	entry := domain.NegotiationEntry{
		ID:      uuid.NewString(),
		Date:    s.now().UTC(),
		Content: req.Content,
	}
	return s.mutate(ctx, id, req.UserID, func(d *domain.Deal) (pipeline.Event, error) {
		return pipeline.AddNegotiationEntry(d, entry), nil
	})
}

func (s *Service) MarkWon(ctx context.Context, id string, req WonRequest) (*domain.Deal, error) {
	sig, err := validator.ParseOptionalDate(req.SignatureDate)
	if err != nil {
		return nil, fmt.Errorf("%w: won_signature_date", ErrValidation)
	}
	w := domain.Won{
		SignatureDate:          sig,
		FinalAmount:            req.FinalAmount,
		PaymentMode:            req.PaymentMode,
		PaymentTerms:           req.PaymentTerms,
		PurchaseOrderNumber:    req.PurchaseOrderNumber,
		ConfirmedTrainingDates: req.ConfirmedTrainingDates,
	}
	return s.mutate(ctx, id, req.UserID, func(d *domain.Deal) (pipeline.Event, error) {
		return pipeline.MarkWon(d, w), nil
	})
}

func (s *Service) MarkLost(ctx context.Context, id string, req LostRequest) (*domain.Deal, error) {
	l := domain.Lost{
		Reason:             req.Reason,
		CompetitorName:     req.CompetitorName,
		OtherReason:        req.OtherReason,
		RecontactIn6Months: req.RecontactIn6Months,
		LessonsLearned:     req.LessonsLearned,
	}
	return s.mutate(ctx, id, req.UserID, func(d *domain.Deal) (pipeline.Event, error) {
		return pipeline.MarkLost(d, l), nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return mapErr(s.deals.Delete(ctx, id))
}

// mutate applies a pipeline operation and logs its event, attributed to the
// caller or, when none is given, to the deal owner.
func (s *Service) mutate(ctx context.Context, id string, userID *string, apply func(d *domain.Deal) (pipeline.Event, error)) (*domain.Deal, error) {
	d, err := s.deals.Mutate(ctx, id, func(d *domain.Deal) (*domain.Activity, error) {
		ev, err := apply(d)
		if err != nil {
			return nil, err
		}
		author := userID
		if author == nil || *author == "" {
			owner := d.UserID
			author = &owner
		}
		return &domain.Activity{
			UserID:      author,
			Type:        ev.Type,
			Description: ev.Description,
			Metadata:    ev.Metadata,
		}, nil
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return d, nil
}

func (s *Service) fetch(ctx context.Context, id string) (*domain.Deal, error) {
	d, err := s.deals.GetByID(ctx, id)
	return d, mapErr(err)
}

func mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
