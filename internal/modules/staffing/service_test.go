package staffing

import (
	"context"
	"sync"
	"testing"

	"formatech/internal/domain"
	"formatech/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store interface {
	Repository
	Close() error
}

func backends(t *testing.T) map[string]func() store {
	return map[string]func() store{
		"memory": func() store { return repository.NewStaffingMemoryStore() },
		"badger": func() store {
			s, err := repository.OpenStaffingBadgerStore("")
			require.NoError(t, err)
			return s
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s *Service)) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open()
			t.Cleanup(func() { _ = repo.Close() })
			fn(t, NewService(repo))
		})
	}
}

func trainer(t *testing.T, s *Service, first, last string, specialties ...string) *domain.Trainer {
	t.Helper()
	tr, err := s.CreateTrainer(context.Background(), TrainerRequest{
		FirstName: first, LastName: last, Email: first + "@formateurs.fr", Specialties: specialties, Location: "Lyon",
	})
	require.NoError(t, err)
	return tr
}

func need(t *testing.T, s *Service, subject, date string) *domain.TrainingNeed {
	t.Helper()
	n, err := s.CreateNeed(context.Background(), NeedRequest{
		Subject: subject, Client: "Acme", Date: date, Duration: domain.DurationFullDay, Modality: domain.ModalityRemote,
	})
	require.NoError(t, err)
	return n
}

func ids(ts []domain.Trainer) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestAvailabilityAndAssignment(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Service) {
		ctx := context.Background()
		ana := trainer(t, s, "Ana", "Roy", "Excel")
		bob := trainer(t, s, "Bob", "Durand", "Management")
		excel := need(t, s, "Excel avancé", "2024-06-10")
		mgmt := need(t, s, "Management", "2024-06-10")
		other := need(t, s, "Excel", "2024-06-11")

		avail, err := s.AvailableTrainers(ctx, excel.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{bob.ID, ana.ID}, ids(avail))

		_, err = s.Assign(ctx, excel.ID, ana.ID)
		require.NoError(t, err)

		avail, err = s.AvailableTrainers(ctx, mgmt.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{bob.ID}, ids(avail))

		// the need being staffed does not block its own trainer
		avail, err = s.AvailableTrainers(ctx, excel.ID)
		require.NoError(t, err)
		assert.Len(t, avail, 2)

		_, err = s.Assign(ctx, mgmt.ID, ana.ID)
		assert.ErrorIs(t, err, ErrTrainerUnavailable)

		_, err = s.Assign(ctx, other.ID, ana.ID)
		require.NoError(t, err, "another day is free")

		_, err = s.Assign(ctx, excel.ID, ana.ID)
		require.NoError(t, err, "re-assigning the same need is allowed")

		n, err := s.Unassign(ctx, excel.ID)
		require.NoError(t, err)
		assert.Nil(t, n.TrainerID)
		_, err = s.Assign(ctx, mgmt.ID, ana.ID)
		assert.NoError(t, err)
	})
}

func TestAssignUnknownIDs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Service) {
		ctx := context.Background()
		ana := trainer(t, s, "Ana", "Roy")
		n := need(t, s, "Excel", "2024-06-10")

		_, err := s.Assign(ctx, "ghost", ana.ID)
		assert.ErrorIs(t, err, ErrNeedNotFound)
		_, err = s.Assign(ctx, n.ID, "ghost")
		assert.ErrorIs(t, err, ErrTrainerNotFound)
		_, err = s.AvailableTrainers(ctx, "ghost")
		assert.ErrorIs(t, err, ErrNeedNotFound)
	})
}

func TestDeleteTrainerClearsAssignments(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Service) {
		ctx := context.Background()
		ana := trainer(t, s, "Ana", "Roy")
		n1 := need(t, s, "Excel", "2024-06-10")
		n2 := need(t, s, "Word", "2024-06-12")
		_, err := s.Assign(ctx, n1.ID, ana.ID)
		require.NoError(t, err)
		_, err = s.Assign(ctx, n2.ID, ana.ID)
		require.NoError(t, err)

		require.NoError(t, s.DeleteTrainer(ctx, ana.ID))
		assert.ErrorIs(t, s.DeleteTrainer(ctx, ana.ID), ErrTrainerNotFound)

		pending, err := s.ListNeeds(ctx, NeedFilter{Status: StatusPending})
		require.NoError(t, err)
		assert.Len(t, pending, 2)
	})
}

func TestUpdateNeedKeepsAssignment(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Service) {
		ctx := context.Background()
		ana := trainer(t, s, "Ana", "Roy")
		n1 := need(t, s, "Excel", "2024-06-10")
		n2 := need(t, s, "Word", "2024-06-12")
		_, err := s.Assign(ctx, n1.ID, ana.ID)
		require.NoError(t, err)
		_, err = s.Assign(ctx, n2.ID, ana.ID)
		require.NoError(t, err)

		req := NeedRequest{Subject: "Excel", Client: "Acme", Date: "2024-06-11", Duration: domain.DurationHalfDay, Modality: domain.ModalityRemote}
		updated, err := s.UpdateNeed(ctx, n1.ID, req)
		require.NoError(t, err)
		require.NotNil(t, updated.TrainerID)
		assert.Equal(t, ana.ID, *updated.TrainerID)
		assert.Equal(t, "2024-06-11", updated.Date)

		req.Date = "2024-06-12"
		_, err = s.UpdateNeed(ctx, n1.ID, req)
		assert.ErrorIs(t, err, ErrTrainerUnavailable)
	})
}

func TestFilters(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Service) {
		ctx := context.Background()
		ana := trainer(t, s, "Ana", "Roy", "Excel", "Power BI")
		trainer(t, s, "Bob", "Durand", "Management")

		list, err := s.ListTrainers(ctx, TrainerFilter{Search: "power"})
		require.NoError(t, err)
		assert.Equal(t, []string{ana.ID}, ids(list))
		list, err = s.ListTrainers(ctx, TrainerFilter{Specialty: "Management"})
		require.NoError(t, err)
		assert.Len(t, list, 1)
		list, err = s.ListTrainers(ctx, TrainerFilter{Location: "Paris"})
		require.NoError(t, err)
		assert.Empty(t, list)

		late := need(t, s, "Word", "2024-07-01")
		early := need(t, s, "Excel", "2024-06-01")
		onsite, err := s.CreateNeed(ctx, NeedRequest{
			Subject: "Management", Client: "Beta", Date: "2024-06-15T09:00:00Z",
			Duration: domain.DurationHour, Modality: domain.ModalityOnSite, City: "Lyon",
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-06-15", onsite.Date)
		_, err = s.Assign(ctx, onsite.ID, ana.ID)
		require.NoError(t, err)

		needs, err := s.ListNeeds(ctx, NeedFilter{})
		require.NoError(t, err)
		require.Len(t, needs, 3)
		assert.Equal(t, []string{early.ID, onsite.ID, late.ID}, []string{needs[0].ID, needs[1].ID, needs[2].ID})

		needs, err = s.ListNeeds(ctx, NeedFilter{From: "2024-06-02", To: "2024-06-30"})
		require.NoError(t, err)
		require.Len(t, needs, 1)
		assert.Equal(t, onsite.ID, needs[0].ID)

		needs, err = s.ListNeeds(ctx, NeedFilter{Status: StatusAssigned})
		require.NoError(t, err)
		assert.Len(t, needs, 1)

		needs, err = s.ListNeeds(ctx, NeedFilter{Search: "lyon"})
		require.NoError(t, err)
		assert.Len(t, needs, 1)

		needs, err = s.ListNeeds(ctx, NeedFilter{Modality: "distance", Client: "Acme"})
		require.NoError(t, err)
		assert.Len(t, needs, 2)
	})
}

func TestConcurrentAssignmentsBookOnce(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *Service) {
		ctx := context.Background()
		ana := trainer(t, s, "Ana", "Roy")
		var needs []*domain.TrainingNeed
		for i := 0; i < 8; i++ {
			needs = append(needs, need(t, s, "Excel", "2024-06-10"))
		}

		var wg sync.WaitGroup
		errs := make([]error, len(needs))
		for i, n := range needs {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				_, errs[i] = s.Assign(ctx, id, ana.ID)
			}(i, n.ID)
		}
		wg.Wait()

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
			} else {
				assert.ErrorIs(t, err, ErrTrainerUnavailable)
			}
		}
		assert.Equal(t, 1, ok)
	})
}
