package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maitred/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func openSeededStore(t *testing.T) *Store {
	t.Helper()
	s := openTestStore(t)
	require.NoError(t, s.Seed())
	return s
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := openTestStore(t)

	stats, err := s.Stats()
	require.NoError(t, err)
	for _, table := range []string{"menu_items", "customers", "orders", "reservations", "customer_preferences", "session_history"} {
		assert.Contains(t, stats, table)
	}
}

func TestSeed_IsIdempotent(t *testing.T) {
	s := openSeededStore(t)

	before, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(18), before["customers"])
	assert.Greater(t, before["menu_items"], int64(0))

	require.NoError(t, s.Seed())
	after, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, before["customers"], after["customers"])
	assert.Equal(t, before["menu_items"], after["menu_items"])
}

func TestSearchMenu(t *testing.T) {
	s := openSeededStore(t)

	t.Run("matches name substring", func(t *testing.T) {
		items, err := s.SearchMenu("salmon", true, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Pan-Seared Salmon", items[0].Name)
		assert.Greater(t, items[0].Price, 0.0)
	})

	t.Run("matches category", func(t *testing.T) {
		items, err := s.SearchMenu("dessert", true, 10)
		require.NoError(t, err)
		assert.NotEmpty(t, items)
		for _, item := range items {
			assert.Equal(t, "Desserts", item.Category)
		}
	})

	t.Run("no match returns empty", func(t *testing.T) {
		items, err := s.SearchMenu("sushi", true, 10)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("limit respected", func(t *testing.T) {
		items, err := s.SearchMenu("", true, 5)
		require.NoError(t, err)
		assert.Len(t, items, 5)
	})
}

func TestFindMenuItem(t *testing.T) {
	s := openSeededStore(t)

	t.Run("exact match ignores case", func(t *testing.T) {
		item, err := s.FindMenuItem("classic caesar salad")
		require.NoError(t, err)
		assert.Equal(t, "Classic Caesar Salad", item.Name)
	})

	t.Run("partial match", func(t *testing.T) {
		item, err := s.FindMenuItem("caesar salad")
		require.NoError(t, err)
		assert.Equal(t, "Classic Caesar Salad", item.Name)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := s.FindMenuItem("unicorn steak")
		assert.ErrorIs(t, err, ErrMenuItemNotFound)
	})
}

func TestLookupCustomer(t *testing.T) {
	s := openSeededStore(t)

	t.Run("exact full name", func(t *testing.T) {
		c, err := s.LookupCustomer("Grace Lopez")
		require.NoError(t, err)
		assert.Equal(t, "Grace Lopez", c.Name)
	})

	t.Run("case insensitive", func(t *testing.T) {
		c, err := s.LookupCustomer("grace lopez")
		require.NoError(t, err)
		assert.Equal(t, "Grace Lopez", c.Name)
	})

	t.Run("unique partial match", func(t *testing.T) {
		c, err := s.LookupCustomer("Rodriguez")
		require.NoError(t, err)
		assert.Equal(t, "Emma Rodriguez", c.Name)
	})

	t.Run("ambiguous partial match", func(t *testing.T) {
		// Several seeded customers share this letter sequence.
		_, err := s.LookupCustomer("Li")
		assert.ErrorIs(t, err, ErrAmbiguousCustomer)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.LookupCustomer("Nobody Here")
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := s.LookupCustomer("   ")
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestCreateOrder(t *testing.T) {
	s := openSeededStore(t)
	customer, err := s.LookupCustomer("Liam Patel")
	require.NoError(t, err)

	wings, err := s.FindMenuItem("Korean BBQ Chicken Wings")
	require.NoError(t, err)
	salad, err := s.FindMenuItem("Classic Caesar Salad")
	require.NoError(t, err)

	t.Run("computes total over lines", func(t *testing.T) {
		result, err := s.CreateOrder(customer.ID, []types.OrderLine{
			{Name: wings.Name, UnitPrice: wings.Price, Quantity: 2},
			{Name: salad.Name, UnitPrice: salad.Price, Quantity: 1},
		})
		require.NoError(t, err)
		assert.Greater(t, result.OrderID, int64(0))
		assert.Equal(t, "confirmed", result.Status)
		assert.InDelta(t, wings.Price*2+salad.Price, result.Total, 0.001)

		fetched, err := s.GetOrder(result.OrderID)
		require.NoError(t, err)
		assert.Len(t, fetched.Items, 2)
		assert.InDelta(t, result.Total, fetched.Total, 0.001)
	})

	t.Run("empty order rejected", func(t *testing.T) {
		_, err := s.CreateOrder(customer.ID, nil)
		assert.Error(t, err)
	})

	t.Run("unknown line item rolls back", func(t *testing.T) {
		before, err := s.Stats()
		require.NoError(t, err)

		_, err = s.CreateOrder(customer.ID, []types.OrderLine{
			{Name: "Unicorn Steak", UnitPrice: 99, Quantity: 1},
		})
		require.Error(t, err)

		after, err := s.Stats()
		require.NoError(t, err)
		assert.Equal(t, before["orders"], after["orders"])
	})
}

func TestCreateReservation(t *testing.T) {
	s := openSeededStore(t)
	customer, err := s.LookupCustomer("Ava Thompson")
	require.NoError(t, err)

	result, err := s.CreateReservation(customer.ID, 4, "2026-09-04", "19:00", "window seat")
	require.NoError(t, err)
	assert.Greater(t, result.ReservationID, int64(0))
	assert.Equal(t, "2026-09-04 19:00", result.DateTime)
	assert.Equal(t, "confirmed", result.Status)

	fetched, err := s.GetReservation(result.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, 4, fetched.PartySize)
	assert.Equal(t, "window seat", fetched.SpecialRequests)

	_, err = s.CreateReservation(customer.ID, 0, "2026-09-04", "19:00", "")
	assert.Error(t, err)
}

func TestPreferences_UpsertAndList(t *testing.T) {
	s := openSeededStore(t)
	customer, err := s.LookupCustomer("Noah Chen")
	require.NoError(t, err)

	require.NoError(t, s.SetPreference(customer.ID, "usual_party_size", "2"))
	require.NoError(t, s.SetPreference(customer.ID, "usual_party_size", "6"))
	require.NoError(t, s.SetPreference(customer.ID, "allergies", "peanuts"))

	v, err := s.GetPreference(customer.ID, "usual_party_size")
	require.NoError(t, err)
	assert.Equal(t, "6", v)

	all, err := s.GetAllPreferences(customer.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by key.
	assert.Equal(t, "allergies", all[0].Key)
	assert.Equal(t, "usual_party_size", all[1].Key)

	_, err = s.GetPreference(customer.ID, "missing")
	assert.ErrorIs(t, err, ErrPreferenceNotFound)
}

func TestSessionHistory(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.StoreSessionTurn("s1", 1, "hi", "general_question", "hello!"))
	require.NoError(t, s.StoreSessionTurn("s1", 2, "menu?", "menu_inquiry", "here it is"))
	// Replaying the same turn number is ignored, not an error.
	require.NoError(t, s.StoreSessionTurn("s1", 1, "hi again", "general_question", "hello again"))

	turns, err := s.GetSessionHistory("s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "hi", turns[0].UserInput)
	assert.Equal(t, "menu_inquiry", turns[1].Intent)
}
