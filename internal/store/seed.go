package store

import (
	"fmt"

	"maitred/internal/logging"
)

type seedCustomer struct {
	name  string
	phone string
	email string
}

type seedMenuItem struct {
	name        string
	category    string
	price       float64
	description string
}

var seedCustomers = []seedCustomer{
	{"Ava Thompson", "555-0101", "ava.thompson@example.com"},
	{"Liam Patel", "555-0102", "liam.patel@example.com"},
	{"Emma Rodriguez", "555-0103", "emma.rodriguez@example.com"},
	{"Noah Chen", "555-0104", "noah.chen@example.com"},
	{"Mia Johnson", "555-0105", "mia.johnson@example.com"},
	{"Ethan Garcia", "555-0106", "ethan.garcia@example.com"},
	{"Harper Davis", "555-0107", "harper.davis@example.com"},
	{"Lucas Nguyen", "555-0108", "lucas.nguyen@example.com"},
	{"Isabella Martinez", "555-0109", "isabella.martinez@example.com"},
	{"Oliver Wilson", "555-0110", "oliver.wilson@example.com"},
	{"Sophia Kim", "555-0111", "sophia.kim@example.com"},
	{"James Brown", "555-0112", "james.brown@example.com"},
	{"Grace Lopez", "555-0113", "grace.lopez@example.com"},
	{"Henry Singh", "555-0114", "henry.singh@example.com"},
	{"Charlotte Hernandez", "555-0115", "charlotte.hernandez@example.com"},
	{"Amelia Gonzalez", "555-0116", "amelia.gonzalez@example.com"},
	{"Benjamin Scott", "555-0117", "benjamin.scott@example.com"},
	{"Evelyn Rivera", "555-0118", "evelyn.rivera@example.com"},
}

var seedMenu = []seedMenuItem{
	{"Korean BBQ Chicken Wings", "Appetizers", 13.99, "Crispy wings glazed in gochujang with sesame and scallion."},
	{"Classic Caesar Salad", "Salads", 12.99, "Romaine, parmesan, house croutons, anchovy dressing."},
	{"Heirloom Tomato Bruschetta", "Appetizers", 10.99, "Grilled sourdough, basil, aged balsamic."},
	{"Margherita Pizza", "Pizza", 16.99, "San Marzano tomato, fresh mozzarella, basil."},
	{"Pepperoni Pizza", "Pizza", 18.49, "Cup-and-char pepperoni, whipped ricotta."},
	{"Wild Mushroom Risotto", "Mains", 21.99, "Arborio rice, porcini, truffle oil. Vegetarian."},
	{"Pan-Seared Salmon", "Mains", 26.99, "Atlantic salmon, lemon beurre blanc, seasonal vegetables."},
	{"Grass-Fed Ribeye", "Mains", 38.99, "12oz ribeye, herb butter, hand-cut fries."},
	{"Vegan Buddha Bowl", "Mains", 17.99, "Quinoa, roasted chickpeas, tahini. Vegan, gluten-free."},
	{"Spaghetti Carbonara", "Pasta", 19.99, "Guanciale, pecorino, cracked pepper."},
	{"Penne Arrabbiata", "Pasta", 16.49, "Spicy tomato sugo, garlic, chili. Vegan."},
	{"New York Cheesecake", "Desserts", 9.99, "Graham crust, berry compote."},
	{"Chocolate Lava Cake", "Desserts", 10.99, "Molten center, vanilla bean gelato."},
	{"Tiramisu", "Desserts", 9.49, "Espresso-soaked ladyfingers, mascarpone."},
	{"Seasonal Sorbet", "Desserts", 7.99, "Ask about today's flavors. Vegan, gluten-free."},
	{"Fresh Lemonade", "Beverages", 4.99, "Squeezed to order with mint."},
	{"Iced Matcha Latte", "Beverages", 5.99, "Ceremonial matcha, oat milk."},
	{"House Red Blend", "Beverages", 11.00, "Glass. Cabernet-merlot blend."},
}

// Seed populates an empty database with demo customers and a representative
// menu. Re-running on a populated database is a no-op.
func (s *Store) Seed() error {
	timer := logging.StartTimer(logging.CategoryStore, "Seed")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		return fmt.Errorf("seed precheck failed: %w", err)
	}
	if count > 0 {
		logging.Store("Seed skipped: %d customers already present", count)
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range seedCustomers {
		if _, err := tx.Exec("INSERT INTO customers (name, phone, email) VALUES (?, ?, ?)", c.name, c.phone, c.email); err != nil {
			return fmt.Errorf("failed to seed customer %q: %w", c.name, err)
		}
	}
	for _, m := range seedMenu {
		if _, err := tx.Exec(
			"INSERT INTO menu_items (name, category, price, description, is_available) VALUES (?, ?, ?, ?, 1)",
			m.name, m.category, m.price, m.description,
		); err != nil {
			return fmt.Errorf("failed to seed menu item %q: %w", m.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	logging.Store("Seeded %d customers and %d menu items", len(seedCustomers), len(seedMenu))
	return nil
}
