package regional

import "calorie-tracker/domain"

func item(id, name, category string, amount float64, unit string, cal, protein, carbs, fat, fiber float64) domain.FoodRecord {
	return domain.FoodRecord{
		ID:       id,
		Name:     name,
		Category: category,
		Serving:  domain.Serving{Amount: amount, Unit: unit},
		Macros: domain.Macros{
			Calories: cal,
			Protein:  protein,
			Carbs:    carbs,
			Fat:      fat,
			Fiber:    fiber,
		},
		Provenance: domain.ProvenanceRegional,
	}
}

var indonesia = []domain.FoodRecord{
	item("id-001", "Nasi Putih", "Grains", 100, "g", 130, 2.7, 28.2, 0.3, 0.4),
	item("id-002", "Nasi Goreng", "Rice Dishes", 200, "g", 333, 8.4, 42.6, 13.8, 1.6),
	item("id-003", "Nasi Uduk", "Rice Dishes", 150, "g", 256, 4.5, 38.1, 9.2, 0.9),
	item("id-004", "Mie Goreng", "Noodles", 200, "g", 384, 9.2, 50.4, 16.1, 2.2),
	item("id-005", "Mie Ayam", "Noodles", 300, "g", 421, 19.6, 52.3, 14.5, 2.4),
	item("id-006", "Sate Ayam", "Meat", 100, "g", 225, 19.4, 6.2, 13.7, 0.5),
	item("id-007", "Rendang Sapi", "Meat", 100, "g", 193, 22.6, 3.8, 9.8, 1.1),
	item("id-008", "Ayam Goreng", "Meat", 100, "g", 260, 27.3, 3.1, 15.4, 0),
	item("id-009", "Tempe Goreng", "Soy", 50, "g", 118, 7.3, 5.1, 8.1, 1.8),
	item("id-010", "Tahu Goreng", "Soy", 50, "g", 88, 5.5, 2.1, 6.6, 0.6),
	item("id-011", "Gado-Gado", "Vegetables", 250, "g", 318, 12.9, 21.4, 20.8, 6.1),
	item("id-012", "Soto Ayam", "Soups", 300, "ml", 216, 17.8, 15.2, 9.1, 1.2),
	item("id-013", "Bakso", "Soups", 300, "ml", 302, 16.4, 28.6, 13.2, 1.4),
	item("id-014", "Pisang Goreng", "Snacks", 75, "g", 204, 1.7, 28.9, 9.6, 1.9),
	item("id-015", "Kerupuk Udang", "Snacks", 20, "g", 106, 1.2, 12.5, 5.8, 0.1),
	item("id-016", "Es Teh Manis", "Beverages", 250, "ml", 90, 0, 23.1, 0, 0),
	item("id-017", "Pepaya", "Fruits", 100, "g", 43, 0.5, 10.8, 0.3, 1.7),
}

var unitedStates = []domain.FoodRecord{
	item("us-001", "Apple", "Fruits", 1, "medium", 95, 0.5, 25.1, 0.3, 4.4),
	item("us-002", "Banana", "Fruits", 1, "medium", 105, 1.3, 27, 0.4, 3.1),
	item("us-003", "Apple Pie", "Desserts", 1, "slice", 296, 2.4, 42.5, 13.8, 2),
	item("us-004", "Pineapple", "Fruits", 1, "cup", 82, 0.9, 21.6, 0.2, 2.3),
	item("us-005", "Chicken Breast", "Meat", 100, "g", 165, 31, 0, 3.6, 0),
	item("us-006", "Hamburger", "Fast Food", 1, "sandwich", 354, 20.3, 29.3, 17.3, 1.3),
	item("us-007", "French Fries", "Fast Food", 117, "g", 365, 4, 48, 17, 4.4),
	item("us-008", "Scrambled Eggs", "Eggs", 2, "large", 182, 12.2, 2, 13.4, 0),
	item("us-009", "Oatmeal", "Grains", 1, "cup", 158, 5.9, 27.3, 3.2, 4),
	item("us-010", "Whole Wheat Bread", "Grains", 1, "slice", 81, 4, 13.8, 1.1, 1.9),
	item("us-011", "Peanut Butter", "Spreads", 2, "tbsp", 188, 8, 6.3, 16.1, 1.9),
	item("us-012", "Greek Yogurt", "Dairy", 170, "g", 100, 17.3, 6.1, 0.7, 0),
	item("us-013", "Whole Milk", "Dairy", 1, "cup", 149, 7.7, 11.7, 7.9, 0),
	item("us-014", "Caesar Salad", "Salads", 1, "bowl", 184, 4.6, 8.1, 15.1, 2.1),
	item("us-015", "Pepperoni Pizza", "Fast Food", 1, "slice", 298, 12.2, 33.9, 12.1, 2.3),
	item("us-016", "Brown Rice", "Grains", 1, "cup", 216, 5, 44.8, 1.8, 3.5),
}

var datasets = map[string][]domain.FoodRecord{
	"id": indonesia,
	"us": unitedStates,
}
