package repo

import "deliciousbites/internal/models"

// DefaultMenu стартовое меню ресторана
var DefaultMenu = []models.MenuItem{
	{Name: "BBQ Chicken Pizza", Price: 18.99, Category: models.HotPicksCategory, Description: "Grilled chicken, BBQ sauce, red onions, mozzarella", Rating: 4.9, Image: "🍕"},
	{Name: "Supreme Deluxe", Price: 21.99, Category: models.HotPicksCategory, Description: "Pepperoni, sausage, mushrooms, bell peppers, olives", Rating: 4.8, Image: "🍕"},
	{Name: "Beef Burger Special", Price: 14.99, Category: models.HotPicksCategory, Description: "Premium Angus beef, aged cheddar, bacon, special sauce", Rating: 4.9, Image: "🍔"},
	{Name: "Margherita Classic", Price: 12.99, Category: "Pizzas", Description: "Fresh mozzarella, tomato sauce, basil", Rating: 4.7, Image: "🍕"},
	{Name: "Pepperoni Feast", Price: 16.99, Category: "Pizzas", Description: "Double pepperoni, extra cheese", Rating: 4.8, Image: "🍕"},
	{Name: "Veggie Supreme", Price: 15.99, Category: "Pizzas", Description: "Mushrooms, bell peppers, onions, olives, tomatoes", Rating: 4.6, Image: "🍕"},
	{Name: "Chicken Crispy Burger", Price: 12.99, Category: "Burgers", Description: "Crispy fried chicken, lettuce, mayo, pickles", Rating: 4.7, Image: "🍔"},
	{Name: "Double Stack Burger", Price: 17.99, Category: "Burgers", Description: "Two beef patties, double cheese, grilled onions", Rating: 4.8, Image: "🍔"},
	{Name: "French Fries", Price: 4.99, Category: "Sides", Description: "Crispy golden fries with seasoning", Rating: 4.5, Image: "🍟"},
	{Name: "Onion Rings", Price: 5.99, Category: "Sides", Description: "Beer-battered crispy onion rings", Rating: 4.6, Image: "🧅"},
	{Name: "Mozzarella Sticks", Price: 6.99, Category: "Sides", Description: "Breaded mozzarella with marinara sauce", Rating: 4.7, Image: "🧀"},
	{Name: "Coca Cola", Price: 2.99, Category: "Beverages", Description: "Classic Coca Cola 330ml", Rating: 4.5, Image: "🥤"},
	{Name: "Fresh Lemonade", Price: 3.99, Category: "Beverages", Description: "Freshly squeezed lemonade", Rating: 4.6, Image: "🍋"},
	{Name: "Iced Coffee", Price: 4.99, Category: "Beverages", Description: "Cold brew coffee with ice", Rating: 4.7, Image: "☕"},
}
