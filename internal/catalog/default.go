package catalog

// Default returns the built-in menu used when no catalog file is configured.
func Default() *Catalog {
	c, err := New(
		[]Category{
			{
				Key: "pizzas",
				Items: []Item{
					{Name: "Pizza Margherita", Price: 12.0},
					{Name: "Pizza Diavola", Price: 13.5},
					{Name: "Pizza Quattro Formaggi", Price: 14.0},
				},
			},
			{
				Key: "salads",
				Items: []Item{
					{Name: "Chicken Caesar Salad", Price: 8.0},
					{Name: "Greek Salad", Price: 7.5},
					{Name: "Caprese Salad", Price: 7.0},
					{Name: "Garden Salad", Price: 6.5},
					{Name: "Tuna Salad", Price: 8.5},
				},
			},
			{
				Key: "pastas",
				Items: []Item{
					{Name: "Spaghetti Carbonara", Price: 10.0},
					{Name: "Penne Arrabbiata", Price: 9.5},
					{Name: "Lasagna Bolognese", Price: 11.0},
				},
			},
			{
				Key: "desserts",
				Items: []Item{
					{Name: "Chocolate Cake", Price: 6.0},
					{Name: "Tiramisu", Price: 6.5},
					{Name: "Panna Cotta", Price: 5.5},
				},
			},
		},
		map[string]string{
			"pizza":   "pizzas",
			"salad":   "salads",
			"pasta":   "pastas",
			"dessert": "desserts",
			"cake":    "desserts",
		},
	)
	if err != nil {
		// The built-in menu is compile-time data; failing validation is a bug.
		panic(err)
	}
	return c
}
